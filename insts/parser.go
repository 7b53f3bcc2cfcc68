package insts

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseError names the line number and the text of the line that failed to
// parse.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads one instruction per line from r. Each line must hold exactly
// four whitespace-separated tokens: "op dest src1 src2". The format has no
// concept of blank lines or comments, so a blank or short line is a parse
// error rather than being silently skipped.
//
// Unknown opcodes are accepted here — §4.1 says an unknown opcode is a
// silent no-op at issue time, not a load-time rejection.
func Parse(r io.Reader) ([]*Instruction, error) {
	var program []*Instruction

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, &ParseError{
				Line: lineNo,
				Text: line,
				Err:  fmt.Errorf("expected 4 fields, got %d", len(fields)),
			}
		}

		program = append(program, &Instruction{
			Op:   ParseOp(fields[0]),
			Dest: fields[1],
			Src1: fields[2],
			Src2: fields[3],
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading instruction file: %w", err)
	}

	return program, nil
}
