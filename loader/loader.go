// Package loader opens an instruction-list file and parses it into a
// program ready for the scheduler.
package loader

import (
	"fmt"
	"os"

	"github.com/andre-brandao/sim-tomasulo/insts"
)

// Load reads the file at path and parses it into a program in original
// order. Parse failures are wrapped with the offending path for context.
func Load(path string) ([]*insts.Instruction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open instruction file: %w", err)
	}
	defer func() { _ = f.Close() }()

	program, err := insts.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return program, nil
}
