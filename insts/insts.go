// Package insts defines the scalar instruction set scheduled by package
// sched and the textual encoding that program files use.
//
// The set is deliberately small: an add/subtract pair, a multiply/divide
// pair, and a load/store pair. There are no branches, so a program is always a
// straight-line list of Instruction values issued in program order.
package insts

import "fmt"

// Op identifies an opcode.
type Op uint8

// Recognized opcodes.
const (
	OpUnknown Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpLw
	OpSw
)

// String renders the opcode using its canonical instruction-file mnemonic.
func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpLw:
		return "lw"
	case OpSw:
		return "sw"
	default:
		return "unknown"
	}
}

// ParseOp maps an instruction-file mnemonic to its Op, or OpUnknown if the
// mnemonic is not recognized.
func ParseOp(s string) Op {
	switch s {
	case "add":
		return OpAdd
	case "sub":
		return OpSub
	case "mul":
		return OpMul
	case "div":
		return OpDiv
	case "lw":
		return OpLw
	case "sw":
		return OpSw
	default:
		return OpUnknown
	}
}

// Category groups opcodes by the functional-unit pool that services them.
type Category uint8

// Functional-unit categories.
const (
	CategoryUnknown Category = iota
	CategoryAdd
	CategoryMul
	CategorySW
)

// CategoryOf returns the functional-unit pool an opcode is dispatched to.
// add/sub go to the add pool, mul/div to the mul pool, and lw/sw to the
// load/store pool. Unrecognized opcodes map to CategoryUnknown and never
// acquire a unit.
func CategoryOf(op Op) Category {
	switch op {
	case OpAdd, OpSub:
		return CategoryAdd
	case OpMul, OpDiv:
		return CategoryMul
	case OpLw, OpSw:
		return CategorySW
	default:
		return CategoryUnknown
	}
}

// IsMemory reports whether op addresses memory (lw/sw) rather than the
// ALU (add/sub/mul/div).
func IsMemory(op Op) bool {
	return op == OpLw || op == OpSw
}

// Apply computes the ALU result for add/sub/mul/div. It is undefined for
// lw/sw and for OpUnknown; callers only reach here for ALU ops.
func Apply(op Op, src1, src2 int64) int64 {
	switch op {
	case OpAdd:
		return src1 + src2
	case OpSub:
		return src1 - src2
	case OpMul:
		return src1 * src2
	case OpDiv:
		return src1 / src2
	default:
		return 0
	}
}

// Instruction is one decoded program line, with the mutable pipeline flags
// the scheduler advances through issue, execute, and write-back.
//
// Dest, Src1, and Src2 are register names for ALU ops. For lw/sw, Src1
// holds the decimal literal token verbatim (the memory offset) and Src2 is
// the register added to it to form the address; Dest is the register
// loaded into (lw) or stored from (sw). Names are rewritten in place by
// the scheduler's renaming logic (see package sched), so Dest/Src1/Src2
// do not necessarily match the names the instruction file spelled out.
type Instruction struct {
	Op   Op
	Dest string
	Src1 string
	Src2 string

	// Remaining is the number of execute-stage cycles left once the
	// instruction starts executing. It is set to the unit's latency at
	// issue and decremented once per cycle in the execute stage.
	Remaining int

	Issued    bool
	Executing bool
	Completed bool
}

// String renders the instruction the way the trace sink prints it:
// "op dest src1 src2".
func (i *Instruction) String() string {
	return fmt.Sprintf("%s %s %s %s", i.Op, i.Dest, i.Src1, i.Src2)
}
