package sched

import (
	"fmt"

	"github.com/andre-brandao/sim-tomasulo/insts"
)

// Register is one architectural or rename-pool register: a value plus the
// read/write busy bits and producing-instruction back-pointer that make up
// the scoreboard entry for that name.
type Register struct {
	Name string

	Value int64

	ReadBusy  bool
	WriteBusy bool

	// Owner is a weak back-pointer to the instruction currently holding a
	// busy bit on this register. It never implies ownership and must be
	// nil whenever both busy bits are clear.
	Owner *insts.Instruction
}

// Busy reports whether either busy bit is set.
func (r *Register) Busy() bool {
	return r.ReadBusy || r.WriteBusy
}

// RegisterFile is the scheduler's full register file: a lower half of
// architectural registers (F0..F{n-1}) and an upper half of rename-pool
// registers (R0..R{n-1}) of the same size, looked up by name through a map
// built once at construction (Design Notes: name-to-index lookup instead
// of a linear scan on every access).
type RegisterFile struct {
	regs       []*Register
	byName     map[string]int
	renameBase int
}

// NewRegisterFile builds a register file with archCount architectural
// registers and an equally sized rename pool, every entry initialized to
// init.
func NewRegisterFile(archCount int, init int64) *RegisterFile {
	rf := &RegisterFile{
		regs:       make([]*Register, 0, archCount*2),
		byName:     make(map[string]int, archCount*2),
		renameBase: archCount,
	}

	for i := 0; i < archCount; i++ {
		rf.add(fmt.Sprintf("F%d", i), init)
	}
	for i := 0; i < archCount; i++ {
		rf.add(fmt.Sprintf("R%d", i), init)
	}

	return rf
}

func (rf *RegisterFile) add(name string, init int64) {
	rf.byName[name] = len(rf.regs)
	rf.regs = append(rf.regs, &Register{Name: name, Value: init})
}

// Lookup returns the register with the given name, or (nil, false) if no
// such register exists (an ill-formed instruction file referencing a
// register name outside F0..F{n-1}/R0..R{n-1}).
func (rf *RegisterFile) Lookup(name string) (*Register, bool) {
	idx, ok := rf.byName[name]
	if !ok {
		return nil, false
	}
	return rf.regs[idx], true
}

// FreeRenameSlot scans the rename-pool half from its first slot upward for
// the first entry with both busy bits clear. It returns (nil, false) if
// the pool is exhausted.
func (rf *RegisterFile) FreeRenameSlot() (*Register, bool) {
	for i := rf.renameBase; i < len(rf.regs); i++ {
		if !rf.regs[i].Busy() {
			return rf.regs[i], true
		}
	}
	return nil, false
}

// All returns every register in file order (architectural half first, then
// the rename pool), for trace emission and tests.
func (rf *RegisterFile) All() []*Register {
	out := make([]*Register, len(rf.regs))
	copy(out, rf.regs)
	return out
}
