package sched

import "github.com/andre-brandao/sim-tomasulo/insts"

// operand is a source-1 value for the issue and write-back stages: either
// a register or an immediate literal (the memory offset for lw/sw).
//
// This replaces the original design's pattern of allocating a transient
// register object to carry an address literal (Design Notes): an
// immediate never has a busy bit and is never an issue-stage dependency,
// so it needs no register identity at all.
type operand struct {
	reg   *Register
	imm   int64
	isImm bool
}

func registerOperand(r *Register) operand {
	return operand{reg: r}
}

func immediateOperand(v int64) operand {
	return operand{imm: v, isImm: true}
}

// writeBusy reports whether this operand can block a true-dependency
// check. An immediate is never busy.
func (o operand) writeBusy() bool {
	if o.isImm {
		return false
	}
	return o.reg.WriteBusy
}

// markRead sets the read-busy bit and back-pointer, a no-op for an
// immediate.
func (o operand) markRead(owner *insts.Instruction) {
	if o.isImm {
		return
	}
	o.reg.ReadBusy = true
	o.reg.Owner = owner
}
