package sched

import "github.com/andre-brandao/sim-tomasulo/insts"

// functionalUnit is one execution slot: a fixed latency, a busy flag, and
// a weak back-pointer to the instruction it currently holds. Units are
// never pipelined — a unit holds one instruction for the unit's full
// latency before it can accept another.
type functionalUnit struct {
	latency int
	busy    bool
	current *insts.Instruction
}

// pool is a homogeneous group of functional units sharing a latency.
type pool struct {
	units []*functionalUnit
}

func newPool(count, latency int) *pool {
	units := make([]*functionalUnit, count)
	for i := range units {
		units[i] = &functionalUnit{latency: latency}
	}
	return &pool{units: units}
}

// findFree returns the first free unit in index order, or nil if every
// unit in the pool is busy.
func (p *pool) findFree() *functionalUnit {
	for _, u := range p.units {
		if !u.busy {
			return u
		}
	}
	return nil
}
