// Package sched implements the Tomasulo-style dynamic scheduler: the
// three-stage issue/execute/write-back pipeline, the register scoreboard,
// the WAR/WAW rename policy, and the functional-unit pools. This is the
// core the rest of the module exists to serve.
package sched

import (
	"fmt"
	"strconv"

	"github.com/andre-brandao/sim-tomasulo/config"
	"github.com/andre-brandao/sim-tomasulo/insts"
	"github.com/andre-brandao/sim-tomasulo/memory"
)

// maxCycles bounds Run against the deadlock case the spec calls
// ill-formed (§4.4): a rename-exhaustion loop combined with a true
// dependency on a register nothing ever writes. Any well-formed program
// within the scheduler's configured capacity finishes long before this.
const maxCycles = 1_000_000

// Scheduler drives the clock and owns every instruction, functional unit,
// and register for the run's lifetime.
type Scheduler struct {
	program []*insts.Instruction

	addPool *pool
	mulPool *pool
	swPool  *pool

	regs   *RegisterFile
	rename *renameTable
	mem    *memory.Memory

	trace *TraceWriter

	cycle int

	instructionsCompleted int
}

// New builds a Scheduler for program using cfg's pool sizes, latencies,
// register count, and memory configuration. trace may be nil to discard
// per-cycle output.
func New(program []*insts.Instruction, cfg *config.Config, trace *TraceWriter) *Scheduler {
	return &Scheduler{
		program: program,
		addPool: newPool(cfg.AddUnits, cfg.AddLatency),
		mulPool: newPool(cfg.MulUnits, cfg.MulLatency),
		swPool:  newPool(cfg.SWUnits, cfg.SWLatency),
		regs:    NewRegisterFile(cfg.RegisterCount, 1),
		rename:  newRenameTable(),
		mem:     memory.New(cfg.MemorySize, cfg.MemoryInit),
		trace:   trace,
		cycle:   1,
	}
}

// Registers returns the register file, for tests and front ends that
// inspect final state.
func (s *Scheduler) Registers() *RegisterFile {
	return s.regs
}

// Program returns the instruction list, in original program order, for
// tests and front ends that inspect final completion state.
func (s *Scheduler) Program() []*insts.Instruction {
	return s.program
}

// Memory returns the scratch memory array.
func (s *Scheduler) Memory() *memory.Memory {
	return s.mem
}

// Cycle returns the current one-based cycle number.
func (s *Scheduler) Cycle() int {
	return s.cycle
}

// Run advances the scheduler cycle by cycle — issue, execute, write-back,
// trace — until every instruction is completed. A zero-instruction program
// completes in a single cycle with no state change.
func (s *Scheduler) Run() error {
	for !s.complete() {
		if s.cycle > maxCycles {
			return fmt.Errorf("scheduler exceeded %d cycles without completing: "+
				"likely an unknown opcode or an unresolvable rename-pool exhaustion", maxCycles)
		}

		s.issue()
		s.execute()
		s.writeback()
		s.emitTrace()

		s.cycle++
	}

	if s.trace != nil {
		s.trace.emitDone()
	}

	return nil
}

func (s *Scheduler) complete() bool {
	return s.instructionsCompleted == len(s.program)
}

// issue scans a bounded prefix of the program — one instruction's worth
// of window growth per cycle — and tries to issue each instruction that
// isn't already executing or completed (§4.1).
func (s *Scheduler) issue() {
	limit := s.cycle
	if limit > len(s.program) {
		limit = len(s.program)
	}

	for i := 0; i < limit; i++ {
		inst := s.program[i]

		// The first cycle an instruction enters the issue window, it is
		// only marked issued; unit assignment happens starting the next
		// cycle. This mirrors the reference scheduler's observable
		// cadence (spec §4.1 step 1, Design Notes Open Question 1) rather
		// than treating "not yet issued" as eligible for immediate
		// dispatch.
		if inst.Executing || inst.Completed || !inst.Issued {
			inst.Issued = true
			continue
		}

		var units *pool
		switch insts.CategoryOf(inst.Op) {
		case insts.CategoryAdd:
			units = s.addPool
		case insts.CategoryMul:
			units = s.mulPool
		case insts.CategorySW:
			units = s.swPool
		default:
			continue // unknown opcode: silent no-op, never gets a unit
		}

		unit := units.findFree()
		if unit == nil {
			continue
		}

		s.tryIssue(inst, i, unit)
	}
}

// tryIssue resolves operands, rewrites the destination through the rename
// table on a false dependency, and commits the issue if neither source is
// write-busy (§4.1 steps 3-5).
func (s *Scheduler) tryIssue(inst *insts.Instruction, index int, unit *functionalUnit) {
	destReg, ok := s.regs.Lookup(inst.Dest)
	if !ok {
		return
	}

	if destReg.Busy() {
		if !s.rename.tryRename(s.regs, s.program, inst.Dest, index) {
			return // rename pool exhausted: stall, retry next cycle
		}
	}

	// Re-resolve every operand from the instruction's current fields: the
	// rename above may have rewritten Dest, Src1, and/or Src2 in place,
	// so the commit must target whatever name each field carries now.
	destReg, ok = s.regs.Lookup(inst.Dest)
	if !ok {
		return
	}

	src1, ok := s.resolveSrc1(inst)
	if !ok {
		return
	}

	src2Reg, ok := s.regs.Lookup(inst.Src2)
	if !ok {
		return
	}

	if src1.writeBusy() || src2Reg.WriteBusy {
		return // true dependency (RAW): stall, retry next cycle
	}

	inst.Executing = true
	inst.Remaining = unit.latency

	unit.busy = true
	unit.current = inst

	destReg.WriteBusy = true
	destReg.Owner = inst

	src1.markRead(inst)

	src2Reg.ReadBusy = true
	src2Reg.Owner = inst
}

// resolveSrc1 returns the source-1 operand: an immediate literal for
// lw/sw, or a register lookup otherwise.
func (s *Scheduler) resolveSrc1(inst *insts.Instruction) (operand, bool) {
	if insts.IsMemory(inst.Op) {
		lit, err := strconv.ParseInt(inst.Src1, 10, 64)
		if err != nil {
			return operand{}, false
		}
		return immediateOperand(lit), true
	}

	reg, ok := s.regs.Lookup(inst.Src1)
	if !ok {
		return operand{}, false
	}
	return registerOperand(reg), true
}

// pools returns the three functional-unit pools in the fixed order that
// execute and write-back both iterate: add, mul, sw (§4.2, §4.3).
func (s *Scheduler) pools() []*pool {
	return []*pool{s.addPool, s.mulPool, s.swPool}
}

// execute decrements the remaining-cycles counter of every busy unit
// whose instruction is executing; at zero, the instruction's Executing
// flag falls and it becomes eligible for write-back later in the same
// cycle (§4.2).
func (s *Scheduler) execute() {
	for _, p := range s.pools() {
		for _, unit := range p.units {
			if !unit.busy {
				continue
			}
			inst := unit.current
			if !inst.Executing {
				continue
			}

			inst.Remaining--
			if inst.Remaining == 0 {
				inst.Executing = false
			}
		}
	}
}

// writeback commits the result of every unit whose instruction just
// finished executing, releases the unit, and reverses any rename that
// shadowed the destination (§4.3).
func (s *Scheduler) writeback() {
	for _, p := range s.pools() {
		for _, unit := range p.units {
			if !unit.busy {
				continue
			}

			inst := unit.current
			if inst.Executing || inst.Completed {
				continue
			}

			inst.Completed = true
			s.instructionsCompleted++

			unit.busy = false
			unit.current = nil

			s.commit(inst)
		}
	}
}

// commit performs the actual write-back semantics for one instruction:
// the memory path for lw/sw, the ALU path otherwise, then clears every
// busy bit the instruction was holding and reverses its rename (if any).
func (s *Scheduler) commit(inst *insts.Instruction) {
	destReg, ok := s.regs.Lookup(inst.Dest)
	if !ok {
		return
	}

	src2Reg, ok := s.regs.Lookup(inst.Src2)
	if !ok {
		return
	}

	if insts.IsMemory(inst.Op) {
		literal, err := strconv.ParseInt(inst.Src1, 10, 64)
		if err != nil {
			return
		}
		offset := literal + src2Reg.Value

		switch inst.Op {
		case insts.OpSw:
			s.mem.Write(offset, destReg.Value)
		case insts.OpLw:
			destReg.Value = s.mem.Read(offset)
		}
	} else {
		src1Reg, ok := s.regs.Lookup(inst.Src1)
		if !ok {
			return
		}
		destReg.Value = insts.Apply(inst.Op, src1Reg.Value, src2Reg.Value)

		src1Reg.ReadBusy = false
		src1Reg.Owner = nil
	}

	destReg.WriteBusy = false
	destReg.Owner = nil

	if s.rename.has(destReg.Name) {
		s.rename.reverse(s.program, destReg.Name)
	}

	src2Reg.ReadBusy = false
	src2Reg.Owner = nil
}

func (s *Scheduler) emitTrace() {
	if s.trace == nil {
		return
	}
	s.trace.emitCycle(s.cycle, s.program, s.regs)
}
