package sched

import "github.com/andre-brandao/sim-tomasulo/insts"

// renameTable maps a rename-pool register name to the original
// architectural register name it currently shadows. An entry is removed
// once the shadowing instruction's write-back reverses it (§4.3 step 6).
type renameTable struct {
	original map[string]string
}

func newRenameTable() *renameTable {
	return &renameTable{original: make(map[string]string)}
}

// tryRename resolves a false dependency (WAR/WAW) on destName by finding a
// free rename-pool slot and rewriting every occurrence of destName at
// instruction index and later — in the destination, source-1, and
// source-2 positions — to the slot's name. Instructions already executing
// keep the names they issued with, so their write-back releases the same
// registers their issue marked busy.
//
// If destName is already a rename-pool name standing in for some original
// architectural register, the new entry chains to that original name so
// the eventual reverse rename resolves all the way back (§4.1 step 4).
//
// Returns false if the rename pool is exhausted; nothing is rewritten and
// the caller leaves the instruction pending for this cycle.
func (rt *renameTable) tryRename(regs *RegisterFile, program []*insts.Instruction, destName string, index int) bool {
	slot, ok := regs.FreeRenameSlot()
	if !ok {
		return false
	}

	if original, chained := rt.original[destName]; chained {
		rt.original[slot.Name] = original
	} else {
		rt.original[slot.Name] = destName
	}

	for i := index; i < len(program); i++ {
		inst := program[i]
		if inst.Executing {
			continue
		}
		if inst.Dest == destName {
			inst.Dest = slot.Name
		}
		if inst.Src1 == destName {
			inst.Src1 = slot.Name
		}
		if inst.Src2 == destName {
			inst.Src2 = slot.Name
		}
	}

	return true
}

// reverse undoes the rename for a rename-pool register whose shadowing
// instruction just completed write-back: every occurrence of name, across
// the entire instruction list (including already-completed instructions),
// is rewritten back to the original architectural name, and the mapping
// entry is erased.
func (rt *renameTable) reverse(program []*insts.Instruction, name string) {
	original, ok := rt.original[name]
	if !ok {
		return
	}

	for _, inst := range program {
		if inst.Dest == name {
			inst.Dest = original
		}
		if inst.Src1 == name {
			inst.Src1 = original
		}
		if inst.Src2 == name {
			inst.Src2 = original
		}
	}

	delete(rt.original, name)
}

// has reports whether name is currently a live rename-pool entry.
func (rt *renameTable) has(name string) bool {
	_, ok := rt.original[name]
	return ok
}
