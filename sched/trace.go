package sched

import (
	"fmt"
	"io"

	"github.com/andre-brandao/sim-tomasulo/insts"
)

// TraceWriter formats the scheduler's per-cycle state to an io.Writer, the
// way the reference timing CLI formats its end-of-run report (§4.5).
type TraceWriter struct {
	w io.Writer
}

// NewTraceWriter wraps w for per-cycle trace emission.
func NewTraceWriter(w io.Writer) *TraceWriter {
	return &TraceWriter{w: w}
}

func (t *TraceWriter) emitCycle(cycle int, program []*insts.Instruction, regs *RegisterFile) {
	fmt.Fprintf(t.w, "\n------------\nCycle %d\n", cycle)

	t.emitGroup("Issued:", program, func(i *insts.Instruction) bool { return i.Issued })
	t.emitGroup("Executing:", program, func(i *insts.Instruction) bool { return i.Executing })
	t.emitGroup("Completed:", program, func(i *insts.Instruction) bool { return i.Completed })

	fmt.Fprintf(t.w, "\nRegister status:\n")
	fmt.Fprintf(t.w, "%-8s%-8s%-10s%-10s%s\n", "Name", "Value", "Read", "Write", "Holder")
	fmt.Fprintf(t.w, "----------------------------------------------\n")

	for _, r := range regs.All() {
		readStatus := "free"
		if r.ReadBusy {
			readStatus = "busy"
		}
		writeStatus := "free"
		if r.WriteBusy {
			writeStatus = "busy"
		}

		holder := "none"
		if r.Owner != nil {
			holder = r.Owner.String()
		}

		fmt.Fprintf(t.w, "%-8s%-8d%-10s%-10s%s\n", r.Name, r.Value, readStatus, writeStatus, holder)
	}
}

func (t *TraceWriter) emitGroup(label string, program []*insts.Instruction, match func(*insts.Instruction) bool) {
	fmt.Fprintf(t.w, "\n%s", label)
	any := false
	for _, inst := range program {
		if match(inst) {
			fmt.Fprintf(t.w, "\n  %s", inst.String())
			any = true
		}
	}
	if !any {
		fmt.Fprintf(t.w, " (none)")
	}
	fmt.Fprintln(t.w)
}

func (t *TraceWriter) emitDone() {
	fmt.Fprintf(t.w, "\nExecution complete\n")
}
