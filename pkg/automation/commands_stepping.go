package automation

import (
	"fmt"
	"strconv"
)

// registerSteppingCommands wires `step, stepin, stepover, steps <n>` onto
// pkg/stepping.Stepper.RunNInstructions, the single operation spec.md
// §4.9's Open Question resolution collapses the teacher's HandleStep/
// HandleStepIn/HandleSteps trio into.
func (d *Dispatcher) registerSteppingCommands() {
	runN := func(session *Session, n int) string {
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		t := inst.Stepper.RunNInstructions(n)
		return fmt.Sprintf("stepped %d instruction(s), +%d T-states, pc=$%04X", n, t, inst.Core.S.PC)
	}

	d.register("step", func(session *Session, args []string) string { return runN(session, 1) })
	d.register("stepin", func(session *Session, args []string) string { return runN(session, 1) })
	d.register("stepover", func(session *Session, args []string) string {
		// step-over is a plain single step here: this module's stepping
		// contract (spec.md §4.9) only names whole-instruction counts, no
		// PC-delta call-skip heuristic survives the distillation.
		return runN(session, 1)
	})
	d.register("steps", func(session *Session, args []string) string {
		if len(args) == 0 {
			return errorf("usage: steps <n> (1-1000)")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > 1000 {
			return errorf("invalid step count %q (must be 1-1000)", args[0])
		}
		return runN(session, n)
	})
}
