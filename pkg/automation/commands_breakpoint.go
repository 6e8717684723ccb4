package automation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alfishe/unrealcore/pkg/breakpoint"
	"github.com/alfishe/unrealcore/pkg/report"
)

// registerBreakpointCommands wires `bp, wp, bport, bplist, bpclear,
// bpgroup, bpon, bpoff` — spec.md §6's "Breakpoints" group. Grounded on
// original_source/core/automation/cli/src/commands/cli-processor-breakpoint.cpp's
// HandleBreakpoint/HandleWatchpoint/HandlePortBreakpoint/HandleBPList/
// HandleBPClear/HandleBPGroup command shapes.
func (d *Dispatcher) registerBreakpointCommands() {
	d.register("bp", func(session *Session, args []string) string {
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		if len(args) == 0 {
			return errorf("usage: bp <address> [note]")
		}
		addr, err := ParseAddress(args[0], 0xFFFF)
		if err != nil {
			return errorf("%v", err)
		}
		id := inst.Breakpoints.AddExecutionBreakpoint(addr)
		return fmt.Sprintf("set execution breakpoint #%d at $%04X%s", id, addr, noteSuffix(args[1:]))
	})

	d.register("wp", func(session *Session, args []string) string {
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		if len(args) < 2 {
			return errorf("usage: wp <address> <r|w|rw> [note]")
		}
		addr, err := ParseAddress(args[0], 0xFFFF)
		if err != nil {
			return errorf("%v", err)
		}
		var id uint16
		switch strings.ToLower(args[1]) {
		case "r":
			id = inst.Breakpoints.AddMemReadBreakpoint(addr)
		case "w":
			id = inst.Breakpoints.AddMemWriteBreakpoint(addr)
		case "rw":
			id = inst.Breakpoints.AddCombinedMemoryBreakpoint(addr, breakpoint.KindRead|breakpoint.KindWrite)
		default:
			return errorf("unknown watch kind %q (use r, w, or rw)", args[1])
		}
		return fmt.Sprintf("set watchpoint #%d at $%04X (%s)%s", id, addr, args[1], noteSuffix(args[2:]))
	})

	d.register("bport", func(session *Session, args []string) string {
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		if len(args) < 2 {
			return errorf("usage: bport <port> <i|o|io> [note]")
		}
		port, err := ParseAddress(args[0], 0xFFFF)
		if err != nil {
			return errorf("%v", err)
		}
		var id uint16
		switch strings.ToLower(args[1]) {
		case "i":
			id = inst.Breakpoints.AddPortInBreakpoint(port)
		case "o":
			id = inst.Breakpoints.AddPortOutBreakpoint(port)
		case "io":
			id = inst.Breakpoints.AddCombinedPortBreakpoint(port, breakpoint.KindIn|breakpoint.KindOut)
		default:
			return errorf("unknown port kind %q (use i, o, or io)", args[1])
		}
		return fmt.Sprintf("set port breakpoint #%d at port $%04X (%s)%s", id, port, args[1], noteSuffix(args[2:]))
	})

	d.register("bplist", func(session *Session, args []string) string {
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		group := ""
		if len(args) > 0 {
			group = args[0]
		}
		out := report.Breakpoints(inst.Breakpoints, group)
		if out == "" {
			return "(no breakpoints)"
		}
		return out
	})

	d.register("bpclear", func(session *Session, args []string) string {
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		if len(args) == 0 {
			return errorf("usage: bpclear all|<id>|addr <a>|port <p>|group <g>")
		}
		switch strings.ToLower(args[0]) {
		case "all":
			n := 0
			for _, bp := range inst.Breakpoints.All() {
				if inst.Breakpoints.RemoveBreakpointByID(bp.ID) {
					n++
				}
			}
			return fmt.Sprintf("cleared %d breakpoint(s)", n)
		case "addr":
			if len(args) < 2 {
				return errorf("usage: bpclear addr <a>")
			}
			addr, err := ParseAddress(args[1], 0xFFFF)
			if err != nil {
				return errorf("%v", err)
			}
			n := inst.Breakpoints.RemoveBreakpointByAddress(addr)
			return fmt.Sprintf("cleared %d breakpoint(s) at $%04X", n, addr)
		case "port":
			if len(args) < 2 {
				return errorf("usage: bpclear port <p>")
			}
			port, err := ParseAddress(args[1], 0xFFFF)
			if err != nil {
				return errorf("%v", err)
			}
			n := inst.Breakpoints.RemoveBreakpointByPort(port)
			return fmt.Sprintf("cleared %d breakpoint(s) at port $%04X", n, port)
		case "group":
			if len(args) < 2 {
				return errorf("usage: bpclear group <g>")
			}
			n := inst.Breakpoints.RemoveBreakpointGroup(args[1])
			return fmt.Sprintf("cleared %d breakpoint(s) in group %q", n, args[1])
		default:
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return errorf("unknown bpclear target %q", args[0])
			}
			if inst.Breakpoints.RemoveBreakpointByID(uint16(id)) {
				return fmt.Sprintf("cleared breakpoint #%d", id)
			}
			return errorf("no breakpoint #%d", id)
		}
	})

	d.register("bpgroup", func(session *Session, args []string) string {
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		if len(args) == 0 {
			return errorf("usage: bpgroup list|show <g>|set <id> <g>|remove <id>")
		}
		switch strings.ToLower(args[0]) {
		case "set":
			if len(args) < 3 {
				return errorf("usage: bpgroup set <id> <g>")
			}
			id, err := strconv.Atoi(args[1])
			if err != nil {
				return errorf("invalid id %q", args[1])
			}
			if !inst.Breakpoints.SetBreakpointGroup(uint16(id), args[2]) {
				return errorf("no breakpoint #%d", id)
			}
			return fmt.Sprintf("breakpoint #%d added to group %q", id, args[2])
		case "remove":
			if len(args) < 2 {
				return errorf("usage: bpgroup remove <id>")
			}
			id, err := strconv.Atoi(args[1])
			if err != nil {
				return errorf("invalid id %q", args[1])
			}
			inst.Breakpoints.RemoveBreakpointFromGroup(uint16(id))
			return fmt.Sprintf("breakpoint #%d removed from its group", id)
		case "show":
			if len(args) < 2 {
				return errorf("usage: bpgroup show <g>")
			}
			return report.Breakpoints(inst.Breakpoints, args[1])
		default:
			return report.Breakpoints(inst.Breakpoints, "")
		}
	})

	d.register("bpon", bpActivation(true))
	d.register("bpoff", bpActivation(false))
}

func bpActivation(activate bool) func(*Session, []string) string {
	verb := "deactivated"
	if activate {
		verb = "activated"
	}
	return func(session *Session, args []string) string {
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		if len(args) == 0 {
			return errorf("usage: bp%s <id>|group <g>", map[bool]string{true: "on", false: "off"}[activate])
		}
		if strings.ToLower(args[0]) == "group" && len(args) > 1 {
			if activate {
				inst.Breakpoints.ActivateBreakpointGroup(args[1])
			} else {
				inst.Breakpoints.DeactivateBreakpointGroup(args[1])
			}
			return fmt.Sprintf("group %q %s", args[1], verb)
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return errorf("invalid id %q", args[0])
		}
		var ok bool
		if activate {
			ok = inst.Breakpoints.ActivateBreakpoint(uint16(id))
		} else {
			ok = inst.Breakpoints.DeactivateBreakpoint(uint16(id))
		}
		if !ok {
			return errorf("no breakpoint #%d", id)
		}
		return fmt.Sprintf("breakpoint #%d %s", id, verb)
	}
}

func noteSuffix(noteArgs []string) string {
	if len(noteArgs) == 0 {
		return ""
	}
	return " note=" + strings.Join(noteArgs, " ")
}
