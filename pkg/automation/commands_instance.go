package automation

import (
	"fmt"
	"strings"
)

// registerInstanceCommands wires `list, select, create, start, stop,
// status, reset, pause, resume, exit/quit` — spec.md §6's "Instance
// lifecycle" group. Grounded on
// original_source/core/automation/cli/src/commands/cli-processor-instance.cpp's
// HandleList/HandleSelect/HandleReset/HandlePause/HandleResume shape.
func (d *Dispatcher) registerInstanceCommands() {
	d.register("list", func(session *Session, args []string) string {
		lines := d.registry.List()
		if len(lines) == 0 {
			return "(no emulator instances; use 'create [model]')"
		}
		return strings.Join(lines, "\n")
	})

	d.register("select", func(session *Session, args []string) string {
		if len(args) == 0 {
			return errorf("usage: select <idx|id>")
		}
		inst, ok := session.Select(args[0])
		if !ok {
			return errorf("no such instance %q", args[0])
		}
		return "selected " + inst.ID
	})

	d.register("create", func(session *Session, args []string) string {
		model := "spectrum"
		if len(args) > 0 {
			model = args[0]
		}
		inst := d.registry.Create("", model)
		session.Select(inst.ID)
		return "created " + inst.Status()
	})

	d.register("start", func(session *Session, args []string) string {
		inst, errLine := resolveOrCreate(d, session, args)
		if errLine != "" {
			return errLine
		}
		inst.Resume()
		return "started " + inst.Status()
	})

	d.register("stop", func(session *Session, args []string) string {
		if len(args) > 0 && args[0] == "all" {
			ids := d.registry.IDs()
			for _, id := range ids {
				d.registry.Remove(id)
			}
			return fmt.Sprintf("stopped %d instance(s)", len(ids))
		}
		inst, errLine := selectedOrError(session)
		if len(args) > 0 {
			if resolved, ok := d.registry.Get(args[0]); ok {
				inst, errLine = resolved, ""
			}
		}
		if errLine != "" {
			return errLine
		}
		inst.Pause()
		d.registry.Remove(inst.ID)
		return "stopped " + inst.ID
	})

	d.register("status", func(session *Session, args []string) string {
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		return inst.Status()
	})

	d.register("reset", func(session *Session, args []string) string {
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		inst.Reset()
		return "reset " + inst.ID
	})

	d.register("pause", func(session *Session, args []string) string {
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		inst.Pause()
		return "paused " + inst.ID
	})

	d.register("resume", func(session *Session, args []string) string {
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		inst.Resume()
		return "resumed " + inst.ID
	})

	exit := func(session *Session, args []string) string { return "bye" }
	d.register("exit", exit)
	d.register("quit", exit)
}

// resolveOrCreate implements `start [model|id]`: if the argument names an
// existing instance, select and resume it; otherwise treat it as a model
// name and create a fresh instance.
func resolveOrCreate(d *Dispatcher, session *Session, args []string) (*Instance, string) {
	if len(args) == 0 {
		return selectedOrError(session)
	}
	if inst, ok := session.Select(args[0]); ok {
		return inst, ""
	}
	inst := d.registry.Create("", args[0])
	session.Select(inst.ID)
	return inst, ""
}
