package automation

import (
	"fmt"
	"strings"
)

// Dispatcher parses one command line at a time and routes it to the
// matching handler, the Go analogue of CLIProcessor::ProcessCommand's
// `_commandHandlers` map in
// original_source/core/automation/cli/include/cli-processor.h — a plain Go
// map of func values stands in for the member-function-pointer table.
type Dispatcher struct {
	registry *Registry
	handlers map[string]func(*Session, []string) string
}

// NewDispatcher builds a Dispatcher bound to registry and registers every
// known command.
func NewDispatcher(registry *Registry) *Dispatcher {
	d := &Dispatcher{registry: registry, handlers: make(map[string]func(*Session, []string) string)}
	d.registerInstanceCommands()
	d.registerSteppingCommands()
	d.registerInspectionCommands()
	d.registerBreakpointCommands()
	d.registerProfilerCommands()
	d.registerSnapshotCommands()
	d.registerKeyboardCommands()
	d.registerSettingsCommands()
	d.registerInterpreterCommands()
	d.registerDeviceStubCommands()
	return d
}

func (d *Dispatcher) register(name string, fn func(*Session, []string) string) {
	d.handlers[name] = fn
}

// Dispatch tokenizes and executes one command line, returning the response
// text (multi-line responses are joined with "\n" and carry no trailing
// newline).
// Errors are rendered as `Error: <msg>` per spec.md §7's "User-visible
// behavior" rule; they never panic or mutate state.
func (d *Dispatcher) Dispatch(session *Session, line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	cmd := strings.ToLower(fields[0])
	handler, ok := d.handlers[cmd]
	if !ok {
		return fmt.Sprintf("Error: unknown command %q. Type 'help' for a command list.", fields[0])
	}
	return handler(session, fields[1:])
}

func errorf(format string, args ...any) string {
	return "Error: " + fmt.Sprintf(format, args...)
}

// selectedOrError resolves the session's selected instance, or a standard
// "no emulator selected" error line.
func selectedOrError(session *Session) (*Instance, string) {
	inst, ok := session.Selected()
	if !ok {
		return nil, "Error: No emulator selected. Use 'select <idx|id>' or 'create' to start one."
	}
	return inst, ""
}
