package automation

import (
	"fmt"
	"strings"

	"github.com/alfishe/unrealcore/pkg/report"
)

// registerProfilerCommands wires `memcounters [all|reset]`,
// `memcounters save [...]`, and `calltrace latest|save|reset|stats`.
func (d *Dispatcher) registerProfilerCommands() {
	d.register("memcounters", func(session *Session, args []string) string {
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		if len(args) > 0 && strings.ToLower(args[0]) == "reset" {
			inst.Tracker.Reset()
			return "memory counters reset"
		}
		if len(args) > 0 && strings.ToLower(args[0]) == "save" {
			return errorf("memcounters save: use the HTTP API to retrieve a file, the telnet surface only renders text reports")
		}
		return report.MemCounters(inst.Tracker)
	})

	d.register("calltrace", func(session *Session, args []string) string {
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		sub := "latest"
		if len(args) > 0 {
			sub = strings.ToLower(args[0])
		}
		switch sub {
		case "latest":
			return report.CallTrace(inst.CallTrace)
		case "reset":
			inst.CallTrace.Reset()
			return "call trace reset"
		case "stats":
			hot := inst.CallTrace.Hot()
			return fmt.Sprintf("%d hot event(s) recorded", len(hot))
		case "save":
			return errorf("calltrace save: use the HTTP API to retrieve a file")
		default:
			return errorf("unknown calltrace subcommand %q", sub)
		}
	})
}
