package automation

import (
	"strings"
	"sync"
)

// interpreters tracks the one LuaBridge per Instance, created lazily on
// first use. Kept on the Dispatcher (not the Instance) since scripting is
// a CLI/HTTP-surface concern, not something the core emulation loop needs
// to know about.
type interpreters struct {
	mu  sync.Mutex
	lua map[string]*LuaBridge
}

func newInterpreters() *interpreters {
	return &interpreters{lua: make(map[string]*LuaBridge)}
}

func (ip *interpreters) bridgeFor(inst *Instance) *LuaBridge {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	b, ok := ip.lua[inst.ID]
	if !ok {
		b = NewLuaBridge(inst)
		ip.lua[inst.ID] = b
	}
	return b
}

// registerInterpreterCommands wires `lua exec|file|status|stop` onto
// pkg/automation's LuaBridge, grounded on
// original_source/core/automation/lua/src/emulator/lua_emulator.h. `python`
// is registered but answers "not linked" for every subcommand: this module
// carries no Python-embedding dependency (go.mod lists none), and spec.md §6 itself qualifies the whole interpreters group as
// "(when linked)".
func (d *Dispatcher) registerInterpreterCommands() {
	ip := newInterpreters()

	d.register("lua", func(session *Session, args []string) string {
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		if len(args) == 0 {
			return "usage: lua exec <code>|file <path>|status|stop"
		}
		bridge := ip.bridgeFor(inst)
		sub, rest := strings.ToLower(args[0]), args[1:]
		switch sub {
		case "exec":
			if len(rest) == 0 {
				return errorf("usage: lua exec <code>")
			}
			out, err := bridge.Exec(strings.Join(rest, " "))
			if err != nil {
				return errorf("%v", err)
			}
			if out == "" {
				return "(no output)"
			}
			return out
		case "file":
			if len(rest) == 0 {
				return errorf("usage: lua file <path>")
			}
			out, err := bridge.ExecFile(rest[0])
			if err != nil {
				return errorf("%v", err)
			}
			if out == "" {
				return "(no output)"
			}
			return out
		case "status":
			if bridge.Busy() {
				return "lua: running"
			}
			return "lua: idle"
		case "stop":
			return errorf("lua scripts run synchronously in this build and cannot be cancelled mid-execution")
		default:
			return errorf("unknown lua subcommand %q", sub)
		}
	})

	d.register("python", func(session *Session, args []string) string {
		if _, errLine := selectedOrError(session); errLine != "" {
			return errLine
		}
		return "python: not linked (no Python runtime embedded in this build)"
	})
}
