package automation

import (
	"fmt"
	"strings"

	"github.com/alfishe/unrealcore/pkg/keyboard"
)

// registerKeyboardCommands wires `key press|release|tap|combo|macro|type|
// list|clear` onto pkg/keyboard.Controller, per spec.md §6 and
// original_source/core/automation/cli/src/commands/cli-processor-keyboard.cpp's
// HandleKey subcommand dispatch.
func (d *Dispatcher) registerKeyboardCommands() {
	d.register("key", func(session *Session, args []string) string {
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		if len(args) == 0 {
			return keyUsage()
		}
		sub, rest := strings.ToLower(args[0]), args[1:]
		switch sub {
		case "press":
			return keySingle(rest, "press", inst.Keyboard.Press)
		case "release":
			return keySingle(rest, "release", inst.Keyboard.Release)
		case "tap":
			return keySingle(rest, "tap", inst.Keyboard.Tap)
		case "combo":
			if len(rest) == 0 {
				return errorf("usage: key combo <key1> <key2>...")
			}
			ok, bad := inst.Keyboard.Combo(rest...)
			if !ok {
				return errorf("unknown key %q", bad)
			}
			return "tapped combo " + strings.Join(rest, "+")
		case "macro":
			if len(rest) == 0 {
				return errorf("usage: key macro <name>")
			}
			if !inst.Keyboard.Macro(rest[0]) {
				return errorf("unknown macro %q", rest[0])
			}
			return "ran macro " + rest[0]
		case "type":
			if len(rest) == 0 {
				return errorf("usage: key type <text>")
			}
			text := strings.Join(rest, " ")
			skipped := inst.Keyboard.Type(text)
			if len(skipped) > 0 {
				return fmt.Sprintf("typed %q (skipped %d unmapped character(s))", text, len(skipped))
			}
			return fmt.Sprintf("typed %q", text)
		case "list":
			return "keys: " + strings.Join(keyboard.KnownKeys(), ", ")
		case "clear", "reset":
			inst.Keyboard.Clear()
			return "keyboard cleared"
		case "help":
			return keyUsage()
		default:
			return errorf("unknown subcommand %q; use 'key help'", sub)
		}
	})
}

func keySingle(args []string, verb string, fn func(string) bool) string {
	if len(args) == 0 {
		return errorf("usage: key %s <key>", verb)
	}
	if !fn(args[0]) {
		return errorf("unknown key %q", args[0])
	}
	return fmt.Sprintf("%s: %s", verb, args[0])
}

func keyUsage() string {
	return "usage: key press|release|tap|combo|macro|type|list|clear <args>"
}
