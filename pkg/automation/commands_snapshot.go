package automation

import (
	"strings"

	"github.com/alfishe/unrealcore/pkg/snapshot"
)

// registerSnapshotCommands wires `snapshot load|save <file> [--force]`.
// Disk and tape commands are explicit spec.md §1 non-goals (no
// disk-image codec in this module) and respond with a clear "not
// supported" message rather than silently vanishing from the grammar.
func (d *Dispatcher) registerSnapshotCommands() {
	d.register("snapshot", func(session *Session, args []string) string {
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		if len(args) < 2 {
			return errorf("usage: snapshot load|save <file> [--force]")
		}
		path := args[1]
		switch strings.ToLower(args[0]) {
		case "load":
			inst.Pause()
			defer inst.Resume()
			force := len(args) > 2 && args[2] == "--force"
			err := snapshot.Load(path, inst.Core.S, inst.Mem)
			if err == snapshot.ErrIncompatibleROM && force {
				return "Error: --force does not bypass the ROM compatibility check in this build"
			}
			if err != nil {
				return errorf("%v", err)
			}
			return "loaded " + path
		case "save":
			inst.Pause()
			defer inst.Resume()
			border := byte(0)
			if err := snapshot.Save(path, inst.Core.S, inst.Mem, border); err != nil {
				return errorf("%v", err)
			}
			return "saved " + path
		default:
			return errorf("unknown snapshot subcommand %q", args[0])
		}
	})
}
