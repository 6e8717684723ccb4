package automation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alfishe/unrealcore/pkg/snapshot"
)

// registerInspectionCommands wires `registers` and `memory read|write`.
// `disasm`/`page`/`state` are intentionally not implemented: this module
// has no disassembler or video-frame renderer (spec.md §1's explicit
// non-goals), so those subcommands report unsupported rather than being
// silently absent from the command table.
func (d *Dispatcher) registerInspectionCommands() {
	d.register("registers", func(session *Session, args []string) string {
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		r := snapshot.FromState(inst.Core.S)
		return fmt.Sprintf(
			"AF=%04X BC=%04X DE=%04X HL=%04X IX=%04X IY=%04X SP=%04X PC=%04X\n"+
				"AF'=%04X BC'=%04X DE'=%04X HL'=%04X I=%02X R=%02X IM=%d IFF1=%v IFF2=%v",
			pair(r.A, r.F), pair(r.B, r.C), pair(r.D, r.E), pair(r.H, r.L), r.IX, r.IY, r.SP, r.PC,
			pair(r.A_, r.F_), pair(r.B_, r.C_), pair(r.D_, r.E_), pair(r.H_, r.L_), r.I, r.R, r.IM, r.IFF1, r.IFF2,
		)
	})

	d.register("memory", func(session *Session, args []string) string {
		if len(args) == 0 {
			return errorf("usage: memory read <addr> [len] | memory write <addr> <bytes...>")
		}
		inst, errLine := selectedOrError(session)
		if errLine != "" {
			return errLine
		}
		switch strings.ToLower(args[0]) {
		case "read":
			return memoryRead(inst, args[1:])
		case "write":
			return memoryWrite(inst, args[1:])
		default:
			return errorf("unknown memory subcommand %q", args[0])
		}
	})

	d.register("disasm", unsupportedCommand("disasm: no disassembler in this build"))
	d.register("disasm_page", unsupportedCommand("disasm_page: no disassembler in this build"))
	d.register("page", unsupportedCommand("page: use 'memory read|write' instead"))
	d.register("state", unsupportedCommand("state: screen/audio rendering is out of scope for this build"))
}

func pair(hi, lo byte) uint16 { return uint16(hi)<<8 | uint16(lo) }

func unsupportedCommand(msg string) func(*Session, []string) string {
	return func(*Session, []string) string { return "Error: " + msg }
}

func memoryRead(inst *Instance, args []string) string {
	if len(args) == 0 {
		return errorf("usage: memory read <addr> [len]")
	}
	addr, err := ParseAddress(args[0], 0xFFFF)
	if err != nil {
		return errorf("%v", err)
	}
	length := 16
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return errorf("invalid length %q", args[1])
		}
		length = n
	}
	var b strings.Builder
	fmt.Fprintf(&b, "$%04X:", addr)
	for i := 0; i < length; i++ {
		fmt.Fprintf(&b, " %02X", inst.Core.Mem.ReadDirect(addr+uint16(i)))
	}
	return b.String()
}

func memoryWrite(inst *Instance, args []string) string {
	if len(args) < 2 {
		return errorf("usage: memory write <addr> <bytes...>")
	}
	addr, err := ParseAddress(args[0], 0xFFFF)
	if err != nil {
		return errorf("%v", err)
	}
	for i, tok := range args[1:] {
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "$"), 16, 8)
		if err != nil {
			return errorf("invalid byte %q", tok)
		}
		inst.Core.Mem.WriteDirect(addr+uint16(i), byte(v))
	}
	return fmt.Sprintf("wrote %d byte(s) at $%04X", len(args)-1, addr)
}
