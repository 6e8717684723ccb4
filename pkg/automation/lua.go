package automation

import (
	"fmt"
	"os"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/alfishe/unrealcore/pkg/automation/luaiface"
	"github.com/alfishe/unrealcore/pkg/z80"
)

// LuaBridge runs one Instance's scripts through pkg/automation/luaiface.
// Every script runs against whichever Instance owns this bridge; Exec is
// synchronous, matching spec.md §6's `lua exec|file|status|stop` grammar
// having no concept of concurrently running scripts on one instance.
type LuaBridge struct {
	mu     sync.Mutex
	inst   *Instance
	output strings.Builder
	busy   bool
}

// NewLuaBridge creates a bridge bound to inst.
func NewLuaBridge(inst *Instance) *LuaBridge {
	return &LuaBridge{inst: inst}
}

// Exec runs code to completion and returns whatever it printed via Lua's
// print(), plus any error.
func (b *LuaBridge) Exec(code string) (string, error) {
	b.mu.Lock()
	if b.busy {
		b.mu.Unlock()
		return "", fmt.Errorf("a script is already running on this instance")
	}
	b.busy = true
	b.output.Reset()
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.busy = false
		b.mu.Unlock()
	}()

	L := lua.NewState()
	defer L.Close()
	luaiface.Register(L, b.inst, b.print)

	if err := L.DoString(code); err != nil {
		return b.output.String(), err
	}
	return b.output.String(), nil
}

// ExecFile loads code from path and runs it via Exec.
func (b *LuaBridge) ExecFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return b.Exec(string(data))
}

// Busy reports whether a script is currently executing. Exec is
// synchronous, so there is nothing to cancel mid-flight — but `lua status`
// still needs an honest answer rather than a fabricated "stopped".
func (b *LuaBridge) Busy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.busy
}

func (b *LuaBridge) print(args []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.output.WriteString(strings.Join(args, "\t"))
	b.output.WriteByte('\n')
}

// registerValue and setRegisterValue back Instance.GetRegister/SetRegister
// (in turn exposed to Lua via luaiface.Emulator); the `registers` inspection
// command in commands_inspect.go reads snapshot.FromState instead.
func registerValue(s *z80.State, name string) (uint16, bool) {
	switch name {
	case "A":
		return uint16(s.A), true
	case "F":
		return uint16(s.F), true
	case "B":
		return uint16(s.B), true
	case "C":
		return uint16(s.C), true
	case "D":
		return uint16(s.D), true
	case "E":
		return uint16(s.E), true
	case "H":
		return uint16(s.H), true
	case "L":
		return uint16(s.L), true
	case "BC":
		return uint16(s.B)<<8 | uint16(s.C), true
	case "DE":
		return uint16(s.D)<<8 | uint16(s.E), true
	case "HL":
		return uint16(s.H)<<8 | uint16(s.L), true
	case "IX":
		return s.IX, true
	case "IY":
		return s.IY, true
	case "SP":
		return s.SP, true
	case "PC":
		return s.PC, true
	default:
		return 0, false
	}
}

func setRegisterValue(s *z80.State, name string, v uint16) bool {
	switch name {
	case "A":
		s.A = byte(v)
	case "F":
		s.F = byte(v)
	case "B":
		s.B = byte(v)
	case "C":
		s.C = byte(v)
	case "D":
		s.D = byte(v)
	case "E":
		s.E = byte(v)
	case "H":
		s.H = byte(v)
	case "L":
		s.L = byte(v)
	case "BC":
		s.B, s.C = byte(v>>8), byte(v)
	case "DE":
		s.D, s.E = byte(v>>8), byte(v)
	case "HL":
		s.H, s.L = byte(v>>8), byte(v)
	case "IX":
		s.IX = v
	case "IY":
		s.IY = v
	case "SP":
		s.SP = v
	case "PC":
		s.PC = v
	default:
		return false
	}
	return true
}
