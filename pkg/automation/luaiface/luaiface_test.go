package luaiface

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
)

// fakeEmulator is a minimal in-memory stand-in so this package's tests
// don't need to import pkg/automation (which imports this package).
type fakeEmulator struct {
	mem       map[uint16]byte
	registers map[string]uint16
	paused    bool
	nextBpID  uint16
	bps       map[uint16]bool
}

func newFakeEmulator() *fakeEmulator {
	return &fakeEmulator{
		mem:       make(map[uint16]byte),
		registers: make(map[string]uint16),
		bps:       make(map[uint16]bool),
	}
}

func (f *fakeEmulator) ReadMemory(addr uint16) byte       { return f.mem[addr] }
func (f *fakeEmulator) WriteMemory(addr uint16, v byte)   { f.mem[addr] = v }
func (f *fakeEmulator) GetRegister(name string) (uint16, bool) {
	v, ok := f.registers[name]
	return v, ok
}
func (f *fakeEmulator) SetRegister(name string, v uint16) bool {
	if name != "HL" && name != "PC" {
		return false
	}
	f.registers[name] = v
	return true
}
func (f *fakeEmulator) Paused() bool { return f.paused }
func (f *fakeEmulator) Pause()       { f.paused = true }
func (f *fakeEmulator) Resume()      { f.paused = false }
func (f *fakeEmulator) AddBreakpoint(addr uint16) uint16 {
	f.nextBpID++
	f.bps[f.nextBpID] = true
	return f.nextBpID
}
func (f *fakeEmulator) RemoveBreakpoint(id uint16) bool {
	if !f.bps[id] {
		return false
	}
	delete(f.bps, id)
	return true
}

func runScript(t *testing.T, emu *fakeEmulator, code string) []string {
	t.Helper()
	var printed []string
	L := lua.NewState()
	defer L.Close()
	Register(L, emu, func(args []string) { printed = append(printed, args...) })
	if err := L.DoString(code); err != nil {
		t.Fatalf("DoString: %v", err)
	}
	return printed
}

func TestRegisterExposesMemoryReadWrite(t *testing.T) {
	emu := newFakeEmulator()
	out := runScript(t, emu, `write_memory(100, 7) print(read_memory(100))`)
	if len(out) != 1 || out[0] != "7" {
		t.Fatalf("got %v", out)
	}
}

func TestRegisterExposesRegisterAccess(t *testing.T) {
	emu := newFakeEmulator()
	out := runScript(t, emu, `set_register("HL", 300) print(get_register("HL"))`)
	if len(out) != 1 || out[0] != "300" {
		t.Fatalf("got %v", out)
	}
}

func TestRegisterUnknownRegisterRaisesLuaError(t *testing.T) {
	emu := newFakeEmulator()
	L := lua.NewState()
	defer L.Close()
	Register(L, emu, func([]string) {})
	if err := L.DoString(`get_register("ZZ")`); err == nil {
		t.Fatal("expected a Lua error for an unknown register")
	}
}

func TestRegisterPauseResumeAndBreakpoints(t *testing.T) {
	emu := newFakeEmulator()
	out := runScript(t, emu, `
		pause()
		print(is_paused())
		resume()
		print(is_paused())
		local id = add_breakpoint(0x8000)
		print(remove_breakpoint(id))
		print(remove_breakpoint(id))
	`)
	want := []string{"true", "false", "true", "false"}
	if len(out) != len(want) {
		t.Fatalf("got %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("got %v, want %v", out, want)
		}
	}
}
