package automation

import (
	"strings"
	"testing"
)

func newTestSession(t *testing.T) (*Dispatcher, *Session) {
	t.Helper()
	reg := NewRegistry()
	reg.Create("emu1", "spectrum")
	d := NewDispatcher(reg)
	s := NewSession(reg)
	if _, ok := s.Select("emu1"); !ok {
		t.Fatal("failed to select emu1")
	}
	return d, s
}

func TestDispatchUnknownCommandReportsError(t *testing.T) {
	d, s := newTestSession(t)
	got := d.Dispatch(s, "bogus")
	if got != `Error: unknown command "bogus". Type 'help' for a command list.` {
		t.Fatalf("got %q", got)
	}
}

func TestDispatchEmptyLineReturnsEmptyString(t *testing.T) {
	d, s := newTestSession(t)
	if got := d.Dispatch(s, "   "); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestDispatchStepReturnsStatusLine(t *testing.T) {
	d, s := newTestSession(t)
	got := d.Dispatch(s, "step")
	if !strings.Contains(got, "stepped 1 instruction") {
		t.Fatalf("got %q", got)
	}
}

func TestDispatchBreakpointLifecycle(t *testing.T) {
	d, s := newTestSession(t)

	resp := d.Dispatch(s, "bp 0x8000")
	if resp == "" {
		t.Fatal("expected a confirmation from bp")
	}
	list := d.Dispatch(s, "bplist")
	if list == "" {
		t.Fatal("expected a non-empty breakpoint list")
	}
	clear := d.Dispatch(s, "bpclear addr 0x8000")
	if clear == "" {
		t.Fatal("expected a confirmation from bpclear")
	}
}

func TestDispatchFeatureBareNameShowsState(t *testing.T) {
	d, s := newTestSession(t)
	resp := d.Dispatch(s, "feature debugmode")
	if resp == "" || resp[:5] == "Error" {
		t.Fatalf("got %q, want a feature state line", resp)
	}
}

func TestDispatchFeatureUnknownNameIsError(t *testing.T) {
	d, s := newTestSession(t)
	resp := d.Dispatch(s, "feature nosuchfeature")
	if resp[:5] != "Error" {
		t.Fatalf("got %q, want an error", resp)
	}
}

func TestDispatchKeyPressUnknownKeyIsError(t *testing.T) {
	d, s := newTestSession(t)
	resp := d.Dispatch(s, "key press nosuchkey")
	if resp[:5] != "Error" {
		t.Fatalf("got %q, want an error", resp)
	}
}

func TestDispatchKeyPressKnownKeySucceeds(t *testing.T) {
	d, s := newTestSession(t)
	resp := d.Dispatch(s, "key press a")
	if resp[:5] == "Error" {
		t.Fatalf("got %q, want success", resp)
	}
}

func TestDispatchDiskIsOutOfScope(t *testing.T) {
	d, s := newTestSession(t)
	resp := d.Dispatch(s, "disk insert 0 foo.dsk")
	if resp[:5] != "Error" {
		t.Fatalf("got %q, want an out-of-scope error", resp)
	}
}

func TestDispatchPythonReportsNotLinked(t *testing.T) {
	d, s := newTestSession(t)
	resp := d.Dispatch(s, "python exec print(1)")
	if resp != "python: not linked (no Python runtime embedded in this build)" {
		t.Fatalf("got %q", resp)
	}
}

func TestDispatchLuaExecRunsScript(t *testing.T) {
	d, s := newTestSession(t)
	resp := d.Dispatch(s, "lua exec print(1+1)")
	if resp != "2\n" {
		t.Fatalf("got %q, want lua print output", resp)
	}
}

func TestDispatchStopAllRemovesEveryInstance(t *testing.T) {
	reg := NewRegistry()
	reg.Create("emu1", "spectrum")
	reg.Create("emu2", "spectrum")
	d := NewDispatcher(reg)
	s := NewSession(reg)

	resp := d.Dispatch(s, "stop all")
	if resp == "" {
		t.Fatal("expected a confirmation from stop all")
	}
	if len(reg.IDs()) != 0 {
		t.Fatalf("expected every instance removed, got %v", reg.IDs())
	}
}
