package profiler

import "testing"

func TestHistogramCountsOnlyWhileCapturing(t *testing.T) {
	p := New(16)
	p.Record(PrefixNone, 0x00, 0x8000) // NOP, not capturing yet
	if p.Histogram(PrefixNone, 0x00) != 0 {
		t.Fatal("expected no counts before Start")
	}
	p.Session.Start()
	p.Record(PrefixNone, 0x00, 0x8000)
	p.Record(PrefixNone, 0x00, 0x8001)
	if got := p.Histogram(PrefixNone, 0x00); got != 2 {
		t.Fatalf("expected histogram=2, got %d", got)
	}
}

func TestThreeStateMachineMatchesSpecScenario(t *testing.T) {
	p := New(4096)
	p.Session.Start()
	for i := 0; i < 1000; i++ {
		p.Record(PrefixNone, 0x00, 0x8000)
	}
	p.Session.Pause()
	for i := 0; i < 1000; i++ {
		p.Record(PrefixNone, 0x00, 0x8000) // must not count while paused
	}
	p.Session.Resume()
	for i := 0; i < 1000; i++ {
		p.Record(PrefixNone, 0x00, 0x8000)
	}
	p.Session.Stop()

	if got := p.Histogram(PrefixNone, 0x00); got != 2000 {
		t.Fatalf("expected histogram=2000, got %d", got)
	}
	if p.Session.State() != 0 {
		t.Fatalf("expected session to end Stopped, got %v", p.Session.State())
	}
}

func TestRecentTraceBoundedAndChronological(t *testing.T) {
	p := New(3)
	p.Session.Start()
	for i := 0; i < 5; i++ {
		p.Record(PrefixNone, byte(i), uint16(0x8000+i))
	}
	trace := p.RecentTrace()
	if len(trace) != 3 {
		t.Fatalf("expected ring buffer capped at 3, got %d", len(trace))
	}
	want := []byte{2, 3, 4}
	for i, e := range trace {
		if e.Opcode != want[i] {
			t.Fatalf("expected chronological order %v, got opcode %d at index %d", want, e.Opcode, i)
		}
	}
}

func TestClearDropsDataWithoutChangingSessionState(t *testing.T) {
	p := New(16)
	p.Session.Start()
	p.Record(PrefixNone, 0x00, 0x8000)
	p.Clear()
	if p.Histogram(PrefixNone, 0x00) != 0 {
		t.Fatal("expected histogram cleared")
	}
	if !p.Session.Capturing() {
		t.Fatal("expected Clear to leave session state untouched")
	}
}

func TestGetTopOpcodesSortsDescendingAndResolvesMnemonics(t *testing.T) {
	p := New(16)
	p.Session.Start()
	for i := 0; i < 5; i++ {
		p.Record(PrefixNone, 0x00, 0x8000) // NOP
	}
	for i := 0; i < 2; i++ {
		p.Record(PrefixCB, 0x00, 0x8000) // RLC B
	}
	top := p.GetTopOpcodes(1)
	if len(top) != 1 {
		t.Fatalf("expected limit=1 to return one entry, got %d", len(top))
	}
	if top[0].Mnemonic != "NOP" || top[0].Count != 5 {
		t.Fatalf("expected top entry NOP count=5, got %+v", top[0])
	}
}

func TestMnemonicResolvesIndexedForms(t *testing.T) {
	if got := Mnemonic(PrefixDD, 0x7C); got != "LD A,IXH" {
		t.Fatalf("expected LD A,IXH, got %q", got)
	}
	if got := Mnemonic(PrefixED, 0xB0); got != "LDIR" {
		t.Fatalf("expected LDIR, got %q", got)
	}
	if got := Mnemonic(PrefixDDCB, 0x06); got != "RLC (IX+d)" {
		t.Fatalf("expected RLC (IX+d), got %q", got)
	}
}
