package breakpoint

import (
	"strings"
	"testing"

	"github.com/alfishe/unrealcore/pkg/memory"
)

func TestAddAndCheckExecutionBreakpoint(t *testing.T) {
	m := New()
	id := m.AddExecutionBreakpoint(0x8000)

	hit, gotID := m.CheckExecution(0x8000, memory.PageRef{}, 1)
	if !hit || gotID != id {
		t.Fatalf("expected hit on id %d, got hit=%v id=%d", id, hit, gotID)
	}

	hit, _ = m.CheckExecution(0x8001, memory.PageRef{}, 1)
	if hit {
		t.Fatal("unrelated address should not hit")
	}
}

func TestPageQualifiedBreakpointOnlyMatchesMappedPage(t *testing.T) {
	m := New()
	ramPage := memory.PageRef{Kind: memory.KindRAM, Index: 5}
	id := m.AddExecutionBreakpointInPage(0x9000, ramPage, 2)

	hit, gotID := m.CheckExecution(0x9000, ramPage, 2)
	if !hit || gotID != id {
		t.Fatal("expected hit when page and bank match")
	}

	hit, _ = m.CheckExecution(0x9000, ramPage, 3)
	if hit {
		t.Fatal("should not hit when bank differs")
	}

	otherPage := memory.PageRef{Kind: memory.KindRAM, Index: 6}
	hit, _ = m.CheckExecution(0x9000, otherPage, 2)
	if hit {
		t.Fatal("should not hit when mapped page differs")
	}
}

func TestMemoryBreakpointKindMatching(t *testing.T) {
	m := New()
	m.AddMemWriteBreakpoint(0x4000)

	if hit, _ := m.CheckMemory(0x4000, memory.PageRef{}, 1, memory.AccessRead); hit {
		t.Fatal("write breakpoint must not fire on read")
	}
	if hit, _ := m.CheckMemory(0x4000, memory.PageRef{}, 1, memory.AccessWrite); !hit {
		t.Fatal("write breakpoint should fire on write")
	}
}

func TestIDRecyclingViaFreelist(t *testing.T) {
	m := New()
	a := m.AddExecutionBreakpoint(0x0001)
	b := m.AddExecutionBreakpoint(0x0002)
	m.RemoveBreakpointByID(a)

	c := m.AddExecutionBreakpoint(0x0003)
	if c != a {
		t.Fatalf("expected freed id %d to be recycled, got %d", a, c)
	}
	if b == c {
		t.Fatal("ids must stay unique")
	}
}

func TestRemoveBreakpointByAddressRemovesAllKinds(t *testing.T) {
	m := New()
	m.AddMemReadBreakpoint(0x5000)
	m.AddMemWriteBreakpoint(0x5000)
	m.AddExecutionBreakpoint(0x5000)

	n := m.RemoveBreakpointByAddress(0x5000)
	if n != 3 {
		t.Fatalf("expected 3 removed, got %d", n)
	}
	if m.Count() != 0 {
		t.Fatalf("expected registry empty, got %d", m.Count())
	}
}

func TestGroupOperations(t *testing.T) {
	m := New()
	id1 := m.AddExecutionBreakpoint(0x1000)
	id2 := m.AddExecutionBreakpoint(0x2000)
	m.SetBreakpointGroup(id1, "boot")
	m.SetBreakpointGroup(id2, "boot")

	m.DeactivateBreakpointGroup("boot")
	bp1, _ := m.Get(id1)
	bp2, _ := m.Get(id2)
	if bp1.Active || bp2.Active {
		t.Fatal("expected both group members deactivated")
	}

	n := m.RemoveBreakpointGroup("boot")
	if n != 2 {
		t.Fatalf("expected 2 removed from group, got %d", n)
	}
}

func TestDeactivateThenCheckDoesNotHit(t *testing.T) {
	m := New()
	id := m.AddExecutionBreakpoint(0x3000)
	m.DeactivateBreakpoint(id)

	if hit, _ := m.CheckExecution(0x3000, memory.PageRef{}, 0); hit {
		t.Fatal("inactive breakpoint should not fire")
	}
}

func TestGetBreakpointListAsStringFormat(t *testing.T) {
	m := New()
	id := m.AddExecutionBreakpoint(0x6000)
	m.SetBreakpointGroup(id, "trdos")
	bp, _ := m.Get(id)
	bp.Note = "entry point"
	m.byID[id].Note = "entry point"

	s := m.GetBreakpointListAsString("\n")
	if !strings.Contains(s, "[exec] $6000") {
		t.Fatalf("unexpected format: %q", s)
	}
	if !strings.Contains(s, "group=trdos") {
		t.Fatalf("expected group in output: %q", s)
	}
	if !strings.Contains(s, "note=entry point") {
		t.Fatalf("expected note in output: %q", s)
	}
}

func TestPortBreakpoints(t *testing.T) {
	m := New()
	m.AddPortInBreakpoint(0xFE)
	if hit, _ := m.CheckPortIn(0xFE); !hit {
		t.Fatal("expected port-in breakpoint to fire")
	}
	if hit, _ := m.CheckPortOut(0xFE); hit {
		t.Fatal("port-in breakpoint must not fire on OUT")
	}
}

func TestCombinedMemoryBreakpointMask(t *testing.T) {
	m := New()
	m.AddCombinedMemoryBreakpoint(0x7000, KindRead|KindWrite)
	if hit, _ := m.CheckMemory(0x7000, memory.PageRef{}, 0, memory.AccessRead); !hit {
		t.Fatal("expected read to fire")
	}
	if hit, _ := m.CheckMemory(0x7000, memory.PageRef{}, 0, memory.AccessWrite); !hit {
		t.Fatal("expected write to fire")
	}
}

func TestExhaustionReturnsInvalid(t *testing.T) {
	m := New()
	m.nextID = Invalid // force exhaustion without allocating 65535 breakpoints
	id := m.AddExecutionBreakpoint(0x1234)
	if id != Invalid {
		t.Fatalf("expected Invalid on exhaustion, got %d", id)
	}
}
