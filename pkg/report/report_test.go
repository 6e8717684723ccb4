package report

import (
	"strings"
	"testing"

	"github.com/alfishe/unrealcore/pkg/access"
	"github.com/alfishe/unrealcore/pkg/breakpoint"
	"github.com/alfishe/unrealcore/pkg/memory"
)

func TestBreakpointsFallsBackToPlainListWithoutGroup(t *testing.T) {
	m := breakpoint.New()
	m.AddExecutionBreakpoint(0x8000)
	out := Breakpoints(m, "")
	if !strings.Contains(out, "8000") {
		t.Fatalf("expected listing to mention the breakpoint address, got %q", out)
	}
}

func TestMemCountersRendersBanksAndPages(t *testing.T) {
	tracker := access.NewTracker(16, 64)
	tracker.OnAccess(0, memory.PageRef{Kind: memory.KindRAM, Index: 0}, 0x4000, memory.AccessRead)
	out := MemCounters(tracker)
	if !strings.Contains(out, "bank 0:") {
		t.Fatalf("expected bank 0 counters in output, got %q", out)
	}
}

func TestCallTraceReportsNoEventsWhenEmpty(t *testing.T) {
	buf := access.NewCallTraceBuffer(8, 32)
	out := CallTrace(buf)
	if !strings.Contains(out, "no call-trace events") {
		t.Fatalf("expected empty-buffer message, got %q", out)
	}
}
