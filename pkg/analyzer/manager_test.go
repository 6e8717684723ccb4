package analyzer

import (
	"testing"

	"github.com/alfishe/unrealcore/pkg/breakpoint"
)

type recordingAnalyzer struct {
	activated   bool
	deactivated bool
	steps       []uint16
	hits        []uint16
}

func (r *recordingAnalyzer) OnActivate(m *Manager) {
	r.activated = true
	m.SubscribeCPUStep(func(pc uint16) { r.steps = append(r.steps, pc) }, "rec")
	m.RequestExecutionBreakpoint(0x8000, "rec")
}

func (r *recordingAnalyzer) OnDeactivate() { r.deactivated = true }

func (r *recordingAnalyzer) OnBreakpointHit(addr uint16, bpID uint16) {
	r.hits = append(r.hits, addr)
}

func newTestManager() (*Manager, *breakpoint.Manager) {
	bpm := breakpoint.New()
	return NewManager(bpm), bpm
}

func TestActivateSubscribesAndDeactivateCleansUp(t *testing.T) {
	m, bpm := newTestManager()
	a := &recordingAnalyzer{}
	m.RegisterAnalyzer("rec", a)
	m.Activate("rec")

	if !a.activated {
		t.Fatal("expected OnActivate to be called")
	}
	countWithBreakpoint := bpm.Count()
	if countWithBreakpoint != 1 {
		t.Fatalf("expected one breakpoint registered, got %d", countWithBreakpoint)
	}

	m.DispatchCPUStep(0x1234)
	if len(a.steps) != 1 || a.steps[0] != 0x1234 {
		t.Fatalf("expected CPU step dispatched to subscriber, got %+v", a.steps)
	}

	m.Deactivate("rec")
	if !a.deactivated {
		t.Fatal("expected OnDeactivate to be called")
	}
	if bpm.Count() != 0 {
		t.Fatalf("expected breakpoint released on deactivate, got count=%d", bpm.Count())
	}
	if len(m.ownerSubs["rec"]) != 0 {
		t.Fatal("expected subscriptions cleared on deactivate")
	}

	m.DispatchCPUStep(0x9999)
	if len(a.steps) != 1 {
		t.Fatal("expected no further dispatch after deactivation")
	}
}

func TestBreakpointHitDispatchesToOwnerOnly(t *testing.T) {
	m, _ := newTestManager()
	a := &recordingAnalyzer{}
	m.RegisterAnalyzer("rec", a)
	m.Activate("rec")

	id := m.ownerBreakpoints["rec"][0]
	m.DispatchBreakpointHit(0x8000, id)

	if len(a.hits) != 1 || a.hits[0] != 0x8000 {
		t.Fatalf("expected breakpoint hit dispatched to owner, got %+v", a.hits)
	}
}

func TestSetEnabledSuppressesDispatch(t *testing.T) {
	m, _ := newTestManager()
	a := &recordingAnalyzer{}
	m.RegisterAnalyzer("rec", a)
	m.Activate("rec")

	m.SetEnabled(false)
	m.DispatchCPUStep(0x1000)
	if len(a.steps) != 0 {
		t.Fatal("expected no dispatch while disabled")
	}
}
