package trdos

import (
	"testing"

	"github.com/alfishe/unrealcore/pkg/analyzer"
	"github.com/alfishe/unrealcore/pkg/breakpoint"
	"github.com/alfishe/unrealcore/pkg/memory"
)

func TestStateMachineWalksFullCycle(t *testing.T) {
	bpm := breakpoint.New()
	m := analyzer.NewManager(bpm)
	a := New(memory.PageRef{Kind: memory.KindROM, Index: 1}, 0, func() uint64 { return 0 })
	m.RegisterAnalyzer("trdos", a)
	m.Activate("trdos")

	if a.State() != StateIdle {
		t.Fatalf("expected IDLE initially, got %v", a.State())
	}

	a.OnBreakpointHit(AddrEntry, a.entryID)
	if a.State() != StateInTRDOS {
		t.Fatalf("expected IN_TRDOS after entry hit, got %v", a.State())
	}

	a.OnBreakpointHit(AddrDispatch, a.dispatchID)
	if a.State() != StateInCommand {
		t.Fatalf("expected IN_COMMAND after dispatch hit, got %v", a.State())
	}

	a.OnSectorOpStart()
	if a.State() != StateInSectorOp {
		t.Fatalf("expected IN_SECTOR_OP, got %v", a.State())
	}

	a.OnSectorOpComplete()
	if a.State() != StateInCommand {
		t.Fatalf("expected back to IN_COMMAND, got %v", a.State())
	}

	a.OnCommandComplete(0)
	if a.State() != StateInTRDOS {
		t.Fatalf("expected back to IN_TRDOS, got %v", a.State())
	}

	a.OnBreakpointHit(AddrExit, a.exitID)
	if a.State() != StateIdle {
		t.Fatalf("expected IDLE after exit hit, got %v", a.State())
	}

	events := a.Events()
	if len(events) != 5 {
		t.Fatalf("expected 5 recorded events (enter, sector op start/complete, command complete, exit), got %d", len(events))
	}
	if events[0].Kind != EventEnteredTRDOS || events[1].Kind != EventSectorOpStarted ||
		events[2].Kind != EventSectorOpComplete || events[3].Kind != EventCommandComplete ||
		events[4].Kind != EventExitedTRDOS {
		t.Fatalf("unexpected event sequence: %+v", events)
	}
}

func TestActivationRegistersThreePageQualifiedBreakpoints(t *testing.T) {
	bpm := breakpoint.New()
	m := analyzer.NewManager(bpm)
	page := memory.PageRef{Kind: memory.KindROM, Index: 1}
	a := New(page, 0, nil)
	m.RegisterAnalyzer("trdos", a)
	m.Activate("trdos")

	if bpm.Count() != 3 {
		t.Fatalf("expected 3 breakpoints registered, got %d", bpm.Count())
	}

	m.Deactivate("trdos")
	if bpm.Count() != 0 {
		t.Fatalf("expected all 3 released on deactivate, got %d", bpm.Count())
	}
}

func TestEventBufferWrapsAtCapacity(t *testing.T) {
	a := New(memory.PageRef{}, 0, func() uint64 { return 0 })
	for i := 0; i < eventBufferCapacity+10; i++ {
		a.push(Event{Kind: EventCommandStarted, Command: byte(i)})
	}
	events := a.Events()
	if len(events) != eventBufferCapacity {
		t.Fatalf("expected ring buffer capped at %d, got %d", eventBufferCapacity, len(events))
	}
	if events[len(events)-1].Command != byte((eventBufferCapacity+9)&0xFF) {
		t.Fatalf("expected most recent event last, got %+v", events[len(events)-1])
	}
}
