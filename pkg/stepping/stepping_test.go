package stepping

import (
	"testing"

	"github.com/alfishe/unrealcore/pkg/memory"
	"github.com/alfishe/unrealcore/pkg/z80"
)

func newTestStepper(t *testing.T) (*Stepper, *memory.Memory) {
	t.Helper()
	mem := memory.New("spectrum")
	fast := memory.NewFast(mem)
	// Fill the whole address space with NOPs so any run length is safe.
	for addr := 0; addr < 0x10000; addr++ {
		fast.WriteByte(uint16(addr), 0x00)
	}
	core := z80.NewCore(fast, nil)
	core.S.PC = 0x8000
	return New(core, DefaultTiming48K()), mem
}

func TestRunNInstructionsCountsWholeInstructionsOnly(t *testing.T) {
	s, _ := newTestStepper(t)
	s.RunNInstructions(10)
	if s.Core.S.PC != 0x800A {
		t.Fatalf("expected PC to advance by 10 NOPs, got %#04x", s.Core.S.PC)
	}
}

func TestRunTStatesMayOvershootButNeverUndershoots(t *testing.T) {
	s, _ := newTestStepper(t)
	total := s.RunTStates(100)
	if total < 100 {
		t.Fatalf("expected at least 100 t-states, got %d", total)
	}
}

func TestRunFrameWrapsTAndIncrementsFrameCounter(t *testing.T) {
	s, _ := newTestStepper(t)
	s.RunFrame()
	if s.FrameCounter != 1 {
		t.Fatalf("expected frame counter 1, got %d", s.FrameCounter)
	}
	if s.Core.S.T >= s.Timing.FrameTStates() {
		t.Fatalf("expected t to wrap to residual below frame length, got %d", s.Core.S.T)
	}
	longestInstruction := 23
	if s.Core.S.T >= longestInstruction {
		t.Fatalf("expected residual smaller than the longest instruction, got %d", s.Core.S.T)
	}
}

func TestRunUntilScanlineWrapsToNextFrameWhenAlreadyPast(t *testing.T) {
	s, _ := newTestStepper(t)
	s.RunTStates(s.Timing.TStatesPerLine * 200) // well past scanline 0
	before := s.FrameCounter
	s.RunUntilScanline(0)
	if s.FrameCounter != before+1 {
		t.Fatalf("expected RunUntilScanline(0) from mid-frame to cross exactly one frame boundary, got %d -> %d", before, s.FrameCounter)
	}
}

func TestRunUntilConditionTerminatesOnSafetyLimitWhenPredicateNeverHolds(t *testing.T) {
	s, _ := newTestStepper(t)
	alwaysFalse := func(*z80.State) bool { return false }
	const limit = 1000
	total := s.RunUntilCondition(alwaysFalse, limit)
	longestInstruction := 23
	if total < limit {
		t.Fatalf("expected at least the safety limit elapsed, got %d", total)
	}
	if total > limit+longestInstruction {
		t.Fatalf("expected overshoot bounded by one instruction, got %d (limit %d)", total, limit)
	}
}

func TestRunUntilConditionStopsAssoonAsPredicateHolds(t *testing.T) {
	s, _ := newTestStepper(t)
	pred := func(st *z80.State) bool { return st.PC >= 0x8005 }
	s.RunUntilCondition(pred, 1<<20)
	if s.Core.S.PC < 0x8005 {
		t.Fatalf("expected predicate-triggered stop, PC=%#04x", s.Core.S.PC)
	}
}
