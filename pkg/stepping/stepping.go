// Package stepping implements the Stepping API (spec.md §4.9): a set of
// atomic, blocking run operations a debugger drives the core through —
// one t-state's worth, one scanline, to the next visible pixel, one
// frame, until interrupt, or until an arbitrary predicate holds. Every
// operation advances whole instructions only; a prefix sequence counts
// as one instruction, never a partial decode.
package stepping

import (
	"github.com/alfishe/unrealcore/pkg/platform"
	"github.com/alfishe/unrealcore/pkg/z80"
)

// Timing describes the video timing a model uses to turn t-state counts
// into scanline/pixel positions. The zero value is invalid; use
// DefaultTiming48K or a model-specific variant.
type Timing struct {
	TStatesPerLine int
	LinesPerFrame  int
	PaperTopLine   int // first scanline of the visible paper area (after the top border)
	PaperLeftT     int // t-state offset within a line where the paper area begins
	PaperRightT    int // t-state offset within a line where the paper area ends
}

// FrameTStates is the total t-states in one video frame under this timing.
func (t Timing) FrameTStates() int {
	return t.TStatesPerLine * t.LinesPerFrame
}

// TimingForPlatform derives a Timing from pkg/platform's PlatformTimings
// table: t-states/line from GetScanlineCycles, lines/frame from
// CyclesPerFrame / t-states-per-line. Paper-area bounds follow the
// standard Spectrum-family border layout (64 border lines above the
// paper area, a 128-t-state-wide paper window per line) — platforms this
// pack models all share that ULA-style layout.
func TimingForPlatform(name string) Timing {
	perLine := platform.GetScanlineCycles(name)
	timing, ok := platform.PlatformTimings[name]
	if !ok {
		timing = platform.PlatformTimings["spectrum"]
	}
	return Timing{
		TStatesPerLine: perLine,
		LinesPerFrame:  timing.CyclesPerFrame / perLine,
		PaperTopLine:   64,
		PaperLeftT:     24,
		PaperRightT:    24 + 128,
	}
}

// DefaultTiming48K is TimingForPlatform("spectrum"): 224 t-states per
// line, 312 lines per frame (69888 t-states/frame, 50 Hz).
func DefaultTiming48K() Timing {
	return TimingForPlatform("spectrum")
}

// Stepper is the Stepping API bound to one Core and its video timing. The
// embedded Core exposes Step, TryAcceptInterrupt, and State for predicates;
// Stepper holds no hidden state of its own beyond the frame counter and
// the Core's own T-state counter, per spec.md's "avoid hidden state in the
// stepper" design note.
type Stepper struct {
	Core   *z80.Core
	Timing Timing

	FrameCounter uint64
}

// New creates a Stepper over core using the given video timing.
func New(core *z80.Core, timing Timing) *Stepper {
	return &Stepper{Core: core, Timing: timing}
}

// stepOne advances exactly one instruction boundary: it first offers the
// core a chance to accept a pending maskable interrupt (the real hardware
// checks this between every instruction), then executes one instruction if
// no interrupt was taken. Returns the t-states consumed.
func (s *Stepper) stepOne() int {
	if t := s.Core.TryAcceptInterrupt(); t > 0 {
		return t
	}
	return s.Core.Step()
}

// safetyIterationCap bounds loops whose caller supplied no explicit
// safety limit, so a predicate or target that can never be satisfied
// fails loud instead of hanging.
const safetyIterationCap = 1 << 20

// RunNInstructions executes exactly n whole instructions (n >= 1) and
// returns the total t-states consumed.
func (s *Stepper) RunNInstructions(n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += s.stepOne()
	}
	return total
}

// RunTStates runs whole instructions until at least n t-states have
// elapsed (it may overshoot by less than the longest instruction).
func (s *Stepper) RunTStates(n int) int {
	total := 0
	for total < n {
		total += s.stepOne()
	}
	return total
}

// RunFrame runs until exactly one frame boundary is crossed: t reaches or
// passes FrameTStates, which is then subtracted so t holds the residual
// into the next frame, and the frame counter increments by one.
func (s *Stepper) RunFrame() int {
	frameT := s.Timing.FrameTStates()
	total := 0
	for s.Core.S.T < frameT {
		total += s.stepOne()
	}
	s.Core.S.T -= frameT
	s.FrameCounter++
	return total
}

// RunNScanlines runs approximately n scanlines' worth of t-states.
func (s *Stepper) RunNScanlines(n int) int {
	return s.RunTStates(n * s.Timing.TStatesPerLine)
}

// RunUntilScanline runs until t >= line * TStatesPerLine within the
// current frame. If that point has already passed this frame, it wraps:
// finishes the current frame first, then runs up to the target line in
// the next one.
func (s *Stepper) RunUntilScanline(line int) int {
	target := line * s.Timing.TStatesPerLine
	total := 0
	if s.Core.S.T >= target {
		total += s.RunFrame()
	}
	for s.Core.S.T < target {
		total += s.stepOne()
	}
	return total
}

// RunUntilNextScreenPixel runs until t falls within the paper (visible
// screen) area: line >= PaperTopLine and the in-line t-state offset is
// within [PaperLeftT, PaperRightT). Wraps to the next frame if the
// current position is already past the paper area.
func (s *Stepper) RunUntilNextScreenPixel() int {
	total := 0
	for i := 0; i < safetyIterationCap; i++ {
		if s.inPaperArea() {
			return total
		}
		if s.pastPaperAreaThisFrame() {
			total += s.RunFrame()
			continue
		}
		total += s.stepOne()
	}
	return total
}

func (s *Stepper) inPaperArea() bool {
	line := s.Core.S.T / s.Timing.TStatesPerLine
	col := s.Core.S.T % s.Timing.TStatesPerLine
	return line >= s.Timing.PaperTopLine && col >= s.Timing.PaperLeftT && col < s.Timing.PaperRightT
}

func (s *Stepper) pastPaperAreaThisFrame() bool {
	line := s.Core.S.T / s.Timing.TStatesPerLine
	lastPaperLine := s.Timing.LinesPerFrame - 1
	if line < lastPaperLine {
		return false
	}
	col := s.Core.S.T % s.Timing.TStatesPerLine
	return col >= s.Timing.PaperRightT
}

// RunUntilInterrupt runs until a full maskable-interrupt acceptance has
// completed: PC now holds the handler address and IFF1 was cleared as
// part of accepting it.
func (s *Stepper) RunUntilInterrupt() int {
	total := 0
	for i := 0; i < safetyIterationCap; i++ {
		if t := s.Core.TryAcceptInterrupt(); t > 0 {
			return total + t
		}
		total += s.Core.Step()
	}
	return total
}

// RunUntilCondition runs until pred(state) returns true or safetyTLimit
// t-states have elapsed, whichever comes first.
func (s *Stepper) RunUntilCondition(pred func(*z80.State) bool, safetyTLimit int) int {
	total := 0
	for total < safetyTLimit {
		if pred(s.Core.S) {
			return total
		}
		total += s.stepOne()
	}
	return total
}
