// Package scheduler implements the frame loop (spec.md §4.10): the outer
// driver that, once per frame, consults FeatureManager, swaps the memory
// interface and the core's debug hooks to match, dispatches frame-boundary
// analyzer events, runs the CPU for one frame's worth of t-states, and
// handles the end-of-frame interrupt raise.
package scheduler

import (
	"github.com/alfishe/unrealcore/pkg/access"
	"github.com/alfishe/unrealcore/pkg/analyzer"
	"github.com/alfishe/unrealcore/pkg/breakpoint"
	"github.com/alfishe/unrealcore/pkg/feature"
	"github.com/alfishe/unrealcore/pkg/memory"
	"github.com/alfishe/unrealcore/pkg/profiler"
	"github.com/alfishe/unrealcore/pkg/stepping"
	"github.com/alfishe/unrealcore/pkg/z80"
)

// eventRelay forwards Z80Core debug events to AnalyzerManager's
// single-owner breakpoint-hit dispatch.
type eventRelay struct {
	analyzers *analyzer.Manager
}

func (r eventRelay) OnDebugEvent(ev z80.DebugEvent) {
	if r.analyzers != nil {
		r.analyzers.DispatchBreakpointHit(ev.Address, ev.BreakpointID)
	}
}

// Scheduler wires Core, Memory, FeatureManager, AccessTracker,
// BreakpointManager, AnalyzerManager and the OpcodeProfiler together and
// drives them one frame at a time.
type Scheduler struct {
	Core     *z80.Core
	Mem      *memory.Memory
	Features *feature.Manager
	Tracker  *access.Tracker
	Breakpoints *breakpoint.Manager
	Analyzers   *analyzer.Manager
	Profiler    *profiler.OpcodeProfiler

	Stepper *stepping.Stepper

	lastDebugMode bool
	fast          *memory.FastMemory
	debug         *memory.DebugMemory

	FrameCounter uint64

	// RequestInterruptEveryFrame, when true, raises the maskable interrupt
	// at every frame boundary the way the ULA's vertical-retrace interrupt
	// does on real hardware. Set false for headless CPU-only test harnesses
	// that drive interrupts themselves.
	RequestInterruptEveryFrame bool
}

// New wires a Scheduler around an already-constructed Core/Memory pair.
// Core.Mem should currently be a FastMemory or DebugMemory over mem; New
// takes over swapping it from here on.
func New(core *z80.Core, mem *memory.Memory, features *feature.Manager, tracker *access.Tracker, bpm *breakpoint.Manager, analyzers *analyzer.Manager, prof *profiler.OpcodeProfiler, timing stepping.Timing) *Scheduler {
	s := &Scheduler{
		Core:        core,
		Mem:         mem,
		Features:    features,
		Tracker:     tracker,
		Breakpoints: bpm,
		Analyzers:   analyzers,
		Profiler:    prof,
		Stepper:     stepping.New(core, timing),
		fast:        memory.NewFast(mem),
		debug:       memory.NewDebug(mem, tracker, bpm),
	}
	core.ExecChecker = bpm
	core.PortCheck = bpm
	core.Events = eventRelay{analyzers: analyzers}
	s.RequestInterruptEveryFrame = true
	return s
}

// syncFeatureGates swaps the memory interface and the core's optional
// hooks to match the FeatureManager's current cache — the "swap memory
// interface if changed; update AccessTracker feature cache; update Z80
// feature cache" step of the frame loop.
func (s *Scheduler) syncFeatureGates() {
	cache := s.Features.CachedState()

	if cache.DebugMode != s.lastDebugMode || s.Core.Mem == nil {
		if cache.DebugMode {
			s.Core.Mem = s.debug
		} else {
			s.Core.Mem = s.fast
		}
		s.lastDebugMode = cache.DebugMode
	}

	if cache.CallTracing && s.Tracker != nil {
		s.Core.CallTrace = s.Tracker.CallTrace
	} else {
		s.Core.CallTrace = nil
	}

	if cache.Profiling {
		s.Core.Profiler = s.Profiler
	} else {
		s.Core.Profiler = nil
	}
}

// RunFrame executes exactly one frame: feature sync, onFrameStart,
// CPU+video-line dispatch until the frame's t-states are exhausted,
// onFrameEnd, counter adjustment, and the end-of-frame interrupt raise.
func (s *Scheduler) RunFrame() {
	s.Features.RefreshCache()
	s.syncFeatureGates()

	analyzersOn := s.Features.CachedState().Analyzers
	if analyzersOn && s.Analyzers != nil {
		s.Analyzers.DispatchFrameStart()
	}

	frameT := s.Stepper.Timing.FrameTStates()
	lastScanline := -1
	for s.Core.S.T < frameT {
		if t := s.Core.TryAcceptInterrupt(); t == 0 {
			s.Core.Step()
		}

		if analyzersOn && s.Analyzers != nil {
			s.Analyzers.DispatchCPUStep(s.Core.S.PC)
			if line := s.Core.S.T / s.Stepper.Timing.TStatesPerLine; int(line) != lastScanline {
				lastScanline = int(line)
				s.Analyzers.DispatchVideoLine(uint16(line))
			}
		}
	}

	if analyzersOn && s.Analyzers != nil {
		s.Analyzers.DispatchFrameEnd()
	}

	s.Core.S.T -= frameT
	s.FrameCounter++
	s.Stepper.FrameCounter = s.FrameCounter

	if s.RequestInterruptEveryFrame {
		s.Core.RequestInterrupt()
	}
}

// RunFrames executes n consecutive frames.
func (s *Scheduler) RunFrames(n int) {
	for i := 0; i < n; i++ {
		s.RunFrame()
	}
}
