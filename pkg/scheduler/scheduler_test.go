package scheduler

import (
	"testing"

	"github.com/alfishe/unrealcore/pkg/access"
	"github.com/alfishe/unrealcore/pkg/analyzer"
	"github.com/alfishe/unrealcore/pkg/breakpoint"
	"github.com/alfishe/unrealcore/pkg/feature"
	"github.com/alfishe/unrealcore/pkg/memory"
	"github.com/alfishe/unrealcore/pkg/profiler"
	"github.com/alfishe/unrealcore/pkg/stepping"
	"github.com/alfishe/unrealcore/pkg/z80"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	mem := memory.New("spectrum")
	fast := memory.NewFast(mem)
	for addr := 0; addr < 0x10000; addr++ {
		fast.WriteByte(uint16(addr), 0x00)
	}
	core := z80.NewCore(fast, nil)
	core.S.PC = 0x8000

	features := feature.New()
	tracker := access.NewTracker(64, 256)
	bpm := breakpoint.New()
	analyzers := analyzer.NewManager(bpm)
	prof := profiler.New(64)

	s := New(core, mem, features, tracker, bpm, analyzers, prof, stepping.DefaultTiming48K())
	s.RequestInterruptEveryFrame = false
	return s
}

func TestRunFrameCrossesExactlyOneBoundary(t *testing.T) {
	s := newTestScheduler(t)
	s.RunFrame()
	if s.FrameCounter != 1 {
		t.Fatalf("expected frame counter 1, got %d", s.FrameCounter)
	}
	longestInstruction := 23
	if s.Core.S.T >= longestInstruction {
		t.Fatalf("expected t to wrap to a small residual, got %d", s.Core.S.T)
	}
}

func TestDebugModeOffSelectsFastMemoryInterface(t *testing.T) {
	s := newTestScheduler(t)
	s.Features.SetFeature(feature.DebugMode, false)
	s.RunFrame()
	if _, ok := s.Core.Mem.(*memory.FastMemory); !ok {
		t.Fatalf("expected FastMemory once debugmode is off, got %T", s.Core.Mem)
	}
}

func TestDebugModeOnSelectsDebugMemoryInterface(t *testing.T) {
	s := newTestScheduler(t)
	s.Features.SetFeature(feature.DebugMode, true)
	s.RunFrame()
	if _, ok := s.Core.Mem.(*memory.DebugMemory); !ok {
		t.Fatalf("expected DebugMemory once debugmode is on, got %T", s.Core.Mem)
	}
}

func TestProfilingFeatureGatesOpcodeProfiler(t *testing.T) {
	s := newTestScheduler(t)
	s.Features.SetFeature(feature.Profiling, false)
	s.RunFrame()
	if s.Core.Profiler != nil {
		t.Fatal("expected Core.Profiler nil while the profiler feature is off")
	}

	s.Features.SetFeature(feature.Profiling, true)
	s.RunFrame()
	if s.Core.Profiler == nil {
		t.Fatal("expected Core.Profiler set once the profiler feature is on")
	}
}

func TestAnalyzersReceiveFrameStartAndEnd(t *testing.T) {
	s := newTestScheduler(t)

	rec := &frameRecorder{}
	s.Analyzers.RegisterAnalyzer("rec", rec)
	s.Analyzers.Activate("rec")

	s.RunFrame()

	if !rec.started || !rec.ended {
		t.Fatalf("expected both frame hooks called, got started=%v ended=%v", rec.started, rec.ended)
	}
}

type frameRecorder struct {
	started, ended bool
}

func (r *frameRecorder) OnActivate(*analyzer.Manager) {}
func (r *frameRecorder) OnDeactivate()                {}
func (r *frameRecorder) OnFrameStart()                { r.started = true }
func (r *frameRecorder) OnFrameEnd()                  { r.ended = true }
