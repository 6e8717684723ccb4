// Package automation implements the CLI/HTTP/scripting surface spec.md §6
// describes: a telnet-style line protocol (default port 8765), a parallel
// JSON HTTP API, and embedded interpreter commands. It owns zero emulator
// logic itself — every command is a thin dispatch into the packages that
// do (pkg/z80, pkg/memory, pkg/breakpoint, pkg/analyzer, pkg/feature,
// pkg/profiler, pkg/scheduler, pkg/stepping, pkg/snapshot, pkg/keyboard).
package automation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/alfishe/unrealcore/pkg/access"
	"github.com/alfishe/unrealcore/pkg/analyzer"
	"github.com/alfishe/unrealcore/pkg/breakpoint"
	"github.com/alfishe/unrealcore/pkg/feature"
	"github.com/alfishe/unrealcore/pkg/keyboard"
	"github.com/alfishe/unrealcore/pkg/memory"
	"github.com/alfishe/unrealcore/pkg/profiler"
	"github.com/alfishe/unrealcore/pkg/scheduler"
	"github.com/alfishe/unrealcore/pkg/stepping"
	"github.com/alfishe/unrealcore/pkg/z80"
)

// Instance is one running emulator: every per-instance subsystem, bundled
// the way EmulatorManager's Emulator object is in
// original_source/core/automation/cli/include/cli-processor.h's
// GetSelectedEmulator call sites, minus the C++ GUI/audio/video
// collaborators spec.md §1 excludes.
type Instance struct {
	ID    string
	Model string

	mu      sync.Mutex
	paused  bool

	Core        *z80.Core
	Mem         *memory.Memory
	Features    *feature.Manager
	Tracker     *access.Tracker
	CallTrace   *access.CallTraceBuffer
	Breakpoints *breakpoint.Manager
	Analyzers   *analyzer.Manager
	Profiler    *profiler.OpcodeProfiler
	Scheduler   *scheduler.Scheduler
	Stepper     *stepping.Stepper
	Keyboard    *keyboard.Controller
}

// NewInstance builds a fully wired Instance for the named model
// ("spectrum", "spectrum128", "spectrum3", "pentagon", "scorpion"). ROM
// contents are the caller's responsibility (LoadROM); an instance with no
// ROM loaded runs with an all-zeros ROM page, which decodes as a long run
// of NOPs — harmless for CLI-driven inspection and stepping tests.
func NewInstance(id, model string) *Instance {
	mem := memory.New(model)
	fast := memory.NewFast(mem)
	core := z80.NewCore(fast, nil)

	features := feature.New()
	tracker := access.NewTracker(256, 4096)
	callTrace := access.NewCallTraceBuffer(256, 4096)
	bpm := breakpoint.New()
	analyzers := analyzer.NewManager(bpm)
	prof := profiler.New(256)

	sched := scheduler.New(core, mem, features, tracker, bpm, analyzers, prof, stepping.TimingForPlatform(model))
	core.CallTrace = callTrace

	return &Instance{
		ID:          id,
		Model:       model,
		Core:        core,
		Mem:         mem,
		Features:    features,
		Tracker:     tracker,
		CallTrace:   callTrace,
		Breakpoints: bpm,
		Analyzers:   analyzers,
		Profiler:    prof,
		Scheduler:   sched,
		Stepper:     sched.Stepper,
		Keyboard:    keyboard.New(),
	}
}

// Paused reports whether the instance's worker loop is currently paused.
func (inst *Instance) Paused() bool {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.paused
}

// Pause stops the instance from advancing on further frame ticks until
// Resume is called. Spec.md §5's pause-and-wait-for-checkpoint discipline
// for disk/snapshot operations is enforced by callers serializing through
// this same mutex before mutating device state.
func (inst *Instance) Pause() {
	inst.mu.Lock()
	inst.paused = true
	inst.mu.Unlock()
}

// Resume reverses Pause.
func (inst *Instance) Resume() {
	inst.mu.Lock()
	inst.paused = false
	inst.mu.Unlock()
}

// Reset reinitializes Core's register state and the access/profiler
// counters without touching RAM, the way a soft RESET key leaves program
// memory intact.
func (inst *Instance) Reset() {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.Core.S.Reset()
	inst.Tracker.Reset()
	inst.Profiler.Clear()
	inst.CallTrace.Reset()
	inst.Keyboard.Clear()
}

// ReadMemory, WriteMemory, GetRegister, SetRegister, AddBreakpoint, and
// RemoveBreakpoint satisfy pkg/automation/luaiface.Emulator, letting
// LuaBridge bind scripts directly against an Instance with no adapter type.

func (inst *Instance) ReadMemory(addr uint16) byte { return inst.Mem.ReadDirect(addr) }

func (inst *Instance) WriteMemory(addr uint16, v byte) { inst.Mem.WriteDirect(addr, v) }

func (inst *Instance) GetRegister(name string) (uint16, bool) {
	return registerValue(inst.Core.S, strings.ToUpper(name))
}

func (inst *Instance) SetRegister(name string, v uint16) bool {
	return setRegisterValue(inst.Core.S, strings.ToUpper(name), v)
}

func (inst *Instance) AddBreakpoint(addr uint16) uint16 {
	return inst.Breakpoints.AddExecutionBreakpoint(addr)
}

func (inst *Instance) RemoveBreakpoint(id uint16) bool {
	return inst.Breakpoints.RemoveBreakpointByID(id)
}

// Status renders a one-line human summary for the `status` command.
func (inst *Instance) Status() string {
	state := "running"
	if inst.Paused() {
		state = "paused"
	}
	return fmt.Sprintf("id=%s model=%s state=%s pc=$%04X frame=%d",
		inst.ID, inst.Model, state, inst.Core.S.PC, inst.Scheduler.FrameCounter)
}
