// Package analyzer implements AnalyzerManager (spec.md §4.7): a registry
// that routes CPU-step, memory, video-line, audio-sample, frame, and
// breakpoint-hit events to registered analyzers, with per-owner cleanup of
// every subscription and breakpoint it handed out.
package analyzer

import (
	"sort"

	"github.com/alfishe/unrealcore/pkg/breakpoint"
)

// Analyzer is the common lifecycle contract every analyzer implements.
// Analyzer-specific query surfaces (TRDOSAnalyzer's event log,
// ROMPrintDetector's text history) live on the concrete type and are reached
// by a type assertion on what Manager.GetAnalyzer returns, not through this
// interface.
type Analyzer interface {
	// OnActivate is called once, with the Manager the analyzer should use to
	// subscribe and request breakpoints.
	OnActivate(m *Manager)
	// OnDeactivate is called after the manager has already torn down every
	// subscription and breakpoint this analyzer owns.
	OnDeactivate()
}

// FrameAnalyzer is implemented by analyzers that care about frame
// boundaries.
type FrameAnalyzer interface {
	OnFrameStart()
	OnFrameEnd()
}

// BreakpointHitAnalyzer is implemented by analyzers that own breakpoints and
// want to know when one of theirs fires.
type BreakpointHitAnalyzer interface {
	OnBreakpointHit(addr uint16, bpID uint16)
}

// CPUStepFunc is the hot-path per-instruction callback: one call per
// Z80Core.Step(), so it stays a plain function value rather than a closure
// captured by interface dispatch.
type CPUStepFunc func(pc uint16)

// MemoryFunc is the hot-path per-access callback for memory read/write
// subscriptions.
type MemoryFunc func(addr uint16, v byte)

// VideoLineFunc and AudioSampleFunc are the warm-path callbacks: fired far
// less often than CPU steps, so a closure's overhead is immaterial.
type VideoLineFunc func(line uint16)
type AudioSampleFunc func(left, right int16)

type subscriptionKind int

const (
	subCPUStep subscriptionKind = iota
	subMemRead
	subMemWrite
	subVideoLine
	subAudioSample
)

type subscription struct {
	id       uint64
	kind     subscriptionKind
	owner    string
	cpuStep  CPUStepFunc
	memFn    MemoryFunc
	videoFn  VideoLineFunc
	audioFn  AudioSampleFunc
}

// Manager is AnalyzerManager.
type Manager struct {
	breakpoints *breakpoint.Manager

	analyzers map[string]Analyzer
	active    map[string]bool

	subscriptions   []subscription
	nextSubID       uint64
	ownerSubs       map[string][]uint64
	ownerBreakpoints map[string][]uint16
	breakpointOwner map[uint16]string

	enabled bool
}

// NewManager wires a Manager to the shared BreakpointManager it requests
// analyzer-owned breakpoints from.
func NewManager(breakpoints *breakpoint.Manager) *Manager {
	return &Manager{
		breakpoints:      breakpoints,
		analyzers:        make(map[string]Analyzer),
		active:           make(map[string]bool),
		ownerSubs:        make(map[string][]uint64),
		ownerBreakpoints: make(map[string][]uint16),
		breakpointOwner:  make(map[uint16]string),
		enabled:          true,
	}
}

// RegisterAnalyzer takes ownership of analyzer under id. Registering over an
// existing id first unregisters (and deactivates) the previous occupant.
func (m *Manager) RegisterAnalyzer(id string, a Analyzer) {
	if _, exists := m.analyzers[id]; exists {
		m.UnregisterAnalyzer(id)
	}
	m.analyzers[id] = a
}

// UnregisterAnalyzer deactivates (if active) and drops the analyzer.
func (m *Manager) UnregisterAnalyzer(id string) {
	if m.active[id] {
		m.Deactivate(id)
	}
	delete(m.analyzers, id)
}

// GetAnalyzer returns the analyzer registered under id, or nil.
func (m *Manager) GetAnalyzer(id string) Analyzer { return m.analyzers[id] }

// Activate invokes OnActivate, through which the analyzer subscribes and
// requests breakpoints.
func (m *Manager) Activate(id string) {
	a, ok := m.analyzers[id]
	if !ok || m.active[id] {
		return
	}
	m.active[id] = true
	a.OnActivate(m)
}

// Deactivate removes every subscription and breakpoint this analyzer holds,
// then invokes OnDeactivate. The owner is left holding nothing (spec.md
// §8's "analyzer auto-cleanup" property).
func (m *Manager) Deactivate(id string) {
	a, ok := m.analyzers[id]
	if !ok || !m.active[id] {
		return
	}
	m.unsubscribeAll(id)
	for _, bpID := range m.ownerBreakpoints[id] {
		m.breakpoints.RemoveBreakpointByID(bpID)
		delete(m.breakpointOwner, bpID)
	}
	delete(m.ownerBreakpoints, id)
	delete(m.active, id)
	a.OnDeactivate()
}

// ActivateAll / DeactivateAll operate over every registered analyzer, sorted
// by id for deterministic dispatch order.
func (m *Manager) ActivateAll() {
	for _, id := range m.registeredIDs() {
		m.Activate(id)
	}
}

func (m *Manager) DeactivateAll() {
	for _, id := range m.activeIDs() {
		m.Deactivate(id)
	}
}

func (m *Manager) IsActive(id string) bool { return m.active[id] }

func (m *Manager) registeredIDs() []string {
	ids := make([]string, 0, len(m.analyzers))
	for id := range m.analyzers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Manager) activeIDs() []string {
	ids := make([]string, 0, len(m.active))
	for id := range m.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RegisteredAnalyzers and ActiveAnalyzers are the query surface spec.md
// names for introspection (console/automation commands).
func (m *Manager) RegisteredAnalyzers() []string { return m.registeredIDs() }
func (m *Manager) ActiveAnalyzers() []string      { return m.activeIDs() }

// SetEnabled is the master dispatch toggle: when false, every Dispatch*
// call is a no-op regardless of subscriptions, without touching analyzer
// activation state.
func (m *Manager) SetEnabled(enabled bool) { m.enabled = enabled }
func (m *Manager) Enabled() bool           { return m.enabled }
