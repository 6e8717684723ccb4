// Package access implements AccessTracker and CallTraceBuffer (spec.md
// §4.3): per-page and per-bank read/write/execute counters, and the bounded
// hot/cold control-flow ring buffer, fed by pkg/memory's debug interface and
// pkg/z80's M1 fetch hook respectively.
package access

import (
	"fmt"
	"io"
	"sort"

	"github.com/alfishe/unrealcore/pkg/memory"
)

const bankCount = 4

// PageCounters holds the three access counters for one physical page.
type PageCounters struct {
	Reads, Writes, Executes uint64
}

// BankCounters aggregates counters observed through a Z80 bank, independent
// of which physical page was mapped there at the time.
type BankCounters struct {
	Reads, Writes, Executes uint64
}

// Session is the Stopped/Capturing/Paused state machine shared by the
// memory-profiler and call-trace sessions (spec.md §4.5 describes the same
// machine for OpcodeProfiler; AccessTracker owns two independent instances
// of it).
type Session struct {
	state SessionState
}

type SessionState int

const (
	SessionStopped SessionState = iota
	SessionCapturing
	SessionPaused
)

func (s *Session) Start()   { s.state = SessionCapturing }
func (s *Session) Pause()   { if s.state == SessionCapturing { s.state = SessionPaused } }
func (s *Session) Resume()  { if s.state == SessionPaused { s.state = SessionCapturing } }
func (s *Session) Stop()    { s.state = SessionStopped }
func (s *Session) Capturing() bool { return s.state == SessionCapturing }
func (s *Session) State() SessionState { return s.state }

// Tracker is AccessTracker. Cheap per-access entry point: a branchless
// counter bump keyed by Z80 bank, plus (when the memory-profiler session is
// capturing) per physical page.
type Tracker struct {
	bankCounters [bankCount]BankCounters
	pageCounters map[memory.PageRef]*PageCounters

	MemoryProfiler Session
	CallTraceProfiler Session

	CallTrace *CallTraceBuffer

	lastTriggered LastTriggered
}

// LastTriggered mirrors spec.md §4.3's "last-triggered-breakpoint record".
type LastTriggered struct {
	Valid  bool
	ID     uint16
	Type   string
	Address uint16
	Kind   string
	Active bool
	Note   string
	Group  string
}

// NewTracker creates a Tracker with its CallTraceBuffer sized per spec.md's
// "bounded ring buffer" requirement.
func NewTracker(hotCapacity, coldCapacity int) *Tracker {
	return &Tracker{
		pageCounters: make(map[memory.PageRef]*PageCounters),
		CallTrace:    NewCallTraceBuffer(hotCapacity, coldCapacity),
	}
}

// OnAccess implements memory.Observer.
func (t *Tracker) OnAccess(bank int, page memory.PageRef, addr uint16, kind memory.AccessKind) {
	if bank < 0 || bank >= bankCount {
		return
	}
	bc := &t.bankCounters[bank]
	switch kind {
	case memory.AccessRead:
		bc.Reads++
	case memory.AccessWrite:
		bc.Writes++
	case memory.AccessExecute:
		bc.Executes++
	}

	if !t.MemoryProfiler.Capturing() {
		return
	}
	pc, ok := t.pageCounters[page]
	if !ok {
		pc = &PageCounters{}
		t.pageCounters[page] = pc
	}
	switch kind {
	case memory.AccessRead:
		pc.Reads++
	case memory.AccessWrite:
		pc.Writes++
	case memory.AccessExecute:
		pc.Executes++
	}
}

// BankCounters returns a copy of the aggregated per-bank counters.
func (t *Tracker) BankCounters() [bankCount]BankCounters { return t.bankCounters }

// PageCounters returns a copy of the per-page counters collected while the
// memory-profiler session was capturing.
func (t *Tracker) PageCounters() map[memory.PageRef]PageCounters {
	out := make(map[memory.PageRef]PageCounters, len(t.pageCounters))
	for k, v := range t.pageCounters {
		out[k] = *v
	}
	return out
}

// Reset zeroes all counters without changing session state.
func (t *Tracker) Reset() {
	t.bankCounters = [bankCount]BankCounters{}
	t.pageCounters = make(map[memory.PageRef]*PageCounters)
}

// RecordLastTriggered is invoked by pkg/breakpoint on every matched trigger.
func (t *Tracker) RecordLastTriggered(info LastTriggered) {
	t.lastTriggered = info
}

// LastTriggeredBreakpointInfo returns the most recent hit, for debuggers
// that poll once the emulator pauses.
func (t *Tracker) LastTriggeredBreakpointInfo() LastTriggered { return t.lastTriggered }

// Save walks the counter arrays and emits a text-serialized report (spec.md
// §4.3 "Save semantics"). Save never mutates counters. pageFilter, if
// non-empty, restricts output to the named pages ("ram3", "rom0", …).
func (t *Tracker) Save(w io.Writer, pageFilter map[string]bool) error {
	fmt.Fprintln(w, "# memory access report")
	for bank, bc := range t.bankCounters {
		fmt.Fprintf(w, "bank%d reads=%d writes=%d execs=%d\n", bank, bc.Reads, bc.Writes, bc.Executes)
	}

	keys := make([]memory.PageRef, 0, len(t.pageCounters))
	for k := range t.pageCounters {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind < keys[j].Kind
		}
		return keys[i].Index < keys[j].Index
	})

	for _, ref := range keys {
		name := fmt.Sprintf("%s%d", ref.Kind, ref.Index)
		if pageFilter != nil && len(pageFilter) > 0 && !pageFilter[name] {
			continue
		}
		pc := t.pageCounters[ref]
		fmt.Fprintf(w, "%s reads=%d writes=%d execs=%d\n", name, pc.Reads, pc.Writes, pc.Executes)
	}
	return nil
}
