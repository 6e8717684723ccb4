// Package trdos implements TRDOSAnalyzer (spec.md §4.8): a state machine
// tracking entry into and exit from TR-DOS, the disk operating system ROM
// ZX Spectrum clones page in for disk access, plus the FDC command flow
// while inside it.
package trdos

import (
	"github.com/alfishe/unrealcore/pkg/analyzer"
	"github.com/alfishe/unrealcore/pkg/memory"
)

// Well-known TR-DOS ROM entry points.
const (
	AddrEntry   uint16 = 0x3D03 // TR-DOS entry
	AddrDispatch uint16 = 0x3D2F // command dispatch
	AddrExit    uint16 = 0x3E0B // exit back to 48K BASIC ROM
)

const eventBufferCapacity = 1024

// State is the TR-DOS session state machine.
type State int

const (
	StateIdle State = iota
	StateInTRDOS
	StateInCommand
	StateInSectorOp
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateInTRDOS:
		return "IN_TRDOS"
	case StateInCommand:
		return "IN_COMMAND"
	case StateInSectorOp:
		return "IN_SECTOR_OP"
	default:
		return "?"
	}
}

// EventKind enumerates what a semantic Event records.
type EventKind int

const (
	EventEnteredTRDOS EventKind = iota
	EventExitedTRDOS
	EventCommandStarted
	EventCommandComplete
	EventSectorOpStarted
	EventSectorOpComplete
)

// Event is one semantic occurrence pushed to the bounded ring buffer, with a
// monotonically increasing Timestamp (the emulator's global cycle counter
// at the moment it was recorded).
type Event struct {
	Kind      EventKind
	Timestamp uint64
	Command   byte
	Status    byte
}

// FDCObserver is the WD1793 controller's event surface; a real FDC
// implementation (out of this module's scope — disk-image codecs are a
// non-goal) drives TRDOSAnalyzer through it.
type FDCObserver interface {
	OnCommandStart(cmd byte)
	OnCommandComplete(status byte)
	OnSectorOpStart()
	OnSectorOpComplete()
}

// Analyzer is TRDOSAnalyzer. RomPage/RomBank identify where the TR-DOS ROM
// is mapped on the target model (e.g. {KindROM, 1} in bank 0 on a 128K/
// Pentagon machine); breakpoints only fire while that page is actually
// mapped there, so BASIC code that happens to share these addresses in a
// different ROM page never trips the analyzer.
type Analyzer struct {
	RomPage memory.PageRef
	RomBank int

	state State
	clock func() uint64

	events   []Event
	eventPos int
	full     bool

	entryID, dispatchID, exitID uint16
}

// New creates a TRDOSAnalyzer. clock supplies the timestamp for recorded
// events (the emulator's cumulative cycle counter); pass a closure over
// Core.S.Cycles.
func New(romPage memory.PageRef, romBank int, clock func() uint64) *Analyzer {
	return &Analyzer{
		RomPage: romPage,
		RomBank: romBank,
		clock:   clock,
		events:  make([]Event, eventBufferCapacity),
	}
}

var _ analyzer.Analyzer = (*Analyzer)(nil)
var _ analyzer.BreakpointHitAnalyzer = (*Analyzer)(nil)
var _ FDCObserver = (*Analyzer)(nil)

// OnActivate requests the three page-qualified execution breakpoints.
func (a *Analyzer) OnActivate(m *analyzer.Manager) {
	a.state = StateIdle
	a.entryID = m.RequestExecutionBreakpointInPage(AddrEntry, a.RomPage, a.RomBank, "trdos")
	a.dispatchID = m.RequestExecutionBreakpointInPage(AddrDispatch, a.RomPage, a.RomBank, "trdos")
	a.exitID = m.RequestExecutionBreakpointInPage(AddrExit, a.RomPage, a.RomBank, "trdos")
}

func (a *Analyzer) OnDeactivate() {
	a.state = StateIdle
}

// OnBreakpointHit advances the state machine on the three ROM entry points.
func (a *Analyzer) OnBreakpointHit(addr uint16, bpID uint16) {
	switch bpID {
	case a.entryID:
		a.state = StateInTRDOS
		a.push(Event{Kind: EventEnteredTRDOS})
	case a.dispatchID:
		if a.state == StateInTRDOS {
			a.state = StateInCommand
		}
	case a.exitID:
		a.state = StateIdle
		a.push(Event{Kind: EventExitedTRDOS})
	}
}

// OnCommandStart / OnCommandComplete / OnSectorOpStart / OnSectorOpComplete
// implement FDCObserver, driving the IN_COMMAND <-> IN_SECTOR_OP legs of
// the state machine.
func (a *Analyzer) OnCommandStart(cmd byte) {
	if a.state == StateInTRDOS || a.state == StateInCommand {
		a.state = StateInCommand
		a.push(Event{Kind: EventCommandStarted, Command: cmd})
	}
}

func (a *Analyzer) OnCommandComplete(status byte) {
	if a.state == StateInCommand || a.state == StateInSectorOp {
		a.state = StateInTRDOS
		a.push(Event{Kind: EventCommandComplete, Status: status})
	}
}

func (a *Analyzer) OnSectorOpStart() {
	if a.state == StateInCommand {
		a.state = StateInSectorOp
		a.push(Event{Kind: EventSectorOpStarted})
	}
}

func (a *Analyzer) OnSectorOpComplete() {
	if a.state == StateInSectorOp {
		a.state = StateInCommand
		a.push(Event{Kind: EventSectorOpComplete})
	}
}

// State reports the current session state.
func (a *Analyzer) State() State { return a.state }

func (a *Analyzer) push(ev Event) {
	if a.clock != nil {
		ev.Timestamp = a.clock()
	}
	a.events[a.eventPos] = ev
	a.eventPos = (a.eventPos + 1) % eventBufferCapacity
	if a.eventPos == 0 {
		a.full = true
	}
}

// Events returns a snapshot of the recorded semantic events, oldest first.
func (a *Analyzer) Events() []Event {
	if !a.full {
		out := make([]Event, a.eventPos)
		copy(out, a.events[:a.eventPos])
		return out
	}
	out := make([]Event, 0, eventBufferCapacity)
	out = append(out, a.events[a.eventPos:]...)
	out = append(out, a.events[:a.eventPos]...)
	return out
}
