// Package profiler implements OpcodeProfiler (spec.md §4.5): a per-opcode
// histogram and a bounded recent-trace ring buffer, driven inline by the
// interpreter's dispatch while the opcode-profiler session is capturing.
package profiler

import (
	"sort"

	"github.com/alfishe/unrealcore/pkg/access"
)

// Prefix identifies which of the seven opcode tables a histogram entry
// belongs to.
type Prefix int

const (
	PrefixNone Prefix = iota
	PrefixCB
	PrefixED
	PrefixDD
	PrefixFD
	PrefixDDCB
	PrefixFDCB
)

const prefixCount = 7

func (p Prefix) String() string {
	switch p {
	case PrefixNone:
		return ""
	case PrefixCB:
		return "CB"
	case PrefixED:
		return "ED"
	case PrefixDD:
		return "DD"
	case PrefixFD:
		return "FD"
	case PrefixDDCB:
		return "DDCB"
	case PrefixFDCB:
		return "FDCB"
	default:
		return "?"
	}
}

// TraceEntry is one dispatched opcode as recorded in the recent-trace ring
// buffer.
type TraceEntry struct {
	Prefix Prefix
	Opcode byte
	PC     uint16
}

// OpcodeCount is one row of a GetTopOpcodes result.
type OpcodeCount struct {
	Prefix   Prefix
	Opcode   byte
	Count    uint64
	Mnemonic string
}

// OpcodeProfiler owns the histogram, the recent-trace ring buffer, and the
// Stopped/Capturing/Paused session that gates both (spec.md §4.5's "profiler
// three-state machine" scenario).
type OpcodeProfiler struct {
	Session access.Session

	histogram [prefixCount][256]uint64

	recent   []TraceEntry
	capacity int
	next     int
}

// New creates an OpcodeProfiler with a recent-trace ring buffer sized
// recentCapacity (0 disables the ring buffer; the histogram still counts).
func New(recentCapacity int) *OpcodeProfiler {
	return &OpcodeProfiler{
		capacity: recentCapacity,
		recent:   make([]TraceEntry, 0, recentCapacity),
	}
}

// Record increments the histogram cell for (prefix, opcode) and pushes a
// trace entry, but only while the session is capturing. A no-op otherwise,
// so call sites can record unconditionally without checking session state
// themselves.
func (p *OpcodeProfiler) Record(prefix Prefix, opcode byte, pc uint16) {
	if !p.Session.Capturing() {
		return
	}
	p.histogram[prefix][opcode]++
	p.pushRecent(TraceEntry{Prefix: prefix, Opcode: opcode, PC: pc})
}

func (p *OpcodeProfiler) pushRecent(e TraceEntry) {
	if p.capacity == 0 {
		return
	}
	if len(p.recent) < p.capacity {
		p.recent = append(p.recent, e)
		return
	}
	p.recent[p.next] = e
	p.next = (p.next + 1) % p.capacity
}

// RecentTrace returns a snapshot of the ring buffer in chronological order
// (oldest first). Callers never get a live reference into the buffer.
func (p *OpcodeProfiler) RecentTrace() []TraceEntry {
	if len(p.recent) < p.capacity {
		out := make([]TraceEntry, len(p.recent))
		copy(out, p.recent)
		return out
	}
	out := make([]TraceEntry, 0, p.capacity)
	out = append(out, p.recent[p.next:]...)
	out = append(out, p.recent[:p.next]...)
	return out
}

// Histogram reports the raw count for one (prefix, opcode) cell.
func (p *OpcodeProfiler) Histogram(prefix Prefix, opcode byte) uint64 {
	return p.histogram[prefix][opcode]
}

// Clear drops buffered data without changing session state (spec.md §4.5's
// Clear semantics, shared with AccessTracker's two sessions).
func (p *OpcodeProfiler) Clear() {
	p.histogram = [prefixCount][256]uint64{}
	p.recent = p.recent[:0]
	p.next = 0
}

// GetTopOpcodes returns up to limit histogram entries sorted by count
// descending, each resolved to a textual mnemonic. limit <= 0 means
// unbounded. Ties break by (prefix, opcode) for deterministic output.
func (p *OpcodeProfiler) GetTopOpcodes(limit int) []OpcodeCount {
	all := make([]OpcodeCount, 0, prefixCount*256)
	for prefix := 0; prefix < prefixCount; prefix++ {
		for op := 0; op < 256; op++ {
			count := p.histogram[prefix][op]
			if count == 0 {
				continue
			}
			pr := Prefix(prefix)
			all = append(all, OpcodeCount{
				Prefix:   pr,
				Opcode:   byte(op),
				Count:    count,
				Mnemonic: Mnemonic(pr, byte(op)),
			})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		if all[i].Prefix != all[j].Prefix {
			return all[i].Prefix < all[j].Prefix
		}
		return all[i].Opcode < all[j].Opcode
	})
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
