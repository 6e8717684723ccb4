// Package report formats the text reports the CLI/HTTP automation surface
// returns for bplist, memcounters, and calltrace commands (spec.md §6):
// breakpoint listings, access-counter summaries, and call-trace dumps.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alfishe/unrealcore/pkg/access"
	"github.com/alfishe/unrealcore/pkg/breakpoint"
	"github.com/alfishe/unrealcore/pkg/memory"
)

// Breakpoints renders the `#<id> [<type>] $<addr> [<kind>] [group=<name>]
// [note=<note>] [inactive]` serialization spec.md §6 names for `bplist`.
// The per-breakpoint formatting itself lives on breakpoint.Manager, which
// already needs it for its own round-trip; report just picks the group
// filter apart from the plain/grouped listing.
func Breakpoints(m *breakpoint.Manager, group string) string {
	if group == "" {
		return m.GetBreakpointListAsString("\n")
	}
	return m.GetBreakpointListAsStringByGroup(group)
}

// MemCounters renders the per-bank and per-page access counters AccessTracker
// has accumulated, the `memcounters` command's plain-text form.
func MemCounters(t *access.Tracker) string {
	var b strings.Builder
	banks := t.BankCounters()
	for i, c := range banks {
		fmt.Fprintf(&b, "bank %d: reads=%d writes=%d execs=%d\n", i, c.Reads, c.Writes, c.Executes)
	}

	pages := t.PageCounters()
	keys := make([]string, 0, len(pages))
	pageByKey := make(map[string]access.PageCounters, len(pages))
	for ref, c := range pages {
		key := pageRefString(ref)
		keys = append(keys, key)
		pageByKey[key] = c
	}
	sort.Strings(keys)
	for _, key := range keys {
		c := pageByKey[key]
		fmt.Fprintf(&b, "page %s: reads=%d writes=%d execs=%d\n", key, c.Reads, c.Writes, c.Executes)
	}
	return b.String()
}

func pageRefString(ref memory.PageRef) string {
	return fmt.Sprintf("%s%d", ref.Kind, ref.Index)
}

// CallTrace renders the most recent call-trace events, newest last, the
// `calltrace latest` command's plain-text form.
func CallTrace(buf *access.CallTraceBuffer) string {
	events := buf.Latest()
	if len(events) == 0 {
		return "(no call-trace events recorded)"
	}
	var b strings.Builder
	for _, ev := range events {
		fmt.Fprintf(&b, "%s $%04X -> $%04X\n", ev.Type, ev.M1PC, ev.Target)
	}
	return b.String()
}
