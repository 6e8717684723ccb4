// Package romprint implements ROMPrintDetector (spec.md §4.8): breakpoints
// on the 48K ROM's character-output routines, decoding every character the
// running program prints (ASCII plus BASIC keyword tokens) into a text
// history segmented into lines.
package romprint

import (
	"fmt"
	"strings"

	"github.com/alfishe/unrealcore/pkg/analyzer"
)

// ROM entry points the detector breaks on.
const (
	AddrRST10    uint16 = 0x0010 // RST 10h, PRINT-A
	AddrPrintOut uint16 = 0x0B24 // PRINT-OUT
	AddrPrintA2  uint16 = 0x0C10 // PR-ALL-2
)

// CPU is the minimal register surface the detector reads on a hit — just
// the accumulator, since that is all the ROM print routines pass the
// character to print in.
type CPU interface {
	Accumulator() byte
}

// Analyzer is ROMPrintDetector.
type Analyzer struct {
	fullHistory strings.Builder
	currentLine strings.Builder
	lines       []string

	lastReadPos  int
	lastLineIdx  int

	rst10ID, printOutID, printA2ID uint16

	cpu CPU
}

// New creates a ROMPrintDetector. cpu supplies the A register at the
// moment each breakpoint fires.
func New(cpu CPU) *Analyzer {
	return &Analyzer{cpu: cpu}
}

var _ analyzer.Analyzer = (*Analyzer)(nil)
var _ analyzer.BreakpointHitAnalyzer = (*Analyzer)(nil)

func (a *Analyzer) OnActivate(m *analyzer.Manager) {
	a.rst10ID = m.RequestExecutionBreakpoint(AddrRST10, "romprint")
	a.printOutID = m.RequestExecutionBreakpoint(AddrPrintOut, "romprint")
	a.printA2ID = m.RequestExecutionBreakpoint(AddrPrintA2, "romprint")
}

func (a *Analyzer) OnDeactivate() {}

// OnBreakpointHit captures A and appends its decoded form to the history.
func (a *Analyzer) OnBreakpointHit(addr uint16, bpID uint16) {
	if bpID != a.rst10ID && bpID != a.printOutID && bpID != a.printA2ID {
		return
	}
	if a.cpu == nil {
		return
	}
	a.recordCharacter(a.cpu.Accumulator())
}

func (a *Analyzer) recordCharacter(code byte) {
	decoded := decodeCharacter(code)
	a.fullHistory.WriteString(decoded)

	switch {
	case code == 0x0D: // CR segments a line
		a.lines = append(a.lines, a.currentLine.String())
		a.currentLine.Reset()
	case code >= 0x20:
		a.currentLine.WriteString(decoded)
	}
}

// decodeCharacter renders one Spectrum character/token code as text: plain
// ASCII verbatim, CR as a newline marker, codes >= 0xA5 as BASIC keywords,
// and anything else as a bracketed hex escape.
func decodeCharacter(code byte) string {
	if code >= 0x20 && code < 0x7F {
		return string(rune(code))
	}
	if code == 0x0D {
		return "\n"
	}
	if code >= 0xA5 {
		if kw, ok := basicKeywords[code]; ok {
			return kw
		}
	}
	return fmt.Sprintf("[0x%02X]", code)
}

// GetNewOutput returns the unread tail of the full decoded history relative
// to this caller's cursor, advancing it to the end.
func (a *Analyzer) GetNewOutput() string {
	full := a.fullHistory.String()
	if a.lastReadPos >= len(full) {
		return ""
	}
	out := full[a.lastReadPos:]
	a.lastReadPos = len(full)
	return out
}

// GetNewLines returns every CR-terminated line completed since the last
// call, advancing the line cursor.
func (a *Analyzer) GetNewLines() []string {
	if a.lastLineIdx >= len(a.lines) {
		return nil
	}
	out := append([]string(nil), a.lines[a.lastLineIdx:]...)
	a.lastLineIdx = len(a.lines)
	return out
}

// Clear drops all captured history and resets both cursors.
func (a *Analyzer) Clear() {
	a.fullHistory.Reset()
	a.currentLine.Reset()
	a.lines = nil
	a.lastReadPos = 0
	a.lastLineIdx = 0
}

var basicKeywords = map[byte]string{
	0xA5: "RND", 0xA6: "INKEY$", 0xA7: "PI", 0xA8: "FN", 0xA9: "POINT",
	0xAA: "SCREEN$", 0xAB: "ATTR", 0xAC: "AT", 0xAD: "TAB", 0xAE: "VAL$",
	0xAF: "CODE", 0xB0: "VAL", 0xB1: "LEN", 0xB2: "SIN", 0xB3: "COS",
	0xB4: "TAN", 0xB5: "ASN", 0xB6: "ACS", 0xB7: "ATN", 0xB8: "LN",
	0xB9: "EXP", 0xBA: "INT", 0xBB: "SQR", 0xBC: "SGN", 0xBD: "ABS",
	0xBE: "PEEK", 0xBF: "IN", 0xC0: "USR", 0xC1: "STR$", 0xC2: "CHR$",
	0xC3: "NOT", 0xC4: "BIN", 0xC5: "OR", 0xC6: "AND", 0xC7: "<=",
	0xC8: ">=", 0xC9: "<>", 0xCA: "LINE", 0xCB: "THEN", 0xCC: "TO",
	0xCD: "STEP", 0xCE: "DEF FN", 0xCF: "CAT", 0xD0: "FORMAT", 0xD1: "MOVE",
	0xD2: "ERASE", 0xD3: "OPEN #", 0xD4: "CLOSE #", 0xD5: "MERGE", 0xD6: "VERIFY",
	0xD7: "BEEP", 0xD8: "CIRCLE", 0xD9: "INK", 0xDA: "PAPER", 0xDB: "FLASH",
	0xDC: "BRIGHT", 0xDD: "INVERSE", 0xDE: "OVER", 0xDF: "OUT", 0xE0: "LPRINT",
	0xE1: "LLIST", 0xE2: "STOP", 0xE3: "READ", 0xE4: "DATA", 0xE5: "RESTORE",
	0xE6: "NEW", 0xE7: "BORDER", 0xE8: "CONTINUE", 0xE9: "DIM", 0xEA: "REM",
	0xEB: "FOR", 0xEC: "GO TO", 0xED: "GO SUB", 0xEE: "INPUT", 0xEF: "LOAD",
	0xF0: "LIST", 0xF1: "LET", 0xF2: "PAUSE", 0xF3: "NEXT", 0xF4: "POKE",
	0xF5: "PRINT", 0xF6: "PLOT", 0xF7: "RUN", 0xF8: "SAVE", 0xF9: "RANDOMIZE",
	0xFA: "IF", 0xFB: "CLS", 0xFC: "DRAW", 0xFD: "CLEAR", 0xFE: "RETURN",
	0xFF: "COPY",
}
