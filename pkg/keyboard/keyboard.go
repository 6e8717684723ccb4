// Package keyboard implements the ZX Spectrum's 40-key matrix and the
// press/release/tap/combo/macro/type injection surface spec.md §6 names
// for the `key` CLI/HTTP command family.
package keyboard

import (
	"fmt"
	"strings"
)

// Matrix is the 8 half-row x 5 bit keyboard matrix real Spectrum hardware
// scans: bit clear = key pressed, matching the ULA's active-low convention.
// Row indices follow the standard port-0xFE half-row assignment (row 0 is
// CAPS SHIFT..V, row 7 is SPACE..B).
type Matrix [8]byte

const allReleased = 0x1F

// position locates a key name's half-row and bit within it.
type position struct {
	row byte
	bit byte
}

var keyPositions = buildKeyPositions()

func buildKeyPositions() map[string]position {
	rows := [8][5]string{
		{"caps", "z", "x", "c", "v"},
		{"a", "s", "d", "f", "g"},
		{"q", "w", "e", "r", "t"},
		{"1", "2", "3", "4", "5"},
		{"0", "9", "8", "7", "6"},
		{"p", "o", "i", "u", "y"},
		{"enter", "l", "k", "j", "h"},
		{"space", "symbol", "m", "n", "b"},
	}
	m := make(map[string]position, 40)
	for row, keys := range rows {
		for bit, name := range keys {
			m[name] = position{row: byte(row), bit: byte(bit)}
		}
	}
	// Common aliases for the non-alphanumeric legends.
	m["shift"] = m["caps"]
	m["capsshift"] = m["caps"]
	m["symbolshift"] = m["symbol"]
	m["ss"] = m["symbol"]
	m["cs"] = m["caps"]
	m["break"] = m["space"] // CAPS SHIFT + SPACE is BREAK; "break" taps SPACE, caller adds caps via combo
	return m
}

// macros maps a named key sequence to the combos that realize it, grounded
// on spec.md §6's macro list (`e_mode, g_mode, format, cat, erase, move,
// break`); each entry is approximated from the well-known CAPS SHIFT /
// SYMBOL SHIFT mode-switch conventions documented for 48K BASIC keyword
// entry, since no macro table survived the distillation.
var macros = map[string][][]string{
	"e_mode": {{"caps", "symbol"}},
	"g_mode": {{"symbol", "caps"}},
	"format": {{"caps", "symbol"}, {"0"}},
	"cat":    {{"caps", "symbol"}, {"9"}},
	"erase":  {{"caps", "symbol"}, {"7"}},
	"move":   {{"caps", "symbol"}, {"8"}},
	"break":  {{"caps", "space"}},
}

// symbolShiftChars maps a punctuation character typed via Type to the
// physical key held together with SYMBOL SHIFT to produce it.
var symbolShiftChars = map[rune]string{
	'"': "p", '\'': "7",
	',': "n", '.': "m",
	';': "o", ':': "z",
	'?': "c", '/': "v",
	'+': "k", '-': "j",
	'*': "b",
	'=': "l", '<': "r", '>': "t",
	'(': "8", ')': "9",
}

// Controller holds live matrix state plus the half-row/bit lookup the
// stepping/scheduler layer's port-0xFE IN handler reads.
type Controller struct {
	state Matrix
}

// New returns a Controller with every key released.
func New() *Controller {
	c := &Controller{}
	c.Clear()
	return c
}

// Clear releases every key.
func (c *Controller) Clear() {
	for i := range c.state {
		c.state[i] = allReleased
	}
}

// State returns the current half-row matrix, as port-0xFE's IN handler
// reads it when high bits of the address select a given half-row.
func (c *Controller) State() Matrix { return c.state }

// Press holds a key down until Release or Clear. Unknown key names are a
// no-op reported back to the caller via the bool return.
func (c *Controller) Press(name string) bool {
	pos, ok := keyPositions[strings.ToLower(name)]
	if !ok {
		return false
	}
	c.state[pos.row] &^= 1 << pos.bit
	return true
}

// Release lifts a previously pressed key.
func (c *Controller) Release(name string) bool {
	pos, ok := keyPositions[strings.ToLower(name)]
	if !ok {
		return false
	}
	c.state[pos.row] |= 1 << pos.bit
	return true
}

// Tap presses then immediately releases a key; the caller (scheduler or
// automation session) is responsible for holding it across the requested
// frame count before calling Release, since Controller itself has no
// notion of frames.
func (c *Controller) Tap(name string) bool {
	if !c.Press(name) {
		return false
	}
	c.Release(name)
	return true
}

// Combo presses every named key simultaneously, then releases them all —
// the `key combo <key1> <key2>..` command (e.g. CAPS SHIFT + 5 for cursor
// left).
func (c *Controller) Combo(names ...string) (bool, string) {
	for _, name := range names {
		if _, ok := keyPositions[strings.ToLower(name)]; !ok {
			return false, name
		}
	}
	for _, name := range names {
		c.Press(name)
	}
	for _, name := range names {
		c.Release(name)
	}
	return true, ""
}

// Macro runs a predefined key sequence by name. Returns false if the name
// isn't recognized.
func (c *Controller) Macro(name string) bool {
	seq, ok := macros[strings.ToLower(name)]
	if !ok {
		return false
	}
	for _, combo := range seq {
		c.Combo(combo...)
	}
	return true
}

// Type taps out a string of text, auto-engaging CAPS SHIFT for upper-case
// letters and SYMBOL SHIFT for the punctuation it maps. Characters with no
// known mapping are skipped and reported in the returned list.
func (c *Controller) Type(text string) []rune {
	var skipped []rune
	for _, r := range text {
		switch {
		case r == ' ':
			c.Tap("space")
		case r >= 'a' && r <= 'z':
			c.Tap(string(r))
		case r >= 'A' && r <= 'Z':
			c.Combo("caps", strings.ToLower(string(r)))
		case r >= '0' && r <= '9':
			c.Tap(string(r))
		default:
			if key, ok := symbolShiftChars[r]; ok {
				c.Combo("symbol", key)
			} else {
				skipped = append(skipped, r)
			}
		}
	}
	return skipped
}

// KnownKeys lists every recognized key name, sorted for deterministic
// `key list` output.
func KnownKeys() []string {
	names := make([]string, 0, len(keyPositions))
	for name := range keyPositions {
		names = append(names, name)
	}
	return sortStrings(names)
}

// KnownMacros lists every predefined macro name, sorted.
func KnownMacros() []string {
	names := make([]string, 0, len(macros))
	for name := range macros {
		names = append(names, name)
	}
	return sortStrings(names)
}

func sortStrings(s []string) []string {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
	return s
}

// String renders the matrix for debugging, one line per half-row.
func (m Matrix) String() string {
	var b strings.Builder
	for i, row := range m {
		fmt.Fprintf(&b, "row%d=%05b\n", i, row&0x1F)
	}
	return b.String()
}
