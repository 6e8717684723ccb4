// Package memory implements the paged Z80 address space described in
// spec.md §4.2: physical RAM/ROM/cache/misc pages mapped into four 16KB
// banks, exposed through two interchangeable interfaces (fast, debug).
package memory

import "github.com/alfishe/unrealcore/pkg/platform"

const (
	pageSize  = 16384
	bankCount = 4

	maxRAMPages   = 256
	maxROMPages   = 64
	maxCachePages = 16
	maxMiscPages  = 16
)

// PageKind identifies which physical region a PageRef points into.
type PageKind int

const (
	KindRAM PageKind = iota
	KindROM
	KindCache
	KindMisc
)

func (k PageKind) String() string {
	switch k {
	case KindRAM:
		return "ram"
	case KindROM:
		return "rom"
	case KindCache:
		return "cache"
	case KindMisc:
		return "misc"
	default:
		return "unknown"
	}
}

// PageRef names a physical 16KB page.
type PageRef struct {
	Kind  PageKind
	Index int
}

// AccessKind distinguishes the three ways an address can be touched, for
// breakpoint/tracker callbacks.
type AccessKind int

const (
	AccessRead AccessKind = iota
	AccessWrite
	AccessExecute // M1 opcode fetch
)

// Observer receives every memory access the debug interface performs. The
// memory package never imports pkg/access directly — Tracker implements this
// interface to keep the dependency pointed the other way.
type Observer interface {
	OnAccess(bank int, page PageRef, addr uint16, kind AccessKind)
}

// BreakpointChecker is consulted by the debug interface on every access.
// pkg/breakpoint.Manager implements this.
type BreakpointChecker interface {
	CheckMemory(addr uint16, page PageRef, bank int, kind AccessKind) (hit bool, id uint16)
}

// Banks holds the current bank-to-page mapping plus the raw paging registers
// that produced it, so BreakpointChecker implementations can test page
// qualifiers ("does this page sit at this bank right now").
type Banks struct {
	Map      [bankCount]PageRef
	Port7FFD byte
	Port1FFD byte
}

// Memory owns all physical storage and the current bank mapping. It is
// wrapped by FastMemory or DebugMemory, never accessed directly by the
// interpreter.
type Memory struct {
	ram   [maxRAMPages][pageSize]byte
	rom   [maxROMPages][pageSize]byte
	cache [maxCachePages][pageSize]byte
	misc  [maxMiscPages][pageSize]byte

	banks Banks
	model platform.Model

	// RomWriteProtected governs whether writes to a ROM-backed bank are
	// silently dropped (true, default) or accepted for self-modifying-code
	// experiments (false).
	RomWriteProtected bool
}

// New creates a Memory configured for the named platform, with bank 0
// mapped to ROM page 0 and banks 1-3 mapped to RAM pages 0-2 (the standard
// 48K/128K power-on configuration).
func New(modelName string) *Memory {
	m := &Memory{
		model:             platform.ResolveModel(modelName),
		RomWriteProtected: true,
	}
	m.banks.Map = [bankCount]PageRef{
		{Kind: KindROM, Index: 0},
		{Kind: KindRAM, Index: 0},
		{Kind: KindRAM, Index: 1},
		{Kind: KindRAM, Index: 2},
	}
	return m
}

// Model returns the resolved platform model this Memory was configured for.
func (m *Memory) Model() platform.Model { return m.model }

// Banks returns a copy of the current bank mapping.
func (m *Memory) Banks() Banks { return m.banks }

func bankOf(addr uint16) int { return int(addr >> 14) }

// page returns a pointer to the 16KB backing array for a PageRef.
func (m *Memory) page(ref PageRef) *[pageSize]byte {
	switch ref.Kind {
	case KindRAM:
		return &m.ram[ref.Index%maxRAMPages]
	case KindROM:
		return &m.rom[ref.Index%maxROMPages]
	case KindCache:
		return &m.cache[ref.Index%maxCachePages]
	default:
		return &m.misc[ref.Index%maxMiscPages]
	}
}

// PageAt resolves the PageRef currently mapped at a Z80 address.
func (m *Memory) PageAt(addr uint16) (ref PageRef, bank int, offset uint16) {
	bank = bankOf(addr)
	return m.banks.Map[bank], bank, addr & 0x3FFF
}

func (m *Memory) readRaw(addr uint16) byte {
	ref, _, off := m.PageAt(addr)
	return m.page(ref)[off]
}

func (m *Memory) writeRaw(addr uint16, v byte) {
	ref, _, off := m.PageAt(addr)
	if ref.Kind == KindROM && m.RomWriteProtected {
		return
	}
	m.page(ref)[off] = v
}

// LoadROM copies data into the given ROM page (truncated/zero-padded to 16KB).
func (m *Memory) LoadROM(page int, data []byte) {
	n := copy(m.rom[page%maxROMPages][:], data)
	for i := n; i < pageSize; i++ {
		m.rom[page%maxROMPages][i] = 0
	}
}

// RAMPage exposes a RAM page's backing array for snapshot save/load.
func (m *Memory) RAMPage(index int) *[pageSize]byte { return &m.ram[index%maxRAMPages] }

// ROMPage exposes a ROM page's backing array (read-only use expected).
func (m *Memory) ROMPage(index int) *[pageSize]byte { return &m.rom[index%maxROMPages] }

// RAMPageCount, ROMPageCount report the configured capacity.
func (m *Memory) RAMPageCount() int { return m.model.RAMPages }
func (m *Memory) ROMPageCount() int { return m.model.ROMPages }

// SetPort7FFD applies the 128K paging register: bits 0-2 RAM page at bank 3,
// bit 3 shadow screen (does not change bank mapping by itself — the screen
// renderer consults it directly), bit 4 ROM page select, bit 5 paging lock.
func (m *Memory) SetPort7FFD(value byte) {
	if m.banks.Port7FFD&0x20 != 0 {
		return // paging locked
	}
	m.banks.Port7FFD = value

	ramPage := int(value & 0x07)
	m.banks.Map[3] = PageRef{Kind: KindRAM, Index: ramPage}

	romPage := int((value >> 4) & 0x01)
	if m.model.Has1FFD {
		romPage |= int(m.banks.Port1FFD&0x04) >> 1 // +3 extended ROM select bit
	}
	m.banks.Map[0] = PageRef{Kind: KindROM, Index: romPage}
}

// SetPort1FFD applies the +3-style secondary paging register.
func (m *Memory) SetPort1FFD(value byte) {
	if !m.model.Has1FFD {
		return
	}
	m.banks.Port1FFD = value
	// Re-derive bank 0's ROM page since the extended select bit lives here.
	m.SetPort7FFD(m.banks.Port7FFD)

	if value&0x01 != 0 {
		// +3 special paging mode maps all four banks to RAM directly;
		// out of scope for this core (§1 Non-goals), bank map left as-is
		// beyond the ROM bit above.
		return
	}
}

// MapBank directly maps a bank to an arbitrary physical page — used by
// analyzers/tests that need to force a specific ROM (e.g. TR-DOS) into a
// bank without going through the 128K paging convention.
func (m *Memory) MapBank(bank int, ref PageRef) {
	if bank < 0 || bank >= bankCount {
		return
	}
	m.banks.Map[bank] = ref
}

// IsPageMappedAt reports whether the given page is currently mapped at the
// given bank — the qualifier test spec.md §4.6 page-qualified breakpoints need.
func (m *Memory) IsPageMappedAt(ref PageRef, bank int) bool {
	if bank < 0 || bank >= bankCount {
		return false
	}
	return m.banks.Map[bank] == ref
}
