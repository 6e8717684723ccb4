// Package snapshot implements the snapshot round-trip contract (spec.md
// §6): `.z80` import (48K/128K, per-page RLE compression) and `.sna`
// import/export. A snapshot captures the full Z80 register state, border
// color, the 128K paging registers, and every RAM page; ROM identity is
// verified by page hash rather than contents, so a load against an
// incompatible ROM set fails loud instead of silently running garbage.
package snapshot

import (
	"crypto/sha256"

	"github.com/alfishe/unrealcore/pkg/memory"
	"github.com/alfishe/unrealcore/pkg/z80"
)

// Registers is a flat, serializable mirror of z80.State's architectural
// fields — the subset a snapshot file actually carries (T-state/Cycles/
// Rate/contention bookkeeping is emulator-session state, not part of the
// documented Z80 register set a snapshot round-trips).
type Registers struct {
	A, F   byte
	B, C   byte
	D, E   byte
	H, L   byte
	A_, F_ byte
	B_, C_ byte
	D_, E_ byte
	H_, L_ byte
	IX, IY uint16
	SP, PC uint16
	I, R   byte
	IFF1, IFF2 bool
	IM     byte
	Halted bool
}

// FromState captures the architectural registers out of a live Core state.
func FromState(s *z80.State) Registers {
	return Registers{
		A: s.A, F: s.F, B: s.B, C: s.C, D: s.D, E: s.E, H: s.H, L: s.L,
		A_: s.A_, F_: s.F_, B_: s.B_, C_: s.C_, D_: s.D_, E_: s.E_, H_: s.H_, L_: s.L_,
		IX: s.IX, IY: s.IY, SP: s.SP, PC: s.PC,
		I: s.I, R: s.R(), IFF1: s.IFF1, IFF2: s.IFF2, IM: s.IM, Halted: s.Halted,
	}
}

// ApplyTo writes the captured registers back into a live Core state,
// leaving session-only fields (T, Cycles, Rate, tscache) untouched.
func (r Registers) ApplyTo(s *z80.State) {
	s.A, s.F, s.B, s.C, s.D, s.E, s.H, s.L = r.A, r.F, r.B, r.C, r.D, r.E, r.H, r.L
	s.A_, s.F_, s.B_, s.C_, s.D_, s.E_, s.H_, s.L_ = r.A_, r.F_, r.B_, r.C_, r.D_, r.E_, r.H_, r.L_
	s.IX, s.IY, s.SP, s.PC = r.IX, r.IY, r.SP, r.PC
	s.I = r.I
	s.SetR(r.R)
	s.IFF1, s.IFF2, s.IM, s.Halted = r.IFF1, r.IFF2, r.IM, r.Halted
}

// Image is the in-memory, format-independent representation every loader
// produces and every saver consumes.
type Image struct {
	Registers   Registers
	BorderColor byte
	Port7FFD    byte
	Port1FFD    byte
	Is128K      bool

	// RAMPages holds one 16KB slice per populated RAM page, indexed by
	// physical page number (as the target Memory numbers its RAM pages).
	RAMPages map[int][]byte

	// ROMHash identifies the 48K (or, for Is128K, the currently paged-in)
	// ROM the image was captured against.
	ROMHash [sha256.Size]byte
}

// HashROMPage fingerprints one 16KB ROM page for the compatibility check
// a load performs before mutating emulator state.
func HashROMPage(page *[16384]byte) [sha256.Size]byte {
	return sha256.Sum256(page[:])
}

// VerifyROMCompatible reports whether mem's currently-mapped ROM page at
// bank 0 matches the hash the image was captured with. Load must refuse
// the operation (spec.md §8's "incompatible snapshot" configuration
// error) rather than apply registers/RAM against the wrong ROM.
func VerifyROMCompatible(img *Image, mem *memory.Memory) bool {
	ref, _, _ := mem.PageAt(0x0000)
	if ref.Kind != memory.KindROM {
		return false
	}
	rom := mem.ROMPage(ref.Index)
	return HashROMPage(rom) == img.ROMHash
}

// ApplyRAM writes every captured RAM page into mem.
func (img *Image) ApplyRAM(mem *memory.Memory) {
	for idx, data := range img.RAMPages {
		page := mem.RAMPage(idx)
		copy(page[:], data)
	}
}

// ApplyPaging restores the 128K paging registers. A no-op for 48K images,
// whose bank mapping never changes from power-on.
func (img *Image) ApplyPaging(mem *memory.Memory) {
	if !img.Is128K {
		return
	}
	mem.SetPort1FFD(img.Port1FFD)
	mem.SetPort7FFD(img.Port7FFD)
}

// CaptureRAM snapshots every RAM page Memory's model reports as present.
func CaptureRAM(mem *memory.Memory) map[int][]byte {
	out := make(map[int][]byte, mem.RAMPageCount())
	for i := 0; i < mem.RAMPageCount(); i++ {
		page := mem.RAMPage(i)
		cp := make([]byte, len(page))
		copy(cp, page[:])
		out[i] = cp
	}
	return out
}

// CaptureROMHash fingerprints the ROM page currently mapped at bank 0.
func CaptureROMHash(mem *memory.Memory) [sha256.Size]byte {
	ref, _, _ := mem.PageAt(0x0000)
	if ref.Kind != memory.KindROM {
		return [sha256.Size]byte{}
	}
	return HashROMPage(mem.ROMPage(ref.Index))
}
