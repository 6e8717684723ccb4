package snapshot

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/alfishe/unrealcore/pkg/memory"
)

// snaHeaderSize is the classic 48K .sna header: one byte of I, nine
// register pairs, IFF2/R/AF/SP, interrupt mode, and border color.
const snaHeaderSize = 27

// snaRAMSize is the 48K address space's RAM portion, 0x4000-0xFFFF.
const snaRAMSize = 3 * 16384

// LoadSNA parses a 48K .sna image. PC is not stored in the header — by
// .sna convention it is popped off the stack at the captured SP, and SP
// is advanced past it, matching what every .sna-writing emulator expects
// on load. A trailing 32-byte ROM hash, if present, is this module's own
// round-trip extension (real .sna files from other emulators simply omit
// it, since they never embed ROM identity) — read it when available and
// fall back to an all-zero hash (which Load treats as "skip the check")
// otherwise.
func LoadSNA(r io.Reader) (*Image, error) {
	buf := make([]byte, snaHeaderSize+snaRAMSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("snapshot: reading .sna: %w", err)
	}
	h := buf[:snaHeaderSize]

	var romHash [32]byte
	trailer := make([]byte, 32)
	if n, _ := io.ReadFull(r, trailer); n == 32 {
		romHash = [32]byte(trailer)
	}

	reg := Registers{
		I:    h[0],
		H_:   h[2], L_: h[1],
		D_:   h[4], E_: h[3],
		B_:   h[6], C_: h[5],
		A_:   h[8], F_: h[7],
		H: h[10], L: h[9],
		D: h[12], E: h[11],
		B: h[14], C: h[13],
		IY: binary.LittleEndian.Uint16(h[15:17]),
		IX: binary.LittleEndian.Uint16(h[17:19]),
		IFF2: h[19]&0x04 != 0,
		R:    h[20],
		A:    h[22], F: h[21],
		SP: binary.LittleEndian.Uint16(h[23:25]),
		IM: h[25],
	}
	reg.IFF1 = reg.IFF2
	border := h[26]

	ram := buf[snaHeaderSize:]
	img := &Image{
		Registers:   reg,
		BorderColor: border,
		RAMPages:    map[int][]byte{0: append([]byte(nil), ram[0:16384]...), 1: append([]byte(nil), ram[16384:32768]...), 2: append([]byte(nil), ram[32768:49152]...)},
		ROMHash:     romHash,
	}
	return img, nil
}

// ApplyPCFromStack pops PC off the stack at img.Registers.SP and advances
// SP by two, the .sna-specific convention LoadSNA's header can't capture
// on its own since it needs the freshly-loaded RAM to read the stack top.
func (img *Image) ApplyPCFromStack() {
	sp := img.Registers.SP
	if sp < 0x4000 {
		return
	}
	page, off := (sp-0x4000)/16384, (sp-0x4000)%16384
	data := img.RAMPages[int(page)]
	if data == nil || int(off)+1 >= len(data) {
		return
	}
	pc := uint16(data[off]) | uint16(data[off+1])<<8
	img.Registers.PC = pc
	img.Registers.SP = sp + 2
}

// SaveSNA writes a 48K .sna image: header, PC pushed back onto the stack
// (the inverse of LoadSNA's ApplyPCFromStack), then the three RAM pages.
func SaveSNA(w io.Writer, reg Registers, border byte, mem *memory.Memory) error {
	sp := reg.SP - 2
	p0, p1, p2 := mem.RAMPage(0), mem.RAMPage(1), mem.RAMPage(2)
	ram := make([]byte, snaRAMSize)
	copy(ram[0:16384], p0[:])
	copy(ram[16384:32768], p1[:])
	copy(ram[32768:49152], p2[:])

	if sp >= 0x4000 && int(sp-0x4000)+1 < len(ram) {
		off := int(sp - 0x4000)
		ram[off] = byte(reg.PC)
		ram[off+1] = byte(reg.PC >> 8)
	}

	h := make([]byte, snaHeaderSize)
	h[0] = reg.I
	h[1], h[2] = reg.L_, reg.H_
	h[3], h[4] = reg.E_, reg.D_
	h[5], h[6] = reg.C_, reg.B_
	h[7], h[8] = reg.F_, reg.A_
	h[9], h[10] = reg.L, reg.H
	h[11], h[12] = reg.E, reg.D
	h[13], h[14] = reg.C, reg.B
	binary.LittleEndian.PutUint16(h[15:17], reg.IY)
	binary.LittleEndian.PutUint16(h[17:19], reg.IX)
	if reg.IFF2 {
		h[19] = 0x04
	}
	h[20] = reg.R
	h[21], h[22] = reg.F, reg.A
	binary.LittleEndian.PutUint16(h[23:25], sp)
	h[25] = reg.IM
	h[26] = border

	romHash := CaptureROMHash(mem)

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(h); err != nil {
		return err
	}
	if _, err := bw.Write(ram); err != nil {
		return err
	}
	if _, err := bw.Write(romHash[:]); err != nil {
		return err
	}
	return bw.Flush()
}
