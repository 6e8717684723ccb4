package z80

import "github.com/alfishe/unrealcore/pkg/flags"

// indexedAddr resolves the address (HL) refers to under the current prefix
// mode: HL itself, or IX/IY plus a signed displacement fetched once per
// instruction, per spec.md §4.4's prefix-decoding note.
func (c *Core) indexedAddr() uint16 {
	if c.mode == modeHL {
		return c.S.HL()
	}
	if !c.displValid {
		c.displ = int8(c.fetchByte())
		c.displValid = true
	}
	base := c.S.HL()
	if ptr := c.indexReg(); ptr != nil {
		base = *ptr
	}
	addr := uint16(int32(base) + int32(c.displ))
	c.S.MEMPTR = addr
	return addr
}

// readR/writeR implement the z-field register decode (B,C,D,E,H,L,(HL),A).
// indexed mode substitutes IXH/IXL or IYH/IYL for H/L, and (IX+d)/(IY+d) for
// (HL) — the real Z80 DD/FD substitution rule.
func (c *Core) readR(z int) byte {
	switch z {
	case 0:
		return c.S.B
	case 1:
		return c.S.C
	case 2:
		return c.S.D
	case 3:
		return c.S.E
	case 4:
		return c.regH()
	case 5:
		return c.regL()
	case 6:
		return c.readByte(c.indexedAddr())
	default:
		return c.S.A
	}
}

func (c *Core) writeR(z int, v byte) {
	switch z {
	case 0:
		c.S.B = v
	case 1:
		c.S.C = v
	case 2:
		c.S.D = v
	case 3:
		c.S.E = v
	case 4:
		c.setRegH(v)
	case 5:
		c.setRegL(v)
	case 6:
		c.writeByte(c.indexedAddr(), v)
	default:
		c.S.A = v
	}
}

func (c *Core) regH() byte {
	switch c.mode {
	case modeIX:
		return byte(c.S.IX >> 8)
	case modeIY:
		return byte(c.S.IY >> 8)
	default:
		return c.S.H
	}
}

func (c *Core) regL() byte {
	switch c.mode {
	case modeIX:
		return byte(c.S.IX)
	case modeIY:
		return byte(c.S.IY)
	default:
		return c.S.L
	}
}

func (c *Core) setRegH(v byte) {
	switch c.mode {
	case modeIX:
		c.S.IX = uint16(v)<<8 | (c.S.IX & 0xFF)
	case modeIY:
		c.S.IY = uint16(v)<<8 | (c.S.IY & 0xFF)
	default:
		c.S.H = v
	}
}

func (c *Core) setRegL(v byte) {
	switch c.mode {
	case modeIX:
		c.S.IX = (c.S.IX & 0xFF00) | uint16(v)
	case modeIY:
		c.S.IY = (c.S.IY & 0xFF00) | uint16(v)
	default:
		c.S.L = v
	}
}

// hlLike returns HL, or IX/IY in indexed mode — used by the rp-field decode
// and by instructions that reference HL directly regardless of (HL)/r
// substitution (e.g. EX DE,HL never substitutes).
func (c *Core) hlLike() uint16 {
	switch c.mode {
	case modeIX:
		return c.S.IX
	case modeIY:
		return c.S.IY
	default:
		return c.S.HL()
	}
}

func (c *Core) setHLLike(v uint16) {
	switch c.mode {
	case modeIX:
		c.S.IX = v
	case modeIY:
		c.S.IY = v
	default:
		c.S.SetHL(v)
	}
}

// readRP/writeRP implement the p-field 16-bit register-pair decode
// (BC,DE,HL,SP), substituting IX/IY for HL under a prefix.
func (c *Core) readRP(p int) uint16 {
	switch p {
	case 0:
		return c.S.BC()
	case 1:
		return c.S.DE()
	case 2:
		return c.hlLike()
	default:
		return c.S.SP
	}
}

func (c *Core) writeRP(p int, v uint16) {
	switch p {
	case 0:
		c.S.SetBC(v)
	case 1:
		c.S.SetDE(v)
	case 2:
		c.setHLLike(v)
	default:
		c.S.SP = v
	}
}

// readRP2/writeRP2 implement the PUSH/POP register-pair decode
// (BC,DE,HL,AF), also substituting IX/IY for HL.
func (c *Core) readRP2(p int) uint16 {
	if p == 3 {
		return c.S.AF()
	}
	if p == 2 {
		return c.hlLike()
	}
	return c.readRP(p)
}

func (c *Core) writeRP2(p int, v uint16) {
	if p == 3 {
		c.S.SetAF(v)
		return
	}
	if p == 2 {
		c.setHLLike(v)
		return
	}
	c.writeRP(p, v)
}

// testCond evaluates the y-field condition code (NZ,Z,NC,C,PO,PE,P,M).
func (c *Core) testCond(y int) bool {
	f := c.S.F
	switch y {
	case 0:
		return f&flags.ZF == 0
	case 1:
		return f&flags.ZF != 0
	case 2:
		return f&flags.CF == 0
	case 3:
		return f&flags.CF != 0
	case 4:
		return f&flags.PV == 0
	case 5:
		return f&flags.PV != 0
	case 6:
		return f&flags.SF == 0
	default:
		return f&flags.SF != 0
	}
}
