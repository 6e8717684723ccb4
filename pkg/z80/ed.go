package z80

import "github.com/alfishe/unrealcore/pkg/flags"

var imTable = [8]byte{0, 0, 1, 2, 0, 0, 1, 2}

// execED dispatches an ED-prefixed opcode. Slots with no defined ED
// instruction behave as an 8 t-state NOP, per spec.md §8's "unknown opcodes
// map to NOP-equivalents" propagation policy.
func (c *Core) execED(op byte) int {
	x := int(op >> 6)
	y := int((op >> 3) & 7)
	z := int(op & 7)

	switch {
	case x == 1:
		return c.execEDBase(y, z)
	case x == 2 && y >= 4 && z <= 3:
		return c.execEDBlock(y, z)
	default:
		return 8
	}
}

func (c *Core) execEDBase(y, z int) int {
	switch z {
	case 0: // IN r[y],(C); y==6 sets flags only
		v := c.in(c.S.BC())
		c.S.MEMPTR = c.S.BC() + 1
		c.S.F = (c.S.F & flags.CF) | flags.Logic(v)
		if y != 6 {
			c.writeR(y, v)
		}
		return 12
	case 1: // OUT (C),r[y]; y==6 outputs 0
		v := byte(0)
		if y != 6 {
			v = c.readR(y)
		}
		c.out(c.S.BC(), v)
		c.S.MEMPTR = c.S.BC() + 1
		return 12
	case 2:
		p := y >> 1
		q := y & 1
		hl := c.S.HL()
		rp := c.readRP(p)
		c.S.MEMPTR = hl + 1
		if q == 1 { // ADC HL,rp
			carry := c.S.F & flags.CF
			sum := uint32(hl) + uint32(rp) + uint32(carry)
			var f byte
			if (hl&0x0FFF)+(rp&0x0FFF)+uint16(carry) > 0x0FFF {
				f |= flags.HF
			}
			if sum > 0xFFFF {
				f |= flags.CF
			}
			if (hl^rp^0x8000)&(hl^uint16(sum))&0x8000 != 0 {
				f |= flags.PV
			}
			f |= byte(sum>>8) & (flags.SF | flags.F3 | flags.F5)
			if uint16(sum) == 0 {
				f |= flags.ZF
			}
			c.S.F = f
			c.S.SetHL(uint16(sum))
		} else { // SBC HL,rp
			carry := uint32(c.S.F & flags.CF)
			diff := uint32(hl) - uint32(rp) - carry
			var f byte
			f |= flags.NF
			if (hl & 0x0FFF) < (rp&0x0FFF)+uint16(carry) {
				f |= flags.HF
			}
			if diff > 0xFFFF {
				f |= flags.CF
			}
			if (hl^rp)&(hl^uint16(diff))&0x8000 != 0 {
				f |= flags.PV
			}
			f |= byte(diff>>8) & (flags.SF | flags.F3 | flags.F5)
			if uint16(diff) == 0 {
				f |= flags.ZF
			}
			c.S.F = f
			c.S.SetHL(uint16(diff))
		}
		return 15
	case 3:
		p := y >> 1
		q := y & 1
		nn := c.fetchWord()
		c.S.MEMPTR = nn + 1
		if q == 0 {
			v := c.readRP(p)
			c.writeByte(nn, byte(v))
			c.writeByte(nn+1, byte(v>>8))
		} else {
			lo := c.readByte(nn)
			hi := c.readByte(nn + 1)
			c.writeRP(p, uint16(hi)<<8|uint16(lo))
		}
		return 20
	case 4: // NEG
		a := c.S.A
		c.S.F = flags.Sub(0, a, 0)
		c.S.A = 0 - a
		return 8
	case 5: // RETN / RETI
		c.S.PC = c.pop()
		c.S.MEMPTR = c.S.PC
		c.S.IFF1 = c.S.IFF2
		return 14
	case 6: // IM n
		c.S.IM = imTable[y]
		return 8
	default:
		return c.execEDMisc(y)
	}
}

func (c *Core) execEDMisc(y int) int {
	switch y {
	case 0: // LD I,A
		c.S.I = c.S.A
		return 9
	case 1: // LD R,A
		c.S.SetR(c.S.A)
		return 9
	case 2: // LD A,I
		c.S.A = c.S.I
		c.S.F = (c.S.F & flags.CF) | (c.S.A & (flags.SF | flags.F3 | flags.F5))
		if c.S.A == 0 {
			c.S.F |= flags.ZF
		}
		if c.S.IFF2 {
			c.S.F |= flags.PV
		}
		return 9
	case 3: // LD A,R
		c.S.A = c.S.R()
		c.S.F = (c.S.F & flags.CF) | (c.S.A & (flags.SF | flags.F3 | flags.F5))
		if c.S.A == 0 {
			c.S.F |= flags.ZF
		}
		if c.S.IFF2 {
			c.S.F |= flags.PV
		}
		return 9
	case 4: // RRD
		addr := c.S.HL()
		m := c.readByte(addr)
		lowA := c.S.A & 0x0F
		c.S.A = (c.S.A & 0xF0) | (m & 0x0F)
		m = (lowA << 4) | (m >> 4)
		c.writeByte(addr, m)
		c.S.MEMPTR = addr + 1
		c.S.F = (c.S.F & flags.CF) | flags.Logic(c.S.A)
		return 18
	case 5: // RLD
		addr := c.S.HL()
		m := c.readByte(addr)
		lowA := c.S.A & 0x0F
		c.S.A = (c.S.A & 0xF0) | (m >> 4)
		m = (m << 4) | lowA
		c.writeByte(addr, m)
		c.S.MEMPTR = addr + 1
		c.S.F = (c.S.F & flags.CF) | flags.Logic(c.S.A)
		return 18
	default: // undefined ED NOPs (0x70/0x78 slots fold into execEDBase instead)
		return 8
	}
}

// execEDBlock implements LDI/LDD/CPI/CPD/INI/IND/OUTI/OUTD and their
// repeating R/D variants (y selects LDI-group vs LDD-group vs repeat).
func (c *Core) execEDBlock(y, z int) int {
	decrement := y == 5 || y == 7
	repeat := y == 6 || y == 7

	var t int
	switch z {
	case 0:
		t = c.blockLD(decrement)
	case 1:
		t = c.blockCP(decrement)
	case 2:
		t = c.blockIN(decrement)
	default:
		t = c.blockOUT(decrement)
	}

	if repeat && t > 0 && c.blockShouldRepeat(z) {
		c.S.PC -= 2
		c.S.MEMPTR = c.S.PC + 1
		return t + 5
	}
	return t
}

func (c *Core) blockShouldRepeat(z int) bool {
	switch z {
	case 0, 2, 3:
		return c.S.BC() != 0
	default: // CPI/CPD family repeats on BC!=0 and not yet equal
		return c.S.BC() != 0 && c.S.F&flags.ZF == 0
	}
}

func (c *Core) blockLD(decrement bool) int {
	hl, de, bc := c.S.HL(), c.S.DE(), c.S.BC()
	v := c.readByte(hl)
	c.writeByte(de, v)
	if decrement {
		hl--
		de--
	} else {
		hl++
		de++
	}
	bc--
	c.S.SetHL(hl)
	c.S.SetDE(de)
	c.S.SetBC(bc)

	n := v + c.S.A
	f := c.S.F & (flags.SF | flags.ZF | flags.CF)
	if bc != 0 {
		f |= flags.PV
	}
	f |= n & flags.F3
	if n&0x02 != 0 {
		f |= flags.F5
	}
	c.S.F = f
	return 16
}

func (c *Core) blockCP(decrement bool) int {
	hl, bc := c.S.HL(), c.S.BC()
	v := c.readByte(hl)
	if decrement {
		c.S.MEMPTR--
		hl--
	} else {
		c.S.MEMPTR++
		hl++
	}
	bc--
	c.S.SetHL(hl)
	c.S.SetBC(bc)

	f := flags.Cp8Block(c.S.A, v) &^ flags.PV
	if bc != 0 {
		f |= flags.PV
	}
	c.S.F = f
	return 16
}

func (c *Core) blockIN(decrement bool) int {
	hl := c.S.HL()
	v := c.in(c.S.BC())
	c.writeByte(hl, v)
	if decrement {
		hl--
	} else {
		hl++
	}
	c.S.SetHL(hl)
	c.S.B--

	f := flags.Dec(c.S.B+1) &^ flags.PV
	c.S.F = f
	return 16
}

func (c *Core) blockOUT(decrement bool) int {
	hl := c.S.HL()
	v := c.readByte(hl)
	c.S.B--
	c.out(c.S.BC(), v)
	if decrement {
		hl--
	} else {
		hl++
	}
	c.S.SetHL(hl)

	f := flags.Dec(c.S.B+1) &^ flags.PV
	c.S.F = f
	return 16
}
