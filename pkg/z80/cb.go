package z80

import "github.com/alfishe/unrealcore/pkg/flags"

// execCB dispatches an unprefixed CB opcode (rotate/shift, BIT, RES, SET
// over B,C,D,E,H,L,(HL),A).
func (c *Core) execCB(op byte) int {
	x := int(op >> 6)
	y := int((op >> 3) & 7)
	z := int(op & 7)

	switch x {
	case 0: // rotate/shift
		v := c.readR(z)
		r := c.rotOp(y, v)
		c.writeR(z, r)
		return cbCost(z)
	case 1: // BIT y,r[z]
		if z == 6 {
			c.S.MEMPTR = c.S.HL()
		}
		c.testBit(y, c.readR(z), z == 6)
		if z == 6 {
			return 12
		}
		return 8
	case 2: // RES y,r[z]
		c.writeR(z, c.readR(z)&^(1<<uint(y)))
		return cbCost(z)
	default: // SET y,r[z]
		c.writeR(z, c.readR(z)|(1<<uint(y)))
		return cbCost(z)
	}
}

func cbCost(z int) int {
	if z == 6 {
		return 15
	}
	return 8
}

// testBit sets Z/PV/S/H/N for BIT n,r — the HL-indirect and indexed forms
// source F3/F5 from MEMPTR's high byte rather than the operand, the
// documented Z80 quirk spec.md §8 scenario 2 exercises.
func (c *Core) testBit(bit int, v byte, fromMemory bool) {
	mask := byte(1) << uint(bit)
	var f byte
	if v&mask == 0 {
		f |= flags.ZF | flags.PV
	}
	f |= flags.HF
	f |= c.S.F & flags.CF
	if bit == 7 && v&mask != 0 {
		f |= flags.SF
	}
	if fromMemory {
		f |= byte(c.S.MEMPTR>>8) & (flags.F3 | flags.F5)
	} else {
		f |= v & (flags.F3 | flags.F5)
	}
	c.S.F = f
}

// execIndexedCB handles the DDCB/FDCB sequence: displacement, then opcode,
// operating on (IX+d)/(IY+d) and — for the undocumented forms — also
// copying the result into a second register.
func (c *Core) execIndexedCB() (int, byte) {
	displ := int8(c.fetchByte())
	op := c.fetchM1()

	base := c.hlLike()
	addr := uint16(int32(base) + int32(displ))
	c.S.MEMPTR = addr

	x := int(op >> 6)
	y := int((op >> 3) & 7)
	z := int(op & 7)

	v := c.readByte(addr)

	switch x {
	case 0:
		r := c.rotOp(y, v)
		c.writeByte(addr, r)
		if z != 6 {
			c.writeR(z, r)
		}
		return 19, op
	case 1:
		c.testBit(y, v, true)
		return 16, op
	case 2:
		r := v &^ (1 << uint(y))
		c.writeByte(addr, r)
		if z != 6 {
			c.writeR(z, r)
		}
		return 19, op
	default:
		r := v | (1 << uint(y))
		c.writeByte(addr, r)
		if z != 6 {
			c.writeR(z, r)
		}
		return 19, op
	}
}
