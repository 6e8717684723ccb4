package z80

import "github.com/alfishe/unrealcore/pkg/flags"

// execMain dispatches one already-fetched main-table opcode using the
// standard x/y/z/p/q decode scheme (x = op>>6, y = (op>>3)&7, z = op&7,
// p = y>>1, q = y&1). DD/FD substitution is transparent here: readR/writeR
// and readRP/writeRP already resolve to IX/IY and (IX+d)/(IY+d) under the
// core's current mode.
func (c *Core) execMain(op byte) int {
	x := int(op >> 6)
	y := int((op >> 3) & 7)
	z := int(op & 7)
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		return c.execMainX0(y, z, p, q)
	case 1:
		if y == 6 && z == 6 {
			c.S.Halted = true
			return 4
		}
		c.writeR(y, c.readR(z))
		return r8Cost(y, z)
	case 2:
		c.alu8(y, c.readR(z))
		return r8AluCost(z)
	default:
		return c.execMainX3(y, z, p, q)
	}
}

func r8Cost(y, z int) int {
	if y == 6 || z == 6 {
		return 7
	}
	return 4
}

func r8AluCost(z int) int {
	if z == 6 {
		return 7
	}
	return 4
}

func (c *Core) execMainX0(y, z, p, q int) int {
	switch z {
	case 0:
		switch y {
		case 0: // NOP
			return 4
		case 1: // EX AF,AF'
			c.S.exAF()
			return 4
		case 2: // DJNZ d
			d := int8(c.fetchByte())
			c.S.B--
			if c.S.B != 0 {
				c.S.PC = uint16(int32(c.S.PC) + int32(d))
				return 13
			}
			return 8
		case 3: // JR d
			d := int8(c.fetchByte())
			c.S.PC = uint16(int32(c.S.PC) + int32(d))
			c.S.LastBranchTarget = c.S.PC
			return 12
		default: // JR cc,d
			d := int8(c.fetchByte())
			if c.testCond(y - 4) {
				c.S.PC = uint16(int32(c.S.PC) + int32(d))
				c.S.LastBranchTarget = c.S.PC
				return 12
			}
			return 7
		}
	case 1:
		if q == 0 {
			nn := c.fetchWord()
			c.writeRP(p, nn)
			return 10
		}
		hl := c.readRP(2)
		rp := c.readRP(p)
		sum := uint32(hl) + uint32(rp)
		c.S.MEMPTR = hl + 1
		var f byte
		f = c.S.F & (flags.SF | flags.ZF | flags.PV)
		if (hl&0x0FFF)+(rp&0x0FFF) > 0x0FFF {
			f |= flags.HF
		}
		if sum > 0xFFFF {
			f |= flags.CF
		}
		f |= byte(sum>>8) & (flags.F3 | flags.F5)
		c.S.F = f
		c.writeRP(2, uint16(sum))
		return 11
	case 2:
		return c.execIndirectLoad(p, q)
	case 3:
		v := c.readRP(p)
		if q == 0 {
			c.writeRP(p, v+1)
		} else {
			c.writeRP(p, v-1)
		}
		return 6
	case 4:
		v := c.readR(y)
		c.S.F = (c.S.F & flags.CF) | flags.Inc(v)
		c.writeR(y, v+1)
		return r8Cost(y, y)
	case 5:
		v := c.readR(y)
		c.S.F = (c.S.F & flags.CF) | flags.Dec(v)
		c.writeR(y, v-1)
		return r8Cost(y, y)
	case 6:
		if y == 6 { // LD (HL),n / LD (IX+d),n: displacement precedes the immediate
			addr := c.indexedAddr()
			n := c.fetchByte()
			c.writeByte(addr, n)
			if c.mode != modeHL {
				return 15
			}
			return 10
		}
		n := c.fetchByte()
		c.writeR(y, n)
		return 7
	default: // z==7, the accumulator/flag-op group
		return c.execAccumOp(y)
	}
}

func (c *Core) execIndirectLoad(p, q int) int {
	switch {
	case q == 0 && p == 0: // LD (BC),A
		c.writeByte(c.S.BC(), c.S.A)
		c.S.MEMPTR = (uint16(c.S.A) << 8) | ((c.S.BC() + 1) & 0xFF)
		return 7
	case q == 0 && p == 1: // LD (DE),A
		c.writeByte(c.S.DE(), c.S.A)
		c.S.MEMPTR = (uint16(c.S.A) << 8) | ((c.S.DE() + 1) & 0xFF)
		return 7
	case q == 0 && p == 2: // LD (nn),HL
		nn := c.fetchWord()
		v := c.readRP(2)
		c.writeByte(nn, byte(v))
		c.writeByte(nn+1, byte(v>>8))
		c.S.MEMPTR = nn + 1
		return 16
	case q == 0: // LD (nn),A
		nn := c.fetchWord()
		c.writeByte(nn, c.S.A)
		c.S.MEMPTR = (uint16(c.S.A) << 8) | ((nn + 1) & 0xFF)
		return 13
	case q == 1 && p == 0: // LD A,(BC)
		c.S.A = c.readByte(c.S.BC())
		c.S.MEMPTR = c.S.BC() + 1
		return 7
	case q == 1 && p == 1: // LD A,(DE)
		c.S.A = c.readByte(c.S.DE())
		c.S.MEMPTR = c.S.DE() + 1
		return 7
	case q == 1 && p == 2: // LD HL,(nn)
		nn := c.fetchWord()
		lo := c.readByte(nn)
		hi := c.readByte(nn + 1)
		c.writeRP(2, uint16(hi)<<8|uint16(lo))
		c.S.MEMPTR = nn + 1
		return 16
	default: // LD A,(nn)
		nn := c.fetchWord()
		c.S.A = c.readByte(nn)
		c.S.MEMPTR = nn + 1
		return 13
	}
}

func (c *Core) execAccumOp(y int) int {
	switch y {
	case 0: // RLCA
		c.S.A = flags.Rlca(c.S.A)
		c.S.F = (c.S.F &^ (flags.CF | flags.NF | flags.HF | flags.F3 | flags.F5)) | (c.S.A & (flags.F3 | flags.F5))
		if c.S.A&0x01 != 0 {
			c.S.F |= flags.CF
		}
	case 1: // RRCA
		carry := c.S.A & 0x01
		c.S.A = flags.Rrca(c.S.A)
		c.S.F = (c.S.F &^ (flags.CF | flags.NF | flags.HF | flags.F3 | flags.F5)) | (c.S.A & (flags.F3 | flags.F5))
		if carry != 0 {
			c.S.F |= flags.CF
		}
	case 2: // RLA
		carryIn := c.S.F & flags.CF
		carryOut := c.S.A & 0x80
		if carryIn != 0 {
			c.S.A = (c.S.A << 1) | 1
		} else {
			c.S.A = c.S.A << 1
		}
		c.S.F = (c.S.F &^ (flags.CF | flags.NF | flags.HF | flags.F3 | flags.F5)) | (c.S.A & (flags.F3 | flags.F5))
		if carryOut != 0 {
			c.S.F |= flags.CF
		}
	case 3: // RRA
		carryIn := c.S.F & flags.CF
		carryOut := c.S.A & 0x01
		if carryIn != 0 {
			c.S.A = (c.S.A >> 1) | 0x80
		} else {
			c.S.A = c.S.A >> 1
		}
		c.S.F = (c.S.F &^ (flags.CF | flags.NF | flags.HF | flags.F3 | flags.F5)) | (c.S.A & (flags.F3 | flags.F5))
		if carryOut != 0 {
			c.S.F |= flags.CF
		}
	case 4:
		c.daa()
	case 5: // CPL
		c.S.A = ^c.S.A
		c.S.F = (c.S.F & (flags.SF | flags.ZF | flags.PV | flags.CF)) | flags.NF | flags.HF | (c.S.A & (flags.F3 | flags.F5))
	case 6: // SCF
		c.S.F = (c.S.F & (flags.SF | flags.ZF | flags.PV)) | flags.CF | (c.S.A & (flags.F3 | flags.F5))
	default: // CCF
		wasCarry := c.S.F & flags.CF
		c.S.F = (c.S.F & (flags.SF | flags.ZF | flags.PV)) | (c.S.A & (flags.F3 | flags.F5))
		if wasCarry == 0 {
			c.S.F |= flags.CF
		} else {
			c.S.F |= flags.HF
		}
	}
	return 4
}

func (c *Core) execMainX3(y, z, p, q int) int {
	switch z {
	case 0: // RET cc
		if c.testCond(y) {
			c.S.PC = c.pop()
			c.S.MEMPTR = c.S.PC
			return 11
		}
		return 5
	case 1:
		if q == 0 { // POP rp2[p]
			c.writeRP2(p, c.pop())
			return 10
		}
		switch p {
		case 0: // RET
			c.S.PC = c.pop()
			c.S.MEMPTR = c.S.PC
			return 10
		case 1: // EXX
			c.S.exx()
			return 4
		case 2: // JP (HL)/(IX)/(IY)
			c.S.PC = c.hlLike()
			return 4
		default: // LD SP,HL/IX/IY
			c.S.SP = c.hlLike()
			return 6
		}
	case 2: // JP cc,nn
		nn := c.fetchWord()
		c.S.MEMPTR = nn
		if c.testCond(y) {
			c.S.PC = nn
		}
		return 10
	case 3:
		return c.execMiscX3(y)
	case 4: // CALL cc,nn
		nn := c.fetchWord()
		c.S.MEMPTR = nn
		if c.testCond(y) {
			c.push(c.S.PC)
			c.S.PC = nn
			return 17
		}
		return 10
	case 5:
		if q == 0 { // PUSH rp2[p]
			c.push(c.readRP2(p))
			return 11
		}
		if p == 0 { // CALL nn
			nn := c.fetchWord()
			c.S.MEMPTR = nn
			c.push(c.S.PC)
			c.S.PC = nn
			return 17
		}
		// p==1,2,3 are the DD/ED/FD prefixes, already consumed in step().
		return 4
	case 6: // ALU[y] n
		n := c.fetchByte()
		c.alu8(y, n)
		return 7
	default: // RST y*8
		c.push(c.S.PC)
		c.S.PC = uint16(y) * 8
		c.S.MEMPTR = c.S.PC
		return 11
	}
}

func (c *Core) execMiscX3(y int) int {
	switch y {
	case 0: // JP nn
		nn := c.fetchWord()
		c.S.PC = nn
		c.S.MEMPTR = nn
		return 10
	case 1: // CB handled in step(); should not reach here
		return 4
	case 2: // OUT (n),A
		n := c.fetchByte()
		port := uint16(c.S.A)<<8 | uint16(n)
		c.out(port, c.S.A)
		return 11
	case 3: // IN A,(n)
		n := c.fetchByte()
		port := uint16(c.S.A)<<8 | uint16(n)
		c.S.A = c.in(port)
		c.S.MEMPTR = port + 1
		return 11
	case 4: // EX (SP),HL
		lo := c.readByte(c.S.SP)
		hi := c.readByte(c.S.SP + 1)
		v := c.hlLike()
		c.writeByte(c.S.SP, byte(v))
		c.writeByte(c.S.SP+1, byte(v>>8))
		c.setHLLike(uint16(hi)<<8 | uint16(lo))
		c.S.MEMPTR = c.hlLike()
		return 19
	case 5: // EX DE,HL — never substituted by DD/FD
		d, e := c.S.D, c.S.E
		c.S.D, c.S.E = c.S.H, c.S.L
		c.S.H, c.S.L = d, e
		return 4
	case 6: // DI
		c.S.IFF1 = false
		c.S.IFF2 = false
		return 4
	default: // EI
		c.pendingEI = true
		return 4
	}
}
