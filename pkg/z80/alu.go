package z80

import "github.com/alfishe/unrealcore/pkg/flags"

// alu8 applies one of the eight ALU operations (ADD,ADC,SUB,SBC,AND,XOR,OR,CP)
// selected by the y-field to A and operand, updating A and F (CP leaves A
// untouched).
func (c *Core) alu8(y int, operand byte) {
	a := c.S.A
	switch y {
	case 0: // ADD
		c.S.F = flags.Add(a, operand, 0)
		c.S.A = a + operand
	case 1: // ADC
		carry := c.S.F & flags.CF
		c.S.F = flags.Add(a, operand, carry)
		c.S.A = a + operand + carry
	case 2: // SUB
		c.S.F = flags.Sub(a, operand, 0)
		c.S.A = a - operand
	case 3: // SBC
		carry := c.S.F & flags.CF
		c.S.F = flags.Sub(a, operand, carry)
		c.S.A = a - operand - carry
	case 4: // AND
		c.S.A = a & operand
		c.S.F = flags.Logic(c.S.A) | flags.HF
	case 5: // XOR
		c.S.A = a ^ operand
		c.S.F = flags.Logic(c.S.A)
	case 6: // OR
		c.S.A = a | operand
		c.S.F = flags.Logic(c.S.A)
	case 7: // CP
		c.S.F = flags.Cp(a, operand)
	}
}

// rotOp applies one of the eight CB-group shift/rotate operations to
// operand, returning the result and updating F.
func (c *Core) rotOp(y int, operand byte) byte {
	carryIn := c.S.F & flags.CF
	switch y {
	case 0: // RLC
		c.S.F = flags.Rlc(operand)
		return flags.Rol(operand)
	case 1: // RRC
		c.S.F = flags.Rrc(operand)
		return flags.Ror(operand)
	case 2: // RL
		var result byte
		if carryIn != 0 {
			result = flags.Rl1(operand)
		} else {
			result = flags.Rl0(operand)
		}
		c.S.F = flags.Logic(result)
		if operand&0x80 != 0 {
			c.S.F |= flags.CF
		}
		return result
	case 3: // RR
		var result byte
		if carryIn != 0 {
			result = flags.Rr1(operand)
		} else {
			result = flags.Rr0(operand)
		}
		c.S.F = flags.Logic(result)
		if operand&0x01 != 0 {
			c.S.F |= flags.CF
		}
		return result
	case 4: // SLA
		result := flags.Rl0(operand)
		c.S.F = flags.Logic(result)
		if operand&0x80 != 0 {
			c.S.F |= flags.CF
		}
		return result
	case 5: // SRA
		c.S.F = flags.Sra(operand)
		return (operand >> 1) | (operand & 0x80)
	case 6: // SLL (undocumented: shift left, bit 0 forced to 1)
		result := flags.Rl1(operand)
		c.S.F = flags.Logic(result)
		if operand&0x80 != 0 {
			c.S.F |= flags.CF
		}
		return result
	default: // SRL
		result := flags.Rr0(operand)
		c.S.F = flags.Logic(result)
		if operand&0x01 != 0 {
			c.S.F |= flags.CF
		}
		return result
	}
}

// daa implements DAA: BCD-correct A after an ADD/ADC/SUB/SBC, per the
// documented correction table (driven off N, H and C rather than a lookup
// table, matching the common software implementation).
func (c *Core) daa() {
	a := c.S.A
	correction := byte(0)
	carry := c.S.F&flags.CF != 0
	half := c.S.F&flags.HF != 0
	subtract := c.S.F&flags.NF != 0

	if half || a&0x0F > 9 {
		correction |= 0x06
	}
	if carry || a > 0x99 {
		correction |= 0x60
		carry = true
	}

	if subtract {
		if half && a&0x0F < 6 {
			c.S.F = (c.S.F &^ flags.HF)
		}
		a -= correction
	} else {
		if a&0x0F > 9 {
			c.S.F |= flags.HF
		} else {
			c.S.F &^= flags.HF
		}
		a += correction
	}

	c.S.A = a
	c.S.F = (c.S.F &^ (flags.ZF | flags.SF | flags.PV | flags.F3 | flags.F5)) | flags.Logic(a)
	if carry {
		c.S.F |= flags.CF
	} else {
		c.S.F &^= flags.CF
	}
}
