// Package flags precomputes the Z80 flag-outcome tables used by pkg/z80.
//
// Each table replaces a handful of bit operations with a single array
// lookup; the tables are built once, lazily, the first time any of them is
// requested.
package flags

import "sync"

// Flag bit positions within the Z80 F register.
const (
	CF = 1 << 0 // Carry
	NF = 1 << 1 // Add/Subtract
	PV = 1 << 2 // Parity/Overflow
	F3 = 1 << 3 // Undocumented bit 3
	HF = 1 << 4 // Half carry
	F5 = 1 << 5 // Undocumented bit 5
	ZF = 1 << 6 // Zero
	SF = 1 << 7 // Sign

	PF = PV // Parity, same bit as overflow
)

var once sync.Once

var (
	logicFlags [256]byte
	incFlags   [256]byte
	decFlags   [256]byte
	addFlags   [0x20000]byte
	subFlags   [0x20000]byte
	cpFlags    [0x10000]byte
	cpf8bFlags [0x10000]byte

	rlcFlags  [256]byte
	rrcFlags  [256]byte
	rlcaTable [256]byte
	rrcaTable [256]byte
	sraFlags  [256]byte

	rolTable [256]byte
	rorTable [256]byte
	rl0Table [256]byte
	rl1Table [256]byte
	rr0Table [256]byte
	rr1Table [256]byte
)

func build() {
	buildLogic()
	buildIncDec()
	buildAddSub()
	buildCompare()
	buildRotate()
}

func parity(v byte) bool {
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v&1 == 0
}

func sz53(v byte) byte {
	var f byte
	if v == 0 {
		f |= ZF
	}
	f |= v & 0x80 // SF
	f |= v & F5
	f |= v & F3
	return f
}

func buildLogic() {
	for v := 0; v < 256; v++ {
		r := byte(v)
		f := sz53(r)
		if parity(r) {
			f |= PV
		}
		logicFlags[v] = f
	}
}

func buildIncDec() {
	for v := 0; v < 256; v++ {
		operand := byte(v)

		inc := operand + 1
		fi := sz53(inc)
		if inc == 0x80 {
			fi |= PV
		}
		if operand&0x0F == 0x0F {
			fi |= HF
		}
		incFlags[v] = fi

		dec := operand - 1
		fd := sz53(dec)
		if operand == 0x80 {
			fd |= PV
		}
		if operand&0x0F == 0 {
			fd |= HF
		}
		fd |= NF
		decFlags[v] = fd
	}
}

// buildAddSub fills add_flags/sub_flags, each indexed by (a<<8)|b|(carry<<16).
func buildAddSub() {
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			for c := 0; c < 2; c++ {
				idx := (a << 8) | b | (c << 16)

				sum := a + b + c
				r := byte(sum)
				var f byte
				f |= sz53(r)
				if (a&0x0F)+(b&0x0F)+c > 0x0F {
					f |= HF
				}
				if sum > 0xFF {
					f |= CF
				}
				if (a^b^0x80)&(a^sum)&0x80 != 0 {
					f |= PV
				}
				addFlags[idx] = f

				diff := a - b - c
				rs := byte(diff)
				var fs byte
				fs |= sz53(rs)
				fs |= NF
				if (a & 0x0F) < (b&0x0F)+c {
					fs |= HF
				}
				if diff < 0 {
					fs |= CF
				}
				if (a^b)&(a^diff)&0x80 != 0 {
					fs |= PV
				}
				subFlags[idx] = fs
			}
		}
	}
}

func buildCompare() {
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			idx := (a << 8) | b

			diff := a - b
			rs := byte(diff)
			var f byte
			if rs == 0 {
				f |= ZF
			}
			f |= rs & 0x80 // SF
			f |= NF
			if (a & 0x0F) < (b & 0x0F) {
				f |= HF
			}
			if diff < 0 {
				f |= CF
			}
			if (a^b)&(a^diff)&0x80 != 0 {
				f |= PV
			}
			// Standard CP flags use result byte for F5/F3.
			cpFlags[idx] = f | (rs & F5) | (rs & F3)

			// CPI/CPD variant: F5/F3 come from the operand (a - b - H), a Z80 quirk.
			f8 := f
			n := byte(a) - byte(b)
			if f&HF != 0 {
				n--
			}
			f8 |= n & F3
			if n&0x02 != 0 {
				f8 |= F5
			}
			cpf8bFlags[idx] = f8
		}
	}
}

func buildRotate() {
	for v := 0; v < 256; v++ {
		b := byte(v)

		// RLC: bit 7 rotates into bit 0 and into carry.
		carryOut := b >> 7
		rlc := (b << 1) | carryOut
		rolTable[v] = rlc
		frlc := sz53(rlc)
		if parity(rlc) {
			frlc |= PV
		}
		if carryOut != 0 {
			frlc |= CF
		}
		rlcFlags[v] = frlc
		rlcaTable[v] = rlc

		// RRC: bit 0 rotates into bit 7 and into carry.
		carryOut0 := b & 1
		rrc := (b >> 1) | (carryOut0 << 7)
		rorTable[v] = rrc
		frrc := sz53(rrc)
		if parity(rrc) {
			frrc |= PV
		}
		if carryOut0 != 0 {
			frrc |= CF
		}
		rrcFlags[v] = frrc
		rrcaTable[v] = rrc

		// RL through carry (two variants: carry-in 0, carry-in 1).
		rl0 := b << 1
		rl0Table[v] = rl0
		rl1 := (b << 1) | 1
		rl1Table[v] = rl1

		// RR through carry.
		rr0 := b >> 1
		rr0Table[v] = rr0
		rr1 := (b >> 1) | 0x80
		rr1Table[v] = rr1

		// SRA: bit 7 preserved (arithmetic shift).
		sra := (b >> 1) | (b & 0x80)
		fsra := sz53(sra)
		if parity(sra) {
			fsra |= PV
		}
		if b&1 != 0 {
			fsra |= CF
		}
		sraFlags[v] = fsra
	}
}

// Logic returns the flag byte for a logical-operation result (AND/OR/XOR).
func Logic(result byte) byte {
	once.Do(build)
	return logicFlags[result]
}

// Inc returns flags for INC r, given the operand BEFORE incrementing. CF is
// left to the caller since INC/DEC never touch carry.
func Inc(operand byte) byte {
	once.Do(build)
	return incFlags[operand]
}

// Dec returns flags for DEC r, given the operand BEFORE decrementing.
func Dec(operand byte) byte {
	once.Do(build)
	return decFlags[operand]
}

// Add returns full flags for an 8-bit ADD/ADC of a+b with the given carry-in (0 or 1).
func Add(a, b, carryIn byte) byte {
	once.Do(build)
	return addFlags[(int(a)<<8)|int(b)|(int(carryIn)<<16)]
}

// Sub returns full flags for an 8-bit SUB/SBC of a-b with the given carry-in (0 or 1).
func Sub(a, b, carryIn byte) byte {
	once.Do(build)
	return subFlags[(int(a)<<8)|int(b)|(int(carryIn)<<16)]
}

// Cp returns flags for CP n (compare, A untouched); F5/F3 come from the result.
func Cp(a, b byte) byte {
	once.Do(build)
	return cpFlags[(int(a)<<8)|int(b)]
}

// Cp8Block returns flags for CPI/CPD where F5/F3 come from (A - (HL) - H), per
// the documented Z80 block-compare quirk.
func Cp8Block(a, b byte) byte {
	once.Do(build)
	return cpf8bFlags[(int(a)<<8)|int(b)]
}

// Rlc returns flags for RLC r / RLC (HL).
func Rlc(operand byte) byte { once.Do(build); return rlcFlags[operand] }

// Rrc returns flags for RRC r / RRC (HL).
func Rrc(operand byte) byte { once.Do(build); return rrcFlags[operand] }

// Sra returns flags for SRA r / SRA (HL).
func Sra(operand byte) byte { once.Do(build); return sraFlags[operand] }

// Rlca returns the rotated byte for RLCA (accumulator-only rotate, flags computed by caller).
func Rlca(operand byte) byte { once.Do(build); return rlcaTable[operand] }

// Rrca returns the rotated byte for RRCA.
func Rrca(operand byte) byte { once.Do(build); return rrcaTable[operand] }

// Rol returns the rotated-left byte (RLC result table, reused by RLC r and RLCA).
func Rol(operand byte) byte { once.Do(build); return rolTable[operand] }

// Ror returns the rotated-right byte (RRC result table).
func Ror(operand byte) byte { once.Do(build); return rorTable[operand] }

// Rl0 returns the left-shifted byte with carry-in 0 (used by RL/SLA family).
func Rl0(operand byte) byte { once.Do(build); return rl0Table[operand] }

// Rl1 returns the left-shifted byte with carry-in 1.
func Rl1(operand byte) byte { once.Do(build); return rl1Table[operand] }

// Rr0 returns the right-shifted byte with carry-in 0 (used by RR/SRL family).
func Rr0(operand byte) byte { once.Do(build); return rr0Table[operand] }

// Rr1 returns the right-shifted byte with carry-in 1.
func Rr1(operand byte) byte { once.Do(build); return rr1Table[operand] }
