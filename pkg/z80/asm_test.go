package z80

import "testing"

func TestAssembledLoopDecrementsAndExits(t *testing.T) {
	c, mem := newTestCore()
	load(mem, 0x8000,
		0x06, 0x05, // LD B,5
		0x10, 0xFE, // loop: DJNZ loop
		0x76, // HALT
	)
	for i := 0; i < 7; i++ { // LD B,5; five DJNZ; HALT
		c.Step()
	}
	if c.S.B != 0 {
		t.Fatalf("expected B=0 after loop, got %#02x", c.S.B)
	}
	if !c.S.Halted {
		t.Fatalf("expected CPU halted after loop exit")
	}
}

func TestAssembledCallPushesReturnAddress(t *testing.T) {
	c, mem := newTestCore()
	c.S.SP = 0xFFF0
	load(mem, 0x8000,
		0xCD, 0x03, 0x80, // CALL $8003
		0x76, // HALT
	)
	load(mem, 0x8003,
		0x3E, 0x07, // sub: LD A,7
		0xC9, // RET
	)
	c.Step() // CALL sub
	c.Step() // LD A,7
	c.Step() // RET
	if c.S.A != 7 {
		t.Fatalf("expected A=7, got %#02x", c.S.A)
	}
	if c.S.PC != 0x8003 {
		t.Fatalf("expected PC=0x8003 after RET, got %#04x", c.S.PC)
	}
	if c.S.SP != 0xFFF0 {
		t.Fatalf("expected SP restored to 0xFFF0, got %#04x", c.S.SP)
	}
}
