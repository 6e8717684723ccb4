package snapshot

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/alfishe/unrealcore/pkg/memory"
	"github.com/alfishe/unrealcore/pkg/z80"
)

func newTestMemory() *memory.Memory {
	mem := memory.New("spectrum")
	mem.LoadROM(0, bytes.Repeat([]byte{0xAA}, 16384))
	return mem
}

func TestSNARoundTripPreservesRegistersAndRAM(t *testing.T) {
	mem := newTestMemory()
	fast := memory.NewFast(mem)
	fast.WriteByte(0x8000, 0x11)
	fast.WriteByte(0x8001, 0x22)

	state := z80.NewState()
	state.A, state.B, state.C = 0x42, 0x10, 0x20
	state.SP = 0x8010
	state.PC = 0x9000
	state.IX, state.IY = 0x1234, 0x5678
	state.IFF1, state.IFF2 = true, true

	path := filepath.Join(t.TempDir(), "test.sna")
	if err := Save(path, state, mem, 0x05); err != nil {
		t.Fatalf("Save: %v", err)
	}

	mem2 := newTestMemory()
	state2 := z80.NewState()
	if err := Load(path, state2, mem2); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if state2.A != 0x42 || state2.B != 0x10 || state2.C != 0x20 {
		t.Fatalf("expected registers preserved, got A=%#02x B=%#02x C=%#02x", state2.A, state2.B, state2.C)
	}
	if state2.IX != 0x1234 || state2.IY != 0x5678 {
		t.Fatalf("expected index registers preserved, got IX=%#04x IY=%#04x", state2.IX, state2.IY)
	}

	fast2 := memory.NewFast(mem2)
	if fast2.ReadByte(0x8000) != 0x11 || fast2.ReadByte(0x8001) != 0x22 {
		t.Fatal("expected RAM contents preserved across save/load")
	}
}

func TestLoadRefusesIncompatibleROM(t *testing.T) {
	mem := newTestMemory()
	state := z80.NewState()
	state.SP = 0x8010
	path := filepath.Join(t.TempDir(), "test.sna")
	if err := Save(path, state, mem, 0); err != nil {
		t.Fatalf("Save: %v", err)
	}

	otherROM := memory.New("spectrum")
	otherROM.LoadROM(0, bytes.Repeat([]byte{0xBB}, 16384)) // different ROM contents
	state2 := z80.NewState()
	if err := Load(path, state2, otherROM); err != ErrIncompatibleROM {
		t.Fatalf("expected ErrIncompatibleROM, got %v", err)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	mem := newTestMemory()
	state := z80.NewState()
	err := Load(filepath.Join(t.TempDir(), "nope.bin"), state, mem)
	if err == nil {
		t.Fatal("expected an error for an unknown extension")
	}
}

func TestDecompressZ80RLEExpandsRuns(t *testing.T) {
	compressed := []byte{0x01, 0x02, 0xED, 0xED, 0x05, 0x99, 0x03}
	out := decompressZ80RLE(compressed, false)
	expected := []byte{0x01, 0x02, 0x99, 0x99, 0x99, 0x99, 0x99, 0x03}
	if !bytes.Equal(out, expected) {
		t.Fatalf("expected %v, got %v", expected, out)
	}
}

func TestDecompressZ80RLEStopsAtEndMarker(t *testing.T) {
	compressed := []byte{0xAA, 0xBB, 0x00, 0xED, 0xED, 0x00, 0xCC}
	out := decompressZ80RLE(compressed, true)
	expected := []byte{0xAA, 0xBB}
	if !bytes.Equal(out, expected) {
		t.Fatalf("expected %v, got %v", expected, out)
	}
}
