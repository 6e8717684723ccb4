package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alfishe/unrealcore/pkg/memory"
	"github.com/alfishe/unrealcore/pkg/z80"
)

// ErrIncompatibleROM is returned by Load when the target emulator's
// currently-mapped ROM doesn't match the hash the snapshot was captured
// against — a configuration error per spec.md §8, refusing the operation
// rather than mutating emulator state against the wrong ROM.
var ErrIncompatibleROM = errors.New("snapshot: incompatible ROM")

// ErrUnsupportedFormat is returned for a file extension neither Load nor
// Save knows how to handle.
var ErrUnsupportedFormat = errors.New("snapshot: unsupported file format")

// Load reads a snapshot from path (.z80 or .sna, by extension), verifies
// ROM compatibility, and applies it to state and mem. On any error,
// state and mem are left untouched.
func Load(path string, state *z80.State, mem *memory.Memory) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var img *Image
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".z80":
		img, err = LoadZ80(f)
	case ".sna":
		img, err = LoadSNA(f)
		if err == nil {
			img.ApplyPCFromStack()
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return err
	}

	// ROM identity is verified against the currently-mapped ROM; a
	// snapshot captured with no ROM page mapped (hash is the zero value)
	// skips the check rather than refusing every file ever produced
	// before this field existed.
	if img.ROMHash != ([32]byte{}) && !VerifyROMCompatible(img, mem) {
		return ErrIncompatibleROM
	}

	img.Registers.ApplyTo(state)
	img.ApplyRAM(mem)
	img.ApplyPaging(mem)
	return nil
}

// Save writes the current emulator state to path as a 48K .sna image —
// the only export format spec.md §6 requires.
func Save(path string, state *z80.State, mem *memory.Memory, border byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reg := FromState(state)
	return SaveSNA(f, reg, border, mem)
}
