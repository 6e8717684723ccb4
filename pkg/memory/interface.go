package memory

// Interface is the contract pkg/z80.Core uses to touch memory. Swapped
// atomically at frame boundaries only (spec.md §4.2) — never mid-instruction.
type Interface interface {
	// ReadByte performs a data read.
	ReadByte(addr uint16) byte
	// WriteByte performs a data write.
	WriteByte(addr uint16, v byte)
	// ReadM1 performs an opcode-fetch read (may be instrumented for
	// execute-breakpoints; increments nothing here — the R register is the
	// interpreter's concern).
	ReadM1(addr uint16) byte
	// ReadDirect bypasses contention and instrumentation entirely, for
	// debugger peeks that must not perturb tracked state.
	ReadDirect(addr uint16) byte
	// WriteDirect bypasses contention and instrumentation, honoring ROM
	// write-protection only.
	WriteDirect(addr uint16, v byte)
	// Underlying exposes the paged Memory this interface wraps, for
	// components (snapshot, analyzers) that need page-level access.
	Underlying() *Memory
}

// FastMemory is direct pointer arithmetic with no tracker calls and no
// breakpoint checks — selected when the "debugmode" feature is off.
type FastMemory struct {
	mem *Memory
}

// NewFast wraps mem for high-speed, uninstrumented access.
func NewFast(mem *Memory) *FastMemory { return &FastMemory{mem: mem} }

func (f *FastMemory) ReadByte(addr uint16) byte     { return f.mem.readRaw(addr) }
func (f *FastMemory) WriteByte(addr uint16, v byte) { f.mem.writeRaw(addr, v) }
func (f *FastMemory) ReadM1(addr uint16) byte       { return f.mem.readRaw(addr) }
func (f *FastMemory) ReadDirect(addr uint16) byte   { return f.mem.readRaw(addr) }
func (f *FastMemory) WriteDirect(addr uint16, v byte) {
	ref, _, off := f.mem.PageAt(addr)
	if ref.Kind == KindROM && f.mem.RomWriteProtected {
		return
	}
	f.mem.page(ref)[off] = v
}
func (f *FastMemory) Underlying() *Memory { return f.mem }

// DebugMemory invokes an Observer and a BreakpointChecker on every access —
// selected when the "debugmode" feature is on.
type DebugMemory struct {
	mem        *Memory
	observer   Observer
	checker    BreakpointChecker
	lastHit    bool
	lastHitID  uint16
}

// NewDebug wraps mem with instrumentation. observer and checker may be nil
// (then that stage is simply skipped).
func NewDebug(mem *Memory, observer Observer, checker BreakpointChecker) *DebugMemory {
	return &DebugMemory{mem: mem, observer: observer, checker: checker}
}

func (d *DebugMemory) notify(addr uint16, kind AccessKind) (hit bool, id uint16) {
	ref, bank, _ := d.mem.PageAt(addr)
	if d.observer != nil {
		d.observer.OnAccess(bank, ref, addr, kind)
	}
	if d.checker != nil {
		return d.checker.CheckMemory(addr, ref, bank, kind)
	}
	return false, 0xFFFF
}

func (d *DebugMemory) ReadByte(addr uint16) byte {
	d.lastHit, d.lastHitID = d.notify(addr, AccessRead)
	return d.mem.readRaw(addr)
}

func (d *DebugMemory) WriteByte(addr uint16, v byte) {
	d.lastHit, d.lastHitID = d.notify(addr, AccessWrite)
	// Matching a write breakpoint records the hit but never suppresses the
	// write itself — ROM protection (a separate mechanism) is what keeps
	// memory contents unchanged for ROM-backed banks (spec.md §8 scenario 5).
	d.mem.writeRaw(addr, v)
}

func (d *DebugMemory) ReadM1(addr uint16) byte {
	d.lastHit, d.lastHitID = d.notify(addr, AccessExecute)
	return d.mem.readRaw(addr)
}

func (d *DebugMemory) ReadDirect(addr uint16) byte   { return d.mem.readRaw(addr) }
func (d *DebugMemory) WriteDirect(addr uint16, v byte) {
	ref, _, off := d.mem.PageAt(addr)
	if ref.Kind == KindROM && d.mem.RomWriteProtected {
		return
	}
	d.mem.page(ref)[off] = v
}
func (d *DebugMemory) Underlying() *Memory { return d.mem }

// LastBreakpointHit reports the outcome of the most recent instrumented
// access, for callers that need it without re-deriving it (the Z80 core
// itself, to raise a debug event after the access completes).
func (d *DebugMemory) LastBreakpointHit() (bool, uint16) { return d.lastHit, d.lastHitID }

var (
	_ Interface = (*FastMemory)(nil)
	_ Interface = (*DebugMemory)(nil)
)
