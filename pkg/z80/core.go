package z80

import (
	"github.com/alfishe/unrealcore/pkg/access"
	"github.com/alfishe/unrealcore/pkg/memory"
	"github.com/alfishe/unrealcore/pkg/profiler"
)

// Ports is the I/O bus the core talks to for IN/OUT. Unmapped ports return
// 0xFF on read per spec.md §8's "port accesses to unmapped ports" rule.
type Ports interface {
	In(port uint16) byte
	Out(port uint16, v byte)
}

// ExecutionChecker is consulted on every M1 fetch. pkg/breakpoint.Manager
// implements this.
type ExecutionChecker interface {
	CheckExecution(addr uint16, page memory.PageRef, bank int) (hit bool, id uint16)
}

// PortChecker is consulted on every IN/OUT.
type PortChecker interface {
	CheckPortIn(port uint16) (hit bool, id uint16)
	CheckPortOut(port uint16) (hit bool, id uint16)
}

// DebugEvent describes a single breakpoint match, raised after the access
// that triggered it completes, for AnalyzerManager to dispatch.
type DebugEvent struct {
	BreakpointID uint16
	Kind         string
	Address      uint16
}

// EventSink receives debug events as the core raises them.
type EventSink interface {
	OnDebugEvent(ev DebugEvent)
}

type mode int

const (
	modeHL mode = iota
	modeIX
	modeIY
)

// Core is Z80Core: a State plus the memory/port/debug surfaces it steps
// against. Nothing about the dispatch tables is safe for concurrent use;
// callers marshal access the way spec.md §5 describes.
type Core struct {
	S *State

	Mem   memory.Interface
	Ports Ports

	ExecChecker ExecutionChecker
	PortCheck   PortChecker
	CallTrace   *access.CallTraceBuffer
	Events      EventSink
	Profiler    *profiler.OpcodeProfiler

	FrameCounter uint64

	mode      mode
	displValid bool
	displ      int8

	pendingEI bool // EI delays interrupt acceptance by one instruction

	lastOpcode     byte
	lastWasED      bool
	lastWasIndexed bool
	suppressTrace  bool
}

// NewCore wires a fresh State to the given memory and port backends.
func NewCore(mem memory.Interface, ports Ports) *Core {
	return &Core{S: NewState(), Mem: mem, Ports: ports}
}

func (c *Core) indexReg() *uint16 {
	switch c.mode {
	case modeIX:
		return &c.S.IX
	case modeIY:
		return &c.S.IY
	default:
		return nil
	}
}

// fetchM1 performs an opcode-fetch machine cycle: it counts as M1 (bumps R,
// may trip an execution breakpoint) and advances PC.
func (c *Core) fetchM1() byte {
	addr := c.S.PC
	c.S.PC++
	v := c.Mem.ReadM1(addr)
	c.S.bumpR()
	c.checkExecutionBreakpoint(addr)
	return v
}

// fetchByte reads the next instruction byte as a plain operand fetch (no R
// bump, no execute-breakpoint check) — used for immediates, displacements,
// and the displacement byte inside DDCB/FDCB sequences.
func (c *Core) fetchByte() byte {
	addr := c.S.PC
	c.S.PC++
	return c.Mem.ReadByte(addr)
}

func (c *Core) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *Core) checkExecutionBreakpoint(addr uint16) {
	if c.ExecChecker == nil {
		return
	}
	ref, bank, _ := c.Mem.Underlying().PageAt(addr)
	if hit, id := c.ExecChecker.CheckExecution(addr, ref, bank); hit {
		c.raise(DebugEvent{BreakpointID: id, Kind: "execute", Address: addr})
	}
}

func (c *Core) raise(ev DebugEvent) {
	if c.Events != nil {
		c.Events.OnDebugEvent(ev)
	}
}

func (c *Core) readByte(addr uint16) byte  { return c.Mem.ReadByte(addr) }
func (c *Core) writeByte(addr uint16, v byte) { c.Mem.WriteByte(addr, v) }

func (c *Core) in(port uint16) byte {
	v := byte(0xFF)
	if c.Ports != nil {
		v = c.Ports.In(port)
	}
	if c.PortCheck != nil {
		if hit, id := c.PortCheck.CheckPortIn(port); hit {
			c.raise(DebugEvent{BreakpointID: id, Kind: "in", Address: port})
		}
	}
	return v
}

func (c *Core) out(port uint16, v byte) {
	if c.Ports != nil {
		c.Ports.Out(port, v)
	}
	if c.PortCheck != nil {
		if hit, id := c.PortCheck.CheckPortOut(port); hit {
			c.raise(DebugEvent{BreakpointID: id, Kind: "out", Address: port})
		}
	}
}

// push/pop operate through the current memory interface, honoring
// breakpoints like any other access.
func (c *Core) push(v uint16) {
	c.S.SP--
	c.writeByte(c.S.SP, byte(v>>8))
	c.S.SP--
	c.writeByte(c.S.SP, byte(v))
}

func (c *Core) pop() uint16 {
	lo := c.readByte(c.S.SP)
	c.S.SP++
	hi := c.readByte(c.S.SP)
	c.S.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// Step executes exactly one instruction (following every DD/FD/ED/CB prefix
// through to a real opcode) and returns the t-states it consumed.
func (c *Core) Step() int {
	m1pc := c.S.PC
	c.mode = modeHL
	c.displValid = false
	eiWasPending := c.pendingEI
	c.pendingEI = false

	t := c.step()

	if eiWasPending {
		c.S.IFF1 = true
		c.S.IFF2 = true
	}
	c.S.T += t
	c.S.Cycles += uint64(t)
	c.recordCallTrace(m1pc)
	return t
}

func (c *Core) recordCallTrace(m1pc uint16) {
	if c.CallTrace == nil || c.suppressTrace {
		return
	}
	ev := access.CallTraceEvent{
		M1PC:   m1pc,
		Target: c.S.PC,
		Flags:  c.S.F,
		SP:     c.S.SP,
	}
	if c.CallTrace.RecordIfControlFlow(c.lastOpcode, c.lastWasED, c.lastWasIndexed, ev, c.FrameCounter) {
		c.S.LastBranchTarget = c.S.PC
	}
}

func (c *Core) step() int {
	if c.S.Halted {
		// M1 keeps reading the HALT address; PC does not advance.
		c.S.PC--
		c.fetchM1()
		return 4
	}

	prefixBytes := 0
	var op byte
	for {
		op = c.fetchM1()
		if op == 0xDD {
			c.mode = modeIX
			prefixBytes++
			continue
		}
		if op == 0xFD {
			c.mode = modeIY
			prefixBytes++
			continue
		}
		break
	}
	overhead := 4 * prefixBytes
	c.lastWasIndexed = prefixBytes > 0
	c.lastWasED = false
	c.suppressTrace = false

	switch op {
	case 0xCB:
		c.suppressTrace = true // CB-space opcodes never classify as control flow
		if c.mode != modeHL {
			// The CB byte here is a sequence continuation, not its own M1
			// fetch: cancel the bump fetchM1 gave it inside the prefix loop
			// above, so DDCB/FDCB ends up with exactly two R increments.
			c.S.rLow = (c.S.rLow - 1) & 0x7F
			t, op2 := c.execIndexedCB()
			c.recordOpcode(indexedCBPrefix(c.mode), op2)
			return overhead + t
		}
		op2 := c.fetchM1()
		c.recordOpcode(profiler.PrefixCB, op2)
		return overhead + c.execCB(op2)
	case 0xED:
		op2 := c.fetchM1()
		c.lastOpcode = op2
		c.lastWasED = true
		c.recordOpcode(profiler.PrefixED, op2)
		return overhead + c.execED(op2)
	default:
		c.lastOpcode = op
		c.recordOpcode(mainPrefix(c.mode), op)
		return overhead + c.execMain(op)
	}
}

func mainPrefix(m mode) profiler.Prefix {
	switch m {
	case modeIX:
		return profiler.PrefixDD
	case modeIY:
		return profiler.PrefixFD
	default:
		return profiler.PrefixNone
	}
}

func indexedCBPrefix(m mode) profiler.Prefix {
	if m == modeIY {
		return profiler.PrefixFDCB
	}
	return profiler.PrefixDDCB
}

func (c *Core) recordOpcode(prefix profiler.Prefix, op byte) {
	if c.Profiler == nil {
		return
	}
	c.Profiler.Record(prefix, op, c.S.PC)
}
