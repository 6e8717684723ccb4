package breakpoint

import "github.com/alfishe/unrealcore/pkg/memory"

func kindMatches(bt Type, kind memory.AccessKind) bool {
	switch bt {
	case TypeMemRead:
		return kind == memory.AccessRead
	case TypeMemWrite:
		return kind == memory.AccessWrite
	case TypeMemExecute:
		return kind == memory.AccessExecute
	default:
		return false
	}
}

func (m *Manager) pageQualifies(bp *Breakpoint, page memory.PageRef, bank int) bool {
	if !bp.HasPage {
		return true
	}
	return bp.Page == page && bp.Bank == bank
}

// CheckMemory implements memory.BreakpointChecker: consulted by
// DebugMemory on every read/write/execute, in address-bucket order.
func (m *Manager) CheckMemory(addr uint16, page memory.PageRef, bank int, kind memory.AccessKind) (bool, uint16) {
	for _, id := range m.byAddress[addr] {
		bp := m.byID[id]
		if bp == nil || !bp.Active {
			continue
		}
		if !kindMatches(bp.Type, kind) {
			continue
		}
		if !m.pageQualifies(bp, page, bank) {
			continue
		}
		m.recordHit(bp, kindName(kind))
		return true, bp.ID
	}
	return false, Invalid
}

func kindName(kind memory.AccessKind) string {
	switch kind {
	case memory.AccessRead:
		return "read"
	case memory.AccessWrite:
		return "write"
	case memory.AccessExecute:
		return "execute"
	default:
		return "unknown"
	}
}

// CheckExecution is consulted at M1 fetch time, separately from CheckMemory,
// so an execution breakpoint fires even when no memory-access breakpoint at
// the same address is active.
func (m *Manager) CheckExecution(addr uint16, page memory.PageRef, bank int) (bool, uint16) {
	for _, id := range m.byAddress[addr] {
		bp := m.byID[id]
		if bp == nil || !bp.Active || bp.Type != TypeExecution {
			continue
		}
		if !m.pageQualifies(bp, page, bank) {
			continue
		}
		m.recordHit(bp, "execute")
		return true, bp.ID
	}
	return false, Invalid
}

// CheckPortIn, CheckPortOut are consulted by the Z80 core's IN/OUT handling.
func (m *Manager) CheckPortIn(port uint16) (bool, uint16) {
	return m.checkPort(port, TypePortIn)
}
func (m *Manager) CheckPortOut(port uint16) (bool, uint16) {
	return m.checkPort(port, TypePortOut)
}

func (m *Manager) checkPort(port uint16, t Type) (bool, uint16) {
	kind := "in"
	if t == TypePortOut {
		kind = "out"
	}
	for _, id := range m.byPort[port] {
		bp := m.byID[id]
		if bp == nil || !bp.Active || bp.Type != t {
			continue
		}
		m.recordHit(bp, kind)
		return true, bp.ID
	}
	return false, Invalid
}

var _ memory.BreakpointChecker = (*Manager)(nil)
