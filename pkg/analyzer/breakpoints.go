package analyzer

import "github.com/alfishe/unrealcore/pkg/memory"

// RequestExecutionBreakpoint asks the shared BreakpointManager for an
// execution breakpoint at addr, owned by analyzerID: Deactivate(analyzerID)
// releases it automatically.
func (m *Manager) RequestExecutionBreakpoint(addr uint16, analyzerID string) uint16 {
	id := m.breakpoints.AddExecutionBreakpoint(addr)
	m.trackOwnedBreakpoint(analyzerID, id)
	return id
}

// RequestExecutionBreakpointInPage is the page-qualified form TRDOSAnalyzer
// needs: the breakpoint only fires while the named physical page is mapped
// into the given bank.
func (m *Manager) RequestExecutionBreakpointInPage(addr uint16, page memory.PageRef, bank int, analyzerID string) uint16 {
	id := m.breakpoints.AddExecutionBreakpointInPage(addr, page, bank)
	m.trackOwnedBreakpoint(analyzerID, id)
	return id
}

// RequestMemoryBreakpoint asks for a read and/or write watchpoint at addr.
func (m *Manager) RequestMemoryBreakpoint(addr uint16, onRead, onWrite bool, analyzerID string) uint16 {
	var id uint16
	switch {
	case onRead && onWrite:
		id = m.breakpoints.AddMemReadBreakpoint(addr)
		m.trackOwnedBreakpoint(analyzerID, id)
		wID := m.breakpoints.AddMemWriteBreakpoint(addr)
		m.trackOwnedBreakpoint(analyzerID, wID)
		return id
	case onRead:
		id = m.breakpoints.AddMemReadBreakpoint(addr)
	default:
		id = m.breakpoints.AddMemWriteBreakpoint(addr)
	}
	m.trackOwnedBreakpoint(analyzerID, id)
	return id
}

// ReleaseBreakpoint releases a single breakpoint early (deactivation still
// releases whatever the owner never released manually).
func (m *Manager) ReleaseBreakpoint(id uint16) {
	m.breakpoints.RemoveBreakpointByID(id)
	owner, ok := m.breakpointOwner[id]
	if !ok {
		return
	}
	delete(m.breakpointOwner, id)
	ids := m.ownerBreakpoints[owner]
	for i, existing := range ids {
		if existing == id {
			m.ownerBreakpoints[owner] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
}

func (m *Manager) trackOwnedBreakpoint(owner string, id uint16) {
	m.ownerBreakpoints[owner] = append(m.ownerBreakpoints[owner], id)
	m.breakpointOwner[id] = owner
}
