package analyzer

// SubscribeCPUStep registers a hot-path per-instruction callback, owned by
// analyzerID. Returns a subscription id for manual Unsubscribe (automatic
// cleanup happens on Deactivate regardless).
func (m *Manager) SubscribeCPUStep(fn CPUStepFunc, analyzerID string) uint64 {
	return m.subscribe(subscription{kind: subCPUStep, owner: analyzerID, cpuStep: fn})
}

func (m *Manager) SubscribeMemoryRead(fn MemoryFunc, analyzerID string) uint64 {
	return m.subscribe(subscription{kind: subMemRead, owner: analyzerID, memFn: fn})
}

func (m *Manager) SubscribeMemoryWrite(fn MemoryFunc, analyzerID string) uint64 {
	return m.subscribe(subscription{kind: subMemWrite, owner: analyzerID, memFn: fn})
}

func (m *Manager) SubscribeVideoLine(fn VideoLineFunc, analyzerID string) uint64 {
	return m.subscribe(subscription{kind: subVideoLine, owner: analyzerID, videoFn: fn})
}

func (m *Manager) SubscribeAudioSample(fn AudioSampleFunc, analyzerID string) uint64 {
	return m.subscribe(subscription{kind: subAudioSample, owner: analyzerID, audioFn: fn})
}

func (m *Manager) subscribe(sub subscription) uint64 {
	m.nextSubID++
	sub.id = m.nextSubID
	m.subscriptions = append(m.subscriptions, sub)
	m.ownerSubs[sub.owner] = append(m.ownerSubs[sub.owner], sub.id)
	return sub.id
}

// Unsubscribe removes one subscription by id.
func (m *Manager) Unsubscribe(id uint64) {
	for i, s := range m.subscriptions {
		if s.id == id {
			m.subscriptions = append(m.subscriptions[:i], m.subscriptions[i+1:]...)
			m.removeFromOwnerIndex(s.owner, id)
			return
		}
	}
}

func (m *Manager) unsubscribeAll(owner string) {
	ids := m.ownerSubs[owner]
	if len(ids) == 0 {
		return
	}
	idSet := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	kept := m.subscriptions[:0]
	for _, s := range m.subscriptions {
		if !idSet[s.id] {
			kept = append(kept, s)
		}
	}
	m.subscriptions = kept
	delete(m.ownerSubs, owner)
}

func (m *Manager) removeFromOwnerIndex(owner string, id uint64) {
	ids := m.ownerSubs[owner]
	for i, existing := range ids {
		if existing == id {
			m.ownerSubs[owner] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

// DispatchCPUStep fires every CPU-step subscriber. Called once per
// Z80Core.Step() by the scheduler's frame loop.
func (m *Manager) DispatchCPUStep(pc uint16) {
	if !m.enabled {
		return
	}
	for _, s := range m.subscriptions {
		if s.kind == subCPUStep {
			s.cpuStep(pc)
		}
	}
}

func (m *Manager) DispatchMemoryRead(addr uint16, v byte) {
	if !m.enabled {
		return
	}
	for _, s := range m.subscriptions {
		if s.kind == subMemRead {
			s.memFn(addr, v)
		}
	}
}

func (m *Manager) DispatchMemoryWrite(addr uint16, v byte) {
	if !m.enabled {
		return
	}
	for _, s := range m.subscriptions {
		if s.kind == subMemWrite {
			s.memFn(addr, v)
		}
	}
}

func (m *Manager) DispatchVideoLine(line uint16) {
	if !m.enabled {
		return
	}
	for _, s := range m.subscriptions {
		if s.kind == subVideoLine {
			s.videoFn(line)
		}
	}
}

func (m *Manager) DispatchAudioSample(left, right int16) {
	if !m.enabled {
		return
	}
	for _, s := range m.subscriptions {
		if s.kind == subAudioSample {
			s.audioFn(left, right)
		}
	}
}

// DispatchFrameStart / DispatchFrameEnd notify every active analyzer that
// implements FrameAnalyzer, in deterministic (sorted-id) order.
func (m *Manager) DispatchFrameStart() {
	if !m.enabled {
		return
	}
	for _, id := range m.activeIDs() {
		if fa, ok := m.analyzers[id].(FrameAnalyzer); ok {
			fa.OnFrameStart()
		}
	}
}

func (m *Manager) DispatchFrameEnd() {
	if !m.enabled {
		return
	}
	for _, id := range m.activeIDs() {
		if fa, ok := m.analyzers[id].(FrameAnalyzer); ok {
			fa.OnFrameEnd()
		}
	}
}

// DispatchBreakpointHit looks up the breakpoint's owning analyzer and
// invokes OnBreakpointHit on that analyzer only — never a broadcast.
func (m *Manager) DispatchBreakpointHit(addr uint16, bpID uint16) {
	if !m.enabled {
		return
	}
	owner, ok := m.breakpointOwner[bpID]
	if !ok {
		return
	}
	if bh, ok := m.analyzers[owner].(BreakpointHitAnalyzer); ok {
		bh.OnBreakpointHit(addr, bpID)
	}
}
