package automation

import (
	"fmt"
	"sync"
)

// Registry owns every live Instance, the Go analogue of
// original_source/core/emulator/emulatormanager.h's multi-instance table:
// CLI/HTTP clients address instances by id or list index, never directly
// by pointer.
type Registry struct {
	mu        sync.Mutex
	instances map[string]*Instance
	order     []string
	nextIdx   int
}

// NewRegistry returns an empty instance registry.
func NewRegistry() *Registry {
	return &Registry{instances: make(map[string]*Instance)}
}

// Create builds and registers a new Instance for model, auto-naming it
// "emu<N>" unless id is given.
func (r *Registry) Create(id, model string) *Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == "" {
		id = fmt.Sprintf("emu%d", r.nextIdx)
	}
	r.nextIdx++
	inst := NewInstance(id, model)
	r.instances[id] = inst
	r.order = append(r.order, id)
	return inst
}

// Get resolves an id or 1-based list index to an Instance.
func (r *Registry) Get(idOrIndex string) (*Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inst, ok := r.instances[idOrIndex]; ok {
		return inst, true
	}
	var idx int
	if _, err := fmt.Sscanf(idOrIndex, "%d", &idx); err == nil && idx >= 1 && idx <= len(r.order) {
		return r.instances[r.order[idx-1]], true
	}
	return nil, false
}

// Remove unregisters an instance by id or index.
func (r *Registry) Remove(idOrIndex string) bool {
	inst, ok := r.Get(idOrIndex)
	if !ok {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.instances, inst.ID)
	for i, id := range r.order {
		if id == inst.ID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// IDs returns every registered instance id, in creation order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

// List returns every instance's status line, in creation order.
func (r *Registry) List() []string {
	r.mu.Lock()
	order := append([]string(nil), r.order...)
	instances := r.instances
	r.mu.Unlock()

	lines := make([]string, 0, len(order))
	for i, id := range order {
		if inst, ok := instances[id]; ok {
			lines = append(lines, fmt.Sprintf("%d: %s", i+1, inst.Status()))
		}
	}
	return lines
}
