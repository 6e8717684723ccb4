package automation

// Session tracks per-client state: which Instance a `select` command bound
// this connection to, mirroring ClientSession in
// original_source/core/automation/cli/include/cli-processor.h. The CLI and
// HTTP front-ends each construct their own Session per connection/request.
type Session struct {
	registry   *Registry
	selectedID string
}

// NewSession binds a session to a registry with no instance selected yet.
func NewSession(r *Registry) *Session {
	return &Session{registry: r}
}

// Selected resolves the session's currently selected Instance, if any.
func (s *Session) Selected() (*Instance, bool) {
	if s.selectedID == "" {
		return nil, false
	}
	return s.registry.Get(s.selectedID)
}

// Select binds the session to an instance by id or list index.
func (s *Session) Select(idOrIndex string) (*Instance, bool) {
	inst, ok := s.registry.Get(idOrIndex)
	if ok {
		s.selectedID = inst.ID
	}
	return inst, ok
}
