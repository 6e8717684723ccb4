package automation

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
)

// HTTPServer exposes the same command surface as CLIServer over JSON,
// grounded on
// original_source/core/automation/webapi/src/api/interpreter_api.cpp's
// response shape: a "success" bool plus "message"/"error"/"output" fields,
// 503 for a backend that isn't linked into this build, 400 for a malformed
// request body.
type HTTPServer struct {
	registry   *Registry
	dispatcher *Dispatcher
	interps    *interpreters
	srv        *http.Server
}

// NewHTTPServer builds a server dispatching against registry.
func NewHTTPServer(registry *Registry) *HTTPServer {
	return &HTTPServer{
		registry:   registry,
		dispatcher: NewDispatcher(registry),
		interps:    newInterpreters(),
	}
}

type execRequest struct {
	Instance string `json:"instance"`
	Code     string `json:"code"`
	Path     string `json:"path"`
}

type execResponse struct {
	Success bool   `json:"success"`
	Output  string `json:"output,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *HTTPServer) resolveInstance(id string) (*Instance, bool) {
	if id == "" {
		return s.registry.Get("1")
	}
	return s.registry.Get(id)
}

func (s *HTTPServer) handleLuaExec(w http.ResponseWriter, r *http.Request) {
	var req execRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, execResponse{Error: "malformed request body: " + err.Error()})
		return
	}
	if req.Code == "" {
		writeJSON(w, http.StatusBadRequest, execResponse{Error: "missing 'code'"})
		return
	}
	inst, ok := s.resolveInstance(req.Instance)
	if !ok {
		writeJSON(w, http.StatusNotFound, execResponse{Error: "no such instance"})
		return
	}
	bridge := s.interps.bridgeFor(inst)
	out, err := bridge.Exec(req.Code)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, execResponse{Output: out, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, execResponse{Success: true, Output: out, Message: "lua code executed successfully"})
}

func (s *HTTPServer) handleLuaFile(w http.ResponseWriter, r *http.Request) {
	var req execRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, execResponse{Error: "malformed request body: " + err.Error()})
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, execResponse{Error: "missing 'path'"})
		return
	}
	inst, ok := s.resolveInstance(req.Instance)
	if !ok {
		writeJSON(w, http.StatusNotFound, execResponse{Error: "no such instance"})
		return
	}
	bridge := s.interps.bridgeFor(inst)
	out, err := bridge.ExecFile(req.Path)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, execResponse{Output: out, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, execResponse{Success: true, Output: out, Message: "lua file executed successfully"})
}

func (s *HTTPServer) handleLuaStatus(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("instance")
	inst, ok := s.resolveInstance(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, execResponse{Error: "no such instance"})
		return
	}
	bridge := s.interps.bridgeFor(inst)
	status := "idle"
	if bridge.Busy() {
		status = "running"
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": status})
}

func (s *HTTPServer) handleLuaStop(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusServiceUnavailable, execResponse{
		Error: "lua scripts run synchronously in this build and cannot be cancelled mid-execution",
	})
}

// Python automation is never linked in this build: no CPython-embedding
// dependency is wired (go.mod lists none), matching the
// original's ENABLE_PYTHON_AUTOMATION=0 code path.
func (s *HTTPServer) handlePythonUnavailable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusServiceUnavailable, execResponse{
		Error: "Python automation not available or not enabled",
		Message: "Python automation may be disabled in build configuration",
	})
}

func (s *HTTPServer) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/lua/exec", s.handleLuaExec)
	mux.HandleFunc("/api/v1/lua/file", s.handleLuaFile)
	mux.HandleFunc("/api/v1/lua/status", s.handleLuaStatus)
	mux.HandleFunc("/api/v1/lua/stop", s.handleLuaStop)
	mux.HandleFunc("/api/v1/python/exec", s.handlePythonUnavailable)
	mux.HandleFunc("/api/v1/python/file", s.handlePythonUnavailable)
	mux.HandleFunc("/api/v1/python/status", s.handlePythonUnavailable)
	mux.HandleFunc("/api/v1/python/stop", s.handlePythonUnavailable)
	mux.HandleFunc("/api/v1/command", s.handleCommand)
	return mux
}

// handleCommand exposes the whole Dispatcher command grammar as one JSON
// endpoint, `{"instance":"...","command":"step 10"}` -> `{"response":"..."}`,
// so an HTTP-only client isn't limited to the interpreter surface.
func (s *HTTPServer) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Instance string `json:"instance"`
		Command  string `json:"command"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, execResponse{Error: "malformed request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Command) == "" {
		writeJSON(w, http.StatusBadRequest, execResponse{Error: "missing 'command'"})
		return
	}
	session := NewSession(s.registry)
	if req.Instance != "" {
		session.Select(req.Instance)
	}
	reply := s.dispatcher.Dispatch(session, req.Command)
	writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}

// Start binds addr synchronously (so a bad address is reported to the
// caller immediately) and serves requests in the background.
func (s *HTTPServer) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.srv = &http.Server{Handler: s.mux()}
	go s.srv.Serve(ln)
	return nil
}

// Stop gracefully shuts the HTTP listener down.
func (s *HTTPServer) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
