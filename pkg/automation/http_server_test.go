package automation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestHTTPServer() (*HTTPServer, *Registry) {
	reg := NewRegistry()
	reg.Create("emu1", "spectrum")
	return NewHTTPServer(reg), reg
}

func TestHTTPLuaExecReturnsOutput(t *testing.T) {
	s, _ := newTestHTTPServer()
	body := strings.NewReader(`{"instance":"emu1","code":"print(21+21)"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/lua/exec", body)
	rec := httptest.NewRecorder()
	s.mux().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp execResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || strings.TrimSpace(resp.Output) != "42" {
		t.Fatalf("got %+v", resp)
	}
}

func TestHTTPLuaExecMissingCodeIsBadRequest(t *testing.T) {
	s, _ := newTestHTTPServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/lua/exec", strings.NewReader(`{"instance":"emu1"}`))
	rec := httptest.NewRecorder()
	s.mux().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHTTPPythonExecReportsUnavailable(t *testing.T) {
	s, _ := newTestHTTPServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/python/exec", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	s.mux().ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHTTPCommandEndpointDispatchesToSelectedInstance(t *testing.T) {
	s, _ := newTestHTTPServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/command", strings.NewReader(`{"instance":"emu1","command":"status"}`))
	rec := httptest.NewRecorder()
	s.mux().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(resp["response"], "emu1") {
		t.Fatalf("got %+v", resp)
	}
}
