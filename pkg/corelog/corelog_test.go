package corelog

import (
	"bytes"
	"strings"
	"testing"
)

func TestWarnfIncludesTagAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "access")
	l.Warnf("bank %d out of range", 9)

	out := buf.String()
	if !strings.Contains(out, "[access]") {
		t.Fatalf("missing tag in %q", out)
	}
	if !strings.Contains(out, "WARNING") {
		t.Fatalf("missing level in %q", out)
	}
	if !strings.Contains(out, "bank 9 out of range") {
		t.Fatalf("missing message in %q", out)
	}
}

func TestErrorfUsesErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "snapshot")
	l.Errorf("load failed: %v", "bad header")

	if !strings.Contains(buf.String(), "ERROR") {
		t.Fatalf("missing level in %q", buf.String())
	}
}

func TestLevelStringer(t *testing.T) {
	if Warning.String() != "WARNING" {
		t.Fatalf("got %q", Warning.String())
	}
	if Error.String() != "ERROR" {
		t.Fatalf("got %q", Error.String())
	}
}
