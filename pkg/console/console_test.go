package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alfishe/unrealcore/pkg/automation"
)

func TestRunLineDispatchesCommandsUntilExit(t *testing.T) {
	reg := automation.NewRegistry()
	reg.Create("emu1", "spectrum")

	in := strings.NewReader("select emu1\nstatus\nexit\n")
	var out bytes.Buffer

	c := New(reg, in, &out, "")
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "selected emu1") {
		t.Fatalf("missing select confirmation in %q", output)
	}
	if !strings.Contains(output, "id=emu1") {
		t.Fatalf("missing status line in %q", output)
	}
}

func TestRunLineStopsOnEOFWithoutExitCommand(t *testing.T) {
	reg := automation.NewRegistry()
	in := strings.NewReader("list\n")
	var out bytes.Buffer

	c := New(reg, in, &out, "")
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "no emulator instances") {
		t.Fatalf("got %q", out.String())
	}
}
