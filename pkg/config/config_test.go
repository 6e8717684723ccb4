package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultUsesSpectrumAndStandardPorts(t *testing.T) {
	cfg := Default()
	if cfg.Model != "spectrum" {
		t.Fatalf("Model = %q", cfg.Model)
	}
	if cfg.CLIBindAddr != ":8765" || cfg.HTTPBindAddr != ":8080" {
		t.Fatalf("got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "spectrum" {
		t.Fatalf("Model = %q", cfg.Model)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"model":"pentagon","http_bind_addr":":9090","features":{"profiler":true}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "pentagon" {
		t.Fatalf("Model = %q", cfg.Model)
	}
	if cfg.HTTPBindAddr != ":9090" {
		t.Fatalf("HTTPBindAddr = %q", cfg.HTTPBindAddr)
	}
	if cfg.CLIBindAddr != ":8765" {
		t.Fatalf("CLIBindAddr should still be the default, got %q", cfg.CLIBindAddr)
	}
	if !cfg.Features["profiler"] {
		t.Fatalf("Features = %+v", cfg.Features)
	}
}

func TestValidateRejectsUnknownModel(t *testing.T) {
	cfg := Default()
	cfg.Model = "commodore64"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an unknown model")
	}
}

func TestROMFileJoinsPathAndModel(t *testing.T) {
	cfg := Default()
	cfg.ROMPath = "/opt/roms"
	cfg.Model = "pentagon"
	if got := cfg.ROMFile(); got != "/opt/roms/pentagon.rom" {
		t.Fatalf("got %q", got)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	cfg.Model = "scorpion"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Model != "scorpion" {
		t.Fatalf("Model = %q", loaded.Model)
	}
}
