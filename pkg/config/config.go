// Package config loads the handful of settings this module's CLI and HTTP
// front ends need at startup: which model to emulate, where to find its
// ROM image, which features start enabled, and which addresses to bind.
// Grounded on pkg/platform/timing.go's PlatformTimings table for the set
// of valid model names, and on the teacher's cmd/mze/main.go flag-parsing
// style for precedence (flags override file values, file values override
// built-in defaults).
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alfishe/unrealcore/pkg/platform"
)

// ROMPathEnv is the environment variable original_source's ROM loader
// consults for a search path; this module keeps the same name so existing
// unreal-ng installs can point an UNREAL_NG_ROMS_PATH at this build
// unmodified.
const ROMPathEnv = "UNREAL_NG_ROMS_PATH"

// Config is the merged result of built-in defaults, an optional JSON file,
// and command-line flag overrides.
type Config struct {
	Model       string          `json:"model"`
	ROMPath     string          `json:"rom_path"`
	Features    map[string]bool `json:"features"`
	CLIBindAddr string          `json:"cli_bind_addr"`
	HTTPBindAddr string         `json:"http_bind_addr"`
}

// Default returns the built-in baseline: 48K Spectrum, ROM path from
// UNREAL_NG_ROMS_PATH (falling back to "./roms"), every feature at its
// pkg/feature.New default, CLI on :8765 and HTTP on :8080.
func Default() Config {
	romPath := os.Getenv(ROMPathEnv)
	if romPath == "" {
		romPath = "./roms"
	}
	return Config{
		Model:        "spectrum",
		ROMPath:      romPath,
		Features:     map[string]bool{},
		CLIBindAddr:  ":8765",
		HTTPBindAddr: ":8080",
	}
}

// Load reads a JSON config file and merges it over Default(). A missing
// file is not an error — callers typically pass an optional --config flag
// and should run fine on defaults alone.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config file %q: %w", path, err)
	}
	var fileCfg Config
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	cfg.mergeFrom(fileCfg)
	return cfg, nil
}

// mergeFrom overlays non-zero-value fields from other onto cfg.
func (cfg *Config) mergeFrom(other Config) {
	if other.Model != "" {
		cfg.Model = other.Model
	}
	if other.ROMPath != "" {
		cfg.ROMPath = other.ROMPath
	}
	for name, enabled := range other.Features {
		cfg.Features[name] = enabled
	}
	if other.CLIBindAddr != "" {
		cfg.CLIBindAddr = other.CLIBindAddr
	}
	if other.HTTPBindAddr != "" {
		cfg.HTTPBindAddr = other.HTTPBindAddr
	}
}

// Validate checks the model name resolves to a known platform and that
// bind addresses are present. Returns the first problem found.
func (cfg Config) Validate() error {
	if _, ok := platform.Models[cfg.Model]; !ok {
		return fmt.Errorf("unknown model %q; known models: %s", cfg.Model, knownModelNames())
	}
	if cfg.CLIBindAddr == "" {
		return fmt.Errorf("cli bind address must not be empty")
	}
	if cfg.HTTPBindAddr == "" {
		return fmt.Errorf("http bind address must not be empty")
	}
	return nil
}

func knownModelNames() string {
	names := make([]string, 0, len(platform.Models))
	for name := range platform.Models {
		names = append(names, name)
	}
	return fmt.Sprintf("%v", names)
}

// ROMFile resolves the path to model's ROM image under cfg.ROMPath,
// following original_source's "<model>.rom" naming convention.
func (cfg Config) ROMFile() string {
	return cfg.ROMPath + "/" + cfg.Model + ".rom"
}

// Save writes cfg back out as JSON, for a `config save` style round-trip.
func (cfg Config) Save(path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
