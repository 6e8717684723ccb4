// Command unrealcored serves the debug-instrumented Z80 execution core
// described by spec.md over telnet (pkg/automation.CLIServer) and HTTP
// (pkg/automation.HTTPServer), and the same command grammar locally via
// pkg/console when run with no subcommand. Structured the way the
// teacher's cmd/minzc/main.go lays out a cobra root command plus
// subcommands, rather than cmd/mze/main.go's single flat flag set.
package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alfishe/unrealcore/pkg/automation"
	"github.com/alfishe/unrealcore/pkg/config"
	"github.com/alfishe/unrealcore/pkg/corelog"
	"github.com/alfishe/unrealcore/pkg/console"
	"github.com/alfishe/unrealcore/pkg/version"
)

var configPath string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "unrealcored",
		Short: "Debug-instrumented ZX Spectrum-family Z80 execution core",
		Long: `unrealcored runs a headless, debug-instrumented Z80 core for one or more
ZX Spectrum-family models (48K, 128K, +3, Pentagon, Scorpion), exposing
breakpoints, memory/call-trace inspection, snapshot load/save, and scripting
over a telnet-style CLI (default :8765) and a parallel JSON HTTP API
(default :8080). Run with no subcommand to drive the same command grammar
interactively from this terminal.`,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a JSON config file")
	root.AddCommand(serveCmd(), versionCmd(), checkROMCmd())
	root.RunE = func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	}
	return root
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func serveCmd() *cobra.Command {
	var model, cliAddr, httpAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the CLI and HTTP automation servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if model != "" {
				cfg.Model = model
			}
			if cliAddr != "" {
				cfg.CLIBindAddr = cliAddr
			}
			if httpAddr != "" {
				cfg.HTTPBindAddr = httpAddr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cfg)
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "override the configured model")
	cmd.Flags().StringVar(&cliAddr, "cli-addr", "", "override the CLI telnet bind address")
	cmd.Flags().StringVar(&httpAddr, "http-addr", "", "override the HTTP bind address")
	return cmd
}

func runServe(cfg config.Config) error {
	logger := corelog.Default("unrealcored")

	registry := automation.NewRegistry()
	inst := registry.Create("emu1", cfg.Model)
	if rom, err := os.ReadFile(cfg.ROMFile()); err == nil {
		inst.Mem.LoadROM(0, rom)
	} else {
		logger.Warnf("no ROM loaded for model %s: %v (instance will run an all-NOP ROM page)", cfg.Model, err)
	}
	for name, enabled := range cfg.Features {
		inst.Features.SetFeature(name, enabled)
	}
	inst.Resume()

	cli := automation.NewCLIServer(registry, nil)
	if err := cli.Start(cfg.CLIBindAddr); err != nil {
		return fmt.Errorf("starting CLI server: %w", err)
	}
	defer cli.Stop()

	httpServer := automation.NewHTTPServer(registry)
	if err := httpServer.Start(cfg.HTTPBindAddr); err != nil {
		return fmt.Errorf("starting HTTP server: %w", err)
	}

	fmt.Printf("unrealcored %s: model=%s cli=%s http=%s\n", version.GetVersion(), cfg.Model, cfg.CLIBindAddr, cfg.HTTPBindAddr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	return httpServer.Stop(ctx)
}

func runInteractive() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	registry := automation.NewRegistry()
	inst := registry.Create("emu1", cfg.Model)
	if rom, err := os.ReadFile(cfg.ROMFile()); err == nil {
		inst.Mem.LoadROM(0, rom)
	}
	inst.Resume()

	c := console.New(registry, os.Stdin, os.Stdout, "")
	return c.Run()
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version.GetFullVersion())
			return nil
		},
	}
}

func checkROMCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-rom <file>",
		Short: "Load a ROM image and report its size and fingerprint, without starting any server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			sum := sha256.Sum256(data)
			fmt.Printf("%s: %d bytes, sha256=%x\n", args[0], len(data), sum)
			return nil
		},
	}
}
