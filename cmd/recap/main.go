package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/alkime/recap/internal/config"
	"github.com/alkime/recap/internal/keyring"
	"github.com/alkime/recap/internal/lifecycle"
	"github.com/alkime/recap/internal/pipeline"
)

// CLI defines the recap command structure.
type CLI struct {
	Globals

	// Default TUI command (runs when no subcommand given)
	TUI TUICmd `cmd:"" default:"withargs" help:"Launch terminal UI to summarize an audio file"`

	// Subcommands
	Summarize SummarizeCmd `cmd:"" help:"Summarize one audio file and export the result"`
	History   HistoryCmd   `cmd:"" help:"List past results from a recap server"`
	Watch     WatchCmd     `cmd:"" help:"Summarize audio files as they appear in a directory"`
	Settings  SettingsCmd  `cmd:"" help:"Show the effective configuration"`
	Config    ConfigCmd    `cmd:"" help:"Manage configuration"`
}

// Globals are flags shared by every command. They override the environment.
type Globals struct {
	Backend    string `flag:"" optional:"" help:"Processing backend: simulated, service or direct"`
	ServiceURL string `flag:"" optional:"" name:"service-url" help:"Base URL of a recap server"`
	Verbose    bool   `flag:"" short:"v" help:"Enable debug logging"`
}

// load builds the effective configuration. API keys come from the
// environment first, then the keychain; they are only required by the
// direct backend.
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if g.Backend != "" {
		cfg.Backend = config.Backend(g.Backend)
	}
	if g.ServiceURL != "" {
		cfg.ServiceURL = g.ServiceURL
	}
	if g.Verbose {
		cfg.LogLevel = "debug"
	}

	missing := keyring.ResolveInto(cfg)
	if cfg.Backend == config.BackendDirect && len(missing) > 0 {
		return nil, fmt.Errorf("missing API keys: %s. Set via environment variables or run 'recap config set-key'",
			strings.Join(missing, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// newController wires a controller to the configured backend, publishing
// snapshots to feed when it is not nil.
func newController(
	cfg *config.Config,
	logger *slog.Logger,
	feed chan<- lifecycle.Snapshot,
) (*lifecycle.Controller, error) {
	processor, err := pipeline.FromConfig(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up processing backend: %w", err)
	}

	opts := []lifecycle.Option{lifecycle.WithLogger(logger)}
	if feed != nil {
		opts = append(opts, lifecycle.WithFeed(feed))
	}

	return lifecycle.NewController(processor, opts...), nil
}

func main() {
	// Set up text-based logger for CLI output
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli,
		kong.Name("recap"),
		kong.Description("Transcribe and summarize audio recordings."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}
