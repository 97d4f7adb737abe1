package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/animus-cli/animus/internal/config"
	"github.com/animus-cli/animus/internal/eventlog"
)

// CLI is the root command structure for animus
type CLI struct {
	// Global flags
	Format  string `short:"f" default:"${config_format}" enum:"text,json" help:"Output format"`
	Quiet   bool   `short:"q" help:"Suppress non-essential output"`
	Verbose bool   `short:"v" help:"Show debug output (queries, timings, internal state)"`

	// Commands
	Collect   CollectCmd   `cmd:"" default:"withargs" help:"Collect Windows event logs into a JSON document"`
	Events    EventsCmd    `cmd:"" help:"List events from a saved collection document"`
	Status    StatusCmd    `cmd:"" help:"Show an overview of a saved collection document"`
	Summarize SummarizeCmd `cmd:"" help:"Aggregate a collection document for LLM consumption"`
	Doctor    DoctorCmd    `cmd:"" help:"Check system requirements and configuration"`
	Version   VersionCmd   `cmd:"" help:"Show version information"`
}

// Globals holds shared state for all commands
type Globals struct {
	Format  string
	Quiet   bool
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config
	Logger  *zap.Logger

	// Runner and Clock are injectable for tests; nil means the real ones
	Runner eventlog.Runner
	Clock  clock.Clock
}

// NewGlobals creates a Globals instance with config fallbacks
func NewGlobals(cli *CLI, cfg *config.Config, logger *zap.Logger) *Globals {
	g := &Globals{
		Format:  cli.Format,
		Quiet:   cli.Quiet,
		Verbose: cli.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
		Logger:  logger,
	}

	if cfg != nil {
		if !cli.Quiet && cfg.Quiet {
			g.Quiet = cfg.Quiet
		}
		if !cli.Verbose && cfg.Verbose {
			g.Verbose = cfg.Verbose
		}
	}
	if g.Logger == nil {
		g.Logger = zap.NewNop()
	}

	return g
}

func (g *Globals) runner() eventlog.Runner {
	if g.Runner != nil {
		return g.Runner
	}
	return eventlog.NewPowerShellRunner()
}

func (g *Globals) clock() clock.Clock {
	if g.Clock != nil {
		return g.Clock
	}
	return clock.New()
}

// Debug prints a debug message if verbose mode is enabled
func (g *Globals) Debug(format string, args ...interface{}) {
	if g.Verbose {
		fmt.Fprintf(g.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// Info prints a progress message unless quiet mode is enabled.
// Progress always goes to stderr so stdout stays machine-readable.
func (g *Globals) Info(format string, args ...interface{}) {
	if !g.Quiet {
		fmt.Fprintf(g.Stderr, format+"\n", args...)
	}
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "json" {
		return json.NewEncoder(globals.Stdout).Encode(map[string]string{
			"type": "version", "version": Version, "commit": Commit,
		})
	}
	_, err := fmt.Fprintf(globals.Stdout, "animus version %s (%s)\n", Version, Commit)
	return err
}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)
