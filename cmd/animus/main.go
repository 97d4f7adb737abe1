package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/animus-cli/animus/internal/cli"
	"github.com/animus-cli/animus/internal/config"
	applog "github.com/animus-cli/animus/internal/log"
)

func main() {
	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	// Apply config defaults before parsing
	// These will be overridden by CLI flags if specified
	vars := kong.Vars{
		"config_format":     cfg.Format,
		"config_output":     cfg.Collect.Output,
		"config_hours":      strconv.Itoa(cfg.Collect.HoursBack),
		"config_max_events": strconv.Itoa(cfg.Collect.MaxEvents),
	}

	ctx := kong.Parse(&c,
		kong.Name("animus"),
		kong.Description("Collect and summarize Windows event logs for AI-assisted diagnostics\n\nSTART HERE: animus collect"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	logger, err := applog.New(applog.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	if logger != nil {
		defer logger.Sync()
	}

	globals := cli.NewGlobals(&c, cfg, logger)
	if err := ctx.Run(globals); err != nil {
		os.Exit(1)
	}
}
