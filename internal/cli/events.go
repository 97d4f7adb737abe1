package cli

import (
	"encoding/json"
	"fmt"

	"github.com/animus-cli/animus/internal/domain"
	"github.com/animus-cli/animus/internal/filter"
	"github.com/animus-cli/animus/internal/output"
)

// EventsCmd lists events from a saved collection document
type EventsCmd struct {
	File     string   `arg:"" required:"" help:"Collection document to read"`
	Level    string   `short:"l" help:"Minimum severity (critical, error, warning, information, verbose)"`
	Source   []string `short:"s" help:"Restrict to source logs (can be repeated)"`
	Provider []string `help:"Restrict to provider names (can be repeated, supports * suffix)"`
	Pattern  string   `short:"p" help:"Regex pattern to match against messages"`
	Exclude  string   `short:"x" help:"Regex pattern to exclude from messages"`
	Limit    int      `default:"0" help:"Maximum events to print (0 = all)"`
}

// Run executes the events command
func (c *EventsCmd) Run(globals *Globals) error {
	doc, err := output.ReadDocument(c.File)
	if err != nil {
		return c.outputError(globals, "FILE_NOT_READABLE", err.Error())
	}

	chain, err := c.buildChain(globals)
	if err != nil {
		return err
	}

	var matched int
	var encoder *json.Encoder
	var writer *output.EventWriter
	if globals.Format == "json" {
		encoder = json.NewEncoder(globals.Stdout)
	} else {
		writer = output.NewEventWriter(globals.Stdout)
	}

	for _, rec := range doc.Events.All() {
		if !chain.Match(&rec) {
			continue
		}
		matched++
		if encoder != nil {
			if err := encoder.Encode(rec); err != nil {
				return err
			}
		} else {
			if err := writer.Write(&rec); err != nil {
				return err
			}
		}
		if c.Limit > 0 && matched >= c.Limit {
			break
		}
	}

	if globals.Format != "json" {
		fmt.Fprintf(globals.Stdout, "\n%d of %d events matched\n",
			matched, doc.Events.Counts().TotalEvents)
	}
	return nil
}

func (c *EventsCmd) buildChain(globals *Globals) (*filter.Chain, error) {
	chain := filter.NewChain()

	if c.Level != "" {
		level, ok := domain.ParseLevel(c.Level)
		if !ok {
			return nil, c.outputError(globals, "INVALID_LEVEL", fmt.Sprintf("unknown level %q", c.Level))
		}
		chain.Add(filter.NewLevelFilter(level))
	}

	if len(c.Source) > 0 {
		var sources []domain.LogSource
		for _, s := range c.Source {
			src, ok := domain.ParseLogSource(s)
			if !ok {
				return nil, c.outputError(globals, "INVALID_SOURCE", fmt.Sprintf("unknown log source %q", s))
			}
			sources = append(sources, src)
		}
		chain.Add(filter.NewSourceFilter(sources))
	}

	if len(c.Provider) > 0 {
		chain.Add(filter.NewProviderFilter(c.Provider))
	}

	if c.Pattern != "" {
		f, err := filter.NewPatternFilter(c.Pattern)
		if err != nil {
			return nil, c.outputError(globals, "INVALID_PATTERN", fmt.Sprintf("invalid regex pattern: %s", err))
		}
		chain.Add(f)
	}

	if c.Exclude != "" {
		f, err := filter.NewExcludePatternFilter(c.Exclude)
		if err != nil {
			return nil, c.outputError(globals, "INVALID_EXCLUDE_PATTERN", fmt.Sprintf("invalid exclude regex pattern: %s", err))
		}
		chain.Add(f)
	}

	return chain, nil
}

func (c *EventsCmd) outputError(globals *Globals, code, message string) error {
	return outputErrorCommon(globals, code, message)
}
