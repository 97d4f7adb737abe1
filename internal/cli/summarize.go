package cli

import (
	"encoding/json"
	"fmt"

	"github.com/animus-cli/animus/internal/aggregate"
	"github.com/animus-cli/animus/internal/output"
)

// SummarizeCmd aggregates a collection document for LLM consumption
type SummarizeCmd struct {
	File      string `arg:"" required:"" help:"Collection document to read"`
	Output    string `short:"o" help:"Write the summary to a file instead of stdout"`
	SampleCap int    `default:"0" help:"Distinct sample messages kept per group (0 = config default)"`
}

// Run executes the summarize command
func (c *SummarizeCmd) Run(globals *Globals) error {
	doc, err := output.ReadDocument(c.File)
	if err != nil {
		return c.outputError(globals, "FILE_NOT_READABLE", err.Error())
	}

	sampleCap := c.SampleCap
	if sampleCap <= 0 {
		sampleCap = aggregate.DefaultSampleCap
		if globals.Config != nil && globals.Config.Collect.SampleCap > 0 {
			sampleCap = globals.Config.Collect.SampleCap
		}
	}

	globals.Debug("Aggregating %d events (sample cap %d)", doc.Events.Counts().TotalEvents, sampleCap)
	sum := output.NewSummaryDocument(doc, sampleCap)

	if c.Output != "" {
		if globals.Format == "json" {
			fellBack, err := output.NewWriter().WriteSummary(c.Output, sum)
			if err != nil {
				return c.outputError(globals, "WRITE_FAILED", err.Error())
			}
			if fellBack {
				emitWarning(globals, "summary failed serialization; wrote minimal document")
			}
		} else {
			if err := output.WriteTextReportFile(c.Output, sum); err != nil {
				return c.outputError(globals, "WRITE_FAILED", err.Error())
			}
		}
		globals.Info("Saved summary to %s", c.Output)
		return nil
	}

	if globals.Format == "json" {
		enc := json.NewEncoder(globals.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}
	if err := output.WriteTextReport(globals.Stdout, sum); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func (c *SummarizeCmd) outputError(globals *Globals, code, message string) error {
	return outputErrorCommon(globals, code, message)
}
