package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/animus-cli/animus/internal/config"
	"github.com/animus-cli/animus/internal/eventlog"
	"github.com/animus-cli/animus/internal/output"
)

// DoctorCmd checks system requirements and configuration
type DoctorCmd struct{}

// checkResult represents a single diagnostic check
type checkResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// doctorReport is the complete diagnostic report
type doctorReport struct {
	Type       string        `json:"type"`
	Timestamp  string        `json:"timestamp"`
	Checks     []checkResult `json:"checks"`
	AllPassed  bool          `json:"all_passed"`
	ErrorCount int           `json:"error_count"`
	WarnCount  int           `json:"warn_count"`
}

// Run executes the doctor command
func (c *DoctorCmd) Run(globals *Globals) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var checks []checkResult

	checks = append(checks, c.checkPlatform())
	checks = append(checks, c.checkPowerShell(ctx, globals))
	checks = append(checks, c.checkEventLogAccess(ctx, globals))
	checks = append(checks, c.checkConfig())
	checks = append(checks, c.checkOutputDir(globals))

	errorCount := 0
	warnCount := 0
	for _, check := range checks {
		if check.Status == "error" {
			errorCount++
		} else if check.Status == "warning" {
			warnCount++
		}
	}

	report := doctorReport{
		Type:       "doctor",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Checks:     checks,
		AllPassed:  errorCount == 0,
		ErrorCount: errorCount,
		WarnCount:  warnCount,
	}

	if globals.Format == "json" {
		return json.NewEncoder(globals.Stdout).Encode(report)
	}

	fmt.Fprintln(globals.Stdout, "animus Doctor")
	fmt.Fprintln(globals.Stdout, "=============")
	fmt.Fprintln(globals.Stdout)

	for _, check := range checks {
		var icon string
		switch check.Status {
		case "ok":
			icon = output.Render(output.Styles.Information, "✓")
		case "warning":
			icon = output.Render(output.Styles.Warning, "⚠")
		case "error":
			icon = output.Render(output.Styles.Error, "✗")
		}

		fmt.Fprintf(globals.Stdout, "%s %s\n", icon, check.Name)
		if check.Message != "" {
			fmt.Fprintf(globals.Stdout, "  %s\n", check.Message)
		}
		if check.Details != "" {
			fmt.Fprintf(globals.Stdout, "  %s\n", check.Details)
		}
	}

	fmt.Fprintln(globals.Stdout)
	if errorCount == 0 && warnCount == 0 {
		fmt.Fprintln(globals.Stdout, "All checks passed!")
	} else {
		fmt.Fprintf(globals.Stdout, "Errors: %d, Warnings: %d\n", errorCount, warnCount)
	}

	return nil
}

func (c *DoctorCmd) checkPlatform() checkResult {
	if runtime.GOOS == "windows" {
		return checkResult{
			Name:    "Platform",
			Status:  "ok",
			Message: "Windows detected",
		}
	}
	return checkResult{
		Name:    "Platform",
		Status:  "warning",
		Message: fmt.Sprintf("running on %s", runtime.GOOS),
		Details: "Event log collection targets Windows; on other platforms only saved documents can be inspected",
	}
}

func (c *DoctorCmd) checkPowerShell(ctx context.Context, globals *Globals) checkResult {
	runner, ok := globals.runner().(*eventlog.PowerShellRunner)
	if !ok {
		return checkResult{Name: "PowerShell", Status: "ok", Message: "custom runner injected"}
	}
	path, err := runner.Resolve()
	if err != nil {
		return checkResult{
			Name:    "PowerShell",
			Status:  "error",
			Message: "powershell not found in PATH",
			Details: "Install PowerShell 5.1+ or pwsh (https://aka.ms/powershell)",
		}
	}

	out, err := runner.Run(ctx, "$PSVersionTable.PSVersion.ToString()")
	if err != nil {
		return checkResult{
			Name:    "PowerShell",
			Status:  "warning",
			Message: "found but version query failed",
			Details: path,
		}
	}
	return checkResult{
		Name:    "PowerShell",
		Status:  "ok",
		Message: "version " + strings.TrimSpace(string(out)),
		Details: path,
	}
}

func (c *DoctorCmd) checkEventLogAccess(ctx context.Context, globals *Globals) checkResult {
	if runtime.GOOS != "windows" {
		return checkResult{
			Name:    "Event Log access",
			Status:  "warning",
			Message: "skipped (not Windows)",
		}
	}
	_, err := globals.runner().Run(ctx,
		"Get-WinEvent -LogName System -MaxEvents 1 -ErrorAction Stop | Out-Null; 'ok'")
	if err != nil {
		return checkResult{
			Name:    "Event Log access",
			Status:  "error",
			Message: "cannot query the System log",
			Details: err.Error(),
		}
	}
	return checkResult{
		Name:    "Event Log access",
		Status:  "ok",
		Message: "System log readable",
	}
}

func (c *DoctorCmd) checkConfig() checkResult {
	path := config.ConfigFile()
	if path == "" {
		return checkResult{
			Name:    "Config file",
			Status:  "ok",
			Message: "using defaults (no config file found)",
		}
	}
	if _, err := config.LoadFromFile(path); err != nil {
		return checkResult{
			Name:    "Config file",
			Status:  "error",
			Message: "config file exists but failed to parse",
			Details: err.Error(),
		}
	}
	return checkResult{
		Name:    "Config file",
		Status:  "ok",
		Message: path,
	}
}

func (c *DoctorCmd) checkOutputDir(globals *Globals) checkResult {
	outPath := "animus_logs.json"
	if globals.Config != nil && globals.Config.Collect.Output != "" {
		outPath = globals.Config.Collect.Output
	}
	dir := filepath.Dir(outPath)
	if dir == "." {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return checkResult{Name: "Output directory", Status: "error", Message: err.Error()}
		}
	}

	tmp, err := os.CreateTemp(dir, ".animus-doctor-*")
	if err != nil {
		return checkResult{
			Name:    "Output directory",
			Status:  "error",
			Message: "output directory is not writable",
			Details: dir,
		}
	}
	tmp.Close()
	os.Remove(tmp.Name())

	return checkResult{
		Name:    "Output directory",
		Status:  "ok",
		Message: dir,
	}
}
