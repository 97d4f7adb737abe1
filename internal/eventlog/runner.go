package eventlog

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrPowerShellNotFound indicates the event subsystem cannot be reached at
// all. It is the only per-run failure treated as fatal; everything else
// degrades per source.
var ErrPowerShellNotFound = errors.New("powershell not found in PATH")

// Runner executes one script against the host event-log facility and
// returns its raw output
type Runner interface {
	Run(ctx context.Context, script string) ([]byte, error)
}

// PowerShellRunner invokes powershell.exe (or pwsh) with an inline command
type PowerShellRunner struct {
	exe string

	// OnStderrLine, when set, receives trimmed stderr lines for diagnostics
	OnStderrLine func(line string)
}

// NewPowerShellRunner creates a runner; the executable is resolved lazily
// so construction never fails
func NewPowerShellRunner() *PowerShellRunner {
	return &PowerShellRunner{}
}

// Resolve locates the PowerShell executable
func (r *PowerShellRunner) Resolve() (string, error) {
	if r.exe != "" {
		return r.exe, nil
	}
	for _, name := range []string{"powershell.exe", "powershell", "pwsh"} {
		if path, err := exec.LookPath(name); err == nil {
			r.exe = path
			return path, nil
		}
	}
	return "", ErrPowerShellNotFound
}

// Run executes the script and returns stdout. Stderr is drained line by
// line to avoid pipe deadlocks on chatty scripts.
func (r *PowerShellRunner) Run(ctx context.Context, script string) ([]byte, error) {
	exe, err := r.Resolve()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, exe,
		"-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass",
		"-Command", script)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start powershell: %w", err)
	}

	var lastStderr string
	stderrDone := make(chan struct{})
	onStderr := r.OnStderrLine
	go func() {
		defer close(stderrDone)
		sc := bufio.NewScanner(stderr)
		sc.Buffer(make([]byte, 0, 64*1024), 256*1024)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			lastStderr = line
			if onStderr != nil {
				onStderr(line)
			}
		}
	}()

	var out bytes.Buffer
	_, readErr := out.ReadFrom(stdout)

	waitErr := cmd.Wait()
	<-stderrDone

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if readErr != nil {
		return nil, fmt.Errorf("reading powershell output: %w", readErr)
	}
	if waitErr != nil {
		if lastStderr != "" {
			return nil, fmt.Errorf("powershell failed: %w: %s", waitErr, lastStderr)
		}
		return nil, fmt.Errorf("powershell failed: %w", waitErr)
	}
	return out.Bytes(), nil
}
