// Package visual opens changed files in an external side-by-side diff tool.
package visual

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// DefaultTool is the visual diff program used when none is configured
const DefaultTool = "tkdiff"

// ToolError reports that the visual diff tool could not be started
type ToolError struct {
	Tool   string
	Remedy string
	Err    error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("visual diff tool %q is not available: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Remediation returns a hint for installing the tool
func (e *ToolError) Remediation() string {
	return e.Remedy
}

// Launcher runs the visual diff tool on a pair of files and waits for it
type Launcher struct {
	Tool   string
	Stdout io.Writer
	Stderr io.Writer
}

// NewLauncher creates a launcher for tool, falling back to DefaultTool
func NewLauncher(tool string) *Launcher {
	if tool == "" {
		tool = DefaultTool
	}
	return &Launcher{Tool: tool}
}

// Launch opens oldPath and newPath side by side and blocks until the tool exits.
// The tool's exit status is not interpreted; only failure to start it is an error.
func (l *Launcher) Launch(ctx context.Context, oldPath, newPath string) error {
	program, err := exec.LookPath(l.Tool)
	if err != nil {
		return l.toolError(err)
	}

	cmd := exec.CommandContext(ctx, program, oldPath, newPath)
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return l.toolError(err)
	}
	return nil
}

func (l *Launcher) toolError(err error) *ToolError {
	return &ToolError{
		Tool:   l.Tool,
		Remedy: fmt.Sprintf("install %s, e.g.: sudo apt-get install %s", l.Tool, l.Tool),
		Err:    err,
	}
}
