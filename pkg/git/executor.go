// Package git runs the few git commands widen needs, with timeouts and a
// mock for tests.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout is the default timeout for git operations.
const DefaultTimeout = 30 * time.Second

// ErrNotRepository is returned when the working directory is not inside a
// git repository.
var ErrNotRepository = errors.New("not a git repository")

// Executor defines the interface for running git commands.
type Executor interface {
	// Run executes a git command and discards its output.
	Run(ctx context.Context, args ...string) error

	// Output executes a git command and returns stdout.
	Output(ctx context.Context, args ...string) ([]byte, error)
}

// DefaultExecutor implements Executor using exec.CommandContext.
type DefaultExecutor struct {
	Timeout time.Duration
	Dir     string // working directory; empty means the current one
}

// NewDefaultExecutor creates a new DefaultExecutor with the default timeout.
func NewDefaultExecutor() *DefaultExecutor {
	return &DefaultExecutor{Timeout: DefaultTimeout}
}

// NewExecutorWithTimeout creates a new DefaultExecutor with a custom timeout.
func NewExecutorWithTimeout(timeout time.Duration) *DefaultExecutor {
	return &DefaultExecutor{Timeout: timeout}
}

// Run executes a git command and discards stdout.
func (e *DefaultExecutor) Run(ctx context.Context, args ...string) error {
	_, err := e.Output(ctx, args...)
	return err
}

// Output executes a git command and returns stdout. A failing command's
// stderr is folded into the returned error.
func (e *DefaultExecutor) Output(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := e.contextWithTimeout(ctx)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = e.Dir
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("git %s: %w", args[0], ctx.Err())
		}
		return nil, classify(args, stderr.String(), err)
	}
	return out, nil
}

// contextWithTimeout returns a context with the executor's timeout applied.
func (e *DefaultExecutor) contextWithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.Timeout)
}

func classify(args []string, stderr string, err error) error {
	msg := strings.TrimSpace(stderr)
	if strings.Contains(strings.ToLower(msg), "not a git repository") {
		return fmt.Errorf("%w: %s", ErrNotRepository, msg)
	}
	if msg != "" {
		return fmt.Errorf("git %s: %s: %w", args[0], msg, err)
	}
	return fmt.Errorf("git %s: %w", args[0], err)
}

// IsTimeoutError checks if an error is due to context deadline exceeded.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ProcessState != nil && exitErr.ProcessState.ExitCode() == -1
	}
	return false
}

// IsNotRepositoryError reports whether err means git found no repository.
func IsNotRepositoryError(err error) bool {
	return errors.Is(err, ErrNotRepository)
}
