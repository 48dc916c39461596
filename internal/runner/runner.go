// Package runner executes the logseq CLI as a child process.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/starford/ansuz/internal/apperr"
)

// TimeoutExitCode marks a run that was killed by the per-invocation deadline.
const TimeoutExitCode = -1

// Result carries the outcome of one tool invocation. A nonzero ExitCode is
// not an error at this layer; callers decide what a failed command means.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner spawns the configured binary with a fixed per-invocation timeout.
type Runner struct {
	bin     string
	timeout time.Duration
}

func New(bin string, timeout time.Duration) *Runner {
	return &Runner{bin: bin, timeout: timeout}
}

// Run executes `bin args...` and captures both output streams.
func (r *Runner) Run(ctx context.Context, args ...string) (Result, error) {
	tctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(tctx, r.bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if timedOut(tctx) {
		return Result{ExitCode: TimeoutExitCode}, r.timeoutErr()
	}
	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			return Result{
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
			}, nil
		case errors.Is(err, exec.ErrNotFound):
			return Result{}, r.notFoundErr()
		default:
			return Result{}, apperr.Newf(apperr.ErrProcess, "failed to run %s: %v", r.bin, err)
		}
	}
	return Result{ExitCode: 0, Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

// RunPiped executes `bin args... | filter...` and returns the filter's
// stdout. The pipe is wired explicitly so arguments never pass through a
// shell. A failure in either stage surfaces as a nonzero Result carrying
// that stage's stderr.
func (r *Runner) RunPiped(ctx context.Context, filter []string, args ...string) (Result, error) {
	if len(filter) == 0 {
		return r.Run(ctx, args...)
	}

	tctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	first := exec.CommandContext(tctx, r.bin, args...)
	second := exec.CommandContext(tctx, filter[0], filter[1:]...)

	pipe, err := first.StdoutPipe()
	if err != nil {
		return Result{}, apperr.Newf(apperr.ErrProcess, "failed to run %s: %v", r.bin, err)
	}
	second.Stdin = pipe

	var firstStderr, secondStdout, secondStderr bytes.Buffer
	first.Stderr = &firstStderr
	second.Stdout = &secondStdout
	second.Stderr = &secondStderr

	if err := second.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return Result{}, apperr.Newf(apperr.ErrProcess,
				"%s not found. Install it to convert query output to JSON.", filter[0])
		}
		return Result{}, apperr.Newf(apperr.ErrProcess, "failed to run %s: %v", filter[0], err)
	}

	firstErr := first.Run()
	secondErr := second.Wait()

	if timedOut(tctx) {
		return Result{ExitCode: TimeoutExitCode}, r.timeoutErr()
	}

	if firstErr != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(firstErr, &exitErr):
			return Result{ExitCode: exitErr.ExitCode(), Stderr: firstStderr.String()}, nil
		case errors.Is(firstErr, exec.ErrNotFound):
			return Result{}, r.notFoundErr()
		default:
			return Result{}, apperr.Newf(apperr.ErrProcess, "failed to run %s: %v", r.bin, firstErr)
		}
	}
	if secondErr != nil {
		var exitErr *exec.ExitError
		if errors.As(secondErr, &exitErr) {
			return Result{ExitCode: exitErr.ExitCode(), Stderr: secondStderr.String()}, nil
		}
		return Result{}, apperr.Newf(apperr.ErrProcess, "failed to run %s: %v", filter[0], secondErr)
	}

	return Result{
		ExitCode: 0,
		Stdout:   secondStdout.String(),
		Stderr:   firstStderr.String() + secondStderr.String(),
	}, nil
}

func timedOut(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.DeadlineExceeded)
}

func (r *Runner) timeoutErr() error {
	return apperr.Newf(apperr.ErrProcess,
		"Command execution timed out after %d seconds", int(r.timeout.Seconds()))
}

func (r *Runner) notFoundErr() error {
	return apperr.Newf(apperr.ErrProcess,
		"%s CLI not found. Install with: npm install -g @logseq/cli", r.bin)
}
