package runner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/apperr"
)

func TestRunCapturesStdout(t *testing.T) {
	r := New("/bin/sh", 5*time.Second)
	res, err := r.Run(context.Background(), "-c", "printf 'hello'")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if res.Stdout != "hello" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "hello")
	}
}

func TestRunNonzeroExitIsNotAnError(t *testing.T) {
	r := New("/bin/sh", 5*time.Second)
	res, err := r.Run(context.Background(), "-c", "printf 'boom' >&2; exit 3")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if res.Stderr != "boom" {
		t.Errorf("Stderr = %q, want %q", res.Stderr, "boom")
	}
}

func TestRunMissingBinary(t *testing.T) {
	r := New("definitely-not-a-real-binary-7391", time.Second)
	_, err := r.Run(context.Background())
	if err == nil {
		t.Fatal("expected an error for a missing binary")
	}
	if !errors.Is(err, apperr.ErrProcess) {
		t.Errorf("error kind = %v, want process error", err)
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %q, want a not-found message", err.Error())
	}
}

func TestRunTimeout(t *testing.T) {
	r := New("/bin/sh", 100*time.Millisecond)
	res, err := r.Run(context.Background(), "-c", "sleep 5")
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if !errors.Is(err, apperr.ErrProcess) {
		t.Errorf("error kind = %v, want process error", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error = %q, want a timeout message", err.Error())
	}
	if res.ExitCode != TimeoutExitCode {
		t.Errorf("ExitCode = %d, want %d", res.ExitCode, TimeoutExitCode)
	}
}

func TestRunPiped(t *testing.T) {
	r := New("/bin/sh", 5*time.Second)
	res, err := r.RunPiped(context.Background(), []string{"tr", "a-z", "A-Z"}, "-c", "printf 'hello'")
	if err != nil {
		t.Fatalf("RunPiped() error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if res.Stdout != "HELLO" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "HELLO")
	}
}

func TestRunPipedFirstStageFails(t *testing.T) {
	r := New("/bin/sh", 5*time.Second)
	res, err := r.RunPiped(context.Background(), []string{"cat"}, "-c", "printf 'bad query' >&2; exit 2")
	if err != nil {
		t.Fatalf("RunPiped() error: %v", err)
	}
	if res.ExitCode != 2 {
		t.Errorf("ExitCode = %d, want 2", res.ExitCode)
	}
	if res.Stderr != "bad query" {
		t.Errorf("Stderr = %q, want %q", res.Stderr, "bad query")
	}
}

func TestRunPipedFilterFails(t *testing.T) {
	r := New("/bin/sh", 5*time.Second)
	res, err := r.RunPiped(context.Background(), []string{"/bin/sh", "-c", "exit 4"}, "-c", "true")
	if err != nil {
		t.Fatalf("RunPiped() error: %v", err)
	}
	if res.ExitCode != 4 {
		t.Errorf("ExitCode = %d, want 4", res.ExitCode)
	}
}

func TestRunPipedMissingFilter(t *testing.T) {
	r := New("/bin/sh", time.Second)
	_, err := r.RunPiped(context.Background(), []string{"definitely-not-a-real-filter-7391"}, "-c", "true")
	if err == nil {
		t.Fatal("expected an error for a missing filter binary")
	}
	if !errors.Is(err, apperr.ErrProcess) {
		t.Errorf("error kind = %v, want process error", err)
	}
	if !strings.Contains(err.Error(), "definitely-not-a-real-filter-7391") {
		t.Errorf("error = %q, want the filter name", err.Error())
	}
}

func TestRunEmptyFilterFallsBack(t *testing.T) {
	r := New("/bin/sh", 5*time.Second)
	res, err := r.RunPiped(context.Background(), nil, "-c", "printf 'direct'")
	if err != nil {
		t.Fatalf("RunPiped() error: %v", err)
	}
	if res.Stdout != "direct" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "direct")
	}
}
