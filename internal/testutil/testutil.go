// Package testutil provides scripted doubles for the tool runner and the
// native API client.
package testutil

import (
	"context"

	"github.com/starford/ansuz/internal/runner"
)

// PipeCall records one RunPiped invocation.
type PipeCall struct {
	Filter []string
	Args   []string
}

// StubRunner returns a scripted result and records every invocation.
type StubRunner struct {
	Result runner.Result
	Err    error

	Calls     [][]string
	PipeCalls []PipeCall
}

func (s *StubRunner) Run(_ context.Context, args ...string) (runner.Result, error) {
	s.Calls = append(s.Calls, args)
	return s.Result, s.Err
}

func (s *StubRunner) RunPiped(_ context.Context, filter []string, args ...string) (runner.Result, error) {
	s.PipeCalls = append(s.PipeCalls, PipeCall{Filter: filter, Args: args})
	return s.Result, s.Err
}

// TotalCalls counts spawns of any kind, for tests asserting that no
// process was launched.
func (s *StubRunner) TotalCalls() int {
	return len(s.Calls) + len(s.PipeCalls)
}

// NativeCall records one Call invocation.
type NativeCall struct {
	Method string
	Args   []any
	Token  string
}

// StubNative returns a scripted value and records every invocation.
type StubNative struct {
	Value any
	Err   error

	Calls []NativeCall
}

func (s *StubNative) Call(_ context.Context, method string, args []any, token string) (any, error) {
	s.Calls = append(s.Calls, NativeCall{Method: method, Args: args, Token: token})
	return s.Value, s.Err
}
