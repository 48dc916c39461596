// Package graphservice implements the gateway operations over the logseq
// CLI and the desktop app's native API. Every operation makes exactly one
// backend attempt; retry policy belongs to callers.
package graphservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/journal"
	"github.com/starford/ansuz/internal/nativeapi"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/runner"
)

// ToolRunner spawns the logseq CLI.
type ToolRunner interface {
	Run(ctx context.Context, args ...string) (runner.Result, error)
	RunPiped(ctx context.Context, filter []string, args ...string) (runner.Result, error)
}

// NativeCaller posts method invocations to the desktop app's HTTP API.
type NativeCaller interface {
	Call(ctx context.Context, method string, args []any, token string) (any, error)
}

var (
	_ ToolRunner   = (*runner.Runner)(nil)
	_ NativeCaller = (*nativeapi.Client)(nil)
)

// appendMethod is the plugin API method used for journal appends.
const appendMethod = "logseq.Editor.appendBlockInPage"

const missingTokenMsg = "Missing API token. Set LOGSEQ_API_SERVER_TOKEN environment variable, " +
	"use --api-token flag, or include \"token\" in request body. " +
	"Token can be found in Logseq Settings > Features > HTTP APIs Server."

// Service coordinates CLI invocations and native API calls.
type Service struct {
	tool      ToolRunner
	native    NativeCaller
	converter []string
}

// NewService creates a new graph service. The converter is the argv of the
// EDN-to-JSON filter that structured query output is piped through.
func NewService(tool ToolRunner, native NativeCaller, converter []string) *Service {
	return &Service{tool: tool, native: native, converter: converter}
}

// ListGraphs runs `logseq list` and extracts graph names from its output.
func (s *Service) ListGraphs(ctx context.Context) ([]string, error) {
	res, err := s.tool.Run(ctx, "list")
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, apperr.WithStderr(apperr.ErrProcess, "Failed to fetch graphs", strings.TrimSpace(res.Stderr))
	}
	return parser.GraphNames(res.Stdout), nil
}

// ShowGraph runs `logseq show <name>` and returns the tool's output as-is.
func (s *Service) ShowGraph(ctx context.Context, name string) (string, error) {
	res, err := s.tool.Run(ctx, "show", name)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", apperr.WithStderr(apperr.ErrProcess, "Failed to show graph", strings.TrimSpace(res.Stderr))
	}
	return strings.TrimSpace(res.Stdout), nil
}

// SearchPages finds pages whose name or title contains the search text.
// The match is case-insensitive on the name arm; page titles preserve the
// caller's casing.
func (s *Service) SearchPages(ctx context.Context, text, graph string) ([]parser.Page, error) {
	args := []string{"query", searchQuery(text)}
	if graph != "" {
		args = append(args, "-g", graph)
	}
	res, err := s.tool.RunPiped(ctx, s.converter, args...)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, apperr.WithStderr(apperr.ErrProcess, "Search failed", strings.TrimSpace(res.Stderr))
	}
	pages, err := parser.Pages(res.Stdout)
	if err != nil {
		return nil, apperr.WithStderr(apperr.ErrProcess, "Search failed", err.Error())
	}
	return pages, nil
}

// Query runs a caller-supplied datalog query and returns the converted
// output: decoded JSON when the converter produced it, raw text otherwise.
func (s *Service) Query(ctx context.Context, query, graph string) (any, error) {
	args := []string{"query", query}
	if graph != "" {
		args = append(args, "-g", graph)
	}
	res, err := s.tool.RunPiped(ctx, s.converter, args...)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, apperr.WithStderr(apperr.ErrProcess, "Query failed", strings.TrimSpace(res.Stderr))
	}
	return parser.Decode(res.Stdout).Value(), nil
}

// AppendToCurrentPage appends content to whichever page is open in the
// desktop app, via `logseq append`. The CLI needs the API token to reach
// the app, so the call fails before spawning anything when no token is set.
// The CLI can report success even when no page is open; that outcome is
// only visible in the tool's output, not its exit code.
func (s *Service) AppendToCurrentPage(ctx context.Context, content, token string) (string, error) {
	token, err := requireToken(token)
	if err != nil {
		return "", err
	}
	res, err := s.tool.Run(ctx, "append", content, "-a", token)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		detail := strings.TrimSpace(res.Stderr)
		if detail == "" {
			detail = strings.TrimSpace(res.Stdout)
		}
		return "", apperr.WithStderr(apperr.ErrProcess, "Failed to append content", detail)
	}
	return strings.TrimSpace(res.Stdout), nil
}

// AppendToJournal appends content to today's journal page through the
// native API, which creates the page if it does not exist yet.
func (s *Service) AppendToJournal(ctx context.Context, content, token string) (any, error) {
	token, err := requireToken(token)
	if err != nil {
		return nil, err
	}
	return s.native.Call(ctx, appendMethod, []any{journal.Today(), content}, token)
}

func requireToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperr.New(apperr.ErrAuth, missingTokenMsg)
	}
	return token, nil
}

// searchQuery builds the datalog for a substring page search. Double quotes
// in the search text are escaped so it embeds safely in the query literal.
func searchQuery(text string) string {
	escaped := strings.ReplaceAll(text, `"`, `\"`)
	return fmt.Sprintf(`[:find (pull ?p [:db/id :block/uuid :block/name :block/title :block/journal-day])`+
		` :where [?p :block/name ?name] [?p :block/title ?title]`+
		` (or [(clojure.string/includes? ?name "%s")] [(clojure.string/includes? ?title "%s")])]`,
		strings.ToLower(escaped), escaped)
}
