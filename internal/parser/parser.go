// Package parser converts raw logseq CLI output into structured data.
// All stdout interpretation lives here so handlers never sniff strings.
package parser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Raw is the tagged decoding of tool stdout: the JSON arm when the output
// parses as JSON, the text arm otherwise.
type Raw struct {
	Text   string
	JSON   any
	IsJSON bool
}

// Decode classifies stdout once. Output is treated as JSON only when the
// trimmed text starts with '{' or '[' and unmarshals cleanly.
func Decode(stdout string) Raw {
	trimmed := strings.TrimSpace(stdout)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var v any
		if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
			return Raw{JSON: v, IsJSON: true}
		}
	}
	return Raw{Text: stdout}
}

// Value returns whichever arm the decoding produced.
func (r Raw) Value() any {
	if r.IsJSON {
		return r.JSON
	}
	return r.Text
}

// Section headings the CLI prints without a colon; lines with a colon are
// already treated as metadata and dropped.
var sectionHeaders = map[string]struct{}{
	"graphs":        {},
	"all graphs":    {},
	"local graphs":  {},
	"remote graphs": {},
}

// GraphNames extracts graph names from `logseq list` output: one name per
// line, trimmed, with blank lines, metadata lines (containing a colon), and
// section headers removed. Order is preserved as emitted by the tool.
func GraphNames(stdout string) []string {
	names := []string{}
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, ":") {
			continue
		}
		if _, ok := sectionHeaders[strings.ToLower(line)]; ok {
			continue
		}
		names = append(names, line)
	}
	return names
}

// Page is one page record pulled by a structured query.
type Page struct {
	ID         int64  `json:"id"`
	UUID       string `json:"uuid"`
	Name       string `json:"name"`
	Title      string `json:"title"`
	JournalDay int    `json:"journalDay,omitempty"`
}

// pageRecord mirrors the namespaced keys of a datalog find/pull result row
// after EDN→JSON conversion.
type pageRecord struct {
	ID         int64  `json:"db/id"`
	UUID       string `json:"block/uuid"`
	Name       string `json:"block/name"`
	Title      string `json:"block/title"`
	JournalDay int    `json:"block/journal-day"`
}

// Pages decodes the JSON emitted by a page pull query. The result shape is
// a vector of rows, each row a vector of pulled entities:
//
//	[[{"db/id":…,"block/uuid":…,…}], [{…}], …]
//
// Rows are flattened in order into Page records.
func Pages(stdout string) ([]Page, error) {
	trimmed := strings.TrimSpace(stdout)
	if trimmed == "" {
		return []Page{}, nil
	}

	var rows [][]pageRecord
	if err := json.Unmarshal([]byte(trimmed), &rows); err != nil {
		return nil, fmt.Errorf("parser: decode page results: %w", err)
	}

	pages := []Page{}
	for _, row := range rows {
		for _, rec := range row {
			pages = append(pages, Page{
				ID:         rec.ID,
				UUID:       rec.UUID,
				Name:       rec.Name,
				Title:      rec.Title,
				JournalDay: rec.JournalDay,
			})
		}
	}
	return pages, nil
}
