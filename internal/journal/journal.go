// Package journal computes the date-keyed page names Logseq uses for
// journal pages.
package journal

import "time"

// KeyFormat is the journal page key layout expected by the native API.
const KeyFormat = "2006-01-02"

// Key converts a point in time to its journal page key, e.g. "2026-02-02".
func Key(t time.Time) string {
	return t.Format(KeyFormat)
}

// Today returns the journal page key for the current local date.
func Today() string {
	return Key(time.Now())
}
