// Package capture formats user-captured text for appending to a graph.
// Formatting is pure and happens before write-target resolution; the
// resolver treats the result as opaque text.
package capture

import "strings"

// Placeholder is the substitution marker recognized in templates.
const Placeholder = "{content}"

// Payload is the raw capture input: content plus optional markup directives.
type Payload struct {
	Content  string
	Tags     []string
	Priority string
	Template string
}

// Format renders a payload into the final block text:
//
//	priority "A"            → "[#A] " prefix
//	tags ["todo","work"]    → " #todo #work" suffix
//	template "- {content}"  → formatted text substituted for the placeholder
//
// A template without a placeholder is treated as a prefix so the user's
// template text is never silently dropped.
func Format(p Payload) string {
	out := p.Content

	if prio := strings.TrimSpace(p.Priority); prio != "" {
		out = "[#" + prio + "] " + out
	}

	for _, tag := range p.Tags {
		tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" {
			continue
		}
		out += " #" + tag
	}

	if tpl := p.Template; tpl != "" {
		if strings.Contains(tpl, Placeholder) {
			out = strings.ReplaceAll(tpl, Placeholder, out)
		} else {
			out = tpl + " " + out
		}
	}

	return out
}
