// Package notify renders message templates and moves notifications through
// the outbox topic to the SMS/email gateway.
package notify

import (
	"regexp"
	"sort"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Render replaces {{name}} placeholders with vars. Unknown placeholders are kept verbatim.
func Render(body string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(body, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		if v, ok := vars[name]; ok {
			return v
		}
		return m
	})
}

// Missing lists placeholder names in body that vars does not provide, sorted and unique.
func Missing(body string, vars map[string]string) []string {
	seen := make(map[string]struct{})
	for _, m := range placeholderRe.FindAllStringSubmatch(body, -1) {
		if _, ok := vars[m[1]]; !ok {
			seen[m[1]] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Placeholders lists every placeholder name used in body, sorted and unique.
func Placeholders(body string) []string {
	return Missing(body, nil)
}
