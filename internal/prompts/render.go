package prompts

import (
	"strings"
	"time"
)

// Render substitutes each {name} placeholder in tmpl with vars[name].
// Unknown placeholders are left as-is.
func Render(tmpl string, vars map[string]string) string {
	if len(vars) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Today formats t the way the templates expect dates, e.g. "Mon Aug 4, 2025".
// The day of the month carries no leading zero.
func Today(t time.Time) string {
	return t.Format("Mon Jan 2, 2006")
}
