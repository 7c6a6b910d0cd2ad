package app

import (
	"strings"
	"unicode/utf8"
)

// Leaderboard statements are multi-CTE queries; keep enough text to tell
// which aggregate ran.
const maxTracedQueryLength = 2048

// formatDBQueryForTrace drops -- comments, folds whitespace onto one line and
// truncates on a rune boundary. Statements never carry "--" inside literals.
func formatDBQueryForTrace(query string) string {
	var b strings.Builder
	b.Grow(len(query))
	for _, line := range strings.Split(query, "\n") {
		if i := strings.Index(line, "--"); i >= 0 {
			line = line[:i]
		}
		for _, field := range strings.Fields(line) {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(field)
		}
	}

	normalized := b.String()
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	cut := maxTracedQueryLength
	for cut > 0 && !utf8.RuneStart(normalized[cut]) {
		cut--
	}
	return normalized[:cut] + "..."
}
