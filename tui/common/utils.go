package common

import "strings"

// SplitTitleBody splits composed text into a post title and body: the
// first non-empty line is the title, everything after it is the body.
func SplitTitleBody(content string) (string, string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", ""
	}
	title, body, found := strings.Cut(trimmed, "\n")
	if !found {
		return strings.TrimSpace(title), ""
	}
	return strings.TrimSpace(title), strings.TrimSpace(body)
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
