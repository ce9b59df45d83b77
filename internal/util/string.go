package util

import (
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://[^\s"'<>)\]]+`)

// TruncateString truncates a string to maxRunes characters (rune-based, not byte-based)
// If truncated, appends "..." to the result
func TruncateString(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// ExtractURL pulls the first URL token out of free-form model output.
// Returns the trimmed input when no URL is present, so permissive callers
// still receive the model's best-effort text.
func ExtractURL(s string) string {
	if match := urlPattern.FindString(s); match != "" {
		return strings.TrimRight(match, ".,;")
	}
	return strings.TrimSpace(s)
}

// ExtractHandle pulls a bare microblog handle out of free-form model output.
// Strips a leading @, and unwraps profile URLs like https://x.com/username.
func ExtractHandle(s string) string {
	s = strings.TrimSpace(s)
	if u := urlPattern.FindString(s); u != "" {
		u = strings.TrimRight(u, "/.,;")
		if idx := strings.LastIndex(u, "/"); idx >= 0 && idx < len(u)-1 {
			s = u[idx+1:]
		}
	}
	return strings.TrimPrefix(s, "@")
}

func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
