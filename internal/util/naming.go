package util

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	bracketed = regexp.MustCompile(`[(\[].*?[)\]]`)
	forbidden = regexp.MustCompile(`[\\/*?:"<>|]`)
)

// SanitizeFilename cleans a title for use as a local artifact filename, the
// same way the service names its own output files: bracketed segments (e.g.
// "(Official Video)") and filesystem-hostile characters are removed, and the
// result is trimmed and capped at 200 runes.
func SanitizeFilename(name string) string {
	name = bracketed.ReplaceAllString(name, "")
	name = forbidden.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)

	const maxRunes = 200
	if utf8.RuneCountInString(name) > maxRunes {
		rs := []rune(name)
		name = strings.TrimSpace(string(rs[:maxRunes]))
	}
	if name == "" {
		return "untitled"
	}
	return name
}
