package session

import "regexp"

// sourcePattern is a coarse structural pre-filter for video-source URLs:
// optional scheme, a known host, and a non-empty path. It deliberately stays
// permissive; the preview lookup is the real test of fetchability.
var sourcePattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.?be)/.+`)

// ValidateURL reports whether text looks like a plausible video-source URL.
// Pure and deterministic; no request is ever issued here.
func ValidateURL(text string) bool {
	return sourcePattern.MatchString(text)
}
