package util

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain title", in: "My Video", want: "My Video"},
		{name: "strips bracketed suffix", in: "Song (Official Video)", want: "Song"},
		{name: "strips square brackets", in: "Song [HD] Remix", want: "Song  Remix"},
		{name: "removes forbidden chars", in: `a/b\c:d*e?f"g<h>i|j`, want: "abcdefghij"},
		{name: "empty becomes untitled", in: "", want: "untitled"},
		{name: "only brackets becomes untitled", in: "(live)", want: "untitled"},
		{name: "trims whitespace", in: "  spaced  ", want: "spaced"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	long := strings.Repeat("x", 500)
	if got := SanitizeFilename(long); len([]rune(got)) != 200 {
		t.Errorf("long name truncated to %d runes, want 200", len([]rune(got)))
	}
}
