package model

import "time"

// CLIOptions holds user-configurable runtime options as assembled from
// flags, environment, and the config file.
type CLIOptions struct {
	ServerURL    string        // Base address of the remote processing service.
	OutDir       string        // Where saved artifacts land. Empty = default download dir.
	PollInterval time.Duration // Status-poll interval. 0 = 1s default.
	Timeout      time.Duration // Overall per-URL deadline in non-interactive mode. 0 = none.
	Jobs         int           // Max concurrent sessions in non-interactive mode.
	Verbose      bool          // Debug logging to stderr.
	NoUI         bool          // Disable TUI even on a terminal.

	Audio   bool   // Request audio extraction instead of video.
	Quality string // Video quality label; empty = server's first offered format.
	Save    bool   // Download the finished artifact instead of printing its URL.
}
