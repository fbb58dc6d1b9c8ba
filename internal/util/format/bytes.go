package format

import "fmt"

var units = []string{"KB", "MB", "GB", "TB", "PB"}

// HumanizeBytes renders a byte count for progress display, e.g. "1.5 MB".
func HumanizeBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit && exp < len(units)-1; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %s", float64(b)/float64(div), units[exp])
}
