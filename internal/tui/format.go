package tui

import (
	"fmt"
	"time"
)

// truncate cuts s to maxLen runes and appends "..." when it was longer
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}

// relativeTime renders t relative to now the way the history list shows it
func relativeTime(t, now time.Time) string {
	hours := int(now.Sub(t) / time.Hour)
	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case hours < 48:
		return "Yesterday"
	default:
		return t.Local().Format("Jan 2, 2006")
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
