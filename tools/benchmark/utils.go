// Package main provides helper functions for the benchmark CLI
package main

import (
	"fmt"
	"time"
)

// syntheticAccount returns a deterministic hex address for worker i,
// offset past the ledger's reserved internal accounts
func syntheticAccount(i int) string {
	return fmt.Sprintf("0x%040x", i+0x1000)
}

// formatDuration formats a duration for human reading
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

// formatRate formats a rate (requests per second)
func formatRate(count int, duration time.Duration) string {
	if duration.Seconds() == 0 {
		return "N/A"
	}
	rate := float64(count) / duration.Seconds()
	return fmt.Sprintf("%.2f/s", rate)
}

// percentageString calculates and formats a percentage
func percentageString(part, total int) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(part)/float64(total)*100)
}

// statusEmoji returns an emoji summarizing endpoint health
func statusEmoji(succeeded, failed int) string {
	if failed > 0 {
		return "❌"
	}
	if succeeded > 0 {
		return "✅"
	}
	return "⚪"
}
