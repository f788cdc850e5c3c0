// Package timefmt renders durations and instants for people. All functions
// are pure; callers pass "now" explicitly.
package timefmt

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Components splits a whole number of seconds into calendar-free units.
type Components struct {
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
}

func TimeComponents(totalSeconds int64) Components {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return Components{
		Days:    totalSeconds / (24 * 3600),
		Hours:   (totalSeconds % (24 * 3600)) / 3600,
		Minutes: (totalSeconds % 3600) / 60,
		Seconds: totalSeconds % 60,
	}
}

// Duration is the compact two-unit form: "2d 3h", "1h 5m", "4m 10s", "9s".
func Duration(d time.Duration) string {
	seconds := wholeSeconds(d)
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours%24)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes%60)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// Clock is the stopwatch form used for sessions: "1h 2m 3s", "2m 3s", "3s".
func Clock(d time.Duration) string {
	seconds := wholeSeconds(d)
	minutes := seconds / 60
	hours := minutes / 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes%60, seconds%60)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// Elapsed labels a span by its largest unit: "3d ago", "2h ago", "5m ago", "7s ago".
func Elapsed(d time.Duration) string {
	seconds := wholeSeconds(d)
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24
	switch {
	case days > 0:
		return fmt.Sprintf("%dd ago", days)
	case hours > 0:
		return fmt.Sprintf("%dh ago", hours)
	case minutes > 0:
		return fmt.Sprintf("%dm ago", minutes)
	default:
		return fmt.Sprintf("%ds ago", seconds)
	}
}

// Since is Elapsed measured from then to now, with "Just now" under a second.
func Since(then, now time.Time) string {
	d := now.Sub(then)
	if wholeSeconds(d) <= 0 {
		return "Just now"
	}
	return Elapsed(d)
}

// Relative is the long-form phrase used in detail views ("3 hours ago").
func Relative(then, now time.Time) string {
	return humanize.RelTime(then, now, "ago", "from now")
}

// DateTime is the long localized stamp shown next to records.
func DateTime(t time.Time) string {
	return t.Format("Jan 2, 2006, 3:04:05 PM")
}

// ValidRange reports whether both ends are set and end is strictly after start.
func ValidRange(start, end time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return false
	}
	return end.After(start)
}

func wholeSeconds(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}
