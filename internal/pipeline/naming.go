package pipeline

import (
	"path/filepath"
	"time"

	"github.com/ehr/dentalrecon/internal/domain/appointment"
)

// DateToken renders a date for file names (YYYY-MM-DD).
func DateToken(t time.Time) string {
	return t.Format(appointment.DateLayout)
}

// RangeToken renders an inclusive date range for file names.
func RangeToken(from, to time.Time) string {
	return DateToken(from) + "_to_" + DateToken(to)
}

// WorkbookName returns <prefix>_<token>.xlsx.
func WorkbookName(prefix, token string) string {
	return prefix + "_" + token + ".xlsx"
}

// OutreachName returns <campaign>_<token>.<ext>.
func OutreachName(campaign, token, ext string) string {
	return campaign + "_" + token + "." + ext
}

// RecentSince returns the start of the recent window: the run date, truncated
// to midnight UTC, minus days. Visits dated strictly after it are recent.
func RecentSince(runTime time.Time, days int) time.Time {
	return Day(runTime).AddDate(0, 0, -days)
}

// Day truncates t to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func joinPath(dir, name string) string {
	return filepath.Join(dir, name)
}
