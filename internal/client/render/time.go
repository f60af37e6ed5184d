package render

import (
	"fmt"
	"time"

	"github.com/driftdesk/driftdesk-cli/internal/client/models"
	"github.com/xeonx/timeago"
)

const DateLayout = "2006-01-02"

// Relative formats notification times: "Just now" under a minute, whole
// minutes under an hour, whole hours under a day, then the date.
func Relative(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	}
	return Date(t)
}

// Age is the long form used on drift screens, e.g. "3 hours ago".
func Age(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return timeago.English.FormatReference(t.Local(), now)
}

func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(DateLayout)
}

// Stamp renders an optional timestamp as a date.
func Stamp(ts *models.Timestamp) string {
	if ts == nil {
		return "-"
	}
	return Date(ts.Time)
}
