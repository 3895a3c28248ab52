// Package sqlite implements the user and result stores over an embedded
// SQLite database opened by database.OpenSQLite.
package sqlite

import (
	"time"
)

// timeLayout is fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime accepts both the repository layout and the schema default.
func parseTime(s string) time.Time {
	for _, layout := range []string{timeLayout, "2006-01-02T15:04:05.000Z", time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
