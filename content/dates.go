package content

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDateFormat is returned when a frontmatter date matches none of the
// accepted layouts.
var ErrDateFormat = errors.New("unrecognized date format")

// dateLayouts lists the publish/update date formats found across the
// content corpus. Posts are written by hand over years, so the engine is
// tolerant on read; the admin editor writes the ISO form back.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"January 2, 2006",
}

// ParseDate parses a frontmatter date value in any accepted layout.
// Dates without an explicit zone are interpreted as UTC so ordering is
// stable across machines.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrDateFormat)
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrDateFormat, value)
}

// FormatDate renders a time in the canonical frontmatter form.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
