package services

import (
	"fmt"
	"strings"
	"time"
)

// TagSlugMaxLen caps the length of derived slugs.
const TagSlugMaxLen = 64

// Slugify derives a URL-safe identifier from free text: lowercase, ASCII
// letters and digits only, with any run of separator characters collapsed
// into a single dash. Falls back to the given token when nothing survives.
func Slugify(text string, maxLen int, fallback string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == '.' || r == '/':
			pendingDash = true
		}
	}

	slug := b.String()
	if maxLen > 0 && len(slug) > maxLen {
		slug = strings.TrimRight(slug[:maxLen], "-")
	}
	if slug == "" {
		return fallback
	}
	return slug
}

var flexibleTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseFlexibleTime accepts a date-only string or a full timestamp.
// Empty input yields the zero time with no error ("use the default");
// non-empty unparseable input yields an error ("reject the request").
// Timestamps carrying an offset are normalized to a naive UTC instant.
func ParseFlexibleTime(s string) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}

	if parsed, perr := time.ParseInLocation("2006-01-02", s, time.UTC); perr == nil {
		return parsed, true, nil
	}
	for _, layout := range flexibleTimeLayouts {
		if parsed, perr := time.ParseInLocation(layout, s, time.UTC); perr == nil {
			return parsed.UTC(), false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized date/time %q", s)
}

// MergeDate applies a parsed user date over an existing timestamp. A
// date-only input overrides the calendar day but keeps the previous time of
// day; a full timestamp replaces the field entirely.
func MergeDate(existing, parsed time.Time, dateOnly bool) time.Time {
	if !dateOnly || existing.IsZero() {
		return parsed
	}
	return time.Date(
		parsed.Year(), parsed.Month(), parsed.Day(),
		existing.Hour(), existing.Minute(), existing.Second(), existing.Nanosecond(),
		time.UTC,
	)
}

// SplitTags splits a "comma,separated,names" string, trimming whitespace and
// dropping empty entries.
func SplitTags(csv string) []string {
	var names []string
	for _, part := range strings.Split(csv, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
