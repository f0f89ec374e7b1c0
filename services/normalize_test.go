package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		expected string
	}{
		{"lowercases", "Data Engineering", "data-engineering"},
		{"collapses separator runs", "a  --  b", "a-b"},
		{"drops symbols", "C++ & Go!", "c-go"},
		{"keeps digits", "Top 10 Tools", "top-10-tools"},
		{"dots and slashes separate", "v1.2/beta", "v1-2-beta"},
		{"trims leading separators", "  --hello", "hello"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Slugify(tc.in, TagSlugMaxLen, "tag"))
		})
	}

	t.Run("falls back when nothing survives", func(t *testing.T) {
		assert.Equal(t, "tag", Slugify("!!!", TagSlugMaxLen, "tag"))
		assert.Equal(t, "tag", Slugify("", TagSlugMaxLen, "tag"))
	})

	t.Run("truncates without a trailing dash", func(t *testing.T) {
		slug := Slugify("aaaa bbbb cccc", 9, "tag")
		assert.Equal(t, "aaaa-bbbb", slug)
		slug = Slugify("aaaa bbbb cccc", 10, "tag")
		assert.Equal(t, "aaaa-bbbb", slug)
	})
}

func TestParseFlexibleTime(t *testing.T) {
	t.Run("empty means use default", func(t *testing.T) {
		parsed, dateOnly, err := ParseFlexibleTime("   ")
		require.NoError(t, err)
		assert.True(t, parsed.IsZero())
		assert.False(t, dateOnly)
	})

	t.Run("date only", func(t *testing.T) {
		parsed, dateOnly, err := ParseFlexibleTime("2024-03-15")
		require.NoError(t, err)
		assert.True(t, dateOnly)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), parsed)
	})

	t.Run("naive datetime", func(t *testing.T) {
		parsed, dateOnly, err := ParseFlexibleTime("2024-03-15 09:30")
		require.NoError(t, err)
		assert.False(t, dateOnly)
		assert.Equal(t, time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC), parsed)
	})

	t.Run("offset timestamps normalize to UTC", func(t *testing.T) {
		parsed, dateOnly, err := ParseFlexibleTime("2024-03-15T10:30:00+02:00")
		require.NoError(t, err)
		assert.False(t, dateOnly)
		assert.Equal(t, time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC), parsed.UTC())
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, _, err := ParseFlexibleTime("not-a-date")
		assert.Error(t, err)
	})
}

func TestMergeDate(t *testing.T) {
	existing := time.Date(2023, 6, 1, 14, 45, 30, 0, time.UTC)

	t.Run("date only keeps time of day", func(t *testing.T) {
		parsed := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
		merged := MergeDate(existing, parsed, true)
		assert.Equal(t, time.Date(2024, 1, 20, 14, 45, 30, 0, time.UTC), merged)
	})

	t.Run("full timestamp replaces entirely", func(t *testing.T) {
		parsed := time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC)
		assert.Equal(t, parsed, MergeDate(existing, parsed, false))
	})

	t.Run("zero existing takes parsed as is", func(t *testing.T) {
		parsed := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, parsed, MergeDate(time.Time{}, parsed, true))
	})
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"go", "sqlite", "web"}, SplitTags(" go, sqlite ,web "))
	assert.Nil(t, SplitTags(""))
	assert.Nil(t, SplitTags(" , ,, "))
	assert.Equal(t, []string{"solo"}, SplitTags("solo"))
}
