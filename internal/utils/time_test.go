package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayWindowUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	// 22:30 UTC is already the next day at UTC+3
	at := time.Date(2024, 5, 1, 22, 30, 0, 0, time.UTC)

	start, end := DayWindow(at, loc)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, loc), start)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
	assert.Equal(t, time.Date(2024, 5, 1, 21, 0, 0, 0, time.UTC), start.UTC())
}

func TestParseDay(t *testing.T) {
	start, end, err := ParseDay("2024-02-29", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), end)

	for _, bad := range []string{"2024-13-01", "01/02/2024", "today", "2023-02-29"} {
		_, _, err := ParseDay(bad, time.UTC)
		assert.Error(t, err, bad)
	}
}
