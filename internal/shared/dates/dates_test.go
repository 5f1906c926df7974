package dates

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/aws-cost-report-go/internal/shared/types"
)

var now = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func TestCurrentMonthBounds(t *testing.T) {
	start, end := CurrentMonthBounds(now)
	assert.Equal(t, "2024-03-01", Format(start))
	assert.Equal(t, "2024-04-01", Format(end))
}

func TestResolveRangeDefaults(t *testing.T) {
	start, end, err := ResolveRange("", "", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", Format(start))
	assert.Equal(t, "2024-04-01", Format(end))
}

func TestResolveRangeExplicit(t *testing.T) {
	start, end, err := ResolveRange("2024-01-01", "2024-02-01", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", Format(start))
	assert.Equal(t, "2024-02-01", Format(end))
}

func TestResolveRangeBadFormat(t *testing.T) {
	for _, bad := range []string{"01-01-2024", "2024/01/01", "yesterday", "2024-13-01"} {
		_, _, err := ResolveRange(bad, "2024-02-01", now)
		assert.ErrorIs(t, err, types.ErrInvalidDate, "start=%q", bad)
	}

	_, _, err := ResolveRange("2024-01-01", "garbage", now)
	assert.ErrorIs(t, err, types.ErrInvalidDate)
}

func TestResolveRangeStartToday(t *testing.T) {
	// A start equal to today is accepted; one day in the future is not.
	_, _, err := ResolveRange("2024-03-15", "2024-03-16", now)
	assert.NoError(t, err)

	_, _, err = ResolveRange("2024-03-16", "2024-03-17", now)
	assert.ErrorIs(t, err, types.ErrStartInFuture)
}

func TestResolveRangeInverted(t *testing.T) {
	_, _, err := ResolveRange("2024-02-01", "2024-01-01", now)
	assert.ErrorIs(t, err, types.ErrInvertedRange)

	_, _, err = ResolveRange("2024-01-01", "2024-01-01", now)
	assert.ErrorIs(t, err, types.ErrInvertedRange)
}

func TestResolveRange365DayBoundary(t *testing.T) {
	// 2023-03-15 .. 2024-03-14 is exactly 365 days: accepted.
	_, _, err := ResolveRange("2023-03-15", "2024-03-14", now)
	assert.NoError(t, err)

	// 366 days: rejected.
	_, _, err = ResolveRange("2023-03-14", "2024-03-14", now)
	assert.ErrorIs(t, err, types.ErrRangeTooLarge)
}

func TestParseRoundTrip(t *testing.T) {
	parsed, err := Parse("2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", Format(parsed))
}

func TestResolveRangeErrorsAreDistinct(t *testing.T) {
	_, _, err := ResolveRange("2024-02-01", "2024-01-01", now)
	assert.False(t, errors.Is(err, types.ErrRangeTooLarge))
}
