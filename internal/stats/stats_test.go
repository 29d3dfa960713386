package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdrianDanlos/rythm/internal"
)

func TestBuildStats_Empty(t *testing.T) {
	r, err := BuildStats(nil, 7, DefaultDateFormatter, testNow)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-10", r.Today)
	assert.Equal(t, 0, r.TotalEntries)
	assert.False(t, r.LoggedToday)
	assert.Nil(t, r.RhythmScore)
	assert.Nil(t, r.Correlation)
	assert.Nil(t, r.MoodBySleepThreshold)
	assert.Nil(t, r.PersonalSleepThreshold)
	assert.Empty(t, r.SleepConsistency)
	assert.Len(t, r.Trend7, 7)
	assert.Len(t, r.Trend90, 90)
	assert.Len(t, r.WeeklyTrend, 13)
	assert.Len(t, r.Rolling, 90)
	assert.Len(t, r.Badges, 10)
	assert.Len(t, r.ConsistencyBadges, 10)
	assert.Equal(t, 0, CountUnlocked(r.Badges))
}

func TestBuildStats_Month(t *testing.T) {
	entries := daily("2024-02-10", 30, func(date string, i int) internal.Entry {
		e := entry(date, 6+float64(i%3), 2+i%3)
		if i%2 == 0 {
			e.Tags = []string{"work"}
		}
		return e
	})
	entries = append(entries, sleepOnly("2024-01-01", 9))

	r, err := BuildStats(entries, 7, DefaultDateFormatter, testNow)
	require.NoError(t, err)

	assert.Equal(t, 31, r.TotalEntries)
	assert.Equal(t, 30, r.CompleteEntries)
	assert.True(t, r.LoggedToday)
	assert.Equal(t, 30, r.Streak)
	assert.Equal(t, 30, r.WindowAverages[30].Count)
	require.NotNil(t, r.Correlation)
	assert.Equal(t, DirectionPositive, r.Correlation.Direction)
	require.NotNil(t, r.MoodBySleepThreshold)
	assert.Equal(t, 7.0, r.MoodBySleepThreshold.Threshold)
	require.NotNil(t, r.PersonalSleepThreshold)
	assert.Equal(t, 8.0, *r.PersonalSleepThreshold)
	require.NotEmpty(t, r.TagInsights)
	assert.Equal(t, "work", r.TagInsights[0].Tag)
	assert.Equal(t, 15, r.TagInsights[0].Count)
	assert.True(t, badgeByID(r.Badges, "logger").Unlocked)
}

func TestBuildStats_Idempotent(t *testing.T) {
	entries := daily("2024-02-20", 20, func(date string, i int) internal.Entry {
		return tagged(entry(date, 5+float64(i%5), 1+i%5), "tag")
	})

	first, err := BuildStats(entries, 7.5, DefaultDateFormatter, testNow)
	require.NoError(t, err)
	second, err := BuildStats(entries, 7.5, DefaultDateFormatter, testNow)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildStats_DoesNotReorderInput(t *testing.T) {
	entries := []internal.Entry{entry("2024-03-10", 8, 4), entry("2024-03-01", 6, 2)}
	_, err := BuildStats(entries, 7, DefaultDateFormatter, testNow)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", entries[0].EntryDate)
}

func TestBuildStats_InvalidDate(t *testing.T) {
	_, err := BuildStats([]internal.Entry{entry("10/03/2024", 7, 3)}, 7, DefaultDateFormatter, testNow)
	assert.ErrorIs(t, err, ErrInvalidEntryDate)
}
