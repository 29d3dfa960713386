package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdrianDanlos/rythm/internal"
)

func tagFixture() []internal.Entry {
	return []internal.Entry{
		tagged(entry("2024-01-01", 6, 2), "work", "gym"),
		tagged(entry("2024-01-02", 7, 3), "work"),
		tagged(entry("2024-01-03", 8, 5), "gym", "gym", " "),
		entry("2024-01-04", 8, 4),
	}
}

func TestBuildTagInsights(t *testing.T) {
	insights := BuildTagInsights(tagFixture(), 0)
	require.Len(t, insights, 2)

	assert.Equal(t, "gym", insights[0].Tag)
	assert.Equal(t, 2, insights[0].Count)
	assert.InDelta(t, 7.0, *insights[0].Sleep, 1e-9)
	assert.InDelta(t, 3.5, *insights[0].Mood, 1e-9)

	assert.Equal(t, "work", insights[1].Tag)
	assert.InDelta(t, 6.5, *insights[1].Sleep, 1e-9)
	assert.InDelta(t, 2.5, *insights[1].Mood, 1e-9)

	limited := BuildTagInsights(tagFixture(), 1)
	require.Len(t, limited, 1)
	assert.Equal(t, "gym", limited[0].Tag)
}

func TestBuildTagInsights_RawValuesPerMetric(t *testing.T) {
	entries := []internal.Entry{
		tagged(sleepOnly("2024-01-01", 9), "travel"),
		tagged(moodOnly("2024-01-02", 2), "travel"),
	}
	insights := BuildTagInsights(entries, 0)
	require.Len(t, insights, 1)
	assert.Equal(t, 2, insights[0].Count)
	assert.Equal(t, 9.0, *insights[0].Sleep)
	assert.Equal(t, 2.0, *insights[0].Mood)
}

func TestBuildTagDrivers(t *testing.T) {
	drivers := BuildTagDrivers(tagFixture(), 2)
	require.Len(t, drivers, 2)

	assert.Equal(t, "work", drivers[0].Tag)
	assert.Equal(t, 2, drivers[0].Count)
	assert.InDelta(t, 2.5, drivers[0].MoodWith, 1e-9)
	assert.InDelta(t, 4.5, drivers[0].MoodWithout, 1e-9)
	assert.InDelta(t, drivers[0].MoodWith-drivers[0].MoodWithout, drivers[0].Delta, 1e-9)
	assert.InDelta(t, -2.0, drivers[0].Delta, 1e-9)

	assert.Equal(t, "gym", drivers[1].Tag)
	assert.InDelta(t, 0.0, drivers[1].Delta, 1e-9)
}

func TestBuildTagDrivers_DropsTagsBelowMinimum(t *testing.T) {
	entries := append(tagFixture(), tagged(entry("2024-01-05", 7, 1), "rare"))

	for _, d := range BuildTagDrivers(entries, 2) {
		assert.NotEqual(t, "rare", d.Tag)
	}
	assert.Empty(t, BuildTagDrivers(entries, 3))

	found := false
	for _, d := range BuildTagDrivers(entries, 1) {
		if d.Tag == "rare" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestBuildTagSleepDrivers(t *testing.T) {
	drivers := BuildTagSleepDrivers(tagFixture(), 2)
	require.Len(t, drivers, 2)

	assert.Equal(t, "work", drivers[0].Tag)
	assert.InDelta(t, 6.5, drivers[0].SleepWith, 1e-9)
	assert.InDelta(t, 8.0, drivers[0].SleepWithout, 1e-9)
	assert.InDelta(t, -1.5, drivers[0].Delta, 1e-9)

	assert.Equal(t, "gym", drivers[1].Tag)
	assert.InDelta(t, -0.5, drivers[1].Delta, 1e-9)
}
