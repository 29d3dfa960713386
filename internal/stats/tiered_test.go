package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdrianDanlos/rythm/internal"
)

func TestTieredBadges_Order(t *testing.T) {
	badges := GetTieredBadges(nil)
	assert.Equal(t, []string{
		"logger", "eight-hour-elite", "events-explorer", "events-master", "peak-days",
		"reflector", "mood-steady", "balanced-week", "monthly-milestone", "bounce-back",
	}, ids(badges))
	for _, b := range badges {
		assert.False(t, b.Unlocked, b.ID)
		assert.Equal(t, 0, b.CurrentTierIndex, b.ID)
	}
	assert.Equal(t, "0/7", badgeByID(badges, "logger").ProgressText)
}

func TestTieredBadges_LoggerTiers(t *testing.T) {
	week := daily("2024-01-01", 7, func(date string, _ int) internal.Entry { return entry(date, 7, 3) })
	logger := badgeByID(GetTieredBadges(week), "logger")
	assert.True(t, logger.Unlocked)
	assert.Equal(t, 0, logger.CurrentTierIndex)
	assert.Equal(t, "Bronze", logger.TierLabel)
	assert.Equal(t, "7/30", logger.ProgressText)
	assert.Equal(t, 5, logger.TierCount)

	year := daily("2023-01-01", 365, func(date string, _ int) internal.Entry { return entry(date, 7, 3) })
	badges := GetTieredBadges(year)
	logger = badgeByID(badges, "logger")
	assert.Equal(t, 4, logger.CurrentTierIndex)
	assert.Equal(t, "Diamond", logger.TierLabel)
	assert.Equal(t, MaxLevelText, logger.ProgressText)
	assert.Equal(t, 1.0, logger.Fraction())

	assert.True(t, badgeByID(badges, "monthly-milestone").Unlocked)
	assert.True(t, badgeByID(badges, "balanced-week").Unlocked)
}

func TestTieredBadges_CountsTagsNotesAndPeaks(t *testing.T) {
	note := "slept well"
	blank := "   "
	entries := []internal.Entry{
		tagged(entry("2024-01-01", 8, 5), "work", "gym"),
		tagged(entry("2024-01-02", 8, 5), "coffee", "work", "work"),
		tagged(entry("2024-01-03", 6, 5), " "),
	}
	entries[0].Note = &note
	entries[1].Note = &blank

	badges := GetTieredBadges(entries)
	explorer := badgeByID(badges, "events-explorer")
	assert.True(t, explorer.Unlocked)
	assert.Equal(t, "3/8", explorer.ProgressText)

	master := badgeByID(badges, "events-master")
	assert.Equal(t, "2/10", master.ProgressText)

	peak := badgeByID(badges, "peak-days")
	assert.True(t, peak.Unlocked)

	reflector := badgeByID(badges, "reflector")
	assert.Equal(t, "1/5", reflector.ProgressText)

	elite := badgeByID(badges, "eight-hour-elite")
	assert.Equal(t, "2/5", elite.ProgressText)
}

func TestTieredBadges_MoodSteadyKeepsBestTierButShowsCurrentRun(t *testing.T) {
	entries := daily("2024-01-01", 5, func(date string, _ int) internal.Entry { return moodOnly(date, 4) })
	entries = append(entries,
		moodOnly("2024-01-06", 2),
		moodOnly("2024-01-07", 4),
		moodOnly("2024-01-08", 4),
	)

	steady := badgeByID(GetTieredBadges(entries), "mood-steady")
	assert.True(t, steady.Unlocked)
	assert.Equal(t, 0, steady.CurrentTierIndex)
	assert.Equal(t, "2/7", steady.ProgressText)
	assert.Equal(t, 2.0, steady.ProgressValue)
}

func TestTieredBadges_BounceBack(t *testing.T) {
	cases := []struct {
		name    string
		entries []internal.Entry
		want    bool
	}{
		{
			name: "adjacent",
			entries: []internal.Entry{
				moodOnly("2024-01-01", 1), moodOnly("2024-01-02", 2),
				moodOnly("2024-01-03", 3), moodOnly("2024-01-04", 4),
			},
			want: true,
		},
		{
			name: "low run banked across a gap",
			entries: []internal.Entry{
				moodOnly("2024-01-01", 1), moodOnly("2024-01-02", 2),
				moodOnly("2024-01-05", 4), moodOnly("2024-01-06", 4),
			},
			want: true,
		},
		{
			name: "single low day",
			entries: []internal.Entry{
				moodOnly("2024-01-01", 1), moodOnly("2024-01-02", 4), moodOnly("2024-01-03", 4),
			},
			want: false,
		},
		{
			name: "high run broken by gap",
			entries: []internal.Entry{
				moodOnly("2024-01-01", 1), moodOnly("2024-01-02", 2),
				moodOnly("2024-01-03", 4), moodOnly("2024-01-05", 4),
			},
			want: false,
		},
		{
			name: "low days not consecutive",
			entries: []internal.Entry{
				moodOnly("2024-01-01", 1), moodOnly("2024-01-03", 2),
				moodOnly("2024-01-04", 4), moodOnly("2024-01-05", 4),
			},
			want: false,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := badgeByID(GetTieredBadges(c.entries), "bounce-back")
			assert.Equal(t, c.want, b.Unlocked)
		})
	}
}

func TestTieredBadges_TierIndexNeverDecreases(t *testing.T) {
	history := daily("2024-01-01", 120, func(date string, i int) internal.Entry {
		e := entry(date, 6+float64(i%4), 2+i%4)
		if i%3 == 0 {
			e.Tags = []string{"tag" + date[8:]}
		}
		return e
	})

	prev := make(map[string]int)
	for n := 1; n <= len(history); n++ {
		for _, b := range GetTieredBadges(history[:n]) {
			require.GreaterOrEqual(t, b.CurrentTierIndex, prev[b.ID], "%s after %d entries", b.ID, n)
			prev[b.ID] = b.CurrentTierIndex
		}
	}
}
