package stats

import (
	"fmt"
	"math"

	"github.com/AdrianDanlos/rythm/internal"
)

const (
	ConsistencyVery     = "Very consistent"
	ConsistencyGood     = "Consistent"
	ConsistencyMixed    = "Mixed"
	ConsistencyUnstable = "Unstable"
)

// GetSleepConsistencyLabel classifies the population standard deviation of
// sleep hours. It needs at least two sleep values.
func GetSleepConsistencyLabel(entries []internal.Entry) (string, bool) {
	var values []float64
	for _, e := range entries {
		if s, ok := sleepValue(e); ok {
			values = append(values, s)
		}
	}
	if len(values) < 2 {
		return "", false
	}

	sd := populationStdDev(values)
	switch {
	case sd <= 0.9:
		return ConsistencyVery, true
	case sd <= 2.0:
		return ConsistencyGood, true
	case sd <= 3.5:
		return ConsistencyMixed, true
	default:
		return ConsistencyUnstable, true
	}
}

func populationStdDev(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		diff := v - avg
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

const (
	restRewardWindow = 7
	restRewardHours  = 50
	monthlyEntries   = 30
)

// GetSleepConsistencyBadges evaluates the sleep habit badges over the whole
// history and returns them closest-to-unlocking first.
func GetSleepConsistencyBadges(entries []internal.Entry) []Badge {
	sorted := sortedByDate(entries)

	var sevenPlus, eightPlus, ninePlus int
	for _, e := range sorted {
		s, ok := sleepValue(e)
		if !ok {
			continue
		}
		if s >= 7 {
			sevenPlus++
		}
		if s >= 8 {
			eightPlus++
		}
		if s >= 9 {
			ninePlus++
		}
	}

	longestStreak, _ := longestRun(sorted, func(internal.Entry) bool { return true })
	balancedRun, _ := longestRun(sorted, func(e internal.Entry) bool {
		s, ok := sleepValue(e)
		return ok && s >= 6 && s <= 9
	})

	perMonth := make(map[string]int)
	bestMonth := 0
	for _, e := range sorted {
		if len(e.EntryDate) < 7 {
			continue
		}
		month := e.EntryDate[:7]
		perMonth[month]++
		bestMonth = max(bestMonth, perMonth[month])
	}

	badges := []Badge{
		countBadge("seven-hour-nights", "Solid Sevens", "Sleep 7 hours or more on 5 nights", sevenPlus, 5),
		countBadge("eight-hour-nights", "Eight Is Great", "Sleep 8 hours or more on 3 nights", eightPlus, 3),
		countBadge("nine-hour-night", "Deep Recharge", "Sleep 9 hours or more in a single night", ninePlus, 1),
		countBadge("three-day-streak", "Three-Day Streak", "Log 3 days in a row", longestStreak, 3),
		countBadge("consistent-week", "Consistent Week", "Log 7 days in a row", longestStreak, 7),
		countBadge("balanced-week", "Balanced Week", "Sleep between 6 and 9 hours for 7 days in a row", balancedRun, 7),
		countBadge("monthly-milestone", "Monthly Milestone", "Log 30 entries within one calendar month", bestMonth, monthlyEntries),
		countBadge("century-club", "Century Club", "Log 100 entries", len(sorted), 100),
		countBadge("half-year-habit", "Half-Year Habit", "Log 180 entries", len(sorted), 180),
		restRewardBadge(sorted),
	}
	SortBadges(badges)
	return badges
}

// restRewardBadge looks for seven consecutive entries, by position rather
// than by calendar day, whose sleep adds up to 50 hours.
func restRewardBadge(sorted []internal.Entry) Badge {
	window := min(restRewardWindow, len(sorted))
	best := 0.0
	for start := 0; start+window <= len(sorted) && window > 0; start++ {
		total := 0.0
		for _, e := range sorted[start : start+window] {
			if s, ok := sleepValue(e); ok {
				total += s
			}
		}
		best = math.Max(best, total)
	}

	unlocked := len(sorted) >= restRewardWindow && best >= restRewardHours
	// A short history can only claim its share of the 50 hours, so the
	// badge never reads as complete while it is still locked.
	progress := math.Min(best, restRewardHours*float64(window)/restRewardWindow)
	return Badge{
		ID:            "rest-reward",
		Title:         "Rest Reward",
		Description:   "Sleep 50 hours across 7 logged nights",
		Unlocked:      unlocked,
		ProgressText:  fmt.Sprintf("%.1f/%dh", progress, restRewardHours),
		ProgressValue: progress,
		ProgressTotal: restRewardHours,
		TierCount:     1,
	}
}
