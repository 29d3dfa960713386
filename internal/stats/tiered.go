package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/AdrianDanlos/rythm/internal"
)

const MaxLevelText = "Max level"

var tierLabels = []string{"Bronze", "Silver", "Gold", "Platinum", "Diamond"}

type tierDef struct {
	id          string
	title       string
	description string
	thresholds  []int
}

var (
	loggerTiers         = tierDef{"logger", "Logger", "Entries logged", []int{7, 30, 90, 180, 365}}
	eightHourEliteTiers = tierDef{"eight-hour-elite", "Eight-Hour Elite", "Nights with 8 hours of sleep or more", []int{5, 15, 40, 100, 200}}
	eventsExplorerTiers = tierDef{"events-explorer", "Events Explorer", "Different tags used", []int{3, 8, 15, 25, 40}}
	eventsMasterTiers   = tierDef{"events-master", "Events Master", "Entries with at least one tag", []int{10, 30, 75, 150, 300}}
	peakDaysTiers       = tierDef{"peak-days", "Peak Days", "Days rated with the top mood", []int{3, 10, 25, 60, 120}}
	reflectorTiers      = tierDef{"reflector", "Reflector", "Entries with a written note", []int{5, 20, 50, 100, 200}}
	moodSteadyTiers     = tierDef{"mood-steady", "Mood Steady", "Consecutive days with mood 3 or higher", []int{3, 7, 14, 30, 60}}
)

const peakMood = 5

// tieredBadge ranks value against the tier thresholds. progress is what the
// badge shows towards the next tier; for most badges it equals value.
func tieredBadge(def tierDef, value, progress int) Badge {
	met := 0
	for _, t := range def.thresholds {
		if value >= t {
			met++
		}
	}
	tiers := len(def.thresholds)
	b := Badge{
		ID:               def.id,
		Title:            def.title,
		Description:      def.description,
		Unlocked:         met > 0,
		CurrentTierIndex: min(max(met-1, 0), tiers-1),
		TierCount:        tiers,
	}
	if met > 0 {
		b.TierLabel = tierLabels[b.CurrentTierIndex]
	}

	if met == tiers {
		top := float64(def.thresholds[tiers-1])
		b.ProgressText = MaxLevelText
		b.ProgressValue = top
		b.ProgressTotal = top
		return b
	}
	next := def.thresholds[met]
	shown := min(progress, next)
	b.ProgressText = fmt.Sprintf("%d/%d", shown, next)
	b.ProgressValue = float64(shown)
	b.ProgressTotal = float64(next)
	return b
}

func binaryBadge(id, title, description string, unlocked bool, value, total int, text string) Badge {
	b := Badge{
		ID:            id,
		Title:         title,
		Description:   description,
		Unlocked:      unlocked,
		ProgressText:  text,
		ProgressValue: float64(min(value, total)),
		ProgressTotal: float64(total),
		TierCount:     1,
	}
	if unlocked {
		b.TierLabel = "Unlocked"
	}
	return b
}

// GetTieredBadges evaluates the achievement badges against the full entry
// history, in their fixed display order.
func GetTieredBadges(entries []internal.Entry) []Badge {
	sorted := sortedByDate(entries)

	var eightPlus, tagged, peak, notes int
	distinctTags := make(map[string]struct{})
	for _, e := range sorted {
		if s, ok := sleepValue(e); ok && s >= 8 {
			eightPlus++
		}
		if tags := entryTags(e); len(tags) > 0 {
			tagged++
			for _, t := range tags {
				distinctTags[t] = struct{}{}
			}
		}
		if e.Mood != nil && *e.Mood >= peakMood {
			peak++
		}
		if e.Note != nil && strings.TrimSpace(*e.Note) != "" {
			notes++
		}
	}

	bestSteady, currentSteady := moodSteadyRuns(sorted)

	return []Badge{
		tieredBadge(loggerTiers, len(sorted), len(sorted)),
		tieredBadge(eightHourEliteTiers, eightPlus, eightPlus),
		tieredBadge(eventsExplorerTiers, len(distinctTags), len(distinctTags)),
		tieredBadge(eventsMasterTiers, tagged, tagged),
		tieredBadge(peakDaysTiers, peak, peak),
		tieredBadge(reflectorTiers, notes, notes),
		tieredBadge(moodSteadyTiers, bestSteady, currentSteady),
		balancedWeekBadge(sorted),
		fullMonthBadge(sorted),
		bounceBackBadge(sorted),
	}
}

// moodSteadyRuns returns the best-ever and the trailing run of consecutive
// days with mood >= 3, looking only at entries that carry a mood.
func moodSteadyRuns(sorted []internal.Entry) (best, current int) {
	var withMood []internal.Entry
	for _, e := range sorted {
		if e.Mood != nil {
			withMood = append(withMood, e)
		}
	}
	return longestRun(withMood, func(e internal.Entry) bool { return *e.Mood >= 3 })
}

func balancedWeekBadge(sorted []internal.Entry) Badge {
	run, _ := longestRun(sorted, func(e internal.Entry) bool {
		s, okSleep := sleepValue(e)
		m, okMood := moodValue(e)
		return okSleep && okMood && s >= 7 && s <= 9 && m >= 3
	})
	return binaryBadge("balanced-week", "Balanced Week",
		"7 days in a row with 7–9 hours of sleep and mood 3 or higher",
		run >= 7, run, 7, fmt.Sprintf("%d/%d", min(run, 7), 7))
}

// fullMonthBadge unlocks once every day of some calendar month has an entry.
func fullMonthBadge(sorted []internal.Entry) Badge {
	days := make(map[string]map[string]struct{})
	var months []string
	for _, e := range sorted {
		if _, ok := dayNumber(e.EntryDate); !ok {
			continue
		}
		month := e.EntryDate[:7]
		if days[month] == nil {
			days[month] = make(map[string]struct{})
			months = append(months, month)
		}
		days[month][e.EntryDate] = struct{}{}
	}

	// months is already in calendar order since entries are sorted.
	bestCount, bestTotal := 0, 30
	bestFraction := 0.0
	unlocked := false
	for _, month := range months {
		first, _ := time.Parse("2006-01", month)
		total := first.AddDate(0, 1, -1).Day()
		logged := len(days[month])
		fraction := float64(logged) / float64(total)
		if fraction > bestFraction {
			bestFraction, bestCount, bestTotal = fraction, logged, total
		}
		if logged == total {
			unlocked = true
		}
	}

	return binaryBadge("monthly-milestone", "Monthly Milestone",
		"Log every day of a calendar month",
		unlocked, bestCount, bestTotal, fmt.Sprintf("%d/%d", bestCount, bestTotal))
}

// bounceBackBadge looks for two consecutive low-mood days (mood < 3)
// followed by two consecutive days with mood >= 3.
//
// A low run only grows while days are consecutive and the previous day was
// also low. It is not cleared by a gap, so a low run established earlier
// still counts when a later high run reaches two days.
func bounceBackBadge(sorted []internal.Entry) Badge {
	lowRun, highRun := 0, 0
	prevDay, havePrev, prevLow := 0, false, false
	unlocked := false
	for _, e := range sorted {
		if e.Mood == nil {
			continue
		}
		day, ok := dayNumber(e.EntryDate)
		consecutive := ok && havePrev && day-prevDay == 1
		low := *e.Mood < 3
		if low {
			if consecutive && prevLow {
				lowRun++
			} else {
				lowRun = 1
			}
			highRun = 0
		} else {
			if consecutive {
				highRun++
			} else {
				highRun = 1
			}
			if lowRun >= 2 && highRun >= 2 {
				unlocked = true
				break
			}
		}
		prevDay, havePrev, prevLow = day, ok, low
	}

	progress := 0
	if unlocked {
		progress = 1
	}
	return binaryBadge("bounce-back", "Bounce Back",
		"Follow two low-mood days with two good days in a row",
		unlocked, progress, 1, fmt.Sprintf("%d/%d", progress, 1))
}
