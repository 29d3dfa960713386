package stats

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/AdrianDanlos/rythm/internal"
)

const dateLayout = "2006-01-02"

// Sleep values outside this range are treated as missing.
const maxSleepHours = 24

var ErrInvalidEntryDate = errors.New("stats: invalid entry date")

// DateFormatter renders a time as a local YYYY-MM-DD calendar key.
type DateFormatter func(time.Time) string

// DefaultDateFormatter formats t in its own location.
func DefaultDateFormatter(t time.Time) string {
	return t.Format(dateLayout)
}

func LocalDateFormatter(loc *time.Location) DateFormatter {
	return func(t time.Time) string {
		return t.In(loc).Format(dateLayout)
	}
}

func sleepValue(e internal.Entry) (float64, bool) {
	if e.SleepHours == nil {
		return 0, false
	}
	h := *e.SleepHours
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 || h > maxSleepHours {
		return 0, false
	}
	return h, true
}

func moodValue(e internal.Entry) (float64, bool) {
	if e.Mood == nil {
		return 0, false
	}
	return float64(*e.Mood), true
}

func hasBoth(e internal.Entry) bool {
	_, okSleep := sleepValue(e)
	_, okMood := moodValue(e)
	return okSleep && okMood
}

// dayNumber maps a YYYY-MM-DD date to a civil day count so that
// adjacent calendar days always differ by exactly one.
func dayNumber(date string) (int, bool) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0, false
	}
	return int(t.Unix() / 86400), true
}

// dayKey is the inverse of dayNumber.
func dayKey(day int) string {
	return time.Unix(int64(day)*86400, 0).UTC().Format(dateLayout)
}

// sortedByDate returns a copy of entries ordered by EntryDate ascending.
func sortedByDate(entries []internal.Entry) []internal.Entry {
	sorted := make([]internal.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EntryDate < sorted[j].EntryDate
	})
	return sorted
}

// longestRun walks date-sorted entries and returns the longest run of
// qualifying entries on consecutive calendar days, plus the run that is
// still open at the end of the list.
func longestRun(sorted []internal.Entry, qualifies func(internal.Entry) bool) (best, current int) {
	prev, havePrev := 0, false
	for _, e := range sorted {
		day, ok := dayNumber(e.EntryDate)
		if !ok || !qualifies(e) {
			current, havePrev = 0, false
			continue
		}
		if havePrev && day-prev == 1 {
			current++
		} else {
			current = 1
		}
		prev, havePrev = day, true
		if current > best {
			best = current
		}
	}
	return best, current
}

func mean(sum float64, n int) *float64 {
	if n == 0 {
		return nil
	}
	v := sum / float64(n)
	return &v
}

func clampFloat(value, minimum, maximum float64) float64 {
	if value < minimum {
		return minimum
	}
	if value > maximum {
		return maximum
	}
	return value
}
