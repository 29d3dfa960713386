package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/AdrianDanlos/rythm/internal"
)

// FixedWindows are the trailing windows, in days, precomputed for every
// stats result.
var FixedWindows = []int{7, 30, 90, 365}

// RollingWindows are the trailing windows compared against the period
// right before them.
var RollingWindows = []int{7, 30, 90}

const (
	rhythmWindowDays   = 30
	rhythmMinEntries   = 5
	rhythmMaxStdDev    = 3.0
	thresholdMinEntry  = 5
	personalMinEntries = 5
	personalTopShare   = 0.3
	personalTopMin     = 3
	personalMinHours   = 4.0
	personalMaxHours   = 10.0
	rollingSeriesDays  = 90
	weekLength         = 7
)

type TrendPoint struct {
	Date  string   `json:"date"`
	Sleep *float64 `json:"sleep"`
	Mood  *float64 `json:"mood"`
}

type RollingPoint struct {
	Date    string   `json:"date"`
	Sleep7  *float64 `json:"sleep7"`
	Sleep30 *float64 `json:"sleep30"`
	Sleep90 *float64 `json:"sleep90"`
	Mood7   *float64 `json:"mood7"`
	Mood30  *float64 `json:"mood30"`
	Mood90  *float64 `json:"mood90"`
}

type RollingSummary struct {
	Days       int         `json:"days"`
	Current    WindowStats `json:"current"`
	Previous   WindowStats `json:"previous"`
	SleepDelta *float64    `json:"sleep_delta"`
	MoodDelta  *float64    `json:"mood_delta"`
}

// ThresholdSplit compares average mood on nights at or above a sleep
// threshold with nights below it.
type ThresholdSplit struct {
	Threshold  float64  `json:"threshold"`
	Above      *float64 `json:"above"`
	Below      *float64 `json:"below"`
	AboveCount int      `json:"above_count"`
	BelowCount int      `json:"below_count"`
}

// Windowing binds a set of entries to a calendar "today" so trailing
// windows and day-by-day series can be derived from it.
type Windowing struct {
	entries []internal.Entry
	byDay   map[int][]internal.Entry
	today   int
}

// NewWindowing indexes entries by calendar day. Today is format(now); every
// entry date must be a valid YYYY-MM-DD string.
func NewWindowing(entries []internal.Entry, format DateFormatter, now time.Time) (*Windowing, error) {
	if format == nil {
		format = DefaultDateFormatter
	}
	todayKey := format(now)
	today, ok := dayNumber(todayKey)
	if !ok {
		return nil, fmt.Errorf("%w: formatter returned %q", ErrInvalidEntryDate, todayKey)
	}

	w := &Windowing{
		entries: sortedByDate(entries),
		byDay:   make(map[int][]internal.Entry, len(entries)),
		today:   today,
	}
	for _, e := range w.entries {
		day, ok := dayNumber(e.EntryDate)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidEntryDate, e.EntryDate)
		}
		w.byDay[day] = append(w.byDay[day], e)
	}
	return w, nil
}

func (w *Windowing) Today() string {
	return w.dateKey(0)
}

// dateKey labels the day that lies daysAgo days before today. Labels come
// from the same day numbers that index byDay, so they cannot drift apart.
func (w *Windowing) dateKey(daysAgo int) string {
	return dayKey(w.today - daysAgo)
}

func (w *Windowing) entriesBetween(first, last int) []internal.Entry {
	var out []internal.Entry
	for d := first; d <= last; d++ {
		out = append(out, w.byDay[d]...)
	}
	return out
}

func (w *Windowing) averagesEnding(end, days int) WindowStats {
	return CalculateAverages(w.entriesBetween(end-days+1, end))
}

// BuildWindow averages the entries in [today-offsetDays-days+1, today-offsetDays].
func (w *Windowing) BuildWindow(days, offsetDays int) WindowStats {
	if days <= 0 {
		return WindowStats{}
	}
	return w.averagesEnding(w.today-offsetDays, days)
}

func (w *Windowing) WindowAverages() map[int]WindowStats {
	out := make(map[int]WindowStats, len(FixedWindows))
	for _, days := range FixedWindows {
		out[days] = w.BuildWindow(days, 0)
	}
	return out
}

// RhythmScore rates how steady sleep duration was over the last 30 days on
// a 0–100 scale. It needs at least five sleep values.
func (w *Windowing) RhythmScore() *int {
	var values []float64
	for _, e := range w.entriesBetween(w.today-rhythmWindowDays+1, w.today) {
		if s, ok := sleepValue(e); ok {
			values = append(values, s)
		}
	}
	if len(values) < rhythmMinEntries {
		return nil
	}
	sd := populationStdDev(values)
	normalized := clampFloat(1-math.Min(rhythmMaxStdDev, sd)/rhythmMaxStdDev, 0, 1)
	score := int(math.Round(normalized * 100))
	return &score
}

// Streak counts consecutive calendar days with any entry, walking back
// from the latest entry date.
func (w *Windowing) Streak() int {
	if len(w.byDay) == 0 {
		return 0
	}
	latest := math.MinInt
	for day := range w.byDay {
		latest = max(latest, day)
	}
	streak := 0
	for {
		if _, ok := w.byDay[latest-streak]; !ok {
			return streak
		}
		streak++
	}
}

// StreakActive reports whether the latest entry is from today or
// yesterday, so the streak can still be extended.
func (w *Windowing) StreakActive() bool {
	for day := range w.byDay {
		if day >= w.today-1 {
			return true
		}
	}
	return false
}

// LoggedToday reports whether an entry exists for today.
func (w *Windowing) LoggedToday() bool {
	_, ok := w.byDay[w.today]
	return ok
}

func splitByThreshold(entries []internal.Entry, threshold float64) *ThresholdSplit {
	var aboveSum, belowSum float64
	var aboveCount, belowCount int
	for _, e := range entries {
		s, okSleep := sleepValue(e)
		m, okMood := moodValue(e)
		if !okSleep || !okMood {
			continue
		}
		if s >= threshold {
			aboveSum += m
			aboveCount++
		} else {
			belowSum += m
			belowCount++
		}
	}
	return &ThresholdSplit{
		Threshold:  threshold,
		Above:      mean(aboveSum, aboveCount),
		Below:      mean(belowSum, belowCount),
		AboveCount: aboveCount,
		BelowCount: belowCount,
	}
}

// MoodBySleepThreshold needs at least five entries overall.
func (w *Windowing) MoodBySleepThreshold(threshold float64) *ThresholdSplit {
	if len(w.entries) < thresholdMinEntry {
		return nil
	}
	return splitByThreshold(w.entries, threshold)
}

// PersonalSleepThreshold estimates how much sleep precedes the user's best
// days: the mean sleep of the top 30% (at least three) entries by mood,
// rounded to the nearest half hour and clamped to [4, 10].
func (w *Windowing) PersonalSleepThreshold() *float64 {
	var complete []internal.Entry
	for _, e := range w.entries {
		if hasBoth(e) {
			complete = append(complete, e)
		}
	}
	if len(complete) < personalMinEntries {
		return nil
	}
	sort.SliceStable(complete, func(i, j int) bool {
		return *complete[i].Mood > *complete[j].Mood
	})

	top := max(personalTopMin, int(math.Ceil(personalTopShare*float64(len(complete)))))
	top = min(top, len(complete))
	var sum float64
	for _, e := range complete[:top] {
		s, _ := sleepValue(e)
		sum += s
	}
	threshold := math.Round(sum/float64(top)*2) / 2
	threshold = clampFloat(threshold, personalMinHours, personalMaxHours)
	return &threshold
}

func (w *Windowing) MoodByPersonalThreshold() *ThresholdSplit {
	threshold := w.PersonalSleepThreshold()
	if threshold == nil {
		return nil
	}
	return splitByThreshold(w.entries, *threshold)
}

// BuildTrendSeries returns one point per calendar day of the trailing
// window, oldest first. Days without an entry get an empty point.
func (w *Windowing) BuildTrendSeries(days int) []TrendPoint {
	points := make([]TrendPoint, 0, max(days, 0))
	for i := days - 1; i >= 0; i-- {
		p := TrendPoint{Date: w.dateKey(i)}
		for _, e := range w.byDay[w.today-i] {
			if s, ok := sleepValue(e); ok {
				p.Sleep = &s
			}
			if m, ok := moodValue(e); ok {
				p.Mood = &m
			}
		}
		points = append(points, p)
	}
	return points
}

// RollingSeries returns, for each of the last 90 days, the trailing 7, 30
// and 90 day averages ending on that day.
func (w *Windowing) RollingSeries() []RollingPoint {
	points := make([]RollingPoint, 0, rollingSeriesDays)
	for i := rollingSeriesDays - 1; i >= 0; i-- {
		end := w.today - i
		w7 := w.averagesEnding(end, 7)
		w30 := w.averagesEnding(end, 30)
		w90 := w.averagesEnding(end, 90)
		points = append(points, RollingPoint{
			Date:    w.dateKey(i),
			Sleep7:  w7.Sleep,
			Sleep30: w30.Sleep,
			Sleep90: w90.Sleep,
			Mood7:   w7.Mood,
			Mood30:  w30.Mood,
			Mood90:  w90.Mood,
		})
	}
	return points
}

func (w *Windowing) RollingSummaries() []RollingSummary {
	summaries := make([]RollingSummary, 0, len(RollingWindows))
	for _, days := range RollingWindows {
		current := w.BuildWindow(days, 0)
		previous := w.BuildWindow(days, days)
		summaries = append(summaries, RollingSummary{
			Days:       days,
			Current:    current,
			Previous:   previous,
			SleepDelta: delta(current.Sleep, previous.Sleep),
			MoodDelta:  delta(current.Mood, previous.Mood),
		})
	}
	return summaries
}

func delta(current, previous *float64) *float64 {
	if current == nil || previous == nil {
		return nil
	}
	d := *current - *previous
	return &d
}

// BuildWeeklyTrendSeries groups daily points into consecutive weeks of
// seven (the last may be shorter), each labelled with its first date.
func BuildWeeklyTrendSeries(points []TrendPoint) []TrendPoint {
	var weeks []TrendPoint
	for start := 0; start < len(points); start += weekLength {
		chunk := points[start:min(start+weekLength, len(points))]
		var sleepSum, moodSum float64
		var sleepCount, moodCount int
		for _, p := range chunk {
			if p.Sleep != nil {
				sleepSum += *p.Sleep
				sleepCount++
			}
			if p.Mood != nil {
				moodSum += *p.Mood
				moodCount++
			}
		}
		weeks = append(weeks, TrendPoint{
			Date:  chunk[0].Date,
			Sleep: mean(sleepSum, sleepCount),
			Mood:  mean(moodSum, moodCount),
		})
	}
	return weeks
}
