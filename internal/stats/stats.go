package stats

import (
	"time"

	"github.com/AdrianDanlos/rythm/internal"
)

const (
	tagInsightLimit   = 10
	tagDriverMinCount = 2
)

// Result is everything derived from one user's entries at one point in
// time. It is rebuilt from scratch on every BuildStats call.
type Result struct {
	Today                   string              `json:"today"`
	TotalEntries            int                 `json:"total_entries"`
	CompleteEntries         int                 `json:"complete_entries"`
	LoggedToday             bool                `json:"logged_today"`
	WindowAverages          map[int]WindowStats `json:"window_averages"`
	RhythmScore             *int                `json:"rhythm_score"`
	Streak                  int                 `json:"streak"`
	StreakActive            bool                `json:"streak_active"`
	Correlation             *CorrelationInsight `json:"correlation"`
	SleepConsistency        string              `json:"sleep_consistency,omitempty"`
	SleepThreshold          float64             `json:"sleep_threshold"`
	MoodBySleepThreshold    *ThresholdSplit     `json:"mood_by_sleep_threshold"`
	PersonalSleepThreshold  *float64            `json:"personal_sleep_threshold"`
	MoodByPersonalThreshold *ThresholdSplit     `json:"mood_by_personal_threshold"`
	Trend7                  []TrendPoint        `json:"trend7"`
	Trend30                 []TrendPoint        `json:"trend30"`
	Trend90                 []TrendPoint        `json:"trend90"`
	WeeklyTrend             []TrendPoint        `json:"weekly_trend"`
	Rolling                 []RollingPoint      `json:"rolling"`
	RollingSummaries        []RollingSummary    `json:"rolling_summaries"`
	TagInsights             []TagInsight        `json:"tag_insights"`
	TagDrivers              []TagDriver         `json:"tag_drivers"`
	TagSleepDrivers         []TagSleepDriver    `json:"tag_sleep_drivers"`
	Badges                  []Badge             `json:"badges"`
	ConsistencyBadges       []Badge             `json:"consistency_badges"`
}

// BuildStats derives the full stats result for entries as of now. Calls
// with equal arguments return equal results; nothing is cached here.
func BuildStats(entries []internal.Entry, sleepThreshold float64, format DateFormatter, now time.Time) (*Result, error) {
	w, err := NewWindowing(entries, format, now)
	if err != nil {
		return nil, err
	}

	r := &Result{
		Today:                   w.Today(),
		TotalEntries:            len(entries),
		CompleteEntries:         CalculateAverages(entries).Count,
		LoggedToday:             w.LoggedToday(),
		WindowAverages:          w.WindowAverages(),
		RhythmScore:             w.RhythmScore(),
		Streak:                  w.Streak(),
		StreakActive:            w.StreakActive(),
		SleepThreshold:          sleepThreshold,
		MoodBySleepThreshold:    w.MoodBySleepThreshold(sleepThreshold),
		PersonalSleepThreshold:  w.PersonalSleepThreshold(),
		MoodByPersonalThreshold: w.MoodByPersonalThreshold(),
		Trend7:                  w.BuildTrendSeries(7),
		Trend30:                 w.BuildTrendSeries(30),
		Trend90:                 w.BuildTrendSeries(90),
		Rolling:                 w.RollingSeries(),
		RollingSummaries:        w.RollingSummaries(),
		TagInsights:             BuildTagInsights(entries, tagInsightLimit),
		TagDrivers:              BuildTagDrivers(entries, tagDriverMinCount),
		TagSleepDrivers:         BuildTagSleepDrivers(entries, tagDriverMinCount),
		Badges:                  GetTieredBadges(entries),
		ConsistencyBadges:       GetSleepConsistencyBadges(entries),
	}
	r.WeeklyTrend = BuildWeeklyTrendSeries(r.Trend90)
	if insight, ok := GetCorrelationInsight(entries); ok {
		r.Correlation = &insight
	}
	if label, ok := GetSleepConsistencyLabel(entries); ok {
		r.SleepConsistency = label
	}
	return r, nil
}
