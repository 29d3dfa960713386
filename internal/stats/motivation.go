package stats

import (
	"fmt"
	"hash/fnv"
	"math"
)

// MotivationContext is what the message rules look at.
type MotivationContext struct {
	Today                  string
	TotalEntries           int
	LoggedToday            bool
	Streak                 int
	StreakActive           bool
	RhythmScore            *int
	Correlation            *CorrelationInsight
	PersonalSleepThreshold *float64
	Week                   *RollingSummary
	UnlockedBadges         int
	NextBadge              *Badge
}

type MotivationMessage struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type motivationRule struct {
	id     string
	when   func(MotivationContext) bool
	render func(MotivationContext) string
}

const (
	sleepDeltaNotable = 0.25
	moodDeltaNotable  = 0.3
	nextBadgeNear     = 0.8
)

// NewMotivationContext collects the message inputs from a stats result.
func NewMotivationContext(r *Result) MotivationContext {
	ctx := MotivationContext{
		Today:                  r.Today,
		TotalEntries:           r.TotalEntries,
		LoggedToday:            r.LoggedToday,
		Streak:                 r.Streak,
		StreakActive:           r.StreakActive,
		RhythmScore:            r.RhythmScore,
		Correlation:            r.Correlation,
		PersonalSleepThreshold: r.PersonalSleepThreshold,
	}
	for i := range r.RollingSummaries {
		if r.RollingSummaries[i].Days == 7 {
			week := r.RollingSummaries[i]
			ctx.Week = &week
		}
	}

	all := append(append([]Badge{}, r.Badges...), r.ConsistencyBadges...)
	ctx.UnlockedBadges = CountUnlocked(all)
	var locked []Badge
	for _, b := range all {
		if !b.Unlocked {
			locked = append(locked, b)
		}
	}
	SortBadges(locked)
	if len(locked) > 0 && locked[0].Fraction() >= nextBadgeNear {
		next := locked[0]
		ctx.NextBadge = &next
	}
	return ctx
}

func (c MotivationContext) sleepDelta() float64 {
	if c.Week == nil || c.Week.SleepDelta == nil {
		return 0
	}
	return *c.Week.SleepDelta
}

func (c MotivationContext) moodDelta() float64 {
	if c.Week == nil || c.Week.MoodDelta == nil {
		return 0
	}
	return *c.Week.MoodDelta
}

// liveStreak is the streak while it can still be extended, and zero once
// a full day has passed without an entry.
func (c MotivationContext) liveStreak() int {
	if !c.StreakActive {
		return 0
	}
	return c.Streak
}

func static(text string) func(MotivationContext) string {
	return func(MotivationContext) string { return text }
}

var motivationRules = []motivationRule{
	{
		id:     "first-entry",
		when:   func(c MotivationContext) bool { return c.TotalEntries == 0 },
		render: static("Log your first night to start seeing your patterns."),
	},
	{
		id:     "getting-started",
		when:   func(c MotivationContext) bool { return c.TotalEntries > 0 && c.TotalEntries < 5 },
		render: static("A few more nights of logging and your first insights unlock."),
	},
	{
		id:     "streak-month",
		when:   func(c MotivationContext) bool { return c.liveStreak() >= 30 },
		render: func(c MotivationContext) string { return fmt.Sprintf("%d days in a row. That's a real habit now.", c.Streak) },
	},
	{
		id:     "streak-week",
		when:   func(c MotivationContext) bool { return c.liveStreak() >= 7 && c.Streak < 30 },
		render: func(c MotivationContext) string { return fmt.Sprintf("%d-day streak. Keep the chain going tonight.", c.Streak) },
	},
	{
		id:     "streak-start",
		when:   func(c MotivationContext) bool { return c.liveStreak() >= 3 && c.Streak < 7 },
		render: func(c MotivationContext) string { return fmt.Sprintf("%d days in a row. Nice rhythm.", c.Streak) },
	},
	{
		id:   "keep-streak",
		when: func(c MotivationContext) bool { return !c.LoggedToday && c.liveStreak() > 0 },
		render: func(c MotivationContext) string {
			return fmt.Sprintf("Log today to keep your %d-day streak alive.", c.Streak)
		},
	},
	{
		id:   "sleep-up",
		when: func(c MotivationContext) bool { return c.sleepDelta() >= sleepDeltaNotable },
		render: func(c MotivationContext) string {
			return fmt.Sprintf("You're sleeping %s more per night than the week before.", FormatHours(c.sleepDelta()))
		},
	},
	{
		id:   "sleep-down",
		when: func(c MotivationContext) bool { return c.sleepDelta() <= -sleepDeltaNotable },
		render: func(c MotivationContext) string {
			return fmt.Sprintf("Sleep dipped by %s a night this week. An earlier night could help.", FormatHours(math.Abs(c.sleepDelta())))
		},
	},
	{
		id:   "mood-up",
		when: func(c MotivationContext) bool { return c.moodDelta() >= moodDeltaNotable },
		render: func(c MotivationContext) string {
			return fmt.Sprintf("Your mood is up %.1f points on the week before.", c.moodDelta())
		},
	},
	{
		id:     "mood-down",
		when:   func(c MotivationContext) bool { return c.moodDelta() <= -moodDeltaNotable },
		render: static("Mood is a little lower this week. Be gentle with yourself."),
	},
	{
		id:   "rhythm-high",
		when: func(c MotivationContext) bool { return c.RhythmScore != nil && *c.RhythmScore >= 80 },
		render: func(c MotivationContext) string {
			return fmt.Sprintf("Rhythm score %d. Your sleep is steady.", *c.RhythmScore)
		},
	},
	{
		id:   "rhythm-low",
		when: func(c MotivationContext) bool { return c.RhythmScore != nil && *c.RhythmScore < 50 },
		render: func(c MotivationContext) string {
			return fmt.Sprintf("Rhythm score %d. A regular bedtime can lift it.", *c.RhythmScore)
		},
	},
	{
		id: "sleep-lifts-mood",
		when: func(c MotivationContext) bool {
			return c.Correlation != nil && c.Correlation.Direction == DirectionPositive &&
				(c.Correlation.Label == CorrelationModerate || c.Correlation.Label == CorrelationStrong)
		},
		render: static("More sleep tends to lift your mood. Your own data says so."),
	},
	{
		id:   "personal-threshold",
		when: func(c MotivationContext) bool { return c.PersonalSleepThreshold != nil },
		render: func(c MotivationContext) string {
			return fmt.Sprintf("Your best days tend to follow about %s of sleep.", FormatHours(*c.PersonalSleepThreshold))
		},
	},
	{
		id:   "badges-unlocked",
		when: func(c MotivationContext) bool { return c.UnlockedBadges > 0 },
		render: func(c MotivationContext) string {
			if c.UnlockedBadges == 1 {
				return "First badge unlocked. More are within reach."
			}
			return fmt.Sprintf("%d badges unlocked so far.", c.UnlockedBadges)
		},
	},
	{
		id:   "badge-close",
		when: func(c MotivationContext) bool { return c.NextBadge != nil },
		render: func(c MotivationContext) string {
			return fmt.Sprintf("Almost there: %s is %d%% complete.", c.NextBadge.Title, int(math.Round(c.NextBadge.Fraction()*100)))
		},
	},
	{
		id:     "tip",
		when:   func(MotivationContext) bool { return true },
		render: static("Tip: waking up at the same time every day anchors your rhythm."),
	},
}

// SelectMotivationMessage picks one eligible message. The choice depends
// only on the context and its date, so it holds for the whole day and
// rotates the next.
func SelectMotivationMessage(ctx MotivationContext) MotivationMessage {
	eligible := make([]motivationRule, 0, len(motivationRules))
	for _, rule := range motivationRules {
		if rule.when(ctx) {
			eligible = append(eligible, rule)
		}
	}
	rule := eligible[dayHash(ctx.Today)%uint32(len(eligible))]
	return MotivationMessage{ID: rule.id, Text: rule.render(ctx)}
}

func dayHash(day string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(day))
	return h.Sum32()
}
