package stats

import (
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/AdrianDanlos/rythm/internal"
)

type TagInsight struct {
	Tag   string   `json:"tag"`
	Count int      `json:"count"`
	Sleep *float64 `json:"sleep"`
	Mood  *float64 `json:"mood"`
}

type TagDriver struct {
	Tag         string  `json:"tag"`
	Count       int     `json:"count"`
	MoodWith    float64 `json:"mood_with"`
	MoodWithout float64 `json:"mood_without"`
	Delta       float64 `json:"delta"`
}

type TagSleepDriver struct {
	Tag          string  `json:"tag"`
	Count        int     `json:"count"`
	SleepWith    float64 `json:"sleep_with"`
	SleepWithout float64 `json:"sleep_without"`
	Delta        float64 `json:"delta"`
}

// entryTags returns the trimmed, non-empty, de-duplicated tags of an entry.
func entryTags(e internal.Entry) []string {
	tags := lo.FilterMap(e.Tags, func(tag string, _ int) (string, bool) {
		tag = strings.TrimSpace(tag)
		return tag, tag != ""
	})
	return lo.Uniq(tags)
}

type tagTotals struct {
	count      int
	sleepSum   float64
	sleepCount int
	moodSum    float64
	moodCount  int
}

// BuildTagInsights aggregates sleep and mood per tag, most used first.
// A limit of zero or less keeps every tag.
func BuildTagInsights(entries []internal.Entry, limit int) []TagInsight {
	totals := make(map[string]*tagTotals)
	for _, e := range entries {
		s, okSleep := sleepValue(e)
		m, okMood := moodValue(e)
		for _, tag := range entryTags(e) {
			t := totals[tag]
			if t == nil {
				t = &tagTotals{}
				totals[tag] = t
			}
			t.count++
			if okSleep {
				t.sleepSum += s
				t.sleepCount++
			}
			if okMood {
				t.moodSum += m
				t.moodCount++
			}
		}
	}

	insights := make([]TagInsight, 0, len(totals))
	for tag, t := range totals {
		insights = append(insights, TagInsight{
			Tag:   tag,
			Count: t.count,
			Sleep: mean(t.sleepSum, t.sleepCount),
			Mood:  mean(t.moodSum, t.moodCount),
		})
	}
	sort.Slice(insights, func(i, j int) bool {
		if insights[i].Count != insights[j].Count {
			return insights[i].Count > insights[j].Count
		}
		return insights[i].Tag < insights[j].Tag
	})
	if limit > 0 && len(insights) > limit {
		insights = insights[:limit]
	}
	return insights
}

type driverStat struct {
	tag     string
	count   int
	with    float64
	without float64
	delta   float64
}

// buildDrivers compares the metric on entries carrying each tag against all
// other entries. Only entries where the metric is present take part.
func buildDrivers(entries []internal.Entry, minCount int, metric func(internal.Entry) (float64, bool)) []driverStat {
	type acc struct {
		sum   float64
		count int
	}
	var totalSum float64
	var totalCount int
	perTag := make(map[string]*acc)
	for _, e := range entries {
		v, ok := metric(e)
		if !ok {
			continue
		}
		totalSum += v
		totalCount++
		for _, tag := range entryTags(e) {
			a := perTag[tag]
			if a == nil {
				a = &acc{}
				perTag[tag] = a
			}
			a.sum += v
			a.count++
		}
	}

	drivers := make([]driverStat, 0, len(perTag))
	for tag, a := range perTag {
		withoutCount := totalCount - a.count
		if a.count < minCount || withoutCount == 0 {
			continue
		}
		with := a.sum / float64(a.count)
		without := (totalSum - a.sum) / float64(withoutCount)
		drivers = append(drivers, driverStat{
			tag:     tag,
			count:   a.count,
			with:    with,
			without: without,
			delta:   with - without,
		})
	}
	sort.Slice(drivers, func(i, j int) bool {
		di, dj := math.Abs(drivers[i].delta), math.Abs(drivers[j].delta)
		if di != dj {
			return di > dj
		}
		return drivers[i].tag < drivers[j].tag
	})
	return drivers
}

func BuildTagDrivers(entries []internal.Entry, minCount int) []TagDriver {
	stats := buildDrivers(entries, minCount, moodValue)
	return lo.Map(stats, func(d driverStat, _ int) TagDriver {
		return TagDriver{Tag: d.tag, Count: d.count, MoodWith: d.with, MoodWithout: d.without, Delta: d.delta}
	})
}

func BuildTagSleepDrivers(entries []internal.Entry, minCount int) []TagSleepDriver {
	stats := buildDrivers(entries, minCount, sleepValue)
	return lo.Map(stats, func(d driverStat, _ int) TagSleepDriver {
		return TagSleepDriver{Tag: d.tag, Count: d.count, SleepWith: d.with, SleepWithout: d.without, Delta: d.delta}
	})
}
