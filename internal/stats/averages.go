package stats

import "github.com/AdrianDanlos/rythm/internal"

// WindowStats holds averages over a subset of entries. Count is the number
// of entries where both sleep and mood were recorded.
type WindowStats struct {
	Sleep *float64 `json:"sleep"`
	Mood  *float64 `json:"mood"`
	Count int      `json:"count"`
}

func CalculateAverages(entries []internal.Entry) WindowStats {
	if len(entries) == 0 {
		return WindowStats{}
	}

	var sleepSum, moodSum float64
	var sleepCount, moodCount, complete int
	for _, e := range entries {
		s, okSleep := sleepValue(e)
		m, okMood := moodValue(e)
		if okSleep {
			sleepSum += s
			sleepCount++
		}
		if okMood {
			moodSum += m
			moodCount++
		}
		if okSleep && okMood {
			complete++
		}
	}

	return WindowStats{
		Sleep: mean(sleepSum, sleepCount),
		Mood:  mean(moodSum, moodCount),
		Count: complete,
	}
}
