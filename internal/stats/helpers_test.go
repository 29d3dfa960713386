package stats

import (
	"time"

	"github.com/AdrianDanlos/rythm/internal"
)

func entry(date string, sleep float64, mood int) internal.Entry {
	return internal.Entry{EntryDate: date, SleepHours: &sleep, Mood: &mood, IsComplete: true}
}

func sleepOnly(date string, sleep float64) internal.Entry {
	return internal.Entry{EntryDate: date, SleepHours: &sleep}
}

func moodOnly(date string, mood int) internal.Entry {
	return internal.Entry{EntryDate: date, Mood: &mood}
}

func tagged(e internal.Entry, tags ...string) internal.Entry {
	e.Tags = tags
	return e
}

// daily returns n consecutive days starting at start, built by fn.
func daily(start string, n int, fn func(date string, i int) internal.Entry) []internal.Entry {
	t, err := time.Parse(dateLayout, start)
	if err != nil {
		panic(err)
	}
	out := make([]internal.Entry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fn(t.AddDate(0, 0, i).Format(dateLayout), i))
	}
	return out
}

func ids(badges []Badge) []string {
	out := make([]string, len(badges))
	for i, b := range badges {
		out[i] = b.ID
	}
	return out
}

func badgeByID(badges []Badge, id string) Badge {
	for _, b := range badges {
		if b.ID == id {
			return b
		}
	}
	return Badge{}
}

var testNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
