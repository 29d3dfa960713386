package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatHours renders fractional hours as h:mm, rounded to the minute.
func FormatHours(hours float64) string {
	sign := ""
	if hours < 0 {
		sign = "-"
		hours = -hours
	}
	minutes := int(math.Round(hours * 60))
	return fmt.Sprintf("%s%d:%02d", sign, minutes/60, minutes%60)
}

// ParseHours reads an h:mm duration, or a plain decimal number of hours.
func ParseHours(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("stats: empty duration")
	}
	h, m, found := strings.Cut(s, ":")
	if !found {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("stats: invalid duration %q: %w", s, err)
		}
		return v, nil
	}
	sign := 1.0
	if strings.HasPrefix(h, "-") {
		sign = -1
		h = h[1:]
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("stats: invalid hours in %q", s)
	}
	minutes, err := strconv.Atoi(m)
	if err != nil || minutes < 0 || minutes > 59 || len(m) != 2 {
		return 0, fmt.Errorf("stats: invalid minutes in %q", s)
	}
	return sign * (float64(hours) + float64(minutes)/60), nil
}
