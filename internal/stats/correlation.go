package stats

import (
	"math"

	"github.com/AdrianDanlos/rythm/internal"
)

const (
	CorrelationNoClear  = "No clear"
	CorrelationWeak     = "Weak"
	CorrelationModerate = "Moderate"
	CorrelationStrong   = "Strong"

	DirectionPositive = "Higher sleep, better mood"
	DirectionNegative = "Higher sleep, lower mood"
	DirectionNone     = "No clear direction"
)

// Coefficients inside this band around zero carry no direction.
const directionDeadZone = 0.05

type CorrelationInsight struct {
	Label     string  `json:"label"`
	Direction string  `json:"direction"`
	R         float64 `json:"r"`
	N         int     `json:"n"`
}

// GetCorrelationInsight computes the Pearson correlation between sleep and
// mood over entries that carry both. It reports false when fewer than two
// such entries exist or when either series has no variance.
func GetCorrelationInsight(entries []internal.Entry) (CorrelationInsight, bool) {
	var xs, ys []float64
	for _, e := range entries {
		s, okSleep := sleepValue(e)
		m, okMood := moodValue(e)
		if okSleep && okMood {
			xs = append(xs, s)
			ys = append(ys, m)
		}
	}
	if len(xs) < 2 {
		return CorrelationInsight{}, false
	}

	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var num, dx2, dy2 float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		num += dx * dy
		dx2 += dx * dx
		dy2 += dy * dy
	}
	den := math.Sqrt(dx2 * dy2)
	if den == 0 {
		return CorrelationInsight{}, false
	}
	r := num / den

	return CorrelationInsight{
		Label:     correlationLabel(r),
		Direction: correlationDirection(r),
		R:         r,
		N:         len(xs),
	}, true
}

func correlationLabel(r float64) string {
	abs := math.Abs(r)
	switch {
	case abs < 0.2:
		return CorrelationNoClear
	case abs < 0.4:
		return CorrelationWeak
	case abs < 0.7:
		return CorrelationModerate
	default:
		return CorrelationStrong
	}
}

func correlationDirection(r float64) string {
	switch {
	case r > directionDeadZone:
		return DirectionPositive
	case r < -directionDeadZone:
		return DirectionNegative
	default:
		return DirectionNone
	}
}
