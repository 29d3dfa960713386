package stats

import "math"

type Metric string

const (
	MetricSleep Metric = "sleep"
	MetricMood  Metric = "mood"
)

func (p TrendPoint) hasData() bool {
	return p.Sleep != nil || p.Mood != nil
}

func (p RollingPoint) hasData() bool {
	return p.Sleep7 != nil || p.Sleep30 != nil || p.Sleep90 != nil ||
		p.Mood7 != nil || p.Mood30 != nil || p.Mood90 != nil
}

// TrimTrendPoints drops leading points without data so a chart starts at
// the first logged day. A non-empty input always keeps its last point.
func TrimTrendPoints(points []TrendPoint) []TrendPoint {
	for i, p := range points {
		if p.hasData() {
			return points[i:]
		}
	}
	if len(points) == 0 {
		return points
	}
	return points[len(points)-1:]
}

func TrimRollingPoints(points []RollingPoint) []RollingPoint {
	for i, p := range points {
		if p.hasData() {
			return points[i:]
		}
	}
	if len(points) == 0 {
		return points
	}
	return points[len(points)-1:]
}

// ChartDomain returns a padded y-axis range for metric over points. The
// lower bound never drops below zero.
func ChartDomain(points []TrendPoint, metric Metric) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range points {
		v := p.Sleep
		if metric == MetricMood {
			v = p.Mood
		}
		if v == nil {
			continue
		}
		lo = math.Min(lo, *v)
		hi = math.Max(hi, *v)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	pad := math.Max((hi-lo)*0.1, 0.5)
	return math.Max(0, math.Floor(lo-pad)), math.Ceil(hi + pad), true
}
