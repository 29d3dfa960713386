package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func TestTrimTrendPoints(t *testing.T) {
	points := []TrendPoint{
		{Date: "2024-03-01"},
		{Date: "2024-03-02"},
		{Date: "2024-03-03", Mood: fp(3)},
		{Date: "2024-03-04"},
	}
	trimmed := TrimTrendPoints(points)
	require.Len(t, trimmed, 2)
	assert.Equal(t, "2024-03-03", trimmed[0].Date)

	empty := TrimTrendPoints(points[:2])
	require.Len(t, empty, 1)
	assert.Equal(t, "2024-03-02", empty[0].Date)

	assert.Empty(t, TrimTrendPoints(nil))
}

func TestTrimRollingPoints(t *testing.T) {
	points := []RollingPoint{{Date: "a"}, {Date: "b", Mood90: fp(3)}, {Date: "c"}}
	trimmed := TrimRollingPoints(points)
	require.Len(t, trimmed, 2)
	assert.Equal(t, "b", trimmed[0].Date)

	assert.Len(t, TrimRollingPoints(points[:1]), 1)
}

func TestChartDomain(t *testing.T) {
	points := []TrendPoint{
		{Sleep: fp(6), Mood: fp(1)},
		{Sleep: fp(8.5)},
		{},
	}

	lo, hi, ok := ChartDomain(points, MetricSleep)
	require.True(t, ok)
	assert.Equal(t, 5.0, lo)
	assert.Equal(t, 9.0, hi)

	lo, hi, ok = ChartDomain(points, MetricMood)
	require.True(t, ok)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 2.0, hi)

	_, _, ok = ChartDomain([]TrendPoint{{}}, MetricSleep)
	assert.False(t, ok)
}
