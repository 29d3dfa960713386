package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatHours(t *testing.T) {
	cases := map[float64]string{
		0:      "0:00",
		7.5:    "7:30",
		7.999:  "8:00",
		8.25:   "8:15",
		-0.5:   "-0:30",
		10.016: "10:01",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatHours(in), "hours=%v", in)
	}
}

func TestParseHours(t *testing.T) {
	cases := map[string]float64{
		"7:30":  7.5,
		" 8:00": 8,
		"0:45":  0.75,
		"6.25":  6.25,
		"-0:30": -0.5,
	}
	for in, want := range cases {
		got, err := ParseHours(in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}

	for _, bad := range []string{"", "7:75", "7:5", "x:30", "seven"} {
		_, err := ParseHours(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseHours_RoundTripsFormatted(t *testing.T) {
	for _, h := range []float64{0, 5.5, 7.25, 9.75, 12} {
		got, err := ParseHours(FormatHours(h))
		require.NoError(t, err)
		assert.InDelta(t, h, got, 1e-9)
	}
}
