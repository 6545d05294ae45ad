package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"12", 12 * time.Hour},
		{"30s", 30 * time.Second},
		{"90m", 90 * time.Minute},
		{"2d", 2 * Day},
		{"1w 3d", Week + 3*Day},
		{"1o", 28 * Day},
		{"1y", 365 * Day},
		{"1D12H", Day + 12*time.Hour},
		{"3x", 3 * time.Hour},
		{"1d5", Day},
		{"h1d", Day},
		{"292y", 292 * Year},
		{"2562047h", 2562047 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejectsEmptyTotals(t *testing.T) {
	for _, input := range []string{"", "   ", "0", "0d", "abc", "-3", "99999999999", "600y", "300y 300y", "99999999999999999999s"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.ErrorIs(t, err, ErrInvalidDuration)
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{45 * time.Second, "45s"},
		{Day + 2*time.Hour + 3*time.Minute + 4*time.Second, "1d 2h 3m 4s"},
		{Week, "7d"},
		{28 * Day, "28d"},
		{2*time.Hour + 1500*time.Millisecond, "2h 1s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, d := range []time.Duration{time.Minute, 3 * Day, Week + 5*time.Hour, 28 * Day} {
		got, err := Parse(Format(d))
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
}
