package nlsched

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"3pm", "15:00"},
		{"3 pm", "15:00"},
		{"3:30pm", "15:30"},
		{"3:30 pm", "15:30"},
		{"10:30", "10:30"},
		{"12 pm", "12:00"},
		{"12 am", "00:00"},
		{"half past 3", "03:30"},
		{"half past 3 pm", "15:30"},
		{"quarter past 10", "10:15"},
		{"quarter to 5", "04:45"},
		{"quarter to 5 pm", "16:45"},
		{"quarter to 1", "12:45"},
		{"3 o'clock", "03:00"},
		{"3 o'clock pm", "15:00"},
		{"12 to 1", "12:00, 01:00"},
		{"12 to 1 pm", "12:00, 13:00"},
		{"9 to 11 am", "09:00, 11:00"},
		{"9:15 to 10:45", "09:15, 10:45"},
		{"noon", "12:00"},
		{"12 noon", "12:00"},
		{"midnight", "00:00"},
		// Unrecognized phrases pass through unchanged.
		{"sometime later", "sometime later"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeTime(tt.raw))
		})
	}
}

func TestNormalizeTimeTwelveHourDial(t *testing.T) {
	// Every hour and quarter on the 12-hour dial normalizes to a
	// zero-padded 24-hour clock.
	for hour := 1; hour <= 12; hour++ {
		for _, minute := range []int{0, 15, 30, 45} {
			raw := fmt.Sprintf("%d:%02d pm", hour, minute)
			expected24 := hour
			if hour != 12 {
				expected24 = hour + 12
			}
			assert.Equal(t, fmt.Sprintf("%02d:%02d", expected24, minute), NormalizeTime(raw), raw)

			raw = fmt.Sprintf("%d:%02d am", hour, minute)
			expected24 = hour
			if hour == 12 {
				expected24 = 0
			}
			assert.Equal(t, fmt.Sprintf("%02d:%02d", expected24, minute), NormalizeTime(raw), raw)
		}
	}
}

func TestNormalizeTimeGrammarEquivalence(t *testing.T) {
	// Idiomatic and numeric phrasings of the same instant normalize to the
	// same clock value, across the whole 12-hour dial and both periods.
	for hour := 1; hour <= 12; hour++ {
		for _, period := range []string{"am", "pm"} {
			pairs := []struct {
				idiomatic string
				numeric   string
			}{
				{fmt.Sprintf("%d o'clock %s", hour, period), fmt.Sprintf("%d:00 %s", hour, period)},
				{fmt.Sprintf("quarter past %d %s", hour, period), fmt.Sprintf("%d:15 %s", hour, period)},
				{fmt.Sprintf("half past %d %s", hour, period), fmt.Sprintf("%d:30 %s", hour, period)},
			}
			// "quarter to h" names the previous hour's 45th minute.
			previous := hour - 1
			if previous < 1 {
				previous = 12
			}
			pairs = append(pairs, struct {
				idiomatic string
				numeric   string
			}{fmt.Sprintf("quarter to %d %s", hour, period), fmt.Sprintf("%d:45 %s", previous, period)})

			for _, pair := range pairs {
				got := NormalizeTime(pair.idiomatic)
				want := NormalizeTime(pair.numeric)
				assert.Equal(t, want, got, "%s vs %s", pair.idiomatic, pair.numeric)
				assert.NotEqual(t, pair.idiomatic, got, pair.idiomatic)
			}
		}
	}
}

func TestNormalizeTimeRangeSharesMeridiem(t *testing.T) {
	// The trailing meridiem applies to both ends of a range.
	assert.Equal(t, "21:00, 23:00", NormalizeTime("9 to 11 pm"))
}
