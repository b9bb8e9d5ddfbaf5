package nlsched

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNounLemma(t *testing.T) {
	tests := []struct {
		word     string
		expected string
	}{
		{"meetings", "meeting"},
		{"parties", "party"},
		{"classes", "class"},
		{"boxes", "box"},
		{"launches", "launch"},
		{"reports", "report"},
		{"meeting", "meeting"},
		{"class", "class"},
		{"bus", "bus"}, // short -s nouns are left alone
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.expected, NounLemma(tt.word))
		})
	}
}

func TestGerund(t *testing.T) {
	tests := []struct {
		base     string
		expected string
	}{
		{"submit", "submitting"},
		{"meet", "meeting"},
		{"make", "making"},
		{"walk", "walking"},
		{"plan", "planning"},
		{"discuss", "discussing"},
		{"go", "going"},
		{"see", "seeing"},
		{"run", "running"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			assert.Equal(t, tt.expected, Gerund(tt.base))
		})
	}
}
