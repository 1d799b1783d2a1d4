package parsing

import (
	"testing"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestInferLevel(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		text     string
		expected types.ExperienceLevel
	}{
		{name: "years beat keywords", title: "Senior Engineer", text: "1+ years of experience", expected: types.LevelEntry},
		{name: "range lower bound", text: "3-5 years building APIs", expected: types.LevelMid},
		{name: "five years", text: "5 years of experience", expected: types.LevelSenior},
		{name: "largest requirement wins", text: "2+ years Go, 6+ years overall", expected: types.LevelSenior},
		{name: "implausible years ignored", text: "100 years of tradition. Junior role.", expected: types.LevelEntry},
		{name: "title keyword", title: "Staff Engineer", text: "mentor junior engineers", expected: types.LevelSenior},
		{name: "text keyword", text: "This is an entry-level position", expected: types.LevelEntry},
		{name: "mid keyword", text: "intermediate developer wanted", expected: types.LevelMid},
		{name: "unspecified", text: "Build things", expected: types.LevelUnspecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, inferLevel(tt.title, tt.text))
		})
	}
}

func TestRequiredYears(t *testing.T) {
	years, ok := requiredYears("Looking for 3 to 5 years in backend, 4+ years Go")
	assert.True(t, ok)
	assert.Equal(t, 4, years)

	_, ok = requiredYears("no numbers here")
	assert.False(t, ok)
}
