package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSkillName(t *testing.T) {
	vocab := Default()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "alias", input: "golang", expected: "Go"},
		{name: "vocabulary case", input: "javascript", expected: "JavaScript"},
		{name: "mixed case kept", input: "gRPC", expected: "gRPC"},
		{name: "lowercase word capitalized", input: "elixir", expected: "Elixir"},
		{name: "whitespace collapsed", input: "  event   sourcing ", expected: "event sourcing"},
		{name: "empty", input: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, vocab.NormalizeSkillName(tt.input))
		})
	}
}

func TestNormalizeList_Dedupes(t *testing.T) {
	got := Default().NormalizeList([]string{"golang", "Go", "k8s", "", "Kubernetes", "elixir"})
	assert.Equal(t, []string{"Go", "Kubernetes", "Elixir"}, got)
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"React", "AWS"}, Dedupe([]string{"React", "react", " ", "AWS"}))
}
