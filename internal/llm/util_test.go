package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare skill list",
			input: `["Go", "Docker"]`,
			want:  `["Go", "Docker"]`,
		},
		{
			name:  "surrounding whitespace",
			input: "  \n[\"Go\"]\n  ",
			want:  `["Go"]`,
		},
		{
			name:  "json fence",
			input: "```json\n{\"summary\": \"Backend engineer\"}\n```",
			want:  `{"summary": "Backend engineer"}`,
		},
		{
			name:  "fence with other language tag",
			input: "```javascript\n[\"React\", \"Node.js\"]\n```",
			want:  `["React", "Node.js"]`,
		},
		{
			name:  "untagged fence",
			input: "```\n{\"experience\": []}\n```",
			want:  `{"experience": []}`,
		},
		{
			name:  "conversational preamble and sign-off",
			input: "Here are the skills I found:\n[\"PostgreSQL\", \"Redis\"]\nLet me know if you need more.",
			want:  `["PostgreSQL", "Redis"]`,
		},
		{
			name:  "object before array",
			input: "Sure!\n{\"summary\": \"x\", \"experience\": [{\"title\": \"SRE\"}]}\nThanks",
			want:  `{"summary": "x", "experience": [{"title": "SRE"}]}`,
		},
		{
			name:  "array before object",
			input: `Skills: ["Go"] and also {"note": 1}`,
			want:  `["Go"]`,
		},
		{
			name:  "brackets inside strings",
			input: `{"summary": "Owns {infra} and ] edge cases"} trailing words`,
			want:  `{"summary": "Owns {infra} and ] edge cases"}`,
		},
		{
			name:  "escaped quotes inside strings",
			input: `{"summary": "Known as \"the }fixer\""} more`,
			want:  `{"summary": "Known as \"the }fixer\""}`,
		},
		{
			name:  "truncated object left as is",
			input: `Result: {"summary": "cut off`,
			want:  `Result: {"summary": "cut off`,
		},
		{
			name:  "no json",
			input: "I could not find any skills.",
			want:  "I could not find any skills.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestCleanJSONBlock_ProducesParseableGeneratedContent(t *testing.T) {
	response := "Here is the tailored resume:\n```json\n" +
		`{"summary": "Go engineer", "experience": [{"title": "Engineer", "company": "Acme", "description": "Built {things}"}]}` +
		"\n```\nGood luck!"

	var out struct {
		Summary    string `json:"summary"`
		Experience []struct {
			Company string `json:"company"`
		} `json:"experience"`
	}
	assert.NoError(t, json.Unmarshal([]byte(CleanJSONBlock(response)), &out))
	assert.Equal(t, "Go engineer", out.Summary)
	assert.Len(t, out.Experience, 1)
	assert.Equal(t, "Acme", out.Experience[0].Company)
}

func TestExtractBalanced(t *testing.T) {
	tests := []struct {
		name    string
		extract func(string) string
		input   string
		want    string
	}{
		{name: "object", extract: extractJSONObject, input: `{"a": {"b": 1}} tail`, want: `{"a": {"b": 1}}`},
		{name: "object not at start", extract: extractJSONObject, input: ` {"a": 1}`, want: ""},
		{name: "unterminated object", extract: extractJSONObject, input: `{"a": [1, 2]`, want: ""},
		{name: "array", extract: extractJSONArray, input: `[["Go"], ["Rust"]], rest`, want: `[["Go"], ["Rust"]]`},
		{name: "array given object", extract: extractJSONArray, input: `{"a": 1}`, want: ""},
		{name: "empty", extract: extractJSONArray, input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.extract(tt.input))
		})
	}
}
