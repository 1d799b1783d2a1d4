package rewriting

import (
	"context"
	"testing"
	"time"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/stretchr/testify/assert"
)

func TestCheckForbiddenPhrasesInText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		phrases []string
		want    []string
	}{
		{name: "whole word", text: "Holds an MBA from Wharton", phrases: []string{"mba"}, want: []string{"mba"}},
		{name: "inside a city name", text: "Mumbai-based Software Engineer", phrases: []string{"mba"}},
		{name: "inside a longer word", text: "Shipped payments in Zimbabwe and the Bachelorette app", phrases: []string{"mba", "bachelor"}},
		{name: "dotted abbreviation", text: "Earned a B.S. in Physics", phrases: []string{"b.s."}, want: []string{"b.s."}},
		{name: "phrase at end", text: "Completed a PhD", phrases: []string{"phd"}, want: []string{"phd"}},
		{name: "duplicates collapse", text: "MBA, mba", phrases: []string{"mba", "MBA"}, want: []string{"mba"}},
		{name: "no phrases", text: "anything", phrases: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkForbiddenPhrasesInText(tt.text, tt.phrases))
		})
	}
}

func TestSynthesize_DegreeCheckUsesWholeWords(t *testing.T) {
	resume, job, match := sampleInputs()

	tests := []struct {
		name      string
		summary   string
		generated bool
	}{
		{name: "city containing mba", summary: "Mumbai-based Software Engineer building web platforms.", generated: true},
		{name: "invented mba", summary: "Software Engineer with an MBA.", generated: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &MockGenerator{GenerateFunc: func(context.Context, string, llm.Constraints, time.Duration) (string, error) {
				return generatedJSON(t, tt.summary, resume.Experience), nil
			}}
			tailored := NewSynthesizer(WithGenerator(gen)).Synthesize(context.Background(), resume, job, match)
			assert.Equal(t, tt.generated, tailored.Generated)
			if tt.generated {
				assert.Equal(t, tt.summary, tailored.TailoredSummary)
			}
		})
	}
}
