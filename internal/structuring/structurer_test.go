package structuring

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Smith
jane.smith@example.com | (555) 123-4567
San Francisco, CA

SUMMARY
Backend engineer focused on reliable distributed systems.
Enjoys mentoring and clean APIs.

SKILLS
Go, Python, Docker, Kubernetes, PostgreSQL

EXPERIENCE
Senior Software Engineer | Acme Corp | 2021 - Present
- Built Go microservices handling 10k requests per second
- Led migration to Kubernetes
Software Developer at StartupCo (2018 - 2021)
Developed REST APIs in Python and Flask.

EDUCATION
Bachelor of Science in Computer Science, University of Technology, 2018

PROJECTS
Task Tracker - A CLI for tracking tasks
Technologies: golang, SQLite
Photo Gallery: Web gallery built with React and Node.js
`

func TestStructure_FullResume(t *testing.T) {
	resume, err := StructureResume(sampleResume, "")
	require.NoError(t, err)

	assert.Equal(t, "Jane Smith", resume.Name)
	assert.Equal(t, "jane.smith@example.com", resume.Email)
	assert.Equal(t, "(555) 123-4567", resume.Phone)
	assert.Equal(t, "Backend engineer focused on reliable distributed systems. Enjoys mentoring and clean APIs.", resume.Summary)
	assert.Equal(t, []string{"Go", "Python", "Docker", "Kubernetes", "PostgreSQL"}, resume.Skills)

	require.Len(t, resume.Experience, 2)
	assert.Equal(t, types.Experience{
		Title:       "Senior Software Engineer",
		Company:     "Acme Corp",
		Duration:    "2021 - Present",
		Description: "Built Go microservices handling 10k requests per second\nLed migration to Kubernetes",
	}, resume.Experience[0])
	assert.Equal(t, "Software Developer", resume.Experience[1].Title)
	assert.Equal(t, "StartupCo", resume.Experience[1].Company)
	assert.Equal(t, "2018 - 2021", resume.Experience[1].Duration)
	assert.Equal(t, "Developed REST APIs in Python and Flask.", resume.Experience[1].Description)

	require.Len(t, resume.Education, 1)
	assert.Equal(t, types.Education{
		Degree: "Bachelor of Science in Computer Science",
		School: "University of Technology",
		Year:   "2018",
	}, resume.Education[0])

	require.Len(t, resume.Projects, 2)
	assert.Equal(t, "Task Tracker", resume.Projects[0].Name)
	assert.Equal(t, "A CLI for tracking tasks", resume.Projects[0].Description)
	assert.Equal(t, []string{"Go", "SQLite"}, resume.Projects[0].Technologies)
	assert.Equal(t, "Photo Gallery", resume.Projects[1].Name)
	assert.Equal(t, []string{"React", "Node.js"}, resume.Projects[1].Technologies)
}

func TestStructure_EmptyText(t *testing.T) {
	_, err := StructureResume("  \n\t ", "Fallback Name")

	var structErr *StructuringError
	require.True(t, errors.As(err, &structErr))
	assert.Contains(t, err.Error(), "empty")
}

func TestStructure_NoName(t *testing.T) {
	_, err := StructureResume("worked on things\nmore things 2019", "")

	var structErr *StructuringError
	require.ErrorAs(t, err, &structErr)
	assert.Contains(t, structErr.Message, "name")
}

func TestStructure_NameRules(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		fallback string
		expected string
	}{
		{name: "first line", text: "Ada Lovelace\nada@example.com", expected: "Ada Lovelace"},
		{name: "first line with contact", text: "Ada Lovelace | ada@example.com", expected: "Ada Lovelace"},
		{name: "name label", text: "RESUME 2024\nName: Grace Hopper\nSkills: Go", expected: "Grace Hopper"},
		{name: "fallback", text: "resume.pdf export 2024\nSkills: Go", fallback: "Uploaded Candidate", expected: "Uploaded Candidate"},
		{name: "header is not a name", text: "Work Experience\nEngineer at Acme 2020", fallback: "From Upload", expected: "From Upload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resume, err := StructureResume(tt.text, tt.fallback)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resume.Name)
		})
	}
}

func TestStructure_SkillsWithoutSection(t *testing.T) {
	resume, err := StructureResume("Sam Lee\nShipped React apps on AWS with Docker.", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"React", "AWS", "Docker"}, resume.Skills)
}

func TestStructure_SkillsSectionUncapped(t *testing.T) {
	text := "Sam Lee\nSkills: Python, Java, JavaScript, TypeScript, Kotlin, React, Angular, Docker"
	resume, err := StructureResume(text, "")
	require.NoError(t, err)
	assert.Len(t, resume.Skills, 8)
}

func TestStructure_WithMaxSkills(t *testing.T) {
	text := "Sam Lee\nSkills: Python, Java, JavaScript"
	resume, err := New(WithMaxSkills(2)).Structure(context.Background(), text, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "Java"}, resume.Skills)
}

func TestStructure_SummaryFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "preamble paragraph",
			text:     "Sam Lee\nsam@example.com\n\nCurious engineer who loves building developer tools and teaching others.\n\nSKILLS\nGo",
			expected: "Curious engineer who loves building developer tools and teaching others.",
		},
		{
			name:     "title and skills",
			text:     "Sam Lee\nSKILLS\nGo, Docker\nEXPERIENCE\nPlatform Engineer | Acme | 2020 - 2023",
			expected: "Platform Engineer with experience in Go, Docker.",
		},
		{
			name:     "title only",
			text:     "Sam Lee\nEXPERIENCE\nPlatform Engineer | Acme",
			expected: "Experienced Platform Engineer.",
		},
		{
			name:     "skills only",
			text:     "Sam Lee\nSkills: Python, SQL, AWS, Docker",
			expected: "Professional with experience in Python, SQL, AWS.",
		},
		{
			name:     "nothing",
			text:     "Sam Lee",
			expected: "Experienced professional.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resume, err := StructureResume(tt.text, "")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resume.Summary)
		})
	}
}

func TestStructure_MalformedInputDegrades(t *testing.T) {
	resume, err := StructureResume("Pat Doe\n\n@@@ ### !!!\nEXPERIENCE\nrandom words without structure", "")
	require.NoError(t, err)
	assert.Equal(t, "Pat Doe", resume.Name)
	assert.Empty(t, resume.Experience)
	assert.NotEmpty(t, resume.Summary)
}

type failingExtractor struct{}

func (failingExtractor) Extract(context.Context, string, int) ([]string, error) {
	return nil, errors.New("boom")
}

func TestStructure_ExtractorError(t *testing.T) {
	_, err := New(WithExtractor(failingExtractor{})).Structure(context.Background(), "Sam Lee\nGo", "")
	var structErr *StructuringError
	require.ErrorAs(t, err, &structErr)
	assert.Contains(t, err.Error(), "boom")
}
