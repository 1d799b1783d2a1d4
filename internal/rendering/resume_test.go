package rendering

import (
	"testing"

	"github.com/jonathan/resume-tailor/internal/structuring"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResume() types.StructuredResume {
	return types.StructuredResume{
		Name:    "Jane Smith",
		Email:   "jane@example.com",
		Phone:   "(555) 123-4567",
		Summary: "Backend engineer focused on reliable distributed systems.",
		Skills:  []string{"Go", "Python", "Docker", "Kubernetes", "PostgreSQL", "C++", "Node.js", "CI/CD"},
		Experience: []types.Experience{
			{Title: "Senior Software Engineer", Company: "Acme Corp", Duration: "2021 - Present", Description: "Built Go microservices\nLed migration to Kubernetes"},
			{Title: "Software Developer", Company: "StartupCo", Duration: "2018 - 2021", Description: "Developed REST APIs"},
		},
		Education: []types.Education{
			{Degree: "Bachelor of Science in Computer Science", School: "University of Technology", Year: "2018"},
		},
		Projects: []types.Project{
			{Name: "Task Tracker", Description: "A CLI for tracking tasks", Technologies: []string{"Go", "SQLite"}},
		},
	}
}

func TestFormatResume_Layout(t *testing.T) {
	text := FormatResume(sampleResume())

	assert.Contains(t, text, "Jane Smith\njane@example.com | (555) 123-4567\n")
	assert.Contains(t, text, "\nSKILLS\nGo, Python, Docker, Kubernetes, PostgreSQL, C++, Node.js, CI/CD\n")
	assert.Contains(t, text, "Senior Software Engineer | Acme Corp | 2021 - Present\n- Built Go microservices\n- Led migration to Kubernetes\n")
	assert.Contains(t, text, "Task Tracker - A CLI for tracking tasks\nTechnologies: Go, SQLite\n")
}

func TestFormatResume_OmitsEmptySections(t *testing.T) {
	text := FormatResume(types.StructuredResume{Name: "Jane Smith", Summary: "Engineer."})
	assert.Equal(t, "Jane Smith\n\nSUMMARY\nEngineer.\n", text)
}

func TestFormatResume_RoundTrip(t *testing.T) {
	original := sampleResume()

	parsed, err := structuring.StructureResume(FormatResume(original), "")
	require.NoError(t, err)

	assert.Equal(t, original.Skills, parsed.Skills)
	assert.Equal(t, original.Name, parsed.Name)
	assert.Equal(t, original.Email, parsed.Email)
	assert.Equal(t, original.Phone, parsed.Phone)
	assert.Equal(t, original.Summary, parsed.Summary)
	assert.Equal(t, original.Experience, parsed.Experience)
	assert.Equal(t, original.Education, parsed.Education)
	assert.Equal(t, original.Projects, parsed.Projects)
}

func TestFormatResume_RoundTripFromStructurer(t *testing.T) {
	raw := `John Doe
john@example.com

Skills: golang, k8s, React.js, AWS, REST APIs

Experience
Platform Engineer at Cloudy (2020 - 2024)
- Ran Kubernetes clusters on AWS
`
	first, err := structuring.StructureResume(raw, "")
	require.NoError(t, err)
	require.NotEmpty(t, first.Skills)

	second, err := structuring.StructureResume(FormatResume(*first), "")
	require.NoError(t, err)
	assert.Equal(t, first.Skills, second.Skills)
}
