package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	data := []byte(`[
		{"name": "Shop", "description": "Storefront", "technologies": ["React", "Node.js"], "github_url": "https://github.com/x/shop"},
		{"name": "CLI", "technologies": ["Go"]}
	]`)

	projects, err := Parse("inline", data)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Shop", projects[0].Name)
	assert.Equal(t, []string{"React", "Node.js"}, projects[0].Technologies)
	assert.Equal(t, "https://github.com/x/shop", projects[0].GithubURL)
}

func TestParse_Empty(t *testing.T) {
	projects, err := Parse("inline", []byte(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		issue string
	}{
		{"missing name", `[{"technologies": ["Go"]}]`, "Name failed required"},
		{"no technologies", `[{"name": "A", "technologies": []}]`, "Technologies failed min"},
		{"blank technology", `[{"name": "A", "technologies": [""]}]`, "failed required"},
		{"bad url", `[{"name": "A", "technologies": ["Go"], "live_url": "not a url"}]`, "LiveURL failed url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("catalog.json", []byte(tt.data))
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			assert.Equal(t, "catalog.json", vErr.Source)
			assert.Contains(t, err.Error(), tt.issue)
		})
	}

	_, err := Parse("catalog.json", []byte(`{`))
	assert.ErrorContains(t, err, "failed to parse project catalog")
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": "CLI", "technologies": ["Go"]}]`), 0o644))

	projects, err := FileSource{Path: path}.ListCandidateProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.ProjectTemplate{{Name: "CLI", Technologies: []string{"Go"}}}, projects)

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}.ListCandidateProjects(context.Background())
	assert.Error(t, err)
}

func TestStaticSource_ReturnsCopy(t *testing.T) {
	src := StaticSource{Projects: []types.ProjectTemplate{{Name: "A", Technologies: []string{"Go"}}}}

	projects, err := src.ListCandidateProjects(context.Background())
	require.NoError(t, err)
	projects[0].Name = "changed"

	again, _ := src.ListCandidateProjects(context.Background())
	assert.Equal(t, "A", again[0].Name)
}

type fakeLister struct {
	projects []types.ProjectTemplate
	err      error
}

func (f fakeLister) ListPortfolioProjects(context.Context) ([]types.ProjectTemplate, error) {
	return f.projects, f.err
}

func TestPostgresSource(t *testing.T) {
	src := PostgresSource{DB: fakeLister{projects: []types.ProjectTemplate{{Name: "A", Technologies: []string{"Go"}}}}}
	projects, err := src.ListCandidateProjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, projects, 1)

	src = PostgresSource{DB: fakeLister{projects: []types.ProjectTemplate{{Name: "B"}}}}
	_, err = src.ListCandidateProjects(context.Background())
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	src = PostgresSource{DB: fakeLister{err: errors.New("connection refused")}}
	_, err = src.ListCandidateProjects(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}
