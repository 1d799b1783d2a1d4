// Package catalog supplies the portfolio project templates that are ranked
// against a job.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Source lists candidate projects.
type Source interface {
	ListCandidateProjects(ctx context.Context) ([]types.ProjectTemplate, error)
}

// ValidationError reports invalid catalog entries.
type ValidationError struct {
	Source string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid project catalog %s: %s", e.Source, strings.Join(e.Issues, "; "))
}

var validate = validator.New()

// Validate checks every template: name required, at least one technology,
// and well-formed URLs when present.
func Validate(source string, projects []types.ProjectTemplate) error {
	var issues []string
	for i, p := range projects {
		if err := validate.Struct(p); err != nil {
			var fieldErrs validator.ValidationErrors
			if !errors.As(err, &fieldErrs) {
				return err
			}
			for _, fe := range fieldErrs {
				issues = append(issues, fmt.Sprintf("project %d (%s): %s failed %s", i, p.Name, fe.Field(), fe.Tag()))
			}
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Source: source, Issues: issues}
	}
	return nil
}

// StaticSource serves a fixed in-memory catalog.
type StaticSource struct {
	Projects []types.ProjectTemplate
}

func (s StaticSource) ListCandidateProjects(_ context.Context) ([]types.ProjectTemplate, error) {
	out := make([]types.ProjectTemplate, len(s.Projects))
	copy(out, s.Projects)
	return out, nil
}

// FileSource reads a JSON array of templates from disk on every call.
type FileSource struct {
	Path string
}

func (f FileSource) ListCandidateProjects(ctx context.Context) ([]types.ProjectTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project catalog %s: %w", f.Path, err)
	}
	return Parse(f.Path, data)
}

// Parse decodes and validates a JSON catalog.
func Parse(source string, data []byte) ([]types.ProjectTemplate, error) {
	projects := []types.ProjectTemplate{}
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("failed to parse project catalog %s: %w", source, err)
	}
	if err := Validate(source, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ProjectLister is implemented by *db.DB.
type ProjectLister interface {
	ListPortfolioProjects(ctx context.Context) ([]types.ProjectTemplate, error)
}

// PostgresSource reads the portfolio_projects table.
type PostgresSource struct {
	DB ProjectLister
}

func (p PostgresSource) ListCandidateProjects(ctx context.Context) ([]types.ProjectTemplate, error) {
	projects, err := p.DB.ListPortfolioProjects(ctx)
	if err != nil {
		return nil, err
	}
	if err := Validate("portfolio_projects", projects); err != nil {
		return nil, err
	}
	return projects, nil
}
