package rendering

import (
	"embed"
	"fmt"
	"math"
	"strings"
	"sync"
	"text/template"

	"github.com/jonathan/resume-tailor/internal/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	markdownTmpl    *template.Template
	markdownTmplErr error
	markdownOnce    sync.Once
)

func loadMarkdownTemplate() (*template.Template, error) {
	markdownOnce.Do(func() {
		markdownTmpl, markdownTmplErr = template.New("tailored.md.tmpl").
			Funcs(template.FuncMap{"md": EscapeMarkdown}).
			ParseFS(templateFS, "templates/tailored.md.tmpl")
	})
	return markdownTmpl, markdownTmplErr
}

type markdownData struct {
	Name         string
	Contact      string
	JobTitle     string
	Company      string
	MatchPercent int
	Generated    bool
	Summary      string
	Skills       []string
	Experience   []markdownRole
	Education    []string
	Portfolio    []markdownProject
	Gaps         []string
}

type markdownRole struct {
	Title    string
	Company  string
	Duration string
	Lines    []string
}

type markdownProject struct {
	Name         string
	Score        int
	Description  string
	Technologies string
	Link         string
}

// FormatTailoredMarkdown renders the export document: the tailored summary
// and experience, recommended skills, education, ranked portfolio projects
// and the missing required skills.
func FormatTailoredMarkdown(tailored types.TailoredResume, portfolio []types.PortfolioProject) (string, error) {
	tmpl, err := loadMarkdownTemplate()
	if err != nil {
		return "", &TemplateError{Message: "failed to parse markdown template", Cause: err}
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, buildMarkdownData(tailored, portfolio)); err != nil {
		return "", &TemplateError{Message: "failed to execute markdown template", Cause: err}
	}
	return b.String(), nil
}

func buildMarkdownData(tailored types.TailoredResume, portfolio []types.PortfolioProject) markdownData {
	resume := tailored.SourceResume
	job := tailored.SourceJob

	data := markdownData{
		Name:         resume.Name,
		Contact:      joinNonEmpty(" | ", resume.Email, resume.Phone),
		JobTitle:     job.Title,
		Company:      job.Company,
		MatchPercent: int(math.Round(tailored.MatchScore * 100)),
		Generated:    tailored.Generated,
		Summary:      tailored.TailoredSummary,
		Skills:       tailored.RecommendedSkills,
	}
	if data.JobTitle == "" {
		data.JobTitle = "this role"
	}

	for _, e := range tailored.TailoredExperience {
		data.Experience = append(data.Experience, markdownRole{
			Title:    e.Title,
			Company:  e.Company,
			Duration: e.Duration,
			Lines:    descriptionLines(e.Description),
		})
	}

	for _, e := range resume.Education {
		if line := joinNonEmpty(", ", e.Degree, e.School, e.Year); line != "" {
			data.Education = append(data.Education, line)
		}
	}

	for _, p := range portfolio {
		link := p.GithubURL
		if link == "" {
			link = p.LiveURL
		}
		data.Portfolio = append(data.Portfolio, markdownProject{
			Name:         p.Name,
			Score:        int(math.Round(p.RelevanceScore)),
			Description:  p.Description,
			Technologies: strings.Join(p.Technologies, ", "),
			Link:         link,
		})
	}

	data.Gaps = missingRequired(job, resume)
	return data
}

// missingRequired lists required job skills the resume does not claim.
func missingRequired(job types.StructuredJob, resume types.StructuredResume) []string {
	have := make(map[string]bool, len(resume.Skills))
	for _, s := range resume.Skills {
		have[strings.ToLower(s)] = true
	}
	var gaps []string
	for _, s := range job.RequiredSkills {
		if !have[strings.ToLower(s)] {
			gaps = append(gaps, s)
		}
	}
	return gaps
}

// FormatPortfolio renders ranked projects as a plain-text list.
func FormatPortfolio(projects []types.PortfolioProject) string {
	if len(projects) == 0 {
		return "No portfolio projects available.\n"
	}
	var b strings.Builder
	for i, p := range projects {
		fmt.Fprintf(&b, "%d. %s (relevance %d)", i+1, p.Name, int(math.Round(p.RelevanceScore)))
		if len(p.Technologies) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(p.Technologies, ", "))
		}
		b.WriteString("\n")
		if p.Description != "" {
			fmt.Fprintf(&b, "   %s\n", p.Description)
		}
	}
	return b.String()
}
