// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ProjectTemplate is a catalog entry before it has been scored against a job
type ProjectTemplate struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies" validate:"required,min=1,dive,required"`
	GithubURL    string   `json:"github_url,omitempty" validate:"omitempty,url"`
	LiveURL      string   `json:"live_url,omitempty" validate:"omitempty,url"`
}

// PortfolioProject is a catalog project scored for relevance to a job (0-100)
type PortfolioProject struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Technologies   []string `json:"technologies"`
	RelevanceScore float64  `json:"relevance_score"`
	GithubURL      string   `json:"github_url,omitempty"`
	LiveURL        string   `json:"live_url,omitempty"`
}

// ClonePortfolio deep-copies a ranked project list.
func ClonePortfolio(in []PortfolioProject) []PortfolioProject {
	if in == nil {
		return nil
	}
	out := make([]PortfolioProject, len(in))
	for i, p := range in {
		p.Technologies = cloneStrings(p.Technologies)
		out[i] = p
	}
	return out
}
