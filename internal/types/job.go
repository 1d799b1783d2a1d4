// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// ExperienceLevel is the seniority signal inferred from a job posting
type ExperienceLevel string

// Experience levels
const (
	LevelEntry       ExperienceLevel = "entry"
	LevelMid         ExperienceLevel = "mid"
	LevelSenior      ExperienceLevel = "senior"
	LevelUnspecified ExperienceLevel = "unspecified"
)

// ParseExperienceLevel converts a string to an ExperienceLevel
func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	switch ExperienceLevel(strings.ToLower(strings.TrimSpace(s))) {
	case LevelEntry:
		return LevelEntry, nil
	case LevelMid:
		return LevelMid, nil
	case LevelSenior:
		return LevelSenior, nil
	case LevelUnspecified, "":
		return LevelUnspecified, nil
	default:
		return LevelUnspecified, fmt.Errorf("unknown experience level: %q", s)
	}
}

// StructuredJob represents a job posting reduced to skills, duties and a seniority signal
type StructuredJob struct {
	Title            string          `json:"title,omitempty"`
	Company          string          `json:"company,omitempty"`
	RequiredSkills   []string        `json:"required_skills"`
	PreferredSkills  []string        `json:"preferred_skills"`
	Responsibilities []string        `json:"responsibilities"`
	CompanyValues    []string        `json:"company_values"`
	ExperienceLevel  ExperienceLevel `json:"experience_level"`
}

// AllSkills returns required skills followed by preferred skills, deduplicated case-insensitively
func (j *StructuredJob) AllSkills() []string {
	seen := make(map[string]bool, len(j.RequiredSkills)+len(j.PreferredSkills))
	all := make([]string, 0, len(j.RequiredSkills)+len(j.PreferredSkills))
	for _, list := range [][]string{j.RequiredSkills, j.PreferredSkills} {
		for _, s := range list {
			key := strings.ToLower(s)
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, s)
		}
	}
	return all
}

// Clone returns a deep copy of the job
func (j *StructuredJob) Clone() StructuredJob {
	if j == nil {
		return StructuredJob{}
	}
	out := *j
	out.RequiredSkills = cloneStrings(j.RequiredSkills)
	out.PreferredSkills = cloneStrings(j.PreferredSkills)
	out.Responsibilities = cloneStrings(j.Responsibilities)
	out.CompanyValues = cloneStrings(j.CompanyValues)
	return out
}
