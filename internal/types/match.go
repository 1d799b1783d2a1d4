// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// MatchResult is the comparison of a resume's skills against a job's skill sets
type MatchResult struct {
	Score                  float64  `json:"score"`
	MatchedSkills          []string `json:"matched_skills"`
	MissingRequiredSkills  []string `json:"missing_required_skills"`
	MissingPreferredSkills []string `json:"missing_preferred_skills"`
}

// Percent returns the score as a whole-number percentage
func (m *MatchResult) Percent() int {
	return int(m.Score*100 + 0.5)
}

// Clone returns a deep copy of the match result.
func (m *MatchResult) Clone() MatchResult {
	if m == nil {
		return MatchResult{}
	}
	return MatchResult{
		Score:                  m.Score,
		MatchedSkills:          cloneStrings(m.MatchedSkills),
		MissingRequiredSkills:  cloneStrings(m.MissingRequiredSkills),
		MissingPreferredSkills: cloneStrings(m.MissingPreferredSkills),
	}
}
