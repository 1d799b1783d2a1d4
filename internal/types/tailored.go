// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// TailoredResume is a resume adapted to a specific job.
// SourceResume and SourceJob are owned copies, never shared with the caller.
type TailoredResume struct {
	SourceResume       StructuredResume `json:"source_resume"`
	SourceJob          StructuredJob    `json:"source_job"`
	TailoredSummary    string           `json:"tailored_summary"`
	TailoredExperience []Experience     `json:"tailored_experience"`
	RecommendedSkills  []string         `json:"recommended_skills"`
	MatchScore         float64          `json:"match_score"`
	// Generated is true when prose came from the content generator rather than the fallback
	Generated bool `json:"generated"`
}

// Clone returns a deep copy of the tailored resume.
func (t *TailoredResume) Clone() TailoredResume {
	if t == nil {
		return TailoredResume{}
	}
	out := *t
	out.SourceResume = t.SourceResume.Clone()
	out.SourceJob = t.SourceJob.Clone()
	out.TailoredExperience = CloneExperience(t.TailoredExperience)
	out.RecommendedSkills = cloneStrings(t.RecommendedSkills)
	return out
}
