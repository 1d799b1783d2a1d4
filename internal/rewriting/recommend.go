package rewriting

import (
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// DefaultMaxRecommendedSkills caps RecommendedSkills.
const DefaultMaxRecommendedSkills = 10

// RecommendedSkills orders the job's required skills matched-first (stable), appends the
// preferred skills, removes case-insensitive duplicates and truncates to limit.
// A non-positive limit uses DefaultMaxRecommendedSkills.
func RecommendedSkills(job *types.StructuredJob, match types.MatchResult, limit int) []string {
	if limit <= 0 {
		limit = DefaultMaxRecommendedSkills
	}
	out := []string{}
	if job == nil {
		return out
	}

	matched := make(map[string]bool, len(match.MatchedSkills))
	for _, s := range match.MatchedSkills {
		matched[strings.ToLower(s)] = true
	}

	ordered := make([]string, 0, len(job.RequiredSkills)+len(job.PreferredSkills))
	for _, s := range job.RequiredSkills {
		if matched[strings.ToLower(s)] {
			ordered = append(ordered, s)
		}
	}
	for _, s := range job.RequiredSkills {
		if !matched[strings.ToLower(s)] {
			ordered = append(ordered, s)
		}
	}
	ordered = append(ordered, job.PreferredSkills...)

	seen := make(map[string]bool, len(ordered))
	for _, s := range ordered {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}
