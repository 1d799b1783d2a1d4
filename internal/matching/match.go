// Package matching scores a structured resume against a structured job.
package matching

import (
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// Weights of the two coverage terms. They sum to 1 so the score stays in [0,1].
const (
	RequiredWeight  = 0.7
	PreferredWeight = 0.3
)

// ComputeMatch scores resume against job:
//
//	score = 0.7 * |R ∩ Req| / max(1,|Req|) + 0.3 * |R ∩ Pref| / max(1,|Pref|)
//
// Comparison is case-insensitive. Matched and missing lists follow job order.
// The function is pure and deterministic.
func ComputeMatch(resume *types.StructuredResume, job *types.StructuredJob) types.MatchResult {
	have := make(map[string]bool)
	if resume != nil {
		for _, s := range resume.Skills {
			have[key(s)] = true
		}
	}

	result := types.MatchResult{
		MatchedSkills:          []string{},
		MissingRequiredSkills:  []string{},
		MissingPreferredSkills: []string{},
	}
	if job == nil {
		return result
	}

	required := dedupe(job.RequiredSkills)
	preferred := dedupe(job.PreferredSkills)

	matchedSeen := make(map[string]bool)
	addMatched := func(skill string) {
		k := key(skill)
		if !matchedSeen[k] {
			matchedSeen[k] = true
			result.MatchedSkills = append(result.MatchedSkills, skill)
		}
	}

	requiredHits := 0
	for _, s := range required {
		if have[key(s)] {
			requiredHits++
			addMatched(s)
		} else {
			result.MissingRequiredSkills = append(result.MissingRequiredSkills, s)
		}
	}

	preferredHits := 0
	for _, s := range preferred {
		if have[key(s)] {
			preferredHits++
			addMatched(s)
		} else {
			result.MissingPreferredSkills = append(result.MissingPreferredSkills, s)
		}
	}

	result.Score = RequiredWeight*coverage(requiredHits, len(required)) +
		PreferredWeight*coverage(preferredHits, len(preferred))
	return result
}

func coverage(hits, total int) float64 {
	if total < 1 {
		return 0
	}
	return float64(hits) / float64(total)
}

func key(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}

func dedupe(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		k := key(s)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}
