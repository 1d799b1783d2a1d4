// Package ranking scores catalog projects against a job's skills.
package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// DefaultTopN is how many projects RankPortfolio returns.
const DefaultTopN = 5

// RankPortfolio ranks candidates against job and keeps the top DefaultTopN.
func RankPortfolio(candidates []types.ProjectTemplate, job *types.StructuredJob) []types.PortfolioProject {
	return RankPortfolioN(candidates, job, DefaultTopN)
}

// RankPortfolioN scores each candidate as
//
//	round(100 * |tech ∩ (required ∪ preferred)| / max(1, |tech|))
//
// and returns them sorted by descending score. Ties keep catalog order. topN <= 0 keeps all.
func RankPortfolioN(candidates []types.ProjectTemplate, job *types.StructuredJob, topN int) []types.PortfolioProject {
	ranked := make([]types.PortfolioProject, 0, len(candidates))
	if len(candidates) == 0 {
		return ranked
	}

	jobSkills := make(map[string]bool)
	if job != nil {
		for _, s := range job.AllSkills() {
			jobSkills[normalize(s)] = true
		}
	}

	for _, c := range candidates {
		tech := uniqueTechnologies(c.Technologies)
		ranked = append(ranked, types.PortfolioProject{
			Name:           c.Name,
			Description:    c.Description,
			Technologies:   tech,
			RelevanceScore: relevance(tech, jobSkills),
			GithubURL:      c.GithubURL,
			LiveURL:        c.LiveURL,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})

	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

func relevance(tech []string, jobSkills map[string]bool) float64 {
	overlap := 0
	for _, t := range tech {
		if jobSkills[normalize(t)] {
			overlap++
		}
	}
	denominator := len(tech)
	if denominator < 1 {
		denominator = 1
	}
	return math.Round(100 * float64(overlap) / float64(denominator))
}

func uniqueTechnologies(tech []string) []string {
	out := make([]string, 0, len(tech))
	seen := make(map[string]bool, len(tech))
	for _, t := range tech {
		t = strings.TrimSpace(t)
		key := normalize(t)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
