package ranking

import (
	"testing"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleJob() *types.StructuredJob {
	return &types.StructuredJob{
		RequiredSkills:  []string{"React", "Node.js"},
		PreferredSkills: []string{"AWS"},
	}
}

func TestRankPortfolio_EmptyCatalog(t *testing.T) {
	ranked := RankPortfolio(nil, sampleJob())
	require.NotNil(t, ranked)
	assert.Empty(t, ranked)

	ranked = RankPortfolio([]types.ProjectTemplate{}, sampleJob())
	assert.Empty(t, ranked)
}

func TestRankPortfolio_Scores(t *testing.T) {
	candidates := []types.ProjectTemplate{
		{Name: "CLI", Technologies: []string{"Go"}},
		{Name: "Shop", Technologies: []string{"React", "Node.js", "MongoDB"}, GithubURL: "https://github.com/x/shop"},
		{Name: "Infra", Technologies: []string{"aws"}},
		{Name: "Empty"},
	}

	ranked := RankPortfolio(candidates, sampleJob())
	require.Len(t, ranked, 4)

	assert.Equal(t, "Infra", ranked[0].Name)
	assert.Equal(t, 100.0, ranked[0].RelevanceScore)
	assert.Equal(t, "Shop", ranked[1].Name)
	assert.Equal(t, 67.0, ranked[1].RelevanceScore)
	assert.Equal(t, "https://github.com/x/shop", ranked[1].GithubURL)
	assert.Equal(t, 0.0, ranked[2].RelevanceScore)
	assert.Equal(t, 0.0, ranked[3].RelevanceScore)
}

func TestRankPortfolio_StableForTies(t *testing.T) {
	candidates := []types.ProjectTemplate{
		{Name: "A", Technologies: []string{"Go"}},
		{Name: "B", Technologies: []string{"React"}},
		{Name: "C", Technologies: []string{"Rust"}},
		{Name: "D", Technologies: []string{"AWS"}},
		{Name: "E", Technologies: []string{"Python"}},
	}

	ranked := RankPortfolioN(candidates, sampleJob(), 0)
	names := make([]string, len(ranked))
	for i, p := range ranked {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"B", "D", "A", "C", "E"}, names)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].RelevanceScore, ranked[i].RelevanceScore)
	}
}

func TestRankPortfolio_TopN(t *testing.T) {
	candidates := make([]types.ProjectTemplate, 8)
	for i := range candidates {
		candidates[i] = types.ProjectTemplate{Name: string(rune('A' + i)), Technologies: []string{"React"}}
	}

	assert.Len(t, RankPortfolio(candidates, sampleJob()), DefaultTopN)
	assert.Len(t, RankPortfolioN(candidates, sampleJob(), 2), 2)
}

func TestRankPortfolio_DuplicateTechnologiesCountOnce(t *testing.T) {
	ranked := RankPortfolio([]types.ProjectTemplate{
		{Name: "Dup", Technologies: []string{"React", "react", "Go"}},
	}, sampleJob())

	require.Len(t, ranked, 1)
	assert.Equal(t, []string{"React", "Go"}, ranked[0].Technologies)
	assert.Equal(t, 50.0, ranked[0].RelevanceScore)
}

func TestRankPortfolio_NilJob(t *testing.T) {
	ranked := RankPortfolio([]types.ProjectTemplate{{Name: "A", Technologies: []string{"Go"}}}, nil)
	require.Len(t, ranked, 1)
	assert.Equal(t, 0.0, ranked[0].RelevanceScore)
}
