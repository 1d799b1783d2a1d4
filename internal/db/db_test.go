package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchema_DefinesTables(t *testing.T) {
	schema := Schema()
	for _, table := range []string{"pipeline_runs", "artifacts", "portfolio_projects"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, schema, "UNIQUE (run_id, step)")
}

func TestArtifactSteps(t *testing.T) {
	steps := []string{StepResume, StepJob, StepMatch, StepTailored, StepPortfolio, StepExport}
	seen := make(map[string]bool)
	for _, step := range steps {
		assert.NotEmpty(t, step)
		assert.False(t, seen[step], "duplicate step %s", step)
		seen[step] = true
	}
}

func TestRunType(t *testing.T) {
	run := Run{SessionID: "s1", Status: RunStatusRunning}
	assert.Equal(t, "s1", run.SessionID)
	assert.Nil(t, run.CompletedAt)
	assert.Nil(t, run.MatchScore)
}
