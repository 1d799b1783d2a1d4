package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/types"
)

type workflowFiles struct {
	dir     string
	resume  string
	job     string
	catalog string
}

func writeWorkflowFiles(t *testing.T) workflowFiles {
	t.Helper()
	dir := t.TempDir()

	resume := rendering.FormatResume(types.StructuredResume{
		Name:   "Jane Doe",
		Email:  "jane@example.com",
		Skills: []string{"React", "TypeScript"},
		Experience: []types.Experience{
			{Title: "Web Developer", Company: "Initech", Duration: "2020 - 2023", Description: "Built dashboards in React"},
		},
	})
	catalog := `[
		{"name": "Data Pipeline", "description": "Batch ETL", "technologies": ["Python", "Airflow"]},
		{"name": "Storefront", "description": "Shop with checkout", "technologies": ["React", "Node.js"]},
		{"name": "Cloud Infra", "description": "IaC modules", "technologies": ["AWS", "Terraform"]}
	]`

	files := workflowFiles{
		dir:     dir,
		resume:  filepath.Join(dir, "resume.md"),
		job:     filepath.Join(dir, "job.txt"),
		catalog: filepath.Join(dir, "catalog.json"),
	}
	require.NoError(t, os.WriteFile(files.resume, []byte(resume), 0644))
	require.NoError(t, os.WriteFile(files.job, []byte("Frontend Developer\nRequired: React, Node.js\nPreferred: AWS\n"), 0644))
	require.NoError(t, os.WriteFile(files.catalog, []byte(catalog), 0644))
	return files
}

func readJSON[T any](t *testing.T, path string) T {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestWorkflow_StepByStep(t *testing.T) {
	binaryPath := getBinaryPath(t)
	files := writeWorkflowFiles(t)

	resumeJSON := filepath.Join(files.dir, "resume.json")
	jobJSON := filepath.Join(files.dir, "job.json")
	matchJSON := filepath.Join(files.dir, "match.json")
	tailoredJSON := filepath.Join(files.dir, "tailored.json")
	tailoredMD := filepath.Join(files.dir, "tailored.md")
	portfolioJSON := filepath.Join(files.dir, "portfolio.json")
	portfolioMD := filepath.Join(files.dir, "portfolio.md")
	metaJSON := filepath.Join(files.dir, "meta.json")

	steps := [][]string{
		{"structure-resume", "--resume", files.resume, "--out", resumeJSON},
		{"analyze-job", "--job", files.job, "--out", jobJSON, "--meta-out", metaJSON},
		{"match", "--resume-json", resumeJSON, "--job-json", jobJSON, "--out", matchJSON},
		{"tailor", "--resume-json", resumeJSON, "--job-json", jobJSON, "--match-json", matchJSON, "--out", tailoredJSON, "--markdown", tailoredMD},
		{"rank-portfolio", "--job-json", jobJSON, "--catalog", files.catalog, "--top-n", "2", "--out", portfolioJSON, "--markdown", portfolioMD},
	}
	for _, args := range steps {
		output, err := offlineCommand(binaryPath, args...).CombinedOutput()
		require.NoError(t, err, "%s failed: %s", args[0], output)
	}

	resume := readJSON[types.StructuredResume](t, resumeJSON)
	assert.Equal(t, "Jane Doe", resume.Name)
	assert.Contains(t, resume.Skills, "React")

	job := readJSON[types.StructuredJob](t, jobJSON)
	assert.Equal(t, []string{"React", "Node.js"}, job.RequiredSkills)
	assert.Equal(t, []string{"AWS"}, job.PreferredSkills)

	meta := readJSON[map[string]any](t, metaJSON)
	assert.Len(t, meta["hash"], 64)
	assert.NotContains(t, meta, "url")

	match := readJSON[types.MatchResult](t, matchJSON)
	assert.InDelta(t, 0.35, match.Score, 1e-9)

	tailored := readJSON[types.TailoredResume](t, tailoredJSON)
	assert.False(t, tailored.Generated)
	assert.NotEmpty(t, tailored.TailoredSummary)

	markdown, err := os.ReadFile(tailoredMD)
	require.NoError(t, err)
	assert.Contains(t, string(markdown), "Jane Doe")

	portfolio := readJSON[[]types.PortfolioProject](t, portfolioJSON)
	require.Len(t, portfolio, 2)
	assert.Equal(t, "Storefront", portfolio[0].Name)
	assert.Equal(t, "Cloud Infra", portfolio[1].Name)

	portfolioMarkdown, err := os.ReadFile(portfolioMD)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(portfolioMarkdown), "1. Storefront (relevance 100)"))
}

func TestWorkflow_Run(t *testing.T) {
	binaryPath := getBinaryPath(t)
	files := writeWorkflowFiles(t)

	markdownPath := filepath.Join(files.dir, "out.md")
	jsonPath := filepath.Join(files.dir, "out.json")

	output, err := offlineCommand(binaryPath,
		"run",
		"--resume", files.resume,
		"--job", files.job,
		"--catalog", files.catalog,
		"--session-id", "cli-session",
		"--out", markdownPath,
		"--json-out", jsonPath,
	).CombinedOutput()
	require.NoError(t, err, "run failed: %s", output)

	assert.Contains(t, string(output), "Step 6/6")
	assert.Contains(t, string(output), "Match score: 35%")

	markdown, err := os.ReadFile(markdownPath)
	require.NoError(t, err)
	assert.Contains(t, string(markdown), "Storefront")

	var result struct {
		SessionID string `json:"session_id"`
	}
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, "cli-session", result.SessionID)
}

func TestWorkflow_RunWithConfigFile(t *testing.T) {
	binaryPath := getBinaryPath(t)
	files := writeWorkflowFiles(t)

	markdownPath := filepath.Join(files.dir, "from_config.md")
	cfg := map[string]any{
		"resume":          files.resume,
		"job":             files.job,
		"catalog_path":    files.catalog,
		"portfolio_top_n": 1,
	}
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	configFile := filepath.Join(files.dir, "config.json")
	require.NoError(t, os.WriteFile(configFile, data, 0644))

	output, err := offlineCommand(binaryPath, "run", "--config", configFile, "--out", markdownPath).CombinedOutput()
	require.NoError(t, err, "run failed: %s", output)

	markdown, err := os.ReadFile(markdownPath)
	require.NoError(t, err)
	assert.Contains(t, string(markdown), "Storefront")
	assert.NotContains(t, string(markdown), "Cloud Infra")
}

func TestWorkflow_InvalidConfigFile(t *testing.T) {
	binaryPath := getBinaryPath(t)
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(configFile, []byte(`{"provider": "other"}`), 0644))

	output, err := offlineCommand(binaryPath, "run", "--config", configFile).CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "'provider' failed oneof")
}
