package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommands_FlagsValidation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{
			name:        "structure-resume without resume",
			args:        []string{"structure-resume"},
			errorString: "--resume is required",
		},
		{
			name:        "structure-resume with malformed object location",
			args:        []string{"structure-resume", "--resume", "s3://bucket-only"},
			errorString: "want s3://bucket/key",
		},
		{
			name:        "analyze-job without input",
			args:        []string{"analyze-job"},
			errorString: "either --job or --job-url is required",
		},
		{
			name:        "analyze-job with both inputs",
			args:        []string{"analyze-job", "--job", "job.txt", "--job-url", "https://example.com/job"},
			errorString: "mutually exclusive",
		},
		{
			name:        "match without inputs",
			args:        []string{"match"},
			errorString: "required flag(s)",
		},
		{
			name:        "tailor without job",
			args:        []string{"tailor", "--resume-json", "resume.json"},
			errorString: "required flag(s)",
		},
		{
			name:        "rank-portfolio without job",
			args:        []string{"rank-portfolio", "--catalog", "catalog.json"},
			errorString: "required flag(s)",
		},
		{
			name:        "run without resume",
			args:        []string{"run", "--job", "job.txt"},
			errorString: "--resume is required",
		},
		{
			name:        "run without job",
			args:        []string{"run", "--resume", "resume.txt"},
			errorString: "either --job or --job-url is required",
		},
		{
			name:        "worker without broker",
			args:        []string{"worker"},
			errorString: "RABBITMQ_URL required",
		},
		{
			name:        "worker with zero concurrency",
			args:        []string{"worker", "--rabbitmq-url", "amqp://localhost", "--concurrency", "0"},
			errorString: "--concurrency must be at least 1",
		},
		{
			name:        "migrate without database",
			args:        []string{"migrate"},
			errorString: "DATABASE_URL required",
		},
		{
			name:        "serve with invalid port",
			args:        []string{"serve", "--port", "0"},
			errorString: "--port must be between 1 and 65535",
		},
		{
			name:        "history without selector",
			args:        []string{"history"},
			errorString: "exactly one of --session-id or --run-id",
		},
		{
			name:        "history with invalid run id",
			args:        []string{"history", "--run-id", "not-a-uuid"},
			errorString: "invalid run-id",
		},
	}

	binaryPath := getBinaryPath(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := offlineCommand(binaryPath, tt.args...).CombinedOutput()
			assert.Error(t, err)
			assert.Contains(t, string(output), tt.errorString)
		})
	}
}

func TestRootCommand_ListsCommands(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := offlineCommand(binaryPath, "--help").CombinedOutput()
	assert.NoError(t, err)
	for _, name := range []string{"structure-resume", "analyze-job", "match", "tailor", "rank-portfolio", "run", "worker", "migrate", "history", "serve"} {
		assert.Contains(t, string(output), name)
	}
}
