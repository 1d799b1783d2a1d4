package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// getBinaryPath returns the path to the resume_tailor binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "resume_tailor"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/resume_tailor ./cmd/resume_tailor'", binaryPath)
	}

	return binaryPath
}

// offlineCommand runs the binary with credentials and infrastructure URLs blanked,
// so results do not depend on the developer's .env.
func offlineCommand(binaryPath string, args ...string) *exec.Cmd {
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(),
		"GEMINI_API_KEY=",
		"OPENAI_API_KEY=",
		"LLM_PROVIDER=",
		"DATABASE_URL=",
		"REDIS_URL=",
		"RABBITMQ_URL=",
		"S3_BUCKET=",
	)
	return cmd
}
