// Package ingestion turns job postings from files, pasted text, or URLs into
// clean text plus provenance metadata.
package ingestion

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ErrEmptyPosting is returned when a posting has no text after cleaning.
var ErrEmptyPosting = errors.New("job posting is empty")

var (
	innerSpaceRe = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes line endings, collapses runs of spaces inside lines,
// trims trailing whitespace, and limits blank runs to one empty line.
// Markdown headings and bullet indentation are kept.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankRunRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	body := innerSpaceRe.ReplaceAllString(trimmed, " ")

	// Headings start at column zero; other lines keep their indentation.
	if strings.HasPrefix(body, "#") {
		return body
	}
	indent := len(line) - len(strings.TrimLeft(line, " \t"))
	return strings.Repeat(" ", indent) + body
}

// IngestText cleans pasted posting text.
func IngestText(raw string, source string) (string, *Metadata, error) {
	cleaned := CleanText(raw)
	if cleaned == "" {
		return "", nil, ErrEmptyPosting
	}
	return cleaned, NewMetadata(cleaned, source), nil
}

// IngestFromFile reads and cleans a posting stored on disk.
func IngestFromFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}
	return IngestText(string(content), "")
}
