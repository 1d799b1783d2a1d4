package ingestion

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/resume-tailor/internal/cache"
)

// Metadata records where a posting came from.
type Metadata struct {
	URL       string   `json:"url,omitempty"`
	Timestamp string   `json:"timestamp"`
	Hash      string   `json:"hash"`
	Platform  string   `json:"platform,omitempty"`
	Rendered  bool     `json:"rendered,omitempty"`
	Links     []string `json:"links,omitempty"`
}

// NewMetadata stamps content with the current UTC time and its sha256.
func NewMetadata(content string, url string) *Metadata {
	return &Metadata{
		URL:       url,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      cache.Hash(content),
	}
}

// AnalysisKey is the cache key for the analysis of this posting.
func (m *Metadata) AnalysisKey() string {
	return cache.AnalysisPrefix + m.Hash
}

// ToJSON returns indented JSON.
func (m *Metadata) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return data, nil
}
