// Package cache memoizes pure computations such as job analysis and page fetches.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key prefixes.
const (
	AnalysisPrefix = "analysis:"
	PagePrefix     = "page:"
)

// DefaultAnalysisTTL bounds how long a job analysis is reused.
const DefaultAnalysisTTL = 24 * time.Hour

// Hash returns the hex sha256 of text.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// AnalysisKey is the cache key for the analysis of a job text.
func AnalysisKey(jobText string) string {
	return AnalysisPrefix + Hash(jobText)
}

// PageKey is the cache key for a fetched URL.
func PageKey(url string) string {
	return PagePrefix + Hash(url)
}

// GetJSON loads key into v. The bool reports whether the key was present.
func GetJSON(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores v under key as JSON.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}
