package ingestion

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/resume-tailor/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetadata(t *testing.T) {
	meta := NewMetadata("content", "https://example.com/job")

	assert.Equal(t, "https://example.com/job", meta.URL)
	assert.Equal(t, cache.Hash("content"), meta.Hash)
	_, err := time.Parse(time.RFC3339, meta.Timestamp)
	assert.NoError(t, err)
	assert.Equal(t, cache.AnalysisKey("content"), meta.AnalysisKey())
}

func TestMetadata_ToJSON(t *testing.T) {
	meta := NewMetadata("content", "")
	meta.Platform = "lever"

	data, err := meta.ToJSON()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "\n  \"hash\""))
	assert.NotContains(t, string(data), "\"url\"")

	var decoded Metadata
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *meta, decoded)
}
