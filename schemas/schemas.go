// Package schemas holds the JSON Schemas for the artifacts the CLI writes.
package schemas

import "embed"

// Schema file names.
const (
	StructuredResume = "structured_resume.schema.json"
	StructuredJob    = "structured_job.schema.json"
	MatchResult      = "match_result.schema.json"
	TailoredResume   = "tailored_resume.schema.json"
	Portfolio        = "portfolio.schema.json"
	ProjectCatalog   = "project_catalog.schema.json"
)

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
