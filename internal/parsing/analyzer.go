// Package parsing turns raw job posting text into a StructuredJob.
package parsing

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/jonathan/resume-tailor/internal/skills"
	"github.com/jonathan/resume-tailor/internal/types"
)

const (
	// MaxResponsibilities caps the extracted responsibilities list.
	MaxResponsibilities = 5
	// minResponsibilityLength filters short or incomplete bullet fragments.
	minResponsibilityLength = 20
)

var jobBulletRe = regexp.MustCompile(`^(?:[•\-*·–◦▪]|\d{1,2}[.)])\s*`)

var companyValueTerms = []skills.Term{
	{Name: "innovation"},
	{Name: "collaboration"},
	{Name: "teamwork"},
	{Name: "growth"},
	{Name: "learning"},
	{Name: "diversity"},
	{Name: "inclusion"},
	{Name: "remote"},
	{Name: "flexible"},
	{Name: "startup"},
	{Name: "enterprise"},
	{Name: "fast-paced"},
	{Name: "dynamic"},
}

var companyValues = skills.NewVocabulary(companyValueTerms, skills.WithMaxMatches(0))

// Analyzer extracts skills, responsibilities and level from job descriptions.
type Analyzer struct {
	extractor skills.Extractor
	maxSkills int
	verbose   bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithExtractor replaces the skill extraction strategy.
func WithExtractor(e skills.Extractor) Option {
	return func(a *Analyzer) {
		a.extractor = e
	}
}

// WithMaxSkills caps required and preferred lists independently. Zero means no cap.
func WithMaxSkills(n int) Option {
	return func(a *Analyzer) {
		a.maxSkills = n
	}
}

// WithVerbose enables [VERBOSE] logging.
func WithVerbose(v bool) Option {
	return func(a *Analyzer) {
		a.verbose = v
	}
}

// NewAnalyzer returns an Analyzer with lexical extraction over the default vocabulary.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	if a.extractor == nil {
		a.extractor = skills.NewLexicalExtractor(nil)
	}
	return a
}

// AnalyzeJob analyzes rawText with default settings.
func AnalyzeJob(rawText string) (*types.StructuredJob, error) {
	return NewAnalyzer().Analyze(context.Background(), rawText)
}

// Analyze parses a job description. Blank text yields *EmptyJobTextError; any other
// text produces a (possibly sparse) StructuredJob.
func (a *Analyzer) Analyze(ctx context.Context, rawText string) (*types.StructuredJob, error) {
	text := strings.ReplaceAll(rawText, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil, &EmptyJobTextError{}
	}

	var (
		requiredText     []string
		preferredText    []string
		responsibilities []string
		lines            []string
	)

	current := zoneNeutral
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		lines = append(lines, line)

		if z, ok := parseHeading(line); ok {
			current = z
			if a.verbose {
				log.Printf("[VERBOSE] Job section %q -> %s", line, z)
			}
			continue
		}

		lineZone, content := current, line
		if z, rest, ok := parseInlineLabel(line); ok {
			lineZone, content = z, rest
		}

		// Skills outside a preferred section count as required, including
		// those under headings like About or Benefits.
		if lineZone == zonePreferred {
			preferredText = append(preferredText, content)
		} else {
			requiredText = append(requiredText, content)
		}

		if len(responsibilities) < MaxResponsibilities {
			if r, ok := responsibility(content, lineZone); ok {
				responsibilities = append(responsibilities, r)
			}
		}
	}

	required, err := a.extractor.Extract(ctx, strings.Join(requiredText, "\n"), a.maxSkills)
	if err != nil {
		return nil, &ExtractionError{Message: "required skills", Cause: err}
	}
	preferred, err := a.extractor.Extract(ctx, strings.Join(preferredText, "\n"), a.maxSkills)
	if err != nil {
		return nil, &ExtractionError{Message: "preferred skills", Cause: err}
	}

	title, titleLine := inferTitle(lines)
	job := &types.StructuredJob{
		Title:            title,
		Company:          inferCompany(text, titleLine),
		RequiredSkills:   skills.Dedupe(required),
		PreferredSkills:  skills.Dedupe(preferred),
		Responsibilities: responsibilities,
		CompanyValues:    companyValues.Lookup(text),
		ExperienceLevel:  inferLevel(title, text),
	}
	if job.Responsibilities == nil {
		job.Responsibilities = []string{}
	}

	if a.verbose {
		log.Printf("[VERBOSE] Analyzed job %q: %d required, %d preferred, level %s",
			job.Title, len(job.RequiredSkills), len(job.PreferredSkills), job.ExperienceLevel)
	}
	return job, nil
}

// responsibility reports whether a line is a responsibility: any bullet in a
// responsibilities section, or a long bullet before any section heading.
func responsibility(line string, z zone) (string, bool) {
	loc := jobBulletRe.FindStringIndex(line)
	if loc == nil {
		if z == zoneResponsibilities && len(line) > minResponsibilityLength {
			return line, true
		}
		return "", false
	}
	item := strings.TrimSpace(line[loc[1]:])
	switch z {
	case zoneResponsibilities:
		return item, item != ""
	case zoneNeutral:
		return item, len(item) > minResponsibilityLength
	}
	return "", false
}
