// Package rewriting produces tailored resumes, delegating prose to a content generator
// and falling back to a deterministic transform when generation is unavailable or rejected.
package rewriting

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/types"
)

// defaultRules are used when the embedded rule list cannot be loaded.
var defaultRules = []string{
	"Never invent employers, job titles, dates, degrees or certifications.",
	"Keep every experience entry in the same order with title and company unchanged.",
}

// Synthesizer builds TailoredResumes. It is safe for concurrent use.
type Synthesizer struct {
	generator      llm.Generator
	timeout        time.Duration
	maxRecommended int
	verbose        bool
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithGenerator sets the content generator. Without one every call uses the fallback.
func WithGenerator(g llm.Generator) Option {
	return func(s *Synthesizer) {
		s.generator = g
	}
}

// WithTimeout bounds each generation call.
func WithTimeout(d time.Duration) Option {
	return func(s *Synthesizer) {
		s.timeout = d
	}
}

// WithMaxRecommendedSkills caps RecommendedSkills.
func WithMaxRecommendedSkills(n int) Option {
	return func(s *Synthesizer) {
		s.maxRecommended = n
	}
}

// WithVerbose enables [VERBOSE] and [FALLBACK] logging.
func WithVerbose(v bool) Option {
	return func(s *Synthesizer) {
		s.verbose = v
	}
}

// NewSynthesizer creates a Synthesizer.
func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		timeout:        llm.DefaultGenerationTimeout,
		maxRecommended: DefaultMaxRecommendedSkills,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SynthesizeTailoredResume tailors resume to job using gen, which may be nil.
func SynthesizeTailoredResume(ctx context.Context, resume *types.StructuredResume, job *types.StructuredJob, match types.MatchResult, gen llm.Generator) *types.TailoredResume {
	return NewSynthesizer(WithGenerator(gen)).Synthesize(ctx, resume, job, match)
}

// Synthesize never fails: any generation problem degrades to the deterministic fallback.
// Inputs are deep-copied; the result shares no memory with them.
func (s *Synthesizer) Synthesize(ctx context.Context, resume *types.StructuredResume, job *types.StructuredJob, match types.MatchResult) *types.TailoredResume {
	src := resume.Clone()
	tgt := job.Clone()

	tailored := &types.TailoredResume{
		SourceResume:      src,
		SourceJob:         tgt,
		RecommendedSkills: RecommendedSkills(&tgt, match, s.maxRecommended),
		MatchScore:        match.Score,
	}

	if summary, experience, ok := s.generate(ctx, &src, &tgt, match); ok {
		tailored.TailoredSummary = summary
		tailored.TailoredExperience = experience
		tailored.Generated = true
		return tailored
	}

	tailored.TailoredSummary = fallbackSummary(&src, &tgt, match)
	tailored.TailoredExperience = types.CloneExperience(src.Experience)
	if tailored.TailoredExperience == nil {
		tailored.TailoredExperience = []types.Experience{}
	}
	return tailored
}

func (s *Synthesizer) generate(ctx context.Context, resume *types.StructuredResume, job *types.StructuredJob, match types.MatchResult) (string, []types.Experience, bool) {
	if s.generator == nil || !s.generator.Available() {
		if s.verbose {
			log.Printf("[FALLBACK] Content generator unavailable, using deterministic tailoring")
		}
		return "", nil, false
	}

	rules, err := prompts.GetLines("tailoring.json", "no-fabrication-rules")
	if err != nil {
		rules = defaultRules
	}

	response, err := s.generator.Generate(ctx, buildTailoringPrompt(resume, job, match), llm.Constraints{
		Tier:  llm.TierAdvanced,
		JSON:  true,
		Rules: rules,
	}, s.timeout)
	if err != nil {
		if s.verbose {
			log.Printf("[FALLBACK] Generation failed: %v", err)
		}
		return "", nil, false
	}

	out, err := parseGenerated(response)
	if err != nil {
		if s.verbose {
			log.Printf("[FALLBACK] %v", err)
		}
		return "", nil, false
	}

	experience, err := validateGenerated(resume, out)
	if err != nil {
		if s.verbose {
			log.Printf("[FALLBACK] %v", err)
		}
		return "", nil, false
	}

	if s.verbose {
		log.Printf("[VERBOSE] Accepted generated summary (%d chars) and %d experience entries", len(out.Summary), len(experience))
	}
	return strings.TrimSpace(out.Summary), experience, true
}

func buildTailoringPrompt(resume *types.StructuredResume, job *types.StructuredJob, match types.MatchResult) string {
	// Experience holds only strings, so marshalling cannot fail.
	experienceJSON, _ := json.MarshalIndent(resume.Experience, "", "  ")

	var responsibilities strings.Builder
	for _, r := range job.Responsibilities {
		responsibilities.WriteString("- " + r + "\n")
	}

	missing := append(append([]string{}, match.MissingRequiredSkills...), match.MissingPreferredSkills...)

	template, err := prompts.Get("tailoring.json", "tailor-resume")
	if err != nil {
		template = "Target role: {{.JobTitle}}\nMissing skills: {{.MissingSkills}}\nSummary:\n{{.Summary}}\nExperience:\n{{.Experience}}"
	}
	body := prompts.Format(template, map[string]string{
		"JobTitle":         job.Title,
		"RequiredSkills":   strings.Join(job.RequiredSkills, ", "),
		"PreferredSkills":  strings.Join(job.PreferredSkills, ", "),
		"MatchedSkills":    strings.Join(match.MatchedSkills, ", "),
		"MissingSkills":    strings.Join(missing, ", "),
		"Responsibilities": strings.TrimRight(responsibilities.String(), "\n"),
		"Summary":          resume.Summary,
		"Experience":       string(experienceJSON),
	})

	return llm.BuildStructuredPrompt(llm.TailoredContentSchema(), body, "")
}
