// Package structuring turns raw resume text into a StructuredResume.
package structuring

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/resume-tailor/internal/skills"
	"github.com/jonathan/resume-tailor/internal/types"
)

// minSummaryWords is the shortest preamble paragraph accepted as a summary.
const minSummaryWords = 8

// Structurer parses resumes. The zero value is not usable; use New.
type Structurer struct {
	vocab     *skills.Vocabulary
	extractor skills.Extractor
	maxSkills int
	verbose   bool
}

// Option configures a Structurer.
type Option func(*Structurer)

// WithVocabulary sets the vocabulary used for technologies and the default extractor.
func WithVocabulary(v *skills.Vocabulary) Option {
	return func(s *Structurer) {
		s.vocab = v
	}
}

// WithExtractor replaces the skill extraction strategy.
func WithExtractor(e skills.Extractor) Option {
	return func(s *Structurer) {
		s.extractor = e
	}
}

// WithMaxSkills caps the skills list. Zero means no cap.
func WithMaxSkills(n int) Option {
	return func(s *Structurer) {
		s.maxSkills = n
	}
}

// WithVerbose enables [VERBOSE] logging.
func WithVerbose(v bool) Option {
	return func(s *Structurer) {
		s.verbose = v
	}
}

// New returns a Structurer using the default vocabulary and lexical extraction.
func New(opts ...Option) *Structurer {
	s := &Structurer{}
	for _, opt := range opts {
		opt(s)
	}
	if s.vocab == nil {
		s.vocab = skills.Default()
	}
	if s.extractor == nil {
		s.extractor = skills.NewLexicalExtractor(s.vocab)
	}
	return s
}

// StructureResume structures rawText with default settings.
func StructureResume(rawText, fallbackName string) (*types.StructuredResume, error) {
	return New().Structure(context.Background(), rawText, fallbackName)
}

// Structure parses rawText into a StructuredResume. fallbackName is used when no
// name can be read from the text. Name and summary of the result are never empty.
func (s *Structurer) Structure(ctx context.Context, rawText, fallbackName string) (*types.StructuredResume, error) {
	text := strings.ReplaceAll(strings.ReplaceAll(rawText, "\r\n", "\n"), "\r", "\n")
	if strings.TrimSpace(text) == "" {
		return nil, &StructuringError{Message: "resume text is empty"}
	}

	segs := segment(text)
	lines := make([]string, 0, 64)
	for _, l := range strings.Split(text, "\n") {
		lines = append(lines, strings.TrimSpace(l))
	}
	nonEmpty := nonBlank(lines)

	name := findName(nonEmpty, text, fallbackName)
	if name == "" {
		return nil, &StructuringError{Message: "could not determine candidate name"}
	}

	resume := &types.StructuredResume{
		Name:       name,
		Email:      findContact(emailRe, nonEmpty, text),
		Phone:      findContact(phoneRe, nonEmpty, text),
		Experience: parseExperience(segs.lines[sectionExperience]),
		Education:  parseEducation(segs.lines[sectionEducation]),
		Projects:   parseProjects(segs.lines[sectionProjects], s.vocab),
	}

	skillText := text
	if segs.has(sectionSkills) && segs.text(sectionSkills) != "" {
		skillText = segs.text(sectionSkills)
	} else if s.verbose {
		log.Printf("[VERBOSE] No skills section found, scanning whole resume")
	}
	found, err := s.extractor.Extract(ctx, skillText, s.maxSkills)
	if err != nil {
		return nil, &StructuringError{Message: "skill extraction failed", Cause: err}
	}
	resume.Skills = skills.Dedupe(found)

	resume.Summary = s.summary(segs, name, resume)

	if s.verbose {
		log.Printf("[VERBOSE] Structured resume for %s: %d skills, %d experience, %d education, %d projects",
			name, len(resume.Skills), len(resume.Experience), len(resume.Education), len(resume.Projects))
	}
	return resume, nil
}

// summary applies the fallback chain: summary section, first prose paragraph of the
// preamble, then a generated one-liner.
func (s *Structurer) summary(segs *segments, name string, resume *types.StructuredResume) string {
	if text := strings.Join(nonBlank(segs.lines[sectionSummary]), " "); text != "" {
		return text
	}

	var paragraph []string
	for _, line := range append(segs.lines[sectionPreamble], "") {
		if line == "" || line == name || isContactLine(line) || strings.HasPrefix(strings.ToLower(line), "name:") {
			if countWords(paragraph) >= minSummaryWords {
				return strings.Join(paragraph, " ")
			}
			paragraph = nil
			continue
		}
		paragraph = append(paragraph, line)
	}

	return generatedSummary(resume)
}

func countWords(lines []string) int {
	n := 0
	for _, l := range lines {
		n += len(strings.Fields(l))
	}
	return n
}

func generatedSummary(resume *types.StructuredResume) string {
	top := resume.Skills
	if len(top) > 3 {
		top = top[:3]
	}
	title := ""
	if len(resume.Experience) > 0 {
		title = resume.Experience[0].Title
	}

	switch {
	case title != "" && len(top) > 0:
		return fmt.Sprintf("%s with experience in %s.", title, strings.Join(top, ", "))
	case title != "":
		return fmt.Sprintf("Experienced %s.", title)
	case len(top) > 0:
		return fmt.Sprintf("Professional with experience in %s.", strings.Join(top, ", "))
	default:
		return "Experienced professional."
	}
}
