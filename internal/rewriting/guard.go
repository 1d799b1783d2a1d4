package rewriting

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/types"
)

// degreePhrases are credentials the generator may only mention if the source resume already does.
var degreePhrases = []string{
	"bachelor", "master's", "masters degree", "master of", "phd", "ph.d", "doctorate",
	"mba", "b.s.", "m.s.", "b.sc", "m.sc", "b.a.", "m.a.", "associate degree", "degree in",
}

// RejectionError explains why generated content was not accepted
type RejectionError struct {
	Reasons []string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("generated content rejected: %s", strings.Join(e.Reasons, "; "))
}

// generatedContent is the JSON shape requested from the generator.
type generatedContent struct {
	Summary    string             `json:"summary"`
	Experience []types.Experience `json:"experience"`
}

func parseGenerated(response string) (*generatedContent, error) {
	var out generatedContent
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(response)), &out); err != nil {
		return nil, fmt.Errorf("failed to parse generated JSON: %w", err)
	}
	return &out, nil
}

// checkForbiddenPhrasesInText returns the phrases present in text as whole words,
// case-insensitive, without duplicates. "mba" does not match inside "Mumbai".
func checkForbiddenPhrasesInText(text string, phrases []string) []string {
	if len(phrases) == 0 {
		return nil
	}

	var found []string
	seen := make(map[string]bool)
	for _, phrase := range phrases {
		normalizedPhrase := strings.ToLower(strings.TrimSpace(phrase))
		if normalizedPhrase == "" || seen[normalizedPhrase] {
			continue
		}
		if wholeWordPattern(normalizedPhrase).MatchString(text) {
			found = append(found, phrase)
			seen[normalizedPhrase] = true
		}
	}
	return found
}

// sourceText flattens every field of the resume a degree could legitimately appear in.
func sourceText(resume *types.StructuredResume) string {
	var sb strings.Builder
	sb.WriteString(resume.Summary)
	for _, e := range resume.Experience {
		sb.WriteString("\n" + e.Title + "\n" + e.Description)
	}
	for _, e := range resume.Education {
		sb.WriteString("\n" + e.Degree + "\n" + e.School)
	}
	return sb.String()
}

// newDegreeMentions lists degree phrases in generated text that the source never mentions.
func newDegreeMentions(source *types.StructuredResume, generated string) []string {
	present := checkForbiddenPhrasesInText(sourceText(source), degreePhrases)
	allowed := make(map[string]bool, len(present))
	for _, p := range present {
		allowed[p] = true
	}

	var forbidden []string
	for _, p := range degreePhrases {
		if !allowed[p] {
			forbidden = append(forbidden, p)
		}
	}
	return checkForbiddenPhrasesInText(generated, forbidden)
}

func sameField(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// validateGenerated applies the acceptance rules and returns the accepted experience
// list with titles, companies and durations copied from the source.
func validateGenerated(source *types.StructuredResume, out *generatedContent) ([]types.Experience, error) {
	var reasons []string

	if strings.TrimSpace(out.Summary) == "" {
		reasons = append(reasons, "summary is empty")
	}
	if len(out.Experience) != len(source.Experience) {
		reasons = append(reasons, fmt.Sprintf("expected %d experience entries, got %d", len(source.Experience), len(out.Experience)))
	} else {
		for i, e := range out.Experience {
			src := source.Experience[i]
			if !sameField(e.Company, src.Company) {
				reasons = append(reasons, fmt.Sprintf("entry %d company changed to %q", i, e.Company))
			}
			if !sameField(e.Title, src.Title) {
				reasons = append(reasons, fmt.Sprintf("entry %d title changed to %q", i, e.Title))
			}
		}
	}

	var generatedText strings.Builder
	generatedText.WriteString(out.Summary)
	for _, e := range out.Experience {
		generatedText.WriteString("\n" + e.Description)
	}
	if mentions := newDegreeMentions(source, generatedText.String()); len(mentions) > 0 {
		reasons = append(reasons, "mentions credentials not in resume: "+strings.Join(mentions, ", "))
	}

	if len(reasons) > 0 {
		return nil, &RejectionError{Reasons: reasons}
	}

	accepted := make([]types.Experience, len(source.Experience))
	for i, src := range source.Experience {
		accepted[i] = src
		if desc := strings.TrimSpace(out.Experience[i].Description); desc != "" {
			accepted[i].Description = desc
		}
	}
	return accepted, nil
}
