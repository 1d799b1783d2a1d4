package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/prompts"
)

// Extractor finds canonical skills in free text.
// limit caps the result; zero or negative means no cap.
type Extractor interface {
	Extract(ctx context.Context, text string, limit int) ([]string, error)
}

// LexicalExtractor matches text against a Vocabulary.
type LexicalExtractor struct {
	Vocab *Vocabulary
}

// NewLexicalExtractor returns a lexical extractor over vocab, or the default vocabulary when nil.
func NewLexicalExtractor(vocab *Vocabulary) *LexicalExtractor {
	if vocab == nil {
		vocab = Default()
	}
	return &LexicalExtractor{Vocab: vocab}
}

// Extract implements Extractor. It never returns an error.
func (e *LexicalExtractor) Extract(_ context.Context, text string, limit int) ([]string, error) {
	return e.Vocab.LookupN(text, limit), nil
}

// LLMExtractor asks the model for skills and keeps only those the vocabulary knows,
// so the output uses the same canonical names as the lexical path.
type LLMExtractor struct {
	Client   llm.Client
	Vocab    *Vocabulary
	Fallback Extractor
	Verbose  bool
}

// NewLLMExtractor wires an LLM extractor with a lexical fallback over the same vocabulary.
func NewLLMExtractor(client llm.Client, vocab *Vocabulary) *LLMExtractor {
	if vocab == nil {
		vocab = Default()
	}
	return &LLMExtractor{
		Client:   client,
		Vocab:    vocab,
		Fallback: NewLexicalExtractor(vocab),
	}
}

// Extract implements Extractor. Any model failure falls back to lexical matching.
func (e *LLMExtractor) Extract(ctx context.Context, text string, limit int) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}
	if e.Client == nil {
		return e.Fallback.Extract(ctx, text, limit)
	}

	found, err := e.extractWithLLM(ctx, text)
	if err != nil {
		if e.Verbose {
			log.Printf("[FALLBACK] LLM skill extraction failed, using vocabulary: %v", err)
		}
		return e.Fallback.Extract(ctx, text, limit)
	}

	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

func (e *LLMExtractor) extractWithLLM(ctx context.Context, text string) ([]string, error) {
	prompt := buildExtractionPrompt(text, e.Vocab.Terms())

	response, err := e.Client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}

	names, err := parseSkillList(response)
	if err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	found := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		canonical, ok := e.Vocab.Canonical(name)
		if !ok || seen[canonical] {
			continue
		}
		seen[canonical] = true
		found = append(found, canonical)
	}
	return found, nil
}

func buildExtractionPrompt(text string, vocabulary []string) string {
	template, err := prompts.Get("skills.json", "extract-skills")
	if err != nil {
		template = "List the skills from this vocabulary that the text mentions: {{.Vocabulary}}\n" +
			"Respond with a JSON array of strings in order of first mention.\n\nText:\n{{.Text}}"
	}
	return prompts.Format(template, map[string]string{
		"Vocabulary": strings.Join(vocabulary, ", "),
		"Text":       text,
	})
}

// parseSkillList extracts a JSON array of strings from a model response.
func parseSkillList(response string) ([]string, error) {
	response = llm.CleanJSONBlock(response)
	startIdx := strings.Index(response, "[")
	endIdx := strings.LastIndex(response, "]")
	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return nil, fmt.Errorf("no valid JSON array found in response")
	}

	var names []string
	if err := json.Unmarshal([]byte(response[startIdx:endIdx+1]), &names); err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}
	return names, nil
}
