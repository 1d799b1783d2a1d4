package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

// DefaultGenerationTimeout bounds a single generation call when the caller passes zero.
const DefaultGenerationTimeout = 60 * time.Second

// Constraints shape a generation request.
type Constraints struct {
	Tier ModelTier
	// JSON requests a JSON response.
	JSON bool
	// Rules are appended to the prompt as a bullet list the model must follow.
	Rules []string
}

// Generator produces text for a prompt. Available reports whether calls can succeed at all.
type Generator interface {
	Available() bool
	Generate(ctx context.Context, prompt string, constraints Constraints, timeout time.Duration) (string, error)
}

// ClientGenerator adapts a Client to the Generator interface.
type ClientGenerator struct {
	client Client
}

// NewGenerator wraps client. A nil client yields a generator that is never available.
func NewGenerator(client Client) *ClientGenerator {
	return &ClientGenerator{client: client}
}

// Available implements Generator.
func (g *ClientGenerator) Available() bool {
	return g != nil && g.client != nil
}

// Generate implements Generator. All failures are returned as *GenerationError.
func (g *ClientGenerator) Generate(ctx context.Context, prompt string, constraints Constraints, timeout time.Duration) (string, error) {
	if !g.Available() {
		return "", &GenerationError{Kind: GenerationUnavailable, Message: "no LLM client configured"}
	}
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	tier := constraints.Tier
	if tier == "" {
		tier = TierAdvanced
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fullPrompt := applyRules(prompt, constraints.Rules)

	var (
		text string
		err  error
	)
	if constraints.JSON {
		text, err = g.client.GenerateJSON(callCtx, fullPrompt, tier)
	} else {
		text, err = g.client.GenerateContent(callCtx, fullPrompt, tier)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", &GenerationError{Kind: GenerationTimeout, Message: "deadline exceeded after " + timeout.String(), Cause: err}
		}
		return "", &GenerationError{Kind: GenerationProvider, Message: "model " + g.client.GetModel(tier), Cause: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &GenerationError{Kind: GenerationEmpty, Message: "model returned no text"}
	}
	return text, nil
}

func applyRules(prompt string, rules []string) string {
	if len(rules) == 0 {
		return prompt
	}
	var sb strings.Builder
	sb.WriteString(prompt)
	sb.WriteString("\n\nRULES:\n")
	for _, r := range rules {
		sb.WriteString("- ")
		sb.WriteString(r)
		sb.WriteString("\n")
	}
	return sb.String()
}
