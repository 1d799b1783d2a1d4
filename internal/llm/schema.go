package llm

import (
	"fmt"
	"strings"
)

// ResponseSchema describes the JSON object a prompt asks the model to return.
type ResponseSchema struct {
	Name        string        // Schema name (e.g., "TailoredContent")
	Description string        // Preamble describing the task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the model output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[\"string\"]", ...
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildStructuredPrompt constructs a prompt from the schema, the task body and the input text.
func BuildStructuredPrompt(schema ResponseSchema, body, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	if body != "" {
		sb.WriteString(body)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")
	sb.WriteString("Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n")

	if inputText != "" {
		sb.WriteString("\nInput:\n\"\"\"\n")
		sb.WriteString(inputText)
		sb.WriteString("\n\"\"\"\n")
	}

	return sb.String()
}

// TailoredContentSchema is the response shape for tailored summary and experience.
func TailoredContentSchema() ResponseSchema {
	return ResponseSchema{
		Name: "TailoredContent",
		Description: `You are an expert resume writer. Rewrite the candidate's summary and experience
descriptions so they speak to the target job. Only rephrase and reorder facts already present.`,
		Fields: []SchemaField{
			{
				Name:        "summary",
				Type:        "\"string\"",
				Description: "Rewritten professional summary, 2-4 sentences",
				Required:    true,
			},
			{
				Name:        "experience",
				Type:        "[{\"title\": \"string\", \"company\": \"string\", \"duration\": \"string\", \"description\": \"string\"}]",
				Description: "Same entries, same order, titles and companies copied exactly",
				Required:    true,
			},
		},
	}
}
