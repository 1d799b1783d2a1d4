package rendering

import (
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// FormatResume writes a structured resume as plain text in the layout the
// structurer reads: name, contact line, then SUMMARY, SKILLS, EXPERIENCE,
// EDUCATION and PROJECTS sections. Empty sections are omitted.
func FormatResume(resume types.StructuredResume) string {
	var b strings.Builder

	if resume.Name != "" {
		b.WriteString(resume.Name + "\n")
	}
	if contact := joinNonEmpty(" | ", resume.Email, resume.Phone); contact != "" {
		b.WriteString(contact + "\n")
	}

	if resume.Summary != "" {
		section(&b, "SUMMARY")
		b.WriteString(resume.Summary + "\n")
	}

	if len(resume.Skills) > 0 {
		section(&b, "SKILLS")
		b.WriteString(strings.Join(resume.Skills, ", ") + "\n")
	}

	if len(resume.Experience) > 0 {
		section(&b, "EXPERIENCE")
		for _, e := range resume.Experience {
			b.WriteString(joinNonEmpty(" | ", e.Title, e.Company, e.Duration) + "\n")
			for _, line := range descriptionLines(e.Description) {
				b.WriteString("- " + line + "\n")
			}
		}
	}

	if len(resume.Education) > 0 {
		section(&b, "EDUCATION")
		for _, e := range resume.Education {
			b.WriteString(joinNonEmpty(" | ", e.Degree, e.School, e.Year) + "\n")
		}
	}

	if len(resume.Projects) > 0 {
		section(&b, "PROJECTS")
		for _, p := range resume.Projects {
			if p.Description != "" {
				b.WriteString(p.Name + " - " + p.Description + "\n")
			} else {
				b.WriteString(p.Name + "\n")
			}
			if len(p.Technologies) > 0 {
				b.WriteString("Technologies: " + strings.Join(p.Technologies, ", ") + "\n")
			}
		}
	}

	return b.String()
}

func section(b *strings.Builder, title string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(title + "\n")
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// descriptionLines splits a description into its non-empty lines.
func descriptionLines(description string) []string {
	var lines []string
	for _, line := range strings.Split(description, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
