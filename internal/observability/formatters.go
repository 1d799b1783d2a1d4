// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList writes a labelled bullet list capped at maxItemsToShow. Empty lists are skipped.
func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(label + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// PrintStructuredResume outputs a summary of the segmented resume.
func (p *Printer) PrintStructuredResume(resume *types.StructuredResume) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", resume.Name))
	if resume.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:    %s\n", resume.Email))
	}
	sb.WriteString(fmt.Sprintf("Sections: %d jobs, %d degrees, %d projects\n",
		len(resume.Experience), len(resume.Education), len(resume.Projects)))
	sb.WriteString("\n")
	writeList(&sb, "Skills", resume.Skills)

	p.printBox("STRUCTURED RESUME", sb.String())
}

// PrintStructuredJob outputs a summary of the analyzed job posting.
func (p *Printer) PrintStructuredJob(job *types.StructuredJob) {
	if job == nil {
		return
	}

	var sb strings.Builder
	if job.Title != "" {
		sb.WriteString(fmt.Sprintf("Role:     %s\n", job.Title))
	}
	if job.Company != "" {
		sb.WriteString(fmt.Sprintf("Company:  %s\n", job.Company))
	}
	sb.WriteString(fmt.Sprintf("Level:    %s\n", job.ExperienceLevel))
	sb.WriteString("\n")
	writeList(&sb, "Required Skills", job.RequiredSkills)
	writeList(&sb, "Preferred Skills", job.PreferredSkills)
	writeList(&sb, "Responsibilities", job.Responsibilities)

	p.printBox("ANALYZED JOB POSTING", sb.String())
}

// PrintMatchResult outputs the skill match score and gaps.
func (p *Printer) PrintMatchResult(match *types.MatchResult) {
	if match == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:    %d%%\n", match.Percent()))
	sb.WriteString("\n")
	writeList(&sb, "Matched", match.MatchedSkills)
	writeList(&sb, "Missing (required)", match.MissingRequiredSkills)
	writeList(&sb, "Missing (preferred)", match.MissingPreferredSkills)

	p.printBox("SKILL MATCH", sb.String())
}

// PrintTailoredResume outputs the tailored summary and recommended skills.
func (p *Printer) PrintTailoredResume(tailored *types.TailoredResume) {
	if tailored == nil {
		return
	}

	var sb strings.Builder
	source := "content generator"
	if !tailored.Generated {
		source = "fallback"
	}
	sb.WriteString(fmt.Sprintf("Summary source: %s\n", source))
	sb.WriteString("\n")
	sb.WriteString(wrap(tailored.TailoredSummary, boxWidth-4))
	sb.WriteString("\n\n")
	writeList(&sb, "Recommended Skills", tailored.RecommendedSkills)

	p.printBox("TAILORED RESUME", sb.String())
}

// PrintPortfolio outputs the ranked portfolio suggestions.
func (p *Printer) PrintPortfolio(projects []types.PortfolioProject) {
	var sb strings.Builder
	if len(projects) == 0 {
		sb.WriteString("No catalog projects to suggest\n")
	}
	count := min(len(projects), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("%d. [%3.0f] %s\n", i+1, projects[i].RelevanceScore, projects[i].Name))
	}
	if len(projects) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(projects)-maxItemsToShow))
	}

	p.printBox("PORTFOLIO SUGGESTIONS", sb.String())
}

// wrap breaks text on word boundaries so each line fits within width.
func wrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
