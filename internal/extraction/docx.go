package extraction

import (
	"html"
	"regexp"
	"strings"
)

var (
	paragraphEndRe = regexp.MustCompile(`</w:p>`)
	lineBreakRe    = regexp.MustCompile(`<w:(?:br|cr)\s*/>`)
	tabRe          = regexp.MustCompile(`<w:tab\s*/>`)
	xmlTagRe       = regexp.MustCompile(`<[^>]+>`)
)

// docxContentToText converts WordprocessingML body XML to plain text with
// one line per paragraph.
func docxContentToText(content string) string {
	content = paragraphEndRe.ReplaceAllString(content, "\n")
	content = lineBreakRe.ReplaceAllString(content, "\n")
	content = tabRe.ReplaceAllString(content, "\t")
	content = xmlTagRe.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
