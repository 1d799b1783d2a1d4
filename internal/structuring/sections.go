package structuring

import (
	"regexp"
	"strings"
)

// section identifies a resume section.
type section string

const (
	sectionPreamble   section = ""
	sectionSummary    section = "summary"
	sectionExperience section = "experience"
	sectionEducation  section = "education"
	sectionSkills     section = "skills"
	sectionProjects   section = "projects"
)

var headerKeywords = map[string]section{
	"summary":                 sectionSummary,
	"professional summary":    sectionSummary,
	"profile":                 sectionSummary,
	"professional profile":    sectionSummary,
	"objective":               sectionSummary,
	"career objective":        sectionSummary,
	"about":                   sectionSummary,
	"about me":                sectionSummary,
	"experience":              sectionExperience,
	"work experience":         sectionExperience,
	"professional experience": sectionExperience,
	"work history":            sectionExperience,
	"employment":              sectionExperience,
	"employment history":      sectionExperience,
	"education":               sectionEducation,
	"academic background":     sectionEducation,
	"skills":                  sectionSkills,
	"technical skills":        sectionSkills,
	"core skills":             sectionSkills,
	"technologies":            sectionSkills,
	"core competencies":       sectionSkills,
	"projects":                sectionProjects,
	"personal projects":       sectionProjects,
	"selected projects":       sectionProjects,
}

// inlineHeaders may carry content after a colon ("Skills: Go, Python").
var inlineHeaders = map[string]section{
	"summary":          sectionSummary,
	"profile":          sectionSummary,
	"objective":        sectionSummary,
	"skills":           sectionSkills,
	"technical skills": sectionSkills,
}

var inlineHeaderRe = regexp.MustCompile(`^([A-Za-z ]{3,25}):\s*(.+)$`)

// parseHeader reports whether line is a section header. For the inline form the
// remainder after the colon is returned as the first content line.
func parseHeader(line string) (section, string, bool) {
	trimmed := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
	if trimmed == "" {
		return sectionPreamble, "", false
	}

	bare := strings.TrimSpace(strings.TrimSuffix(trimmed, ":"))
	if len(strings.Fields(bare)) <= 4 {
		if sec, ok := headerKeywords[strings.ToLower(bare)]; ok {
			return sec, "", true
		}
	}

	if m := inlineHeaderRe.FindStringSubmatch(trimmed); m != nil {
		if sec, ok := inlineHeaders[strings.ToLower(strings.TrimSpace(m[1]))]; ok {
			return sec, strings.TrimSpace(m[2]), true
		}
	}
	return sectionPreamble, "", false
}

// segments groups trimmed lines by section. Repeated sections are concatenated.
// Blank lines are kept as "" so paragraph boundaries survive.
type segments struct {
	order []section
	lines map[section][]string
}

func segment(text string) *segments {
	segs := &segments{lines: make(map[section][]string)}
	current := sectionPreamble
	segs.order = append(segs.order, current)

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if sec, rest, ok := parseHeader(line); ok {
			current = sec
			if _, seen := segs.lines[sec]; !seen {
				segs.order = append(segs.order, sec)
				segs.lines[sec] = []string{}
			}
			if rest != "" {
				segs.lines[sec] = append(segs.lines[sec], rest)
			}
			continue
		}
		segs.lines[current] = append(segs.lines[current], line)
	}
	return segs
}

func (s *segments) has(sec section) bool {
	_, ok := s.lines[sec]
	return ok
}

// text joins the non-blank lines of a section with newlines.
func (s *segments) text(sec section) string {
	return strings.Join(nonBlank(s.lines[sec]), "\n")
}

func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

var bulletRe = regexp.MustCompile(`^(?:[-*•·–◦▪]|\d{1,2}[.)])\s+`)

// stripBullet removes a leading bullet marker and reports whether one was present.
func stripBullet(line string) (string, bool) {
	if loc := bulletRe.FindStringIndex(line); loc != nil {
		return strings.TrimSpace(line[loc[1]:]), true
	}
	return line, false
}
