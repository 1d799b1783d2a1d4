package structuring

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-tailor/internal/skills"
	"github.com/jonathan/resume-tailor/internal/types"
)

const month = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?`

var (
	// durationTailRe matches a trailing date or date range plus the separators before it.
	durationTailRe = regexp.MustCompile(`(?i)[\s,|(–-]*\(?((?:` + month + `\s+)?\d{4}\s*(?:-|–|—|to)\s*(?:(?:` + month + `\s+)?\d{4}|present|current|now)|(?:` + month + `\s+)?\d{4})\)?\s*$`)
	atRe           = regexp.MustCompile(`(?i)\s+at\s+`)
	yearRe         = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	techLineRe     = regexp.MustCompile(`(?i)^(?:technologies|tech stack|tech|stack|built with)\s*:\s*(.+)$`)
	institutionRe  = regexp.MustCompile(`(?i)\b(university|college|institute|school|academy|polytechnic)\b`)
)

var degreeWords = []string{"bachelor", "master", "doctor", "doctorate", "diploma", "associate", "mba", "phd", "ph.d", "ph.d."}

var degreeTokens = map[string]bool{
	"b.s.": true, "b.s": true, "bs": true, "b.sc": true, "b.sc.": true, "bsc": true,
	"m.s.": true, "m.s": true, "ms": true, "m.sc": true, "m.sc.": true, "msc": true,
	"b.a.": true, "b.a": true, "ba": true, "m.a.": true, "m.a": true,
	"b.e.": true, "b.eng": true, "m.eng": true, "b.tech": true, "m.tech": true,
}

// maxHeaderWords bounds the title and company parts of an entry line.
const maxHeaderWords = 8

// splitDuration separates a trailing date range from the rest of a line.
func splitDuration(line string) (rest, duration string) {
	loc := durationTailRe.FindStringSubmatchIndex(line)
	if loc == nil {
		return line, ""
	}
	duration = strings.TrimSpace(line[loc[2]:loc[3]])
	rest = strings.TrimSpace(strings.TrimRight(line[:loc[0]], " ,|-–("))
	return rest, duration
}

// splitEntryLine tries the supported "Title <sep> Company" forms.
// strong reports separators that are unambiguous without a duration.
func splitEntryLine(line string) (parts []string, strong bool) {
	if strings.Contains(line, "|") {
		return trimParts(strings.Split(line, "|")), true
	}
	if loc := atRe.FindStringIndex(line); loc != nil {
		return trimParts([]string{line[:loc[0]], line[loc[1]:]}), true
	}
	for _, sep := range []string{" - ", " – ", " — ", ", "} {
		if strings.Contains(line, sep) {
			return trimParts(strings.SplitN(line, sep, 2)), false
		}
	}
	return []string{line}, false
}

func trimParts(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func shortPhrase(s string) bool {
	n := len(strings.Fields(s))
	return n > 0 && n <= maxHeaderWords && !strings.HasSuffix(s, ".")
}

// parseExperience reads entries from the experience section lines.
func parseExperience(lines []string) []types.Experience {
	var (
		entries []types.Experience
		current *types.Experience
		desc    []string
	)

	flush := func() {
		if current != nil {
			current.Description = strings.Join(desc, "\n")
			entries = append(entries, *current)
		}
		current, desc = nil, nil
	}

	for _, line := range nonBlank(lines) {
		text, bullet := stripBullet(line)
		if bullet {
			if current != nil {
				desc = append(desc, text)
			}
			continue
		}

		rest, duration := splitDuration(text)
		if rest == "" && duration != "" {
			if current != nil && current.Duration == "" {
				current.Duration = duration
			}
			continue
		}

		if entry, ok := parseEntryHeader(rest, duration); ok {
			flush()
			current = &entry
			continue
		}

		if current != nil {
			desc = append(desc, text)
		}
	}
	flush()

	if entries == nil {
		return []types.Experience{}
	}
	return entries
}

func parseEntryHeader(rest, duration string) (types.Experience, bool) {
	parts, strong := splitEntryLine(rest)
	if len(parts) < 2 {
		return types.Experience{}, false
	}
	title, company := parts[0], parts[1]
	if !shortPhrase(title) || !shortPhrase(company) {
		return types.Experience{}, false
	}
	if !strong && duration == "" {
		return types.Experience{}, false
	}
	// "Title | Company | Duration" where the duration did not parse as dates
	if duration == "" && len(parts) > 2 {
		duration = parts[len(parts)-1]
	}
	return types.Experience{Title: title, Company: company, Duration: duration}, true
}

func hasDegree(line string) bool {
	lower := strings.ToLower(line)
	for _, tok := range strings.FieldsFunc(lower, func(r rune) bool { return r == ' ' || r == ',' || r == '(' || r == ')' || r == '|' }) {
		if degreeTokens[tok] {
			return true
		}
		for _, w := range degreeWords {
			if tok == w || strings.HasPrefix(tok, w) && (w == "bachelor" || w == "master") {
				return true
			}
		}
	}
	return false
}

// parseEducation reads degree, school and year from the education section lines.
func parseEducation(lines []string) []types.Education {
	var (
		entries []types.Education
		current *types.Education
	)
	flush := func() {
		if current != nil {
			entries = append(entries, *current)
		}
		current = nil
	}

	for _, line := range nonBlank(lines) {
		text, _ := stripBullet(line)
		year := ""
		if years := yearRe.FindAllString(text, -1); len(years) > 0 {
			year = years[len(years)-1]
		}
		rest, _ := splitDuration(text)

		switch {
		case hasDegree(rest):
			flush()
			current = &types.Education{Year: year}
			parts, _ := splitEntryLine(rest)
			for _, p := range parts {
				switch {
				case current.Degree == "" && hasDegree(p):
					current.Degree = p
				case current.School == "" && (institutionRe.MatchString(p) || len(parts) > 1 && p != current.Degree):
					current.School = p
				}
			}
			if current.Degree == "" {
				current.Degree = rest
			}
		case institutionRe.MatchString(rest):
			if current == nil || current.School != "" {
				flush()
				current = &types.Education{}
			}
			current.School = rest
			if current.Year == "" {
				current.Year = year
			}
		case rest == "" && year != "":
			if current != nil && current.Year == "" {
				current.Year = year
			}
		}
	}
	flush()

	if entries == nil {
		return []types.Education{}
	}
	return entries
}

// parseProjects reads project entries; technologies fall back to vocabulary lookup over the description.
func parseProjects(lines []string, vocab *skills.Vocabulary) []types.Project {
	var (
		projects []types.Project
		current  *types.Project
		desc     []string
	)
	flush := func() {
		if current != nil {
			if len(desc) > 0 {
				if current.Description != "" {
					desc = append([]string{current.Description}, desc...)
				}
				current.Description = strings.Join(desc, " ")
			}
			if len(current.Technologies) == 0 {
				current.Technologies = vocab.LookupN(current.Name+"\n"+current.Description, 0)
			}
			projects = append(projects, *current)
		}
		current, desc = nil, nil
	}

	for _, line := range nonBlank(lines) {
		text, bullet := stripBullet(line)

		if m := techLineRe.FindStringSubmatch(text); m != nil {
			if current != nil {
				current.Technologies = parseTechnologies(m[1], vocab)
			}
			continue
		}

		if bullet {
			if current != nil {
				desc = append(desc, text)
			}
			continue
		}

		if name, description, ok := splitProjectLine(text); ok {
			flush()
			current = &types.Project{Name: name, Description: description}
			continue
		}

		if current == nil || shortPhrase(text) && len(desc) > 0 {
			flush()
			current = &types.Project{Name: text}
			continue
		}
		desc = append(desc, text)
	}
	flush()

	if projects == nil {
		return []types.Project{}
	}
	return projects
}

func splitProjectLine(line string) (name, description string, ok bool) {
	for _, sep := range []string{" - ", " – ", " — ", ": ", " | "} {
		if idx := strings.Index(line, sep); idx > 0 {
			name = strings.TrimSpace(line[:idx])
			description = strings.TrimSpace(line[idx+len(sep):])
			if shortPhrase(name) && description != "" {
				return name, description, true
			}
			return "", "", false
		}
	}
	return "", "", false
}

// parseTechnologies canonicalizes a delimited technology list.
func parseTechnologies(list string, vocab *skills.Vocabulary) []string {
	raw := strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ';' || r == '|' || r == '•'
	})
	return vocab.NormalizeList(raw)
}
