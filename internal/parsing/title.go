package parsing

import (
	"regexp"
	"strings"
)

// DefaultJobTitle is used when no role line is found.
const DefaultJobTitle = "Software Developer"

// maxTitleWords rejects prose lines that merely mention a role.
const maxTitleWords = 8

var (
	roleWordRe    = regexp.MustCompile(`(?i)\b(developer|engineer|manager|designer|scientist|analyst|architect)\b`)
	titleLabelRe  = regexp.MustCompile(`(?i)^(?:job title|title|position|role|job)\s*:\s*`)
	hiringRe      = regexp.MustCompile(`(?i)^(?:we(?:'re| are)\s+(?:hiring|looking for|seeking)|hiring|join us as)\s+(?:an?\s+)?`)
	titleCutRe    = regexp.MustCompile(`\s+(?:at|@)\s+|\s+[-–—|]\s+|\s*[,(]`)
	companyLineRe = regexp.MustCompile(`(?im)^\s*(?:company|employer|organization)\s*:\s*(.+?)\s*$`)
	aboutRe       = regexp.MustCompile(`(?im)^\s*#*\s*about\s+(.+?)\s*:?\s*$`)
	titleAtRe     = regexp.MustCompile(`(?i)\s+(?:at|@)\s+(.+?)\s*(?:[-–—|(,]|$)`)
)

var aboutNonCompany = map[string]bool{
	"us": true, "the role": true, "the team": true, "the company": true, "you": true, "the job": true, "this role": true, "the position": true,
}

func cleanTitleLine(line string) string {
	line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "#*_"))
	line = titleLabelRe.ReplaceAllString(line, "")
	line = hiringRe.ReplaceAllString(line, "")
	if loc := titleCutRe.FindStringIndex(line); loc != nil && loc[0] > 0 {
		line = line[:loc[0]]
	}
	return strings.TrimSpace(strings.TrimRight(line, ".!:"))
}

// inferTitle returns the first short line naming a role.
func inferTitle(lines []string) (title, titleLine string) {
	for _, line := range lines {
		if !roleWordRe.MatchString(line) {
			continue
		}
		cleaned := cleanTitleLine(line)
		n := len(strings.Fields(cleaned))
		if n == 0 || n > maxTitleWords || !roleWordRe.MatchString(cleaned) {
			continue
		}
		return cleaned, line
	}
	return DefaultJobTitle, ""
}

// inferCompany looks for a "Company:" line, then "<title> at <Company>", then an "About <Company>" heading.
func inferCompany(text, titleLine string) string {
	if m := companyLineRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if titleLine != "" {
		if m := titleAtRe.FindStringSubmatch(titleLine); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	for _, m := range aboutRe.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if !aboutNonCompany[strings.ToLower(name)] && len(strings.Fields(name)) <= 4 {
			return name
		}
	}
	return ""
}
