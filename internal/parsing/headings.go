package parsing

import (
	"regexp"
	"strings"
)

// zone is the kind of section a job posting line belongs to.
type zone int

const (
	zoneNeutral zone = iota
	zoneRequired
	zonePreferred
	zoneResponsibilities
	zoneOther
)

func (z zone) String() string {
	switch z {
	case zoneRequired:
		return "required"
	case zonePreferred:
		return "preferred"
	case zoneResponsibilities:
		return "responsibilities"
	case zoneOther:
		return "other"
	default:
		return "neutral"
	}
}

var headingZones = map[string]zone{
	"requirements":                    zoneRequired,
	"required":                        zoneRequired,
	"required skills":                 zoneRequired,
	"required qualifications":         zoneRequired,
	"qualifications":                  zoneRequired,
	"minimum qualifications":          zoneRequired,
	"basic qualifications":            zoneRequired,
	"must have":                       zoneRequired,
	"must haves":                      zoneRequired,
	"must-have":                       zoneRequired,
	"must-haves":                      zoneRequired,
	"what you bring":                  zoneRequired,
	"what we're looking for":          zoneRequired,
	"what we are looking for":         zoneRequired,
	"who you are":                     zoneRequired,
	"you have":                        zoneRequired,
	"skills":                          zoneRequired,
	"skills and experience":           zoneRequired,
	"skills & experience":             zoneRequired,
	"technical requirements":          zoneRequired,
	"preferred":                       zonePreferred,
	"preferred qualifications":        zonePreferred,
	"preferred skills":                zonePreferred,
	"nice to have":                    zonePreferred,
	"nice to haves":                   zonePreferred,
	"nice-to-have":                    zonePreferred,
	"nice-to-haves":                   zonePreferred,
	"bonus":                           zonePreferred,
	"bonus points":                    zonePreferred,
	"plus":                            zonePreferred,
	"pluses":                          zonePreferred,
	"good to have":                    zonePreferred,
	"responsibilities":                zoneResponsibilities,
	"key responsibilities":            zoneResponsibilities,
	"what you'll do":                  zoneResponsibilities,
	"what you will do":                zoneResponsibilities,
	"the role":                        zoneResponsibilities,
	"your role":                       zoneResponsibilities,
	"in this role":                    zoneResponsibilities,
	"duties":                          zoneResponsibilities,
	"day to day":                      zoneResponsibilities,
	"about":                           zoneOther,
	"about us":                        zoneOther,
	"about the company":               zoneOther,
	"about the team":                  zoneOther,
	"who we are":                      zoneOther,
	"overview":                        zoneOther,
	"benefits":                        zoneOther,
	"perks":                           zoneOther,
	"perks & benefits":                zoneOther,
	"perks and benefits":              zoneOther,
	"what we offer":                   zoneOther,
	"compensation":                    zoneOther,
	"why join us":                     zoneOther,
	"culture":                         zoneOther,
	"location":                        zoneOther,
	"equal opportunity":               zoneOther,
	"equal opportunity employer":      zoneOther,
	"how to apply":                    zoneOther,
	"salary":                          zoneOther,
	"compensation and benefits":       zoneOther,
	"compensation & benefits":         zoneOther,
	"about the role":                  zoneResponsibilities,
	"what you'll work on":             zoneResponsibilities,
	"what you will work on":           zoneResponsibilities,
	"requirements and qualifications": zoneRequired,
	"requirements & qualifications":   zoneRequired,
}

var (
	markdownHeadingRe = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	boldHeadingRe     = regexp.MustCompile(`^\*{2,}(.+?)\*{2,}:?$`)
	inlineLabelRe     = regexp.MustCompile(`^([A-Za-z][A-Za-z '’&-]{1,40}?)\s*:\s*(.+)$`)
)

// maxHeadingWords bounds heading length so prose is never treated as a heading.
const maxHeadingWords = 6

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "’", "'")
	s = strings.Trim(s, "*_#: ")
	return strings.Join(strings.Fields(s), " ")
}

// classifyLabel maps a heading or inline label to a zone. loose enables keyword
// containment for lines that are clearly formatted as headings.
func classifyLabel(label string, loose bool) (zone, bool) {
	norm := normalizeLabel(label)
	if norm == "" || len(strings.Fields(norm)) > maxHeadingWords {
		return zoneNeutral, false
	}
	if z, ok := headingZones[norm]; ok {
		return z, true
	}
	if !loose {
		return zoneNeutral, false
	}

	switch {
	case strings.Contains(norm, "preferred") || strings.Contains(norm, "nice to have") ||
		strings.Contains(norm, "nice-to-have") || strings.Contains(norm, "bonus"):
		return zonePreferred, true
	case strings.Contains(norm, "requirement") || strings.Contains(norm, "qualification") ||
		strings.Contains(norm, "must have"):
		return zoneRequired, true
	case strings.Contains(norm, "responsibilit"):
		return zoneResponsibilities, true
	case strings.Contains(norm, "benefit") || strings.HasPrefix(norm, "about "):
		return zoneOther, true
	}
	return zoneNeutral, false
}

// parseHeading reports whether line is a section heading and which zone it opens.
func parseHeading(line string) (zone, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return zoneNeutral, false
	}

	if m := markdownHeadingRe.FindStringSubmatch(trimmed); m != nil {
		return classifyLabel(m[2], true)
	}
	if m := boldHeadingRe.FindStringSubmatch(trimmed); m != nil {
		return classifyLabel(m[1], true)
	}
	if strings.HasSuffix(trimmed, ":") {
		return classifyLabel(strings.TrimSuffix(trimmed, ":"), true)
	}
	return classifyLabel(trimmed, false)
}

// parseInlineLabel handles "Required: React, Node.js" lines, returning the zone for that
// line and its content.
func parseInlineLabel(line string) (zone, string, bool) {
	m := inlineLabelRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return zoneNeutral, "", false
	}
	z, ok := classifyLabel(m[1], true)
	if !ok {
		return zoneNeutral, "", false
	}
	return z, strings.TrimSpace(m[2]), true
}
