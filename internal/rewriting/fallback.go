package rewriting

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// fallbackMissingSkills is how many missing required skills the fallback summary names.
const fallbackMissingSkills = 3

// dominantTitle returns the most frequent experience title, case-insensitive.
// Ties go to the earliest entry.
func dominantTitle(experience []types.Experience) string {
	counts := make(map[string]int)
	spelling := make(map[string]string)
	best, bestCount := "", 0
	for _, e := range experience {
		title := strings.TrimSpace(e.Title)
		if title == "" {
			continue
		}
		key := strings.ToLower(title)
		if _, ok := spelling[key]; !ok {
			spelling[key] = title
		}
		counts[key]++
		if counts[key] > bestCount {
			best, bestCount = key, counts[key]
		}
	}
	return spelling[best]
}

// wholeWordPattern matches phrase case-insensitively when it is not part of a longer word.
func wholeWordPattern(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(^|[^\pL\pN])` + regexp.QuoteMeta(phrase) + `([^\pL\pN]|$)`)
}

// replaceWholeWord substitutes every case-insensitive whole-word occurrence of old.
func replaceWholeWord(text, old, replacement string) string {
	if old == "" || strings.EqualFold(old, replacement) {
		return text
	}
	re := wholeWordPattern(old)
	return re.ReplaceAllStringFunc(text, func(m string) string {
		sub := re.FindStringSubmatch(m)
		return sub[1] + replacement + sub[2]
	})
}

func joinSkills(list []string) string {
	switch len(list) {
	case 0:
		return ""
	case 1:
		return list[0]
	case 2:
		return list[0] + " and " + list[1]
	default:
		return strings.Join(list[:len(list)-1], ", ") + " and " + list[len(list)-1]
	}
}

// fallbackSummary retitles the summary toward the job and names the top missing required skills.
func fallbackSummary(resume *types.StructuredResume, job *types.StructuredJob, match types.MatchResult) string {
	summary := strings.TrimSpace(resume.Summary)
	if title := dominantTitle(resume.Experience); title != "" && job.Title != "" {
		summary = replaceWholeWord(summary, title, job.Title)
	}

	missing := match.MissingRequiredSkills
	if len(missing) > fallbackMissingSkills {
		missing = missing[:fallbackMissingSkills]
	}
	if len(missing) > 0 {
		sentence := fmt.Sprintf("Actively building experience with %s.", joinSkills(missing))
		if summary == "" {
			summary = sentence
		} else {
			if !strings.HasSuffix(summary, ".") && !strings.HasSuffix(summary, "!") {
				summary += "."
			}
			summary += " " + sentence
		}
	}
	return summary
}
