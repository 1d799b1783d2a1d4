package structuring

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	nameRe  = regexp.MustCompile(`(?im)^\s*name\s*:\s*(.+?)\s*$`)
)

// contactScanLines is how many leading lines are searched for contact details first.
const contactScanLines = 10

func findContact(re *regexp.Regexp, lines []string, fullText string) string {
	head := lines
	if len(head) > contactScanLines {
		head = head[:contactScanLines]
	}
	if m := re.FindString(strings.Join(head, "\n")); m != "" {
		return strings.TrimSpace(m)
	}
	return strings.TrimSpace(re.FindString(fullText))
}

// findName applies the name rules: a name-like first line, then a "Name:" line, then fallback.
func findName(lines []string, fullText, fallbackName string) string {
	for _, line := range lines {
		if line == "" {
			continue
		}
		candidate := strings.TrimSpace(strings.SplitN(line, "|", 2)[0])
		if looksLikeName(candidate) {
			return candidate
		}
		break
	}

	if m := nameRe.FindStringSubmatch(fullText); m != nil && strings.TrimSpace(m[1]) != "" {
		return strings.TrimSpace(m[1])
	}

	return strings.TrimSpace(fallbackName)
}

func looksLikeName(line string) bool {
	if line == "" || strings.ContainsAny(line, "@:") {
		return false
	}
	if _, _, isHeader := parseHeader(line); isHeader {
		return false
	}

	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		if first := []rune(w)[0]; !unicode.IsUpper(first) {
			return false
		}
		letters := 0
		for _, r := range w {
			switch {
			case unicode.IsLetter(r):
				letters++
			case r == '.' || r == '-' || r == '\'':
			default:
				return false
			}
		}
		if letters == 0 {
			return false
		}
	}
	return true
}

// isContactLine reports lines that belong to the contact block rather than prose.
func isContactLine(line string) bool {
	lower := strings.ToLower(line)
	return emailRe.MatchString(line) || phoneRe.MatchString(line) ||
		strings.Contains(lower, "http") || strings.Contains(lower, "linkedin") ||
		strings.Contains(lower, "github.com") || strings.Contains(lower, "www.")
}
