package skills

import "strings"

// NormalizeSkillName returns the vocabulary spelling of a skill when known,
// otherwise a tidied version of the input.
func (v *Vocabulary) NormalizeSkillName(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}
	if canonical, ok := v.Canonical(normalized); ok {
		return canonical
	}

	// Mixed case is assumed intentional (e.g. "gRPC", "OpenAPI")
	if normalized != strings.ToUpper(normalized) && normalized != strings.ToLower(normalized) {
		return normalized
	}

	// Single lowercase word: capitalize first letter
	if normalized == strings.ToLower(normalized) && !strings.Contains(normalized, " ") {
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	}

	return normalized
}

// NormalizeList normalizes every entry and removes case-insensitive duplicates,
// keeping the first occurrence.
func (v *Vocabulary) NormalizeList(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		n := v.NormalizeSkillName(name)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

// Dedupe removes case-insensitive duplicates preserving order.
func Dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}
