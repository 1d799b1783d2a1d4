package rendering

import "strings"

// EscapeMarkdown escapes characters that change inline markdown formatting:
// \ ` * _ [ ] < > and a leading #.
func EscapeMarkdown(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) + 8)

	for i, r := range text {
		switch r {
		case '\\', '`', '*', '_', '[', ']', '<', '>':
			result.WriteByte('\\')
			result.WriteRune(r)
		case '#':
			if i == 0 {
				result.WriteByte('\\')
			}
			result.WriteRune(r)
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}
