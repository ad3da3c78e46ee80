package roadmap

import (
	"strings"
	"unicode"
)

var questionPrefixes = []string{
	"what is ",
	"what are ",
	"why ",
	"when ",
	"where ",
	"which ",
}

// CleanGoalTitle normalizes a raw goal title into a clear objective
// statement: question phrasing is stripped, trailing subtitle clauses after
// a dash or colon are dropped, and the result starts with a capital letter.
// Empty input yields "Unknown Goal".
func CleanGoalTitle(title string) string {
	cleaned := strings.TrimSpace(title)
	if cleaned == "" {
		return "Unknown Goal"
	}

	if len(cleaned) >= 7 && strings.EqualFold(cleaned[:7], "how to ") {
		cleaned = cleaned[7:]
	}

	if idx := strings.Index(cleaned, " - "); idx >= 0 {
		cleaned = cleaned[:idx]
	} else if idx := strings.Index(cleaned, ": "); idx >= 0 {
		cleaned = cleaned[:idx]
	}

	cleaned = strings.ReplaceAll(cleaned, "?", "")

	lower := strings.ToLower(cleaned)
	for _, prefix := range questionPrefixes {
		if strings.HasPrefix(lower, prefix) {
			cleaned = cleaned[len(prefix):]
			break
		}
	}

	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "Unknown Goal"
	}

	runes := []rune(cleaned)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
