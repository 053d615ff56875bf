package caption

import (
	"regexp"
	"strings"
)

// questionWords mark a caption as interrogative so it gets a question
// mark instead of a period.
var questionWords = []string{"who", "what", "when", "where", "why", "how"}

// contractions applied during formatting, longest-match first.
var contractions = []struct {
	full, short string
}{
	{"i am", "I'm"},
	{"i will", "I'll"},
	{"i have", "I've"},
	{"you are", "you're"},
	{"it is", "it's"},
	{"do not", "don't"},
	{"does not", "doesn't"},
	{"cannot", "can't"},
	{"is not", "isn't"},
	{"are not", "aren't"},
	{"will not", "won't"},
}

var loneI = regexp.MustCompile(`\bi\b`)

// Format tidies a caption for display and speech: collapses whitespace,
// applies common contractions, capitalizes the first letter and the
// pronoun "I", and appends terminal punctuation.
func Format(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}

	lower := strings.ToLower(text)
	for _, c := range contractions {
		lower = strings.ReplaceAll(lower, c.full, strings.ToLower(c.short))
	}
	text = lower

	text = loneI.ReplaceAllString(text, "I")

	if !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "!") && !strings.HasSuffix(text, "?") {
		if isQuestion(text) {
			text += "?"
		} else {
			text += "."
		}
	}

	return strings.ToUpper(text[:1]) + text[1:]
}

func isQuestion(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range questionWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
