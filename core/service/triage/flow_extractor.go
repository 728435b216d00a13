package triage

import (
	"regexp"
	"strings"
	"unicode"

	"flowpilot/core/domain"
)

// fallbackTaskMaxLen bounds a task taken from the first sentence.
const fallbackTaskMaxLen = 100

// verbClausePatterns match from an action verb to the next sentence terminator.
var verbClausePatterns = compileVerbClauses(ActionVerbs)

// deadlinePatterns are tried in order against the lowercased text.
var deadlinePatterns = []*regexp.Regexp{
	// by-date: "by march 15", "by end of 3/15"
	regexp.MustCompile(`by\s+(?:end\s+of\s+)?(\w+\s+\d{1,2}|\d{1,2}/\d{1,2})`),
	// deadline/due-date: "deadline is march 15", "due: 3/15"
	regexp.MustCompile(`(?:deadline|due)\s*(?:is|:)?\s*(?:on\s+)?(\w+\s+\d{1,2}|\d{1,2}/\d{1,2})`),
	// before-word: "before friday", "before end of quarter"
	regexp.MustCompile(`before\s+(?:end\s+of\s+)?(\w+)`),
	// by-weekday
	regexp.MustCompile(`by\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)`),
	// by-relative-term
	regexp.MustCompile(`by\s+(?:this\s+)?(evening|tomorrow|next\s+week|end\s+of\s+week)`),
}

func compileVerbClauses(verbs []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(verbs))
	for _, verb := range verbs {
		patterns = append(patterns, regexp.MustCompile(regexp.QuoteMeta(verb)+`[^.!?]*[.!?]`))
	}
	return patterns
}

// ExtractTask scans raw email text for an action clause, a deadline phrase
// and a base priority. Each call returns a fresh value.
func ExtractTask(emailText string) domain.ExtractedTask {
	lower := strings.ToLower(emailText)
	return domain.ExtractedTask{
		Task:           extractTaskPhrase(emailText, lower),
		DeadlinePhrase: ExtractDeadlinePhrase(emailText),
		BasePriority:   BasePriority(emailText),
	}
}

// extractTaskPhrase returns the clause of the first action verb (in list
// order, not text order) or falls back to the first sentence.
func extractTaskPhrase(original, lower string) string {
	for _, pattern := range verbClausePatterns {
		if match := pattern.FindString(lower); match != "" {
			return strings.TrimSpace(match)
		}
	}
	return FirstSentence(original)
}

// FirstSentence returns the text before the first period, trimmed and
// truncated to 100 characters.
func FirstSentence(text string) string {
	sentence, _, _ := strings.Cut(text, ".")
	return headRunes(strings.TrimSpace(sentence), fallbackTaskMaxLen)
}

// ExtractDeadlinePhrase returns the title-cased deadline phrase or
// domain.DeadlineNotSpecified.
func ExtractDeadlinePhrase(emailText string) string {
	lower := strings.ToLower(emailText)
	for _, pattern := range deadlinePatterns {
		m := pattern.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		phrase := m[0]
		if len(m) > 1 {
			phrase = m[1]
		}
		return titleCase(phrase)
	}
	return domain.DeadlineNotSpecified
}

// BasePriority is the keyword-only priority: High on an urgent keyword,
// then Low on a low-priority phrase regardless of the High hit.
func BasePriority(emailText string) domain.Priority {
	lower := strings.ToLower(emailText)
	priority := domain.PriorityMedium
	if _, ok := firstContained(lower, UrgentKeywords); ok {
		priority = domain.PriorityHigh
	}
	if _, ok := firstContained(lower, LowPriorityPhrases); ok {
		priority = domain.PriorityLow
	}
	return priority
}

// titleCase upper-cases every letter that follows a non-letter and
// lower-cases the rest, so "3rd" becomes "3Rd" and "next week" "Next Week".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
