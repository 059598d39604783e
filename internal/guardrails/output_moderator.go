package guardrails

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// OutputModerator checks a generated answer before it leaves the gateway.
type OutputModerator struct {
	terms     []string
	minLength int
}

func NewOutputModerator(rules OutputRules) *OutputModerator {
	terms := make([]string, 0, len(rules.BannedTerms))
	for _, term := range rules.BannedTerms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		terms = append(terms, term)
	}

	minLength := rules.MinAnswerLength
	if minLength <= 0 {
		minLength = MinAnswerLength
	}

	return &OutputModerator{terms: terms, minLength: minLength}
}

// CheckOutput matches banned terms as whole words by padding both sides with
// spaces, so "shit." at the end of a sentence is not a match.
func (m *OutputModerator) CheckOutput(answer string) Verdict {
	padded := " " + strings.ToLower(answer) + " "
	for _, term := range m.terms {
		if strings.Contains(padded, " "+term+" ") {
			return Blocked(RuleBannedTerm, fmt.Sprintf("Toxic/Banned Content Detected: '%s'", term))
		}
	}

	if utf8.RuneCountInString(strings.TrimSpace(answer)) < m.minLength {
		return Blocked(RuleDegenerateOutput, "Response too short or empty (Potential Error)")
	}

	return Safe()
}
