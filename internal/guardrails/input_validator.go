package guardrails

import (
	"fmt"
	"regexp"
	"strings"
)

type piiMatcher struct {
	name string
	rule RuleID
	re   *regexp.Regexp
}

// InputValidator blocks queries carrying injection phrases or PII before any
// external call is made. It is immutable after construction and safe for
// concurrent use.
type InputValidator struct {
	phrases []string
	pii     []piiMatcher
}

func NewInputValidator(rules InputRules) (*InputValidator, error) {
	phrases := make([]string, 0, len(rules.InjectionPhrases))
	for _, phrase := range rules.InjectionPhrases {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase == "" {
			continue
		}
		phrases = append(phrases, phrase)
	}

	matchers := make([]piiMatcher, 0, len(rules.PIIPatterns))
	for _, p := range rules.PIIPatterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid PII pattern %q: %w", p.Name, err)
		}
		matchers = append(matchers, piiMatcher{
			name: p.Name,
			rule: RuleID("pii_" + strings.ToLower(p.Name)),
			re:   re,
		})
	}

	return &InputValidator{phrases: phrases, pii: matchers}, nil
}

// CheckInput evaluates injection phrases first, then PII patterns. The first
// hit wins.
func (v *InputValidator) CheckInput(query string) Verdict {
	lower := strings.ToLower(query)
	for _, phrase := range v.phrases {
		if strings.Contains(lower, phrase) {
			return Blocked(RulePromptInjection, fmt.Sprintf("Prompt Injection Detected: '%s'", phrase))
		}
	}

	for _, m := range v.pii {
		if m.re.MatchString(query) {
			return Blocked(m.rule, fmt.Sprintf("PII Detected (%s) - Request Blocked", m.name))
		}
	}

	return Safe()
}
