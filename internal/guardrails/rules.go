package guardrails

// SafeSubstitution replaces any answer the output moderator rejects.
const SafeSubstitution = "I cannot answer this due to safety guidelines."

// MinAnswerLength is the shortest trimmed answer not treated as degenerate.
const MinAnswerLength = 5

// PIIPattern is a named regular expression searched (not full-matched) in the raw query.
type PIIPattern struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

type InputRules struct {
	InjectionPhrases []string     `yaml:"injection_phrases"`
	PIIPatterns      []PIIPattern `yaml:"pii_patterns"`
}

type OutputRules struct {
	BannedTerms     []string `yaml:"banned_terms"`
	MinAnswerLength int      `yaml:"min_answer_length"`
}

type Rules struct {
	Input  InputRules  `yaml:"input"`
	Output OutputRules `yaml:"output"`
}

func DefaultInputRules() InputRules {
	return InputRules{
		InjectionPhrases: []string{
			"ignore previous instructions",
			"system prompt",
			"delete database",
			"unrestricted mode",
			"execute command",
		},
		// Order matters: the first matching pattern names the block reason.
		PIIPatterns: []PIIPattern{
			{Name: "CNIC", Pattern: `\d{5}-\d{7}-\d{1}`},
			{Name: "Phone", Pattern: `(\+92|0)?3\d{9}`},
			{Name: "Email", Pattern: `[^@]+@[^@]+\.[^@]+`},
		},
	}
}

func DefaultOutputRules() OutputRules {
	return OutputRules{
		BannedTerms: []string{
			"cheat", "scam", "hack", "password",
			"kill", "suicide", "fuck", "shit", "bitch",
		},
		MinAnswerLength: MinAnswerLength,
	}
}

func DefaultRules() Rules {
	return Rules{
		Input:  DefaultInputRules(),
		Output: DefaultOutputRules(),
	}
}
