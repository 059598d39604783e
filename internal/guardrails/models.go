package guardrails

type RuleID string

const (
	RulePromptInjection  RuleID = "prompt_injection"
	RuleBannedTerm       RuleID = "banned_term"
	RuleDegenerateOutput RuleID = "degenerate_output"
)

// Stage is the side of the pipeline a check ran on.
type Stage string

const (
	StageInput  Stage = "input"
	StageOutput Stage = "output"
)

type Action string

const (
	ActionBlocked Action = "blocked"
	ActionFlagged Action = "flagged"
)

// Verdict is the result of one check stage.
type Verdict struct {
	IsSafe bool   // true = allowed ; false = blocked
	Reason string // Why the text was blocked, empty when safe
	RuleID RuleID // Which rule fired, empty when safe
}

// Event is emitted once per blocking decision.
type Event struct {
	Stage  Stage  `json:"stage"`
	Action Action `json:"action"`
	RuleID RuleID `json:"rule_id"`
}

func Safe() Verdict {
	return Verdict{IsSafe: true}
}

func Blocked(rule RuleID, reason string) Verdict {
	return Verdict{IsSafe: false, Reason: reason, RuleID: rule}
}
