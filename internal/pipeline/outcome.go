package pipeline

import "github.com/povarna/generative-ai-agents/rag-gateway/internal/guardrails"

// EmptyReason is the rejection reason for a blank question.
const EmptyReason = "empty"

// Outcome is the terminal result of Handle. It is one of Rejected,
// ServiceUnavailable, Delivered or Failure.
type Outcome interface {
	isOutcome()
}

// Rejected is a precondition failure (Stage empty) or an input guardrail block.
type Rejected struct {
	Reason string
	Stage  guardrails.Stage
	RuleID guardrails.RuleID
}

// ServiceUnavailable means the retrieval engine is not provisioned.
type ServiceUnavailable struct {
	Cause error
}

// Delivered carries the answer, replaced by the safe substitution when Sanitized.
type Delivered struct {
	Answer         string
	Sources        []string
	LatencySeconds float64
	Sanitized      bool
}

// Failure is an unexpected retrieval error.
type Failure struct {
	Message string
	Cause   error
}

func (Rejected) isOutcome()           {}
func (ServiceUnavailable) isOutcome() {}
func (Delivered) isOutcome()          {}
func (Failure) isOutcome()            {}

func (r Rejected) Precondition() bool {
	return r.Stage == ""
}

type Status string

const (
	StatusRejected    Status = "rejected"
	StatusUnavailable Status = "unavailable"
	StatusDelivered   Status = "delivered"
	StatusError       Status = "error"
)

// Summary is a transport-neutral view of an Outcome.
type Summary struct {
	Status         Status   `json:"status" jsonschema:"rejected, unavailable, delivered or error"`
	Answer         string   `json:"answer,omitempty" jsonschema:"answer text, present when delivered"`
	Sources        []string `json:"sources,omitempty" jsonschema:"previews of the retrieved passages"`
	LatencySeconds float64  `json:"latency_seconds,omitempty" jsonschema:"retrieval latency in seconds"`
	Sanitized      bool     `json:"sanitized,omitempty" jsonschema:"true when the answer was replaced by the safety message"`
	Reason         string   `json:"reason,omitempty" jsonschema:"why the question was not answered"`
}

func Summarize(outcome Outcome) Summary {
	switch o := outcome.(type) {
	case Rejected:
		return Summary{Status: StatusRejected, Reason: o.Reason}
	case ServiceUnavailable:
		return Summary{Status: StatusUnavailable, Reason: "RAG not ready"}
	case Delivered:
		return Summary{
			Status:         StatusDelivered,
			Answer:         o.Answer,
			Sources:        o.Sources,
			LatencySeconds: o.LatencySeconds,
			Sanitized:      o.Sanitized,
		}
	case Failure:
		return Summary{Status: StatusError, Reason: o.Message}
	default:
		return Summary{Status: StatusError, Reason: "unknown outcome"}
	}
}
