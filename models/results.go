package models

import "fmt"

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeHint      Outcome = "hint"
)

const HintText = "Hints: take photo {<email>}, take video {<email>}, light on|off"

// ActionResult is the outcome of handling one authorized message
type ActionResult struct {
	Outcome     Outcome
	Diagnostics string
}

func Completed() ActionResult {
	return ActionResult{Outcome: OutcomeCompleted}
}

func Failed(diagnostics string) ActionResult {
	return ActionResult{Outcome: OutcomeFailed, Diagnostics: diagnostics}
}

func Hint() ActionResult {
	return ActionResult{Outcome: OutcomeHint}
}

// ReplyText renders the direct message sent back for originalText
func (r ActionResult) ReplyText(originalText string) string {
	switch r.Outcome {
	case OutcomeCompleted:
		return fmt.Sprintf("Received and Completed: %s", originalText)
	case OutcomeFailed:
		return fmt.Sprintf("Received and Failed: %s", originalText)
	default:
		return HintText
	}
}
