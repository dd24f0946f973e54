package types

import "fmt"

// Duration buckets for Completion.Duration.
var Durations = []string{
	"< 15 minutes", "15 minutes", "30 minutes", "45 minutes",
	"1 hour", "1.5 hours", "2+ hours",
}

// Modes for Completion.Mode, from worst to best.
var Modes = []string{"😭", "😟", "😐", "🙂", "😄", "🚀"}

// Answers for Completion.Helped.
var HelpedAnswers = []string{"Yes", "No", "Not sure"}

// Completion holds the optional detail logged when a habit is done on a day.
// Existence of the record in the Ledger is the done signal; an all-empty
// Completion is a valid record.
type Completion struct {
	Duration string `json:"duration"`
	Mode     string `json:"mode"`
	Notes    string `json:"notes"`
	Helped   string `json:"helped"`
}

// HasDetail reports whether any detail field is set.
func (c Completion) HasDetail() bool {
	return c.Duration != "" || c.Mode != "" || c.Notes != "" || c.Helped != ""
}

// Validate checks the enumerated fields. Empty values are always accepted.
// Returns ErrInvalidDetail naming the offending field.
func (c Completion) Validate() error {
	if !oneOfOrEmpty(c.Duration, Durations) {
		return fmt.Errorf("%w: duration %q", ErrInvalidDetail, c.Duration)
	}
	if !oneOfOrEmpty(c.Mode, Modes) {
		return fmt.Errorf("%w: mode %q", ErrInvalidDetail, c.Mode)
	}
	if !oneOfOrEmpty(c.Helped, HelpedAnswers) {
		return fmt.Errorf("%w: helped %q", ErrInvalidDetail, c.Helped)
	}
	return nil
}

func oneOfOrEmpty(v string, allowed []string) bool {
	if v == "" {
		return true
	}
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
