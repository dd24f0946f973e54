package types

import "fmt"

// Problem statuses.
const (
	StatusOpen      = "open"
	StatusCompleted = "completed"
)

// Problem difficulties.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Difficulties lists the accepted difficulty values in ascending order.
var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Problem is an entry in the practice-problem list. CompletedOn is nil iff
// Status is StatusOpen.
type Problem struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Difficulty  string `json:"difficulty"`
	Status      string `json:"status"`
	CompletedOn *Day   `json:"completed_on"`
}

// Done reports whether the problem is completed.
func (p Problem) Done() bool {
	return p.Status == StatusCompleted
}

// Complete marks the problem completed on day.
func (p *Problem) Complete(day Day) {
	d := day
	p.Status = StatusCompleted
	p.CompletedOn = &d
}

// Reopen marks the problem open and clears the completion date.
func (p *Problem) Reopen() {
	p.Status = StatusOpen
	p.CompletedOn = nil
}

// ValidateDifficulty returns ErrInvalidDifficulty unless d is one of
// Difficulties.
func ValidateDifficulty(d string) error {
	for _, v := range Difficulties {
		if d == v {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidDifficulty, d)
}
