package types

import "errors"

// Validation errors for mutation requests. A mutation that fails with one of
// these leaves the Ledger untouched.
var (
	ErrInvalidName       = errors.New("name must not be empty")
	ErrInvalidDate       = errors.New("invalid calendar date")
	ErrFutureDate        = errors.New("date is in the future")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidStatus     = errors.New("invalid problem status")
	ErrInvalidDetail     = errors.New("invalid completion detail")
	ErrInvalidWeekday    = errors.New("invalid weekday tag")
)

// Lookup and state errors.
var (
	ErrHabitNotFound   = errors.New("habit not found")
	ErrProblemNotFound = errors.New("problem not found")
	ErrAlreadyDone     = errors.New("habit already logged for this date")
	ErrNotDone         = errors.New("habit not logged for this date")
)
