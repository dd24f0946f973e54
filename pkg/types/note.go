package types

// DailyNote is free text attached to a calendar date. A Ledger holds at
// most one note per date.
type DailyNote struct {
	Date Day    `json:"date"`
	Note string `json:"note"`
}
