package types

import (
	"fmt"
	"strings"
)

// Defaults applied when a habit is created or decoded without the field.
const (
	DefaultIcon  = "⭐"
	DefaultColor = "#6c63ff"
)

// Weekday tags accepted in Habit.TargetDays, in calendar order.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var weekdayOrder = map[string]int{
	"Mon": 0, "Tue": 1, "Wed": 2, "Thu": 3, "Fri": 4, "Sat": 5, "Sun": 6,
}

// Categories offered when adding a habit. Category itself is free-form.
var Categories = []string{
	"Health", "Fitness", "Learning", "Wellness",
	"Productivity", "Social", "Finance", "Other",
}

// TargetDaysSeparator joins TargetDays in flat tabular form.
const TargetDaysSeparator = ","

// Habit is a recurring activity tracked by day. Habits are created through
// Ledger.AddHabit and removed through Ledger.DeleteHabit; they are never
// edited in place. TargetDays is informational and does not gate completion.
type Habit struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Icon       string   `json:"icon"`
	Category   string   `json:"category"`
	TargetDays []string `json:"target_days"`
	Color      string   `json:"color"`
	Created    Day      `json:"created"`
}

// JoinTargetDays returns the delimiter-separated form of TargetDays.
func (h Habit) JoinTargetDays() string {
	return strings.Join(h.TargetDays, TargetDaysSeparator)
}

// SplitTargetDays parses the delimiter-separated form back into a set.
// An empty string yields an empty (non-nil) set. Blank and duplicate
// entries are dropped.
func SplitTargetDays(s string) []string {
	days := []string{}
	if strings.TrimSpace(s) == "" {
		return days
	}
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, TargetDaysSeparator) {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		days = append(days, part)
	}
	return days
}

// NormalizeWeekdays validates weekday tags and returns them deduplicated in
// calendar order. Returns ErrInvalidWeekday for an unknown tag.
func NormalizeWeekdays(days []string) ([]string, error) {
	present := make([]bool, len(Weekdays))
	for _, d := range days {
		i, ok := weekdayOrder[strings.TrimSpace(d)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidWeekday, d)
		}
		present[i] = true
	}
	out := []string{}
	for i, ok := range present {
		if ok {
			out = append(out, Weekdays[i])
		}
	}
	return out, nil
}
