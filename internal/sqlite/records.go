package sqlite

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/habitlog/pkg/types"
)

// DecodeError reports a remote row that cannot be mapped to an entity.
// Row is 1-based in table order.
type DecodeError struct {
	Table  string
	Row    int
	Column string
	Value  any
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s row %d column %s (%v): %v", e.Table, e.Row, e.Column, e.Value, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// decodeHabits appends one Habit per row. Rows with an empty id are
// skipped; a missing icon becomes types.DefaultIcon and a missing color
// types.DefaultColor.
func decodeHabits(l *types.Ledger, rows []row) error {
	for i, r := range rows {
		id, ok, err := intValue(r["id"])
		if err != nil {
			return &DecodeError{Table: HabitsTable, Row: i + 1, Column: "id", Value: r["id"], Err: err}
		}
		if !ok {
			continue
		}
		created, err := dayValue(r["created"])
		if err != nil {
			return &DecodeError{Table: HabitsTable, Row: i + 1, Column: "created", Value: r["created"], Err: err}
		}
		h := types.Habit{
			ID:         id,
			Name:       stringValue(r["name"]),
			Icon:       stringValue(r["icon"]),
			Category:   stringValue(r["category"]),
			TargetDays: types.SplitTargetDays(stringValue(r["target_days"])),
			Color:      stringValue(r["color"]),
		}
		if created != nil {
			h.Created = *created
		}
		if h.Icon == "" {
			h.Icon = types.DefaultIcon
		}
		if h.Color == "" {
			h.Color = types.DefaultColor
		}
		l.Habits = append(l.Habits, h)
	}
	return nil
}

// decodeCompletions rebuilds the day to habit to detail map. Rows missing
// either the date or the habit id are skipped.
func decodeCompletions(l *types.Ledger, rows []row) error {
	for i, r := range rows {
		day, err := dayValue(r["date"])
		if err != nil {
			return &DecodeError{Table: CompletionsTable, Row: i + 1, Column: "date", Value: r["date"], Err: err}
		}
		id, ok, err := intValue(r["habit_id"])
		if err != nil {
			return &DecodeError{Table: CompletionsTable, Row: i + 1, Column: "habit_id", Value: r["habit_id"], Err: err}
		}
		if day == nil || !ok {
			continue
		}
		byHabit, exists := l.Completions[*day]
		if !exists {
			byHabit = map[int]types.Completion{}
			l.Completions[*day] = byHabit
		}
		byHabit[id] = types.Completion{
			Duration: stringValue(r["duration"]),
			Mode:     stringValue(r["mode"]),
			Notes:    stringValue(r["notes"]),
			Helped:   stringValue(r["helped"]),
		}
	}
	return nil
}

// decodeProblems appends one Problem per row, in table order. A missing
// status means open; an open problem never keeps a completion date.
func decodeProblems(l *types.Ledger, rows []row) error {
	for i, r := range rows {
		id, ok, err := intValue(r["id"])
		if err != nil {
			return &DecodeError{Table: ProblemsTable, Row: i + 1, Column: "id", Value: r["id"], Err: err}
		}
		if !ok {
			continue
		}
		p := types.Problem{
			ID:         id,
			Name:       stringValue(r["name"]),
			URL:        stringValue(r["url"]),
			Difficulty: stringValue(r["difficulty"]),
			Status:     strings.ToLower(stringValue(r["status"])),
		}
		switch p.Status {
		case "":
			p.Status = types.StatusOpen
		case types.StatusOpen, types.StatusCompleted:
		default:
			return &DecodeError{Table: ProblemsTable, Row: i + 1, Column: "status", Value: r["status"], Err: types.ErrInvalidStatus}
		}
		completed, err := dayValue(r["completed_on"])
		if err != nil {
			return &DecodeError{Table: ProblemsTable, Row: i + 1, Column: "completed_on", Value: r["completed_on"], Err: err}
		}
		if p.Status == types.StatusCompleted {
			p.CompletedOn = completed
		}
		l.Problems = append(l.Problems, p)
	}
	return nil
}

func decodeNotes(l *types.Ledger, rows []row) error {
	for i, r := range rows {
		day, err := dayValue(r["date"])
		if err != nil {
			return &DecodeError{Table: DailyNotesTable, Row: i + 1, Column: "date", Value: r["date"], Err: err}
		}
		if day == nil {
			continue
		}
		l.Notes = append(l.Notes, types.DailyNote{Date: *day, Note: stringValue(r["note"])})
	}
	return nil
}

func encodeHabits(l *types.Ledger) [][]any {
	out := make([][]any, 0, len(l.Habits))
	for _, h := range l.Habits {
		out = append(out, []any{h.ID, h.Name, h.Icon, h.Category, h.JoinTargetDays(), h.Color, string(h.Created)})
	}
	return out
}

// encodeCompletions flattens completions in day order, then habit order
// within a day.
func encodeCompletions(l *types.Ledger) [][]any {
	var out [][]any
	for _, day := range l.Days() {
		byHabit := l.Completions[day]
		ids := make([]int, 0, len(byHabit))
		for id := range byHabit {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			c := byHabit[id]
			out = append(out, []any{string(day), id, c.Duration, c.Mode, c.Notes, c.Helped})
		}
	}
	return out
}

func encodeProblems(l *types.Ledger) [][]any {
	out := make([][]any, 0, len(l.Problems))
	for _, p := range l.Problems {
		var completed any
		if p.CompletedOn != nil {
			completed = string(*p.CompletedOn)
		}
		status := p.Status
		if status == "" {
			status = types.StatusOpen
		}
		out = append(out, []any{p.ID, p.Name, p.URL, p.Difficulty, status, completed})
	}
	return out
}

func encodeNotes(l *types.Ledger) [][]any {
	out := make([][]any, 0, len(l.Notes))
	for _, n := range l.Notes {
		out = append(out, []any{string(n.Date), n.Note})
	}
	return out
}

// intValue coerces a cell to an int. ok is false for NULL and blank cells.
// Floats and numeric strings are accepted only when integral.
func intValue(v any) (n int, ok bool, err error) {
	switch x := v.(type) {
	case nil:
		return 0, false, nil
	case int64:
		return int(x), true, nil
	case int:
		return x, true, nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
			return 0, false, fmt.Errorf("not an integer: %v", x)
		}
		return int(x), true, nil
	case []byte:
		return intValue(string(x))
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false, nil
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n, true, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, fmt.Errorf("not a number: %q", s)
		}
		return intValue(f)
	default:
		return 0, false, fmt.Errorf("unsupported value type %T", v)
	}
}

// stringValue renders a cell as text. NULL is the empty string.
func stringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// dayValue parses a cell as a calendar date. NULL and blank cells return
// nil with no error.
func dayValue(v any) (*types.Day, error) {
	s := strings.TrimSpace(stringValue(v))
	if s == "" {
		return nil, nil
	}
	d, err := types.ParseDay(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
