package types

import (
	"fmt"
	"sort"
	"strings"
)

// Ledger is the whole-session aggregate: habits, completion records keyed
// by day then habit ID, practice problems, and daily notes. Persistence
// always reads and writes a Ledger whole.
//
// Invariant: every habit ID under Completions belongs to a habit in Habits.
// DeleteHabit maintains it by cascading; there is no referential check on
// read.
type Ledger struct {
	Habits      []Habit                    `json:"habits"`
	Completions map[Day]map[int]Completion `json:"completions"`
	Problems    []Problem                  `json:"problems"`
	Notes       []DailyNote                `json:"daily_notes"`
}

// NewLedger returns an empty Ledger with every collection allocated.
func NewLedger() *Ledger {
	return &Ledger{
		Habits:      []Habit{},
		Completions: map[Day]map[int]Completion{},
		Problems:    []Problem{},
		Notes:       []DailyNote{},
	}
}

// Normalize allocates nil collections so that an empty Ledger serializes
// with empty arrays and maps rather than nulls. It also clears the
// completion date of open problems.
func (l *Ledger) Normalize() {
	if l.Habits == nil {
		l.Habits = []Habit{}
	}
	for i := range l.Habits {
		if l.Habits[i].TargetDays == nil {
			l.Habits[i].TargetDays = []string{}
		}
	}
	if l.Completions == nil {
		l.Completions = map[Day]map[int]Completion{}
	}
	if l.Problems == nil {
		l.Problems = []Problem{}
	}
	for i := range l.Problems {
		if l.Problems[i].Status == "" {
			l.Problems[i].Status = StatusOpen
		}
		if l.Problems[i].Status == StatusOpen {
			l.Problems[i].CompletedOn = nil
		}
	}
	if l.Notes == nil {
		l.Notes = []DailyNote{}
	}
}

// Clone returns a deep copy of the Ledger.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		Habits:      make([]Habit, len(l.Habits)),
		Completions: make(map[Day]map[int]Completion, len(l.Completions)),
		Problems:    make([]Problem, len(l.Problems)),
		Notes:       make([]DailyNote, len(l.Notes)),
	}
	for i, h := range l.Habits {
		h.TargetDays = append([]string{}, h.TargetDays...)
		c.Habits[i] = h
	}
	for day, byHabit := range l.Completions {
		m := make(map[int]Completion, len(byHabit))
		for id, rec := range byHabit {
			m[id] = rec
		}
		c.Completions[day] = m
	}
	for i, p := range l.Problems {
		if p.CompletedOn != nil {
			d := *p.CompletedOn
			p.CompletedOn = &d
		}
		c.Problems[i] = p
	}
	copy(c.Notes, l.Notes)
	return c
}

// Habit returns the habit with the given ID.
func (l *Ledger) Habit(id int) (Habit, bool) {
	for _, h := range l.Habits {
		if h.ID == id {
			return h, true
		}
	}
	return Habit{}, false
}

// HabitByName returns the first habit whose name matches, ignoring case.
func (l *Ledger) HabitByName(name string) (Habit, bool) {
	for _, h := range l.Habits {
		if strings.EqualFold(h.Name, strings.TrimSpace(name)) {
			return h, true
		}
	}
	return Habit{}, false
}

// NextHabitID returns one more than the largest habit ID, or 1.
func (l *Ledger) NextHabitID() int {
	highest := 0
	for _, h := range l.Habits {
		if h.ID > highest {
			highest = h.ID
		}
	}
	return highest + 1
}

// NextProblemID returns one more than the largest problem ID, or 1.
func (l *Ledger) NextProblemID() int {
	highest := 0
	for _, p := range l.Problems {
		if p.ID > highest {
			highest = p.ID
		}
	}
	return highest + 1
}

// AddHabit validates h, assigns the next ID and today's creation date, and
// appends it. Name is trimmed and must be non-empty; empty Icon and Color
// take their defaults; TargetDays is normalized to calendar order.
// The stored habit is returned.
func (l *Ledger) AddHabit(h Habit, today Day) (Habit, error) {
	h.Name = strings.TrimSpace(h.Name)
	if h.Name == "" {
		return Habit{}, ErrInvalidName
	}
	if !today.Valid() {
		return Habit{}, fmt.Errorf("%w: %q", ErrInvalidDate, today)
	}
	days, err := NormalizeWeekdays(h.TargetDays)
	if err != nil {
		return Habit{}, err
	}
	if h.Icon == "" {
		h.Icon = DefaultIcon
	}
	if h.Color == "" {
		h.Color = DefaultColor
	}
	h.ID = l.NextHabitID()
	h.TargetDays = days
	h.Created = today
	l.Habits = append(l.Habits, h)
	return h, nil
}

// DeleteHabit removes the habit and every completion record for it.
// Days left without any record are dropped from Completions.
// Returns ErrHabitNotFound if no habit has the ID.
func (l *Ledger) DeleteHabit(id int) error {
	idx := -1
	for i, h := range l.Habits {
		if h.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrHabitNotFound, id)
	}
	l.Habits = append(l.Habits[:idx], l.Habits[idx+1:]...)
	for day, byHabit := range l.Completions {
		delete(byHabit, id)
		if len(byHabit) == 0 {
			delete(l.Completions, day)
		}
	}
	return nil
}

// IsDone reports whether a completion record exists for the habit on day.
func (l *Ledger) IsDone(id int, day Day) bool {
	_, ok := l.Completions[day][id]
	return ok
}

// Completion returns the record for the habit on day.
func (l *Ledger) Completion(id int, day Day) (Completion, bool) {
	c, ok := l.Completions[day][id]
	return c, ok
}

// Check records the habit as done on day with the given detail, replacing
// any existing detail. Returns ErrHabitNotFound, ErrInvalidDate or
// ErrInvalidDetail without touching the Ledger.
func (l *Ledger) Check(id int, day Day, detail Completion) error {
	if _, ok := l.Habit(id); !ok {
		return fmt.Errorf("%w: %d", ErrHabitNotFound, id)
	}
	if !day.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDate, day)
	}
	if err := detail.Validate(); err != nil {
		return err
	}
	if l.Completions == nil {
		l.Completions = map[Day]map[int]Completion{}
	}
	byHabit, ok := l.Completions[day]
	if !ok {
		byHabit = map[int]Completion{}
		l.Completions[day] = byHabit
	}
	byHabit[id] = detail
	return nil
}

// LogPast records a completion for a day up to and including today.
// Unlike Check it refuses to overwrite: ErrAlreadyDone if a record exists,
// ErrFutureDate if day is after today.
func (l *Ledger) LogPast(id int, day, today Day, detail Completion) error {
	if !day.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDate, day)
	}
	if day.After(today) {
		return fmt.Errorf("%w: %s", ErrFutureDate, day)
	}
	if l.IsDone(id, day) {
		return fmt.Errorf("%w: habit %d on %s", ErrAlreadyDone, id, day)
	}
	return l.Check(id, day, detail)
}

// EditDetail replaces the detail of an existing record.
// Returns ErrNotDone if the habit is not logged on day.
func (l *Ledger) EditDetail(id int, day Day, detail Completion) error {
	if !l.IsDone(id, day) {
		return fmt.Errorf("%w: habit %d on %s", ErrNotDone, id, day)
	}
	return l.Check(id, day, detail)
}

// Uncheck deletes the record for the habit on day, dropping the day from
// Completions when it becomes empty. Returns ErrNotDone if absent.
func (l *Ledger) Uncheck(id int, day Day) error {
	byHabit, ok := l.Completions[day]
	if !ok {
		return fmt.Errorf("%w: habit %d on %s", ErrNotDone, id, day)
	}
	if _, ok := byHabit[id]; !ok {
		return fmt.Errorf("%w: habit %d on %s", ErrNotDone, id, day)
	}
	delete(byHabit, id)
	if len(byHabit) == 0 {
		delete(l.Completions, day)
	}
	return nil
}

// Days returns every day present in Completions in ascending order.
func (l *Ledger) Days() []Day {
	days := make([]Day, 0, len(l.Completions))
	for d := range l.Completions {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// AddProblem appends an open problem with the next problem ID.
func (l *Ledger) AddProblem(name, url, difficulty string) (Problem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Problem{}, ErrInvalidName
	}
	if err := ValidateDifficulty(difficulty); err != nil {
		return Problem{}, err
	}
	p := Problem{
		ID:         l.NextProblemID(),
		Name:       name,
		URL:        strings.TrimSpace(url),
		Difficulty: difficulty,
		Status:     StatusOpen,
	}
	l.Problems = append(l.Problems, p)
	return p, nil
}

// SetProblemDone marks the problem completed on today, or reopens it.
// Marking an already completed problem done keeps its original date.
// Returns ErrProblemNotFound if no problem has the ID.
func (l *Ledger) SetProblemDone(id int, done bool, today Day) error {
	for i := range l.Problems {
		if l.Problems[i].ID != id {
			continue
		}
		switch {
		case !done:
			l.Problems[i].Reopen()
		case !l.Problems[i].Done():
			l.Problems[i].Complete(today)
		}
		return nil
	}
	return fmt.Errorf("%w: %d", ErrProblemNotFound, id)
}

// Note returns the note for day.
func (l *Ledger) Note(day Day) (DailyNote, bool) {
	for _, n := range l.Notes {
		if n.Date == day {
			return n, true
		}
	}
	return DailyNote{}, false
}

// UpsertNote sets the text of the note for day, creating it if needed.
func (l *Ledger) UpsertNote(day Day, text string) error {
	if !day.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDate, day)
	}
	for i := range l.Notes {
		if l.Notes[i].Date == day {
			l.Notes[i].Note = text
			return nil
		}
	}
	l.Notes = append(l.Notes, DailyNote{Date: day, Note: text})
	return nil
}

// SearchNotes returns notes containing query (case-insensitive), newest
// first. An empty query matches every note.
func (l *Ledger) SearchNotes(query string) []DailyNote {
	q := strings.ToLower(query)
	out := []DailyNote{}
	for _, n := range l.Notes {
		if q == "" || strings.Contains(strings.ToLower(n.Note), q) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}
