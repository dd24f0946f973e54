package types

// defaultHabit describes a habit seeded into a fresh Ledger. createdAgo is
// the number of days before the seeding day.
type defaultHabit struct {
	name       string
	icon       string
	category   string
	color      string
	createdAgo int
}

var defaultHabits = []defaultHabit{
	{"Morning Workout", "💪", "Health", "#6c63ff", 30},
	{"Read 30 Minutes", "📚", "Learning", "#f7971e", 20},
	{"Drink 8 Glasses", "💧", "Health", "#06b6d4", 15},
	{"Meditate", "🧘", "Wellness", "#ec4899", 10},
}

// DefaultLedger returns the Ledger used when no stored state exists: four
// example habits targeting every weekday, with no history, problems, or
// notes.
func DefaultLedger(today Day) *Ledger {
	l := NewLedger()
	for i, dh := range defaultHabits {
		l.Habits = append(l.Habits, Habit{
			ID:         i + 1,
			Name:       dh.name,
			Icon:       dh.icon,
			Category:   dh.category,
			TargetDays: append([]string{}, Weekdays...),
			Color:      dh.color,
			Created:    today.AddDays(-dh.createdAgo),
		})
	}
	return l
}
