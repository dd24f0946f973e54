package analytics

import "github.com/mesh-intelligence/habitlog/pkg/types"

// HabitStats gathers the per-habit figures shown in reports.
type HabitStats struct {
	Habit   types.Habit
	DoneNow bool
	Current int
	Longest int
	Rate7   float64
	Rate30  float64
}

// Stats computes HabitStats for every habit, in Ledger order.
func Stats(l *types.Ledger, today types.Day) []HabitStats {
	out := make([]HabitStats, 0, len(l.Habits))
	for _, h := range l.Habits {
		out = append(out, HabitStats{
			Habit:   h,
			DoneNow: l.IsDone(h.ID, today),
			Current: CurrentStreak(l, h.ID, today),
			Longest: LongestStreak(l, h.ID),
			Rate7:   WindowedRate(l, h.ID, today, 7),
			Rate30:  WindowedRate(l, h.ID, today, 30),
		})
	}
	return out
}

// Summary is the headline rollup for a day.
type Summary struct {
	Today       DayRate
	BestStreak  int
	WeekPercent int
}

// Summarize returns today's rollup.
func Summarize(l *types.Ledger, today types.Day) Summary {
	return Summary{
		Today:       DayFraction(l, today),
		BestStreak:  BestStreak(l, today),
		WeekPercent: WeekPercent(l, today),
	}
}

// Solved counts completed problems by difficulty. Total includes problems
// with an unrecognized difficulty.
type Solved struct {
	Total  int `json:"total"`
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// SolvedProblems tallies completed problems.
func SolvedProblems(problems []types.Problem) Solved {
	var s Solved
	for _, p := range problems {
		if !p.Done() {
			continue
		}
		s.Total++
		switch p.Difficulty {
		case types.DifficultyEasy:
			s.Easy++
		case types.DifficultyMedium:
			s.Medium++
		case types.DifficultyHard:
			s.Hard++
		}
	}
	return s
}

// LogEntry is a completion record that carries detail.
type LogEntry struct {
	Day    types.Day
	Habit  types.Habit
	Detail types.Completion
}

// DetailedLogs lists records with any detail over the window ending today,
// newest first and in Ledger order within a day. habitIDs restricts the
// habits considered; nil means all.
func DetailedLogs(l *types.Ledger, today types.Day, days int, habitIDs []int) []LogEntry {
	want := map[int]bool{}
	for _, id := range habitIDs {
		want[id] = true
	}
	out := []LogEntry{}
	for i := 0; i < days; i++ {
		d := today.AddDays(-i)
		byHabit := l.Completions[d]
		for _, h := range l.Habits {
			if len(want) > 0 && !want[h.ID] {
				continue
			}
			rec, ok := byHabit[h.ID]
			if !ok || !rec.HasDetail() {
				continue
			}
			out = append(out, LogEntry{Day: d, Habit: h, Detail: rec})
		}
	}
	return out
}
