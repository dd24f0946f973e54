package analytics

import "github.com/mesh-intelligence/habitlog/pkg/types"

// CurrentStreak counts consecutive days with a record for the habit, walking
// backward from today. If today has no record the streak is 0.
func CurrentStreak(l *types.Ledger, habitID int, today types.Day) int {
	if !today.Valid() {
		return 0
	}
	streak := 0
	for d := today; l.IsDone(habitID, d); d = d.AddDays(-1) {
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive calendar days with a
// record for the habit. Only days present in the Ledger's completion map
// are visited. A day with no records at all is skipped; a day with activity
// for other habits but not this one resets the run, as does a calendar gap.
func LongestStreak(l *types.Ledger, habitID int) int {
	best, cur := 0, 0
	var prev types.Day
	for _, d := range l.Days() {
		byHabit := l.Completions[d]
		if len(byHabit) == 0 {
			continue
		}
		if _, ok := byHabit[habitID]; !ok {
			cur = 0
			prev = ""
			continue
		}
		if prev != "" && prev.AddDays(1) == d {
			cur++
		} else {
			cur = 1
		}
		if cur > best {
			best = cur
		}
		prev = d
	}
	return best
}

// BestStreak returns the highest current streak across all habits, or 0
// when there are none.
func BestStreak(l *types.Ledger, today types.Day) int {
	best := 0
	for _, h := range l.Habits {
		if s := CurrentStreak(l, h.ID, today); s > best {
			best = s
		}
	}
	return best
}
