package analytics

import (
	"sort"

	"github.com/mesh-intelligence/habitlog/pkg/types"
)

// WindowedRate returns the percentage in [0,100] of the days in the window
// of days ending today inclusive that have a record for the habit.
// A non-positive window yields 0.
func WindowedRate(l *types.Ledger, habitID int, today types.Day, days int) float64 {
	if days <= 0 || !today.Valid() {
		return 0
	}
	done := 0
	for i := 0; i < days; i++ {
		if l.IsDone(habitID, today.AddDays(-i)) {
			done++
		}
	}
	return percent(done, days)
}

// DayRate is the fraction of habits done on a single day.
type DayRate struct {
	Day      types.Day
	Done     int
	Total    int
	Fraction float64
}

// DayFraction reports how many of the Ledger's habits are done on day.
// With no habits the fraction is 0.
func DayFraction(l *types.Ledger, day types.Day) DayRate {
	r := DayRate{Day: day, Total: len(l.Habits)}
	for _, h := range l.Habits {
		if l.IsDone(h.ID, day) {
			r.Done++
		}
	}
	if r.Total > 0 {
		r.Fraction = float64(r.Done) / float64(r.Total)
	}
	return r
}

// DailyFractions returns DayFraction for each day of the window ending today,
// oldest first.
func DailyFractions(l *types.Ledger, today types.Day, days int) []DayRate {
	out := []DayRate{}
	for i := days - 1; i >= 0; i-- {
		out = append(out, DayFraction(l, today.AddDays(-i)))
	}
	return out
}

// WeekPercent returns the integer percentage of habit-days completed over
// the seven days ending today: done / (habits * 7). With no habits it is 0.
func WeekPercent(l *types.Ledger, today types.Day) int {
	total := len(l.Habits) * 7
	if total == 0 {
		return 0
	}
	done := 0
	for i := 0; i < 7; i++ {
		done += DayFraction(l, today.AddDays(-i)).Done
	}
	return done * 100 / total
}

// CategoryRate is the mean windowed rate of the habits in one category.
type CategoryRate struct {
	Category string
	Habits   int
	Rate     float64
}

// CategoryRates averages WindowedRate per habit category, sorted by
// category name. Categories with no habits do not appear.
func CategoryRates(l *types.Ledger, today types.Day, days int) []CategoryRate {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, h := range l.Habits {
		sums[h.Category] += WindowedRate(l, h.ID, today, days)
		counts[h.Category]++
	}
	out := make([]CategoryRate, 0, len(counts))
	for cat, n := range counts {
		out = append(out, CategoryRate{Category: cat, Habits: n, Rate: sums[cat] / float64(n)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func percent(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}
