package analytics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/habitlog/pkg/types"
)

const today types.Day = "2025-06-15"

// newLedger returns a Ledger with habits 1 (Health), 2 (Health) and
// 3 (Learning) and no history.
func newLedger(t *testing.T) *types.Ledger {
	t.Helper()
	l := types.NewLedger()
	for _, h := range []types.Habit{
		{Name: "Run", Category: "Health"},
		{Name: "Water", Category: "Health"},
		{Name: "Read", Category: "Learning"},
	} {
		_, err := l.AddHabit(h, "2025-01-01")
		require.NoError(t, err)
	}
	return l
}

// mark records habit id as done on each day offset back from today.
func mark(t *testing.T, l *types.Ledger, id int, offsets ...int) {
	t.Helper()
	for _, off := range offsets {
		require.NoError(t, l.Check(id, today.AddDays(-off), types.Completion{}))
	}
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name    string
		offsets []int
		want    int
	}{
		{name: "no history", want: 0},
		{name: "today only", offsets: []int{0}, want: 1},
		{name: "today and four prior days", offsets: []int{0, 1, 2, 3, 4}, want: 5},
		{name: "gap stops the walk", offsets: []int{0, 1, 3, 4}, want: 2},
		{name: "yesterday done but not today", offsets: []int{1, 2, 3}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLedger(t)
			mark(t, l, 1, tt.offsets...)
			assert.Equal(t, tt.want, CurrentStreak(l, 1, today))
		})
	}
}

func TestCurrentStreakAfterUncheck(t *testing.T) {
	l := newLedger(t)
	mark(t, l, 1, 0, 1, 2)
	require.Equal(t, 3, CurrentStreak(l, 1, today))

	require.NoError(t, l.Uncheck(1, today))
	assert.Equal(t, 0, CurrentStreak(l, 1, today))
}

func TestCurrentStreakN(t *testing.T) {
	for n := 1; n <= 40; n++ {
		l := newLedger(t)
		offsets := make([]int, n)
		for i := range offsets {
			offsets[i] = i
		}
		mark(t, l, 2, offsets...)
		assert.Equal(t, n, CurrentStreak(l, 2, today), "n=%d", n)
	}
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, l *types.Ledger)
		want  int
	}{
		{
			name:  "no history",
			setup: func(t *testing.T, l *types.Ledger) {},
			want:  0,
		},
		{
			name: "single run",
			setup: func(t *testing.T, l *types.Ledger) {
				mark(t, l, 1, 10, 11, 12)
			},
			want: 3,
		},
		{
			name: "calendar gap splits runs",
			setup: func(t *testing.T, l *types.Ledger) {
				mark(t, l, 1, 20, 21, 22, 23, 10, 11)
			},
			want: 4,
		},
		{
			name: "other habit's activity on a missed day breaks the run",
			setup: func(t *testing.T, l *types.Ledger) {
				mark(t, l, 1, 5, 7)
				mark(t, l, 2, 6)
			},
			want: 1,
		},
		{
			name: "run ending today counts",
			setup: func(t *testing.T, l *types.Ledger) {
				mark(t, l, 1, 0, 1, 2, 3, 4, 5)
				mark(t, l, 1, 30, 31)
			},
			want: 6,
		},
		{
			name: "days without any record are skipped",
			setup: func(t *testing.T, l *types.Ledger) {
				mark(t, l, 1, 3, 2, 1)
				l.Completions[today.AddDays(-4)] = map[int]types.Completion{}
				l.Completions[today] = map[int]types.Completion{}
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLedger(t)
			tt.setup(t, l)
			assert.Equal(t, tt.want, LongestStreak(l, 1))
		})
	}
}

func TestLongestAtLeastCurrent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		l := newLedger(t)
		for id := 1; id <= 3; id++ {
			for off := 0; off < 60; off++ {
				if rng.Intn(3) > 0 {
					mark(t, l, id, off)
				}
			}
		}
		for id := 1; id <= 3; id++ {
			cur := CurrentStreak(l, id, today)
			longest := LongestStreak(l, id)
			require.GreaterOrEqual(t, longest, cur, "round %d habit %d", round, id)
		}
	}
}

func TestWindowedRate(t *testing.T) {
	l := newLedger(t)
	assert.Equal(t, 0.0, WindowedRate(l, 1, today, 30), "no records")

	mark(t, l, 1, 0, 1, 2, 3, 4, 5, 6)
	assert.Equal(t, 100.0, WindowedRate(l, 1, today, 7), "every day done")
	assert.InDelta(t, 700.0/30.0, WindowedRate(l, 1, today, 30), 1e-9)

	mark(t, l, 1, 7)
	assert.Equal(t, 100.0, WindowedRate(l, 1, today, 7), "days outside the window ignored")

	assert.Equal(t, 0.0, WindowedRate(l, 1, today, 0))
	assert.Equal(t, 0.0, WindowedRate(l, 1, today, -5))
	assert.Equal(t, 0.0, WindowedRate(l, 99, today, 7), "unknown habit")

	mark(t, l, 2, -1)
	assert.Equal(t, 0.0, WindowedRate(l, 2, today, 7), "future records are outside the window")
}

func TestWindowedRateBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	l := newLedger(t)
	for off := 0; off < 90; off++ {
		if rng.Intn(2) == 0 {
			mark(t, l, 3, off)
		}
	}
	for n := 1; n <= 100; n++ {
		r := WindowedRate(l, 3, today, n)
		assert.GreaterOrEqual(t, r, 0.0)
		assert.LessOrEqual(t, r, 100.0)
	}
}

func TestRollups(t *testing.T) {
	empty := types.NewLedger()
	assert.Equal(t, DayRate{Day: today}, DayFraction(empty, today))
	assert.Equal(t, 0, WeekPercent(empty, today))
	assert.Equal(t, 0, BestStreak(empty, today))
	assert.Empty(t, CategoryRates(empty, today, 7))

	l := newLedger(t)
	mark(t, l, 1, 0, 1, 2)
	mark(t, l, 2, 0)
	mark(t, l, 3, 1)

	r := DayFraction(l, today)
	assert.Equal(t, 2, r.Done)
	assert.Equal(t, 3, r.Total)
	assert.InDelta(t, 2.0/3.0, r.Fraction, 1e-9)

	assert.Equal(t, 3, BestStreak(l, today))
	assert.Equal(t, 5*100/21, WeekPercent(l, today))

	days := DailyFractions(l, today, 3)
	require.Len(t, days, 3)
	assert.Equal(t, today.AddDays(-2), days[0].Day)
	assert.Equal(t, today, days[2].Day)
	assert.Equal(t, 1, days[0].Done)

	cats := CategoryRates(l, today, 7)
	require.Len(t, cats, 2)
	assert.Equal(t, "Health", cats[0].Category)
	assert.Equal(t, 2, cats[0].Habits)
	assert.InDelta(t, (300.0/7.0+100.0/7.0)/2, cats[0].Rate, 1e-9)
	assert.Equal(t, "Learning", cats[1].Category)
	assert.InDelta(t, 100.0/7.0, cats[1].Rate, 1e-9)
}

func TestStatsAndSummary(t *testing.T) {
	l := newLedger(t)
	mark(t, l, 1, 0, 1)
	mark(t, l, 1, 10, 11, 12)

	stats := Stats(l, today)
	require.Len(t, stats, 3)
	assert.True(t, stats[0].DoneNow)
	assert.Equal(t, 2, stats[0].Current)
	assert.Equal(t, 3, stats[0].Longest)
	assert.InDelta(t, 200.0/7.0, stats[0].Rate7, 1e-9)
	assert.InDelta(t, 500.0/30.0, stats[0].Rate30, 1e-9)
	assert.False(t, stats[1].DoneNow)

	s := Summarize(l, today)
	assert.Equal(t, 1, s.Today.Done)
	assert.Equal(t, 2, s.BestStreak)
}

func TestSolvedProblems(t *testing.T) {
	l := types.NewLedger()
	for _, d := range []string{types.DifficultyEasy, types.DifficultyEasy, types.DifficultyHard, types.DifficultyMedium} {
		_, err := l.AddProblem("p", "", d)
		require.NoError(t, err)
	}
	l.Problems[0].Complete(today)
	l.Problems[2].Complete(today)

	assert.Equal(t, Solved{Total: 2, Easy: 1, Hard: 1}, SolvedProblems(l.Problems))
	assert.Equal(t, Solved{}, SolvedProblems(nil))
}

func TestDetailedLogs(t *testing.T) {
	l := newLedger(t)
	require.NoError(t, l.Check(1, today, types.Completion{Notes: "felt good"}))
	require.NoError(t, l.Check(2, today, types.Completion{}))
	require.NoError(t, l.Check(3, today.AddDays(-2), types.Completion{Duration: "1 hour"}))
	require.NoError(t, l.Check(3, today.AddDays(-40), types.Completion{Mode: "🚀"}))

	logs := DetailedLogs(l, today, 30, nil)
	require.Len(t, logs, 2)
	assert.Equal(t, today, logs[0].Day)
	assert.Equal(t, "Run", logs[0].Habit.Name)
	assert.Equal(t, "1 hour", logs[1].Detail.Duration)

	only3 := DetailedLogs(l, today, 60, []int{3})
	require.Len(t, only3, 2)
	assert.Equal(t, today.AddDays(-40), only3[1].Day)
}
