package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToday Day = "2025-06-15"

func seededLedger(t *testing.T) *Ledger {
	t.Helper()
	l := DefaultLedger(testToday)
	require.Len(t, l.Habits, 4)
	return l
}

func TestDefaultLedger(t *testing.T) {
	l := DefaultLedger(testToday)

	assert.Equal(t, []int{1, 2, 3, 4}, []int{l.Habits[0].ID, l.Habits[1].ID, l.Habits[2].ID, l.Habits[3].ID})
	assert.Equal(t, "Morning Workout", l.Habits[0].Name)
	assert.Equal(t, Day("2025-05-16"), l.Habits[0].Created)
	assert.Equal(t, Day("2025-06-05"), l.Habits[3].Created)
	assert.Equal(t, Weekdays, l.Habits[2].TargetDays)
	assert.Empty(t, l.Completions)
	assert.NotNil(t, l.Problems)
	assert.NotNil(t, l.Notes)
}

func TestAddHabit(t *testing.T) {
	tests := []struct {
		name    string
		habit   Habit
		wantErr error
		check   func(t *testing.T, l *Ledger, h Habit)
	}{
		{
			name:  "assigns max plus one and today",
			habit: Habit{Name: "  Stretch  ", Category: "Fitness", TargetDays: []string{"Fri", "Mon"}},
			check: func(t *testing.T, l *Ledger, h Habit) {
				assert.Equal(t, 5, h.ID)
				assert.Equal(t, "Stretch", h.Name)
				assert.Equal(t, testToday, h.Created)
				assert.Equal(t, []string{"Mon", "Fri"}, h.TargetDays)
				assert.Equal(t, DefaultIcon, h.Icon)
				assert.Equal(t, DefaultColor, h.Color)
				assert.Len(t, l.Habits, 5)
			},
		},
		{
			name:    "empty name rejected",
			habit:   Habit{Name: "   "},
			wantErr: ErrInvalidName,
		},
		{
			name:    "bad weekday rejected",
			habit:   Habit{Name: "Run", TargetDays: []string{"Someday"}},
			wantErr: ErrInvalidWeekday,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := seededLedger(t)
			h, err := l.AddHabit(tt.habit, testToday)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, l.Habits, 4, "ledger must not change on rejected add")
				return
			}
			require.NoError(t, err)
			tt.check(t, l, h)
		})
	}
}

func TestAddHabitIDAfterDelete(t *testing.T) {
	l := seededLedger(t)
	require.NoError(t, l.DeleteHabit(2))

	h, err := l.AddHabit(Habit{Name: "New"}, testToday)
	require.NoError(t, err)
	assert.Equal(t, 5, h.ID, "IDs come from the max, not the count")
}

func TestDeleteHabitCascades(t *testing.T) {
	l := seededLedger(t)
	require.NoError(t, l.Check(1, "2025-06-14", Completion{}))
	require.NoError(t, l.Check(1, "2025-06-15", Completion{Notes: "x"}))
	require.NoError(t, l.Check(2, "2025-06-15", Completion{}))

	require.NoError(t, l.DeleteHabit(1))

	for day, byHabit := range l.Completions {
		_, ok := byHabit[1]
		assert.False(t, ok, "record for deleted habit remains on %s", day)
	}
	_, ok := l.Completions["2025-06-14"]
	assert.False(t, ok, "day left empty should be dropped")
	assert.True(t, l.IsDone(2, "2025-06-15"))

	assert.ErrorIs(t, l.DeleteHabit(1), ErrHabitNotFound)
}

func TestCheckUncheck(t *testing.T) {
	l := seededLedger(t)

	assert.ErrorIs(t, l.Check(99, testToday, Completion{}), ErrHabitNotFound)
	assert.ErrorIs(t, l.Check(1, "bad", Completion{}), ErrInvalidDate)
	assert.ErrorIs(t, l.Check(1, testToday, Completion{Mode: "?"}), ErrInvalidDetail)
	assert.Empty(t, l.Completions, "rejected checks leave no trace")

	require.NoError(t, l.Check(1, testToday, Completion{Duration: "1 hour"}))
	assert.True(t, l.IsDone(1, testToday))

	require.NoError(t, l.EditDetail(1, testToday, Completion{Duration: "2+ hours"}))
	got, ok := l.Completion(1, testToday)
	require.True(t, ok)
	assert.Equal(t, "2+ hours", got.Duration)

	require.NoError(t, l.Uncheck(1, testToday))
	assert.False(t, l.IsDone(1, testToday))
	assert.Empty(t, l.Completions)

	assert.ErrorIs(t, l.Uncheck(1, testToday), ErrNotDone)
	assert.ErrorIs(t, l.EditDetail(1, testToday, Completion{}), ErrNotDone)
}

func TestLogPast(t *testing.T) {
	l := seededLedger(t)

	require.NoError(t, l.LogPast(2, "2025-06-01", testToday, Completion{Helped: "Yes"}))
	assert.True(t, l.IsDone(2, "2025-06-01"))

	assert.ErrorIs(t, l.LogPast(2, "2025-06-01", testToday, Completion{}), ErrAlreadyDone)
	assert.ErrorIs(t, l.LogPast(2, "2025-06-16", testToday, Completion{}), ErrFutureDate)
	require.NoError(t, l.LogPast(2, testToday, testToday, Completion{}))
}

func TestDays(t *testing.T) {
	l := seededLedger(t)
	require.NoError(t, l.Check(1, "2025-06-03", Completion{}))
	require.NoError(t, l.Check(1, "2025-05-30", Completion{}))
	require.NoError(t, l.Check(2, "2025-06-01", Completion{}))

	assert.Equal(t, []Day{"2025-05-30", "2025-06-01", "2025-06-03"}, l.Days())
}

func TestAddProblem(t *testing.T) {
	l := NewLedger()

	p, err := l.AddProblem("Two Sum", " https://example.com/two-sum ", DifficultyEasy)
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, StatusOpen, p.Status)
	assert.Nil(t, p.CompletedOn)
	assert.Equal(t, "https://example.com/two-sum", p.URL)

	l.Problems[0].ID = 7
	p, err = l.AddProblem("LRU Cache", "", DifficultyMedium)
	require.NoError(t, err)
	assert.Equal(t, 8, p.ID)

	_, err = l.AddProblem("", "", DifficultyHard)
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = l.AddProblem("X", "", "Impossible")
	assert.ErrorIs(t, err, ErrInvalidDifficulty)
	assert.Len(t, l.Problems, 2)
}

func TestSetProblemDone(t *testing.T) {
	l := NewLedger()
	_, err := l.AddProblem("Two Sum", "", DifficultyEasy)
	require.NoError(t, err)

	require.NoError(t, l.SetProblemDone(1, true, "2025-06-10"))
	assert.Equal(t, StatusCompleted, l.Problems[0].Status)
	assert.Equal(t, Day("2025-06-10"), *l.Problems[0].CompletedOn)

	require.NoError(t, l.SetProblemDone(1, true, testToday))
	assert.Equal(t, Day("2025-06-10"), *l.Problems[0].CompletedOn, "already done keeps its date")

	require.NoError(t, l.SetProblemDone(1, false, testToday))
	assert.Equal(t, StatusOpen, l.Problems[0].Status)
	assert.Nil(t, l.Problems[0].CompletedOn)

	assert.ErrorIs(t, l.SetProblemDone(9, true, testToday), ErrProblemNotFound)
}

func TestNotes(t *testing.T) {
	l := NewLedger()

	require.NoError(t, l.UpsertNote("2025-06-01", "Slept badly"))
	require.NoError(t, l.UpsertNote("2025-06-02", "Great run"))
	require.NoError(t, l.UpsertNote("2025-06-01", "Slept badly, still meditated"))
	assert.ErrorIs(t, l.UpsertNote("June 1", "x"), ErrInvalidDate)

	assert.Len(t, l.Notes, 2, "one note per date")
	n, ok := l.Note("2025-06-01")
	require.True(t, ok)
	assert.Equal(t, "Slept badly, still meditated", n.Note)

	all := l.SearchNotes("")
	require.Len(t, all, 2)
	assert.Equal(t, Day("2025-06-02"), all[0].Date, "newest first")

	hits := l.SearchNotes("MEDITATED")
	require.Len(t, hits, 1)
	assert.Equal(t, Day("2025-06-01"), hits[0].Date)
}

func TestCloneIsDeep(t *testing.T) {
	l := seededLedger(t)
	require.NoError(t, l.Check(1, testToday, Completion{Notes: "a"}))
	_, err := l.AddProblem("Two Sum", "", DifficultyEasy)
	require.NoError(t, err)
	l.Problems[0].Complete(testToday)

	c := l.Clone()
	require.NoError(t, c.Check(1, testToday, Completion{Notes: "b"}))
	c.Habits[0].TargetDays[0] = "Changed"
	*c.Problems[0].CompletedOn = "2000-01-01"

	got, _ := l.Completion(1, testToday)
	assert.Equal(t, "a", got.Notes)
	assert.Equal(t, "Mon", l.Habits[0].TargetDays[0])
	assert.Equal(t, testToday, *l.Problems[0].CompletedOn)
}

func TestNormalize(t *testing.T) {
	d := Day("2025-01-01")
	l := &Ledger{
		Habits:   []Habit{{ID: 1, Name: "A"}},
		Problems: []Problem{{ID: 1, Name: "P", CompletedOn: &d}},
	}
	l.Normalize()

	assert.NotNil(t, l.Completions)
	assert.NotNil(t, l.Notes)
	assert.Equal(t, []string{}, l.Habits[0].TargetDays)
	assert.Equal(t, StatusOpen, l.Problems[0].Status)
	assert.Nil(t, l.Problems[0].CompletedOn, "open problems carry no completion date")
}
