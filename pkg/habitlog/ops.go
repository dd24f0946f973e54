package habitlog

import (
	"context"

	"github.com/mesh-intelligence/habitlog/pkg/reconcile"
	"github.com/mesh-intelligence/habitlog/pkg/types"
)

// AddHabit creates a habit dated today and returns it as stored.
func (s *Session) AddHabit(ctx context.Context, h types.Habit) (types.Habit, error) {
	var added types.Habit
	err := s.Mutate(ctx, func(l *types.Ledger) error {
		var err error
		added, err = l.AddHabit(h, s.Today())
		return err
	})
	return added, err
}

// DeleteHabit removes a habit and its whole completion history.
func (s *Session) DeleteHabit(ctx context.Context, id int) error {
	return s.Mutate(ctx, func(l *types.Ledger) error {
		return l.DeleteHabit(id)
	})
}

// MarkDone records the habit as done today, replacing any existing detail.
func (s *Session) MarkDone(ctx context.Context, id int, detail types.Completion) error {
	return s.Mutate(ctx, func(l *types.Ledger) error {
		return l.Check(id, s.Today(), detail)
	})
}

// LogPast records a completion for a past day that has none yet.
func (s *Session) LogPast(ctx context.Context, id int, day types.Day, detail types.Completion) error {
	return s.Mutate(ctx, func(l *types.Ledger) error {
		return l.LogPast(id, day, s.Today(), detail)
	})
}

// EditDetail replaces the detail of an existing completion.
func (s *Session) EditDetail(ctx context.Context, id int, day types.Day, detail types.Completion) error {
	return s.Mutate(ctx, func(l *types.Ledger) error {
		return l.EditDetail(id, day, detail)
	})
}

// Uncheck removes the completion for the habit on day.
func (s *Session) Uncheck(ctx context.Context, id int, day types.Day) error {
	return s.Mutate(ctx, func(l *types.Ledger) error {
		return l.Uncheck(id, day)
	})
}

// AddProblem appends an open practice problem.
func (s *Session) AddProblem(ctx context.Context, name, url, difficulty string) (types.Problem, error) {
	var added types.Problem
	err := s.Mutate(ctx, func(l *types.Ledger) error {
		var err error
		added, err = l.AddProblem(name, url, difficulty)
		return err
	})
	return added, err
}

// SetProblemDone completes a problem today or reopens it.
func (s *Session) SetProblemDone(ctx context.Context, id int, done bool) error {
	return s.Mutate(ctx, func(l *types.Ledger) error {
		return l.SetProblemDone(id, done, s.Today())
	})
}

// ProblemGrid returns the editable grid snapshot of the current problems.
func (s *Session) ProblemGrid(ctx context.Context) (reconcile.Grid, error) {
	l, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return reconcile.Snapshot(l.Problems), nil
}

// ApplyProblemGrid reconciles an edited grid against the snapshot it was
// edited from and stores the resulting problems. An unchanged grid is not
// persisted.
func (s *Session) ApplyProblemGrid(ctx context.Context, pre, post reconcile.Grid, opts reconcile.Options) (reconcile.Result, error) {
	res, err := reconcile.Reconcile(pre, post, s.Today(), opts)
	if err != nil || !res.Changed {
		return res, err
	}
	err = s.Mutate(ctx, func(l *types.Ledger) error {
		l.Problems = res.Problems
		return nil
	})
	if err != nil {
		return reconcile.Result{}, err
	}
	return res, nil
}

// WriteNote sets the daily note for day.
func (s *Session) WriteNote(ctx context.Context, day types.Day, text string) error {
	return s.Mutate(ctx, func(l *types.Ledger) error {
		return l.UpsertNote(day, text)
	})
}
