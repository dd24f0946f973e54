// Package reconcile turns an edited grid snapshot of the problem list back
// into canonical Problem records by diffing it against the snapshot taken
// before editing.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/habitlog/pkg/types"
)

// Row is one line of the editable problem grid. ID is carried so that the
// Stable identity mode can match rows; Positional mode ignores it.
type Row struct {
	ID          int        `json:"id,omitempty"`
	Done        bool       `json:"done"`
	Name        string     `json:"name"`
	Difficulty  string     `json:"difficulty"`
	URL         string     `json:"url"`
	CompletedOn *types.Day `json:"completed_on"`
}

// Grid is an ordered grid snapshot.
type Grid []Row

// Identity selects how reconciled problems get their IDs.
type Identity int

const (
	// Positional assigns id = row index + 1 on every reconciliation, so a
	// delete or reorder renumbers every later row.
	Positional Identity = iota
	// Stable keeps the ID of every row whose ID appears in the pre-edit
	// snapshot and allocates max+1 IDs for new rows.
	Stable
)

func (i Identity) String() string {
	switch i {
	case Positional:
		return "positional"
	case Stable:
		return "stable"
	default:
		return fmt.Sprintf("identity(%d)", int(i))
	}
}

// Options control Reconcile.
type Options struct {
	Identity Identity
}

// Result is the outcome of Reconcile. When Changed is false the snapshots
// were equal, Problems is nil, and nothing should be persisted.
type Result struct {
	Problems []types.Problem
	Changed  bool
}

// Snapshot renders problems as a grid, in order.
func Snapshot(problems []types.Problem) Grid {
	g := make(Grid, 0, len(problems))
	for _, p := range problems {
		r := Row{
			ID:         p.ID,
			Done:       p.Done(),
			Name:       p.Name,
			Difficulty: p.Difficulty,
			URL:        p.URL,
		}
		if p.CompletedOn != nil {
			d := *p.CompletedOn
			r.CompletedOn = &d
		}
		g = append(g, r)
	}
	return g
}

// Equal reports whether two grids have the same rows in the same order.
// IDs are compared only when withIDs is set.
func (g Grid) Equal(other Grid, withIDs bool) bool {
	if len(g) != len(other) {
		return false
	}
	for i := range g {
		if !g[i].equal(other[i], withIDs) {
			return false
		}
	}
	return true
}

func (r Row) equal(o Row, withIDs bool) bool {
	if withIDs && r.ID != o.ID {
		return false
	}
	if r.Done != o.Done || r.Name != o.Name ||
		r.Difficulty != o.Difficulty || r.URL != o.URL {
		return false
	}
	switch {
	case r.CompletedOn == nil && o.CompletedOn == nil:
		return true
	case r.CompletedOn == nil || o.CompletedOn == nil:
		return false
	default:
		return *r.CompletedOn == *o.CompletedOn
	}
}

// Reconcile converts the edited grid post into Problems, using pre (the
// snapshot shown before editing) to detect done-flag transitions:
//
//   - false to true: completed today
//   - true to false: open, no completion date
//   - true to true: completed, edited row's completion date kept (null stays absent)
//   - false to false: open
//
// Rows in pre but not in post are dropped. Rows in post with no counterpart
// in pre are treated as previously not done. Every post row must have a
// non-empty name and a known difficulty; otherwise an error is returned and
// no Problems are produced.
func Reconcile(pre, post Grid, today types.Day, opts Options) (Result, error) {
	if pre.Equal(post, opts.Identity == Stable) {
		return Result{}, nil
	}
	if err := validate(post); err != nil {
		return Result{}, err
	}

	var problems []types.Problem
	switch opts.Identity {
	case Stable:
		problems = reconcileStable(pre, post, today)
	default:
		problems = reconcilePositional(pre, post, today)
	}
	return Result{Problems: problems, Changed: true}, nil
}

func reconcilePositional(pre, post Grid, today types.Day) []types.Problem {
	out := make([]types.Problem, 0, len(post))
	for i, row := range post {
		var prior *Row
		if i < len(pre) {
			prior = &pre[i]
		}
		out = append(out, build(i+1, row, prior, today))
	}
	return out
}

func reconcileStable(pre, post Grid, today types.Day) []types.Problem {
	byID := make(map[int]*Row, len(pre))
	next := 1
	for i := range pre {
		if pre[i].ID <= 0 {
			continue
		}
		byID[pre[i].ID] = &pre[i]
		if pre[i].ID >= next {
			next = pre[i].ID + 1
		}
	}

	used := make(map[int]bool, len(post))
	out := make([]types.Problem, 0, len(post))
	for _, row := range post {
		prior, ok := byID[row.ID]
		id := row.ID
		if !ok || used[id] {
			prior = nil
			id = next
			next++
		}
		used[id] = true
		out = append(out, build(id, row, prior, today))
	}
	return out
}

func build(id int, row Row, prior *Row, today types.Day) types.Problem {
	p := types.Problem{
		ID:         id,
		Name:       strings.TrimSpace(row.Name),
		URL:        strings.TrimSpace(row.URL),
		Difficulty: row.Difficulty,
	}
	switch {
	case !row.Done:
		p.Reopen()
	case prior == nil || !prior.Done:
		p.Complete(today)
	default:
		p.Status = types.StatusCompleted
		if row.CompletedOn != nil {
			d := *row.CompletedOn
			p.CompletedOn = &d
		}
	}
	return p
}

func validate(g Grid) error {
	for i, row := range g {
		if strings.TrimSpace(row.Name) == "" {
			return fmt.Errorf("row %d: %w", i+1, types.ErrInvalidName)
		}
		if err := types.ValidateDifficulty(row.Difficulty); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		if row.CompletedOn != nil && !row.CompletedOn.Valid() {
			return fmt.Errorf("row %d: %w: %q", i+1, types.ErrInvalidDate, *row.CompletedOn)
		}
	}
	return nil
}
