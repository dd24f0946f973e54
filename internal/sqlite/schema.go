package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/habitlog/pkg/types"
)

// Table names.
const (
	HabitsTable      = "habits"
	CompletionsTable = "completions"
	ProblemsTable    = "problems"
	DailyNotesTable  = "daily_notes"
)

// ledgerTable maps one remote table to its slice of the Ledger. Columns
// are declared without types so that values written by other tools keep
// their storage class and are coerced on decode.
type ledgerTable struct {
	name     string
	columns  []string
	optional bool
	decode   func(l *types.Ledger, rows []row) error
	encode   func(l *types.Ledger) [][]any
}

var ledgerTables = []ledgerTable{
	{
		name:    HabitsTable,
		columns: []string{"id", "name", "icon", "category", "target_days", "color", "created"},
		decode:  decodeHabits,
		encode:  encodeHabits,
	},
	{
		name:    CompletionsTable,
		columns: []string{"date", "habit_id", "duration", "mode", "notes", "helped"},
		decode:  decodeCompletions,
		encode:  encodeCompletions,
	},
	{
		name:    ProblemsTable,
		columns: []string{"id", "name", "url", "difficulty", "status", "completed_on"},
		decode:  decodeProblems,
		encode:  encodeProblems,
	},
	{
		name:     DailyNotesTable,
		columns:  []string{"date", "note"},
		optional: true,
		decode:   decodeNotes,
		encode:   encodeNotes,
	},
}

func (t ledgerTable) createSQL() string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.name, joinColumns(t.columns))
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func hasTable(ctx context.Context, q querier, name string) (bool, error) {
	var found string
	err := q.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", name, err)
	}
	return true, nil
}

// row is one table row keyed by column name. Columns absent from the table
// read as nil.
type row map[string]any

// selectAll returns every row of table in insertion order.
func selectAll(ctx context.Context, q querier, table string) ([]row, error) {
	rows, err := q.QueryContext(ctx, "SELECT * FROM "+table+" ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}

	var out []row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		r := make(row, len(cols))
		for i, c := range cols {
			r[strings.ToLower(c)] = vals[i]
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", table, err)
	}
	return out, nil
}

// insertRows inserts records into table with a single prepared statement.
func insertRows(ctx context.Context, tx *sql.Tx, table string, columns []string, records [][]any) error {
	if len(records) == 0 {
		return nil
	}
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		joinColumns(columns),
		joinColumns(placeholders),
	)

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for i, args := range records {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting row %d into %s: %w", i+1, table, err)
		}
	}
	return nil
}

// joinColumns joins column names with commas.
func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
