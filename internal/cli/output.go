package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/mesh-intelligence/habitlog/pkg/types"
)

var (
	titleStyle = color.New(color.Bold, color.Underline)
	faintStyle = color.New(color.Faint)
	doneStyle  = color.New(color.FgGreen)
	warnStyle  = color.New(color.FgYellow)
)

// newTable returns a table with the column layout used by every listing.
func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	tbl.Separator = "  "
	return tbl
}

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Sprint(title))
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// checkMark renders a done flag.
func checkMark(done bool) string {
	if done {
		return doneStyle.Sprint("✔")
	}
	return faintStyle.Sprint("·")
}

// streakBadge renders a streak length, highlighted once it reaches a week.
func streakBadge(n int) string {
	s := fmt.Sprintf("%dd", n)
	switch {
	case n >= 7:
		return doneStyle.Sprint("🔥 " + s)
	case n == 0:
		return faintStyle.Sprint(s)
	default:
		return s
	}
}

func pct(f float64) string {
	return fmt.Sprintf("%.0f%%", f)
}

// bar renders a fraction in [0,1] as a ten-cell bar.
func bar(fraction float64) string {
	n := int(fraction*10 + 0.5)
	if n < 0 {
		n = 0
	}
	if n > 10 {
		n = 10
	}
	return strings.Repeat("█", n) + faintStyle.Sprint(strings.Repeat("░", 10-n))
}

// detailText summarizes a completion detail on one line.
func detailText(c types.Completion) string {
	var parts []string
	if c.Duration != "" {
		parts = append(parts, "⏱️ "+c.Duration)
	}
	if c.Mode != "" {
		parts = append(parts, c.Mode)
	}
	if c.Helped != "" {
		parts = append(parts, "helped: "+c.Helped)
	}
	if c.Notes != "" {
		parts = append(parts, "📝 "+c.Notes)
	}
	return strings.Join(parts, "  ")
}

func dayText(d *types.Day) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
