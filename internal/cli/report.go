package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/habitlog/pkg/analytics"
	"github.com/mesh-intelligence/habitlog/pkg/types"
)

type reportView struct {
	Today       types.Day        `json:"today"`
	Days        int              `json:"days"`
	Done        int              `json:"done"`
	Total       int              `json:"total"`
	BestStreak  int              `json:"best_streak"`
	WeekPercent int              `json:"week_percent"`
	Daily       []dayView        `json:"daily"`
	Categories  []categoryView   `json:"categories"`
	Solved      analytics.Solved `json:"solved"`
	Logs        []logView        `json:"logs"`
}

type dayView struct {
	Day      types.Day `json:"day"`
	Done     int       `json:"done"`
	Total    int       `json:"total"`
	Fraction float64   `json:"fraction"`
}

type categoryView struct {
	Category string  `json:"category"`
	Habits   int     `json:"habits"`
	Rate     float64 `json:"rate"`
}

type logView struct {
	Day    types.Day        `json:"day"`
	Habit  string           `json:"habit"`
	Detail types.Completion `json:"detail"`
}

func newReportCmd(a *app) *cobra.Command {
	var (
		days   int
		habits []string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show progress rollups and detailed logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1, got %d", days)
			}
			s, err := a.session()
			if err != nil {
				return err
			}
			l, err := s.Load(cmd.Context())
			if err != nil {
				return err
			}
			var ids []int
			for _, ref := range habits {
				h, err := resolveHabit(l, ref)
				if err != nil {
					return err
				}
				ids = append(ids, h.ID)
			}
			v := buildReport(l, s.Today(), days, ids)
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), v)
			}
			printReport(cmd.OutOrStdout(), l, v)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "window length in days")
	cmd.Flags().StringSliceVar(&habits, "habit", nil, "restrict detailed logs to these habits")
	return cmd
}

func buildReport(l *types.Ledger, today types.Day, days int, ids []int) reportView {
	sum := analytics.Summarize(l, today)
	v := reportView{
		Today:       today,
		Days:        days,
		Done:        sum.Today.Done,
		Total:       sum.Today.Total,
		BestStreak:  sum.BestStreak,
		WeekPercent: sum.WeekPercent,
		Solved:      analytics.SolvedProblems(l.Problems),
		Daily:       []dayView{},
		Categories:  []categoryView{},
		Logs:        []logView{},
	}
	for _, d := range analytics.DailyFractions(l, today, days) {
		v.Daily = append(v.Daily, dayView{Day: d.Day, Done: d.Done, Total: d.Total, Fraction: d.Fraction})
	}
	for _, c := range analytics.CategoryRates(l, today, days) {
		v.Categories = append(v.Categories, categoryView{Category: c.Category, Habits: c.Habits, Rate: c.Rate})
	}
	for _, e := range analytics.DetailedLogs(l, today, days, ids) {
		v.Logs = append(v.Logs, logView{Day: e.Day, Habit: e.Habit.Name, Detail: e.Detail})
	}
	return v
}

func printReport(w io.Writer, l *types.Ledger, v reportView) {
	printTitle(w, "Summary")
	tbl := newTable()
	tbl.AddRow("today:", fmt.Sprintf("%d/%d", v.Done, v.Total))
	tbl.AddRow("best streak:", streakBadge(v.BestStreak))
	tbl.AddRow("last 7 days:", fmt.Sprintf("%d%%", v.WeekPercent))
	tbl.AddRow("problems solved:", fmt.Sprintf("%d  (Easy %d, Medium %d, Hard %d)",
		v.Solved.Total, v.Solved.Easy, v.Solved.Medium, v.Solved.Hard))
	fmt.Fprintln(w, tbl)

	fmt.Fprintln(w)
	printTitle(w, "Habits")
	tbl = newTable()
	tbl.AddRow("HABIT", "STREAK", "BEST", "7D", "30D")
	for _, st := range analytics.Stats(l, v.Today) {
		tbl.AddRow(st.Habit.Icon+" "+st.Habit.Name, streakBadge(st.Current),
			fmt.Sprintf("%dd", st.Longest), pct(st.Rate7), pct(st.Rate30))
	}
	fmt.Fprintln(w, tbl)

	if len(v.Categories) > 0 {
		fmt.Fprintln(w)
		printTitle(w, fmt.Sprintf("Categories (%d days)", v.Days))
		tbl = newTable()
		for _, c := range v.Categories {
			tbl.AddRow(c.Category, fmt.Sprintf("%d habits", c.Habits), pct(c.Rate))
		}
		fmt.Fprintln(w, tbl)
	}

	fmt.Fprintln(w)
	printTitle(w, fmt.Sprintf("Daily completion (%d days)", v.Days))
	tbl = newTable()
	for i := len(v.Daily) - 1; i >= 0; i-- {
		d := v.Daily[i]
		tbl.AddRow(d.Day.String(), bar(d.Fraction), fmt.Sprintf("%d/%d", d.Done, d.Total))
	}
	fmt.Fprintln(w, tbl)

	fmt.Fprintln(w)
	printTitle(w, "Detailed logs")
	if len(v.Logs) == 0 {
		fmt.Fprintln(w, faintStyle.Sprint("no detailed logs in this window"))
		return
	}
	tbl = newTable()
	for _, e := range v.Logs {
		tbl.AddRow(e.Day.String(), e.Habit, detailText(e.Detail))
	}
	fmt.Fprintln(w, tbl)
}
