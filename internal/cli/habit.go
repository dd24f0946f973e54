package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/habitlog/pkg/analytics"
	"github.com/mesh-intelligence/habitlog/pkg/types"
)

type habitView struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Icon       string    `json:"icon"`
	Category   string    `json:"category"`
	TargetDays []string  `json:"target_days"`
	Color      string    `json:"color"`
	Created    types.Day `json:"created"`
	DoneToday  bool      `json:"done_today"`
	Streak     int       `json:"streak"`
	Longest    int       `json:"longest_streak"`
	Rate7      float64   `json:"rate_7d"`
	Rate30     float64   `json:"rate_30d"`
}

func newHabitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Add, list, and delete habits",
	}
	cmd.AddCommand(newHabitAddCmd(a))
	cmd.AddCommand(newHabitListCmd(a))
	cmd.AddCommand(newHabitDeleteCmd(a))
	return cmd
}

func newHabitAddCmd(a *app) *cobra.Command {
	var (
		icon     string
		category string
		days     string
		colorHex string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a habit",
		Long: "Add a habit. Categories offered: " + strings.Join(types.Categories, ", ") + ".\n" +
			"Target days are a comma-separated list of " + strings.Join(types.Weekdays, ", ") + ".",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session()
			if err != nil {
				return err
			}
			h, err := s.AddHabit(cmd.Context(), types.Habit{
				Name:       args[0],
				Icon:       icon,
				Category:   category,
				TargetDays: types.SplitTargetDays(days),
				Color:      colorHex,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added habit %d: %s %s\n", h.ID, h.Icon, h.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&icon, "icon", types.DefaultIcon, "icon glyph")
	cmd.Flags().StringVar(&category, "category", "Health", "category")
	cmd.Flags().StringVar(&days, "days", strings.Join(types.Weekdays, ","), "target weekdays")
	cmd.Flags().StringVar(&colorHex, "color", types.DefaultColor, "display color")
	return cmd
}

func newHabitListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List habits with streaks and completion rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session()
			if err != nil {
				return err
			}
			l, err := s.Load(cmd.Context())
			if err != nil {
				return err
			}
			stats := analytics.Stats(l, s.Today())

			if a.flags.jsonMode {
				views := make([]habitView, 0, len(stats))
				for _, st := range stats {
					views = append(views, habitView{
						ID:         st.Habit.ID,
						Name:       st.Habit.Name,
						Icon:       st.Habit.Icon,
						Category:   st.Habit.Category,
						TargetDays: st.Habit.TargetDays,
						Color:      st.Habit.Color,
						Created:    st.Habit.Created,
						DoneToday:  st.DoneNow,
						Streak:     st.Current,
						Longest:    st.Longest,
						Rate7:      st.Rate7,
						Rate30:     st.Rate30,
					})
				}
				return printJSON(cmd.OutOrStdout(), views)
			}

			if len(stats) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No habits. Add one with: habitlog habit add <name>")
				return nil
			}
			tbl := newTable()
			tbl.AddRow("ID", "TODAY", "HABIT", "CATEGORY", "DAYS", "STREAK", "BEST", "7D", "30D")
			for _, st := range stats {
				tbl.AddRow(st.Habit.ID, checkMark(st.DoneNow), st.Habit.Icon+" "+st.Habit.Name,
					st.Habit.Category, st.Habit.JoinTargetDays(),
					streakBadge(st.Current), fmt.Sprintf("%dd", st.Longest), pct(st.Rate7), pct(st.Rate30))
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		},
	}
}

func newHabitDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <habit>",
		Short: "Delete a habit and its whole history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session()
			if err != nil {
				return err
			}
			l, err := s.Load(cmd.Context())
			if err != nil {
				return err
			}
			h, err := resolveHabit(l, args[0])
			if err != nil {
				return err
			}
			if err := s.DeleteHabit(cmd.Context(), h.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted habit %d: %s\n", h.ID, h.Name)
			return nil
		},
	}
}

// resolveHabit finds a habit by numeric ID or, failing that, by name.
func resolveHabit(l *types.Ledger, ref string) (types.Habit, error) {
	if id, err := strconv.Atoi(strings.TrimSpace(ref)); err == nil {
		if h, ok := l.Habit(id); ok {
			return h, nil
		}
	}
	if h, ok := l.HabitByName(ref); ok {
		return h, nil
	}
	return types.Habit{}, fmt.Errorf("%w: %q", types.ErrHabitNotFound, ref)
}
