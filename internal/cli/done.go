package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/habitlog/pkg/types"
)

// detailFlags collects the optional completion detail.
type detailFlags struct {
	duration string
	mode     string
	notes    string
	helped   string
}

func (d *detailFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.duration, "duration", "", "time spent: "+quoteList(types.Durations))
	cmd.Flags().StringVar(&d.mode, "mode", "", "mood, 1-6 or one of "+quoteList(types.Modes))
	cmd.Flags().StringVar(&d.notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&d.helped, "helped", "", "did it help: "+quoteList(types.HelpedAnswers))
}

// completion returns the detail, mapping a numeric mode to its glyph.
func (d *detailFlags) completion() types.Completion {
	mode := d.mode
	if n, err := strconv.Atoi(mode); err == nil && n >= 1 && n <= len(types.Modes) {
		mode = types.Modes[n-1]
	}
	return types.Completion{
		Duration: d.duration,
		Mode:     mode,
		Notes:    d.notes,
		Helped:   d.helped,
	}
}

func quoteList(items []string) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += ", "
		}
		out += strconv.Quote(it)
	}
	return out
}

func newDoneCmd(a *app) *cobra.Command {
	var detail detailFlags
	cmd := &cobra.Command{
		Use:   "done <habit>",
		Short: "Mark a habit done today",
		Long:  "Mark a habit done today. Running it again replaces today's detail.",
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
			if err := s.MarkDone(cmd.Context(), h.ID, detail.completion()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s done for %s\n", checkMark(true), h.Icon, h.Name, s.Today())
			return nil
		},
	}
	detail.register(cmd)
	return cmd
}

func newUndoCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "undo <habit>",
		Short: "Remove a habit's completion for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session()
			if err != nil {
				return err
			}
			day, err := dayFlag(date, s.Today())
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
			if err := s.Uncheck(cmd.Context(), h.ID, day); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %s for %s\n", h.Icon, h.Name, day)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to clear, YYYY-MM-DD (default: today)")
	return cmd
}

func newLogCmd(a *app) *cobra.Command {
	var (
		date   string
		edit   bool
		detail detailFlags
	)
	cmd := &cobra.Command{
		Use:   "log <habit>",
		Short: "Log a past completion or edit an existing one",
		Long: "Log a completion for a past day. A day that already has a record is refused\n" +
			"unless --edit is given, which replaces the record's detail instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session()
			if err != nil {
				return err
			}
			day, err := dayFlag(date, s.Today())
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
			if edit {
				err = s.EditDetail(cmd.Context(), h.ID, day, detail.completion())
			} else {
				err = s.LogPast(cmd.Context(), h.ID, day, detail.completion())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s %s for %s\n", h.Icon, h.Name, day)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to log, YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&edit, "edit", false, "replace the detail of an existing record")
	detail.register(cmd)
	return cmd
}

// dayFlag parses a --date value, defaulting to today.
func dayFlag(value string, today types.Day) (types.Day, error) {
	if value == "" {
		return today, nil
	}
	return types.ParseDay(value)
}
