package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newNoteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Write and search daily notes",
	}
	cmd.AddCommand(newNoteSetCmd(a))
	cmd.AddCommand(newNoteShowCmd(a))
	cmd.AddCommand(newNoteListCmd(a))
	return cmd
}

func newNoteSetCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "set <text>...",
		Short: "Set the note for a day",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session()
			if err != nil {
				return err
			}
			day, err := dayFlag(date, s.Today())
			if err != nil {
				return err
			}
			if err := s.WriteNote(cmd.Context(), day, strings.Join(args, " ")); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved note for %s\n", day)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day of the note, YYYY-MM-DD (default: today)")
	return cmd
}

func newNoteShowCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the note for a day",
		Args:  cobra.NoArgs,
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
			n, ok := l.Note(day)
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), n)
			}
			if !ok || n.Note == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "No note for %s\n", day)
				return nil
			}
			printTitle(cmd.OutOrStdout(), day.String())
			fmt.Fprintln(cmd.OutOrStdout(), n.Note)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day of the note, YYYY-MM-DD (default: today)")
	return cmd
}

func newNoteListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [query]",
		Short: "List notes, newest first, optionally filtered by text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session()
			if err != nil {
				return err
			}
			l, err := s.Load(cmd.Context())
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			notes := l.SearchNotes(query)
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), notes)
			}
			if len(notes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No notes found")
				return nil
			}
			tbl := newTable()
			for _, n := range notes {
				tbl.AddRow(faintStyle.Sprint(n.Date.String()), n.Note)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		},
	}
}
