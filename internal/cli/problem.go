package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tailscale/hujson"

	"github.com/mesh-intelligence/habitlog/pkg/analytics"
	"github.com/mesh-intelligence/habitlog/pkg/reconcile"
	"github.com/mesh-intelligence/habitlog/pkg/types"
)

func newProblemCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "problem",
		Short: "Track practice problems",
	}
	cmd.AddCommand(newProblemAddCmd(a))
	cmd.AddCommand(newProblemListCmd(a))
	cmd.AddCommand(newProblemDoneCmd(a))
	cmd.AddCommand(newProblemGridCmd(a))
	cmd.AddCommand(newProblemApplyCmd(a))
	return cmd
}

func newProblemAddCmd(a *app) *cobra.Command {
	var (
		url        string
		difficulty string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an open problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session()
			if err != nil {
				return err
			}
			p, err := s.AddProblem(cmd.Context(), args[0], url, difficulty)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added problem %d: %s (%s)\n", p.ID, p.Name, p.Difficulty)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "problem link")
	cmd.Flags().StringVar(&difficulty, "difficulty", types.DifficultyEasy, strings.Join(types.Difficulties, ", "))
	return cmd
}

func newProblemListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List problems and solved counts",
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
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), l.Problems)
			}

			w := cmd.OutOrStdout()
			solved := analytics.SolvedProblems(l.Problems)
			fmt.Fprintf(w, "Solved %d/%d  (Easy %d, Medium %d, Hard %d)\n\n",
				solved.Total, len(l.Problems), solved.Easy, solved.Medium, solved.Hard)
			if len(l.Problems) == 0 {
				fmt.Fprintln(w, "No problems. Add one with: habitlog problem add <name>")
				return nil
			}
			tbl := newTable()
			tbl.AddRow("ID", "DONE", "NAME", "DIFFICULTY", "COMPLETED", "URL")
			for _, p := range l.Problems {
				tbl.AddRow(p.ID, checkMark(p.Done()), p.Name, p.Difficulty, dayText(p.CompletedOn), p.URL)
			}
			fmt.Fprintln(w, tbl)
			return nil
		},
	}
}

func newProblemDoneCmd(a *app) *cobra.Command {
	var reopen bool
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a problem completed today, or reopen it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", types.ErrProblemNotFound, args[0])
			}
			s, err := a.session()
			if err != nil {
				return err
			}
			if err := s.SetProblemDone(cmd.Context(), id, !reopen); err != nil {
				return err
			}
			state := types.StatusCompleted
			if reopen {
				state = types.StatusOpen
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Problem %d is %s\n", id, state)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reopen, "reopen", false, "mark the problem open again")
	return cmd
}

func newProblemGridCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "grid",
		Short: "Print the editable problem grid as JSON",
		Long: "Print the problem grid as JSON rows. Edit the rows (toggle done, rename,\n" +
			"add, delete, reorder) and feed the file to \"habitlog problem apply\".",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session()
			if err != nil {
				return err
			}
			g, err := s.ProblemGrid(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), g)
		},
	}
}

func newProblemApplyCmd(a *app) *cobra.Command {
	var stableIDs bool
	cmd := &cobra.Command{
		Use:   "apply <file>",
		Short: "Apply an edited problem grid",
		Long: "Reconcile an edited grid (a file, or - for stdin) against the current problems.\n" +
			"By default problems are renumbered by row position; --stable-ids keeps the\n" +
			"ids of existing rows and numbers new rows after the highest id.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			post, err := readGrid(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			s, err := a.session()
			if err != nil {
				return err
			}
			pre, err := s.ProblemGrid(cmd.Context())
			if err != nil {
				return err
			}
			opts := reconcile.Options{Identity: reconcile.Positional}
			if stableIDs {
				opts.Identity = reconcile.Stable
			}
			res, err := s.ApplyProblemGrid(cmd.Context(), pre, post, opts)
			if err != nil {
				return err
			}
			if !res.Changed {
				fmt.Fprintln(cmd.OutOrStdout(), "No changes")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated problems: %d rows (%s ids)\n", len(res.Problems), opts.Identity)
			return nil
		},
	}
	cmd.Flags().BoolVar(&stableIDs, "stable-ids", false, "keep existing problem ids instead of renumbering by position")
	return cmd
}

// readGrid decodes a grid from path, or from stdin when path is "-".
// Comments and trailing commas are accepted.
func readGrid(stdin io.Reader, path string) (reconcile.Grid, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading grid: %w", err)
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid grid JSON: %w", err)
	}
	var g reconcile.Grid
	if err := json.Unmarshal(std, &g); err != nil {
		return nil, fmt.Errorf("invalid grid JSON: %w", err)
	}
	return g, nil
}
