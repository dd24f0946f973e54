package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/habitlog/pkg/analytics"
)

type statusView struct {
	Session     string `json:"session"`
	DataFile    string `json:"data_file"`
	Remote      string `json:"remote"`
	Source      string `json:"source"`
	Today       string `json:"today"`
	Done        int    `json:"done"`
	Total       int    `json:"total"`
	BestStreak  int    `json:"best_streak"`
	WeekPercent int    `json:"week_percent"`
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show storage status and today's progress",
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
			sum := analytics.Summarize(l, s.Today())
			out := s.Outcome()

			remote := "not configured"
			switch {
			case out.RemoteConfigured && out.RemoteUnavailable():
				remote = fmt.Sprintf("%s (unavailable)", a.cfg.Remote.Backend)
			case out.RemoteConfigured:
				remote = a.cfg.Remote.Backend
			}

			v := statusView{
				Session:     s.ID(),
				DataFile:    s.LocalPath(),
				Remote:      remote,
				Source:      out.Source.String(),
				Today:       s.Today().String(),
				Done:        sum.Today.Done,
				Total:       sum.Today.Total,
				BestStreak:  sum.BestStreak,
				WeekPercent: sum.WeekPercent,
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), v)
			}

			tbl := newTable()
			tbl.AddRow("session:", v.Session)
			tbl.AddRow("data file:", v.DataFile)
			tbl.AddRow("remote:", v.Remote)
			tbl.AddRow("loaded from:", v.Source)
			tbl.AddRow("today:", fmt.Sprintf("%s  %d/%d %s", v.Today, v.Done, v.Total, bar(sum.Today.Fraction)))
			tbl.AddRow("best streak:", streakBadge(v.BestStreak))
			tbl.AddRow("last 7 days:", fmt.Sprintf("%d%%", v.WeekPercent))
			fmt.Fprintln(cmd.OutOrStdout(), tbl)
			return nil
		},
	}
}
