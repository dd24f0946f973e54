package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errResetUnconfirmed = errors.New("reset deletes all local data; rerun with --yes to confirm")

func newResetCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the local data file and start over with the default habits",
		Long: "Delete the local data file. The next command seeds the default habits again.\n" +
			"A configured remote backend is not cleared.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errResetUnconfirmed
			}
			s, err := a.session()
			if err != nil {
				return err
			}
			if err := s.Reset(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", s.LocalPath())
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
