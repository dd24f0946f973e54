package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/habitlog/pkg/habitlog"
)

const modulePath = "github.com/mesh-intelligence/habitlog"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the habitlog version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "habitlog v%s\nmodule: %s\n", habitlog.Version, modulePath)
			return nil
		},
	}
}
