package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/bookshelf/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printf(cmd.OutOrStdout(), "%s\n", version.Get())
		},
	}
}
