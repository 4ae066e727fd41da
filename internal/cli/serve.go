package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/bookshelf/internal/app"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := loadEnv()
			a, err := app.New(cmd.Context(), e.cfg, e.log)
			if err != nil {
				return err
			}
			return a.Run()
		},
	}
}
