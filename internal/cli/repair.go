package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/bookshelf/internal/app"
	"github.com/MrSnakeDoc/bookshelf/internal/maintenance"
)

func newRepairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Finish or undo interrupted promotions",
		Long: `Done wishlist entries without an acquired book are migrated when they
carry an acquisition channel and reopened otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := loadEnv()
			return withBackend(cmd.Context(), e, func(b *app.Backend) error {
				report, err := maintenance.NewRepairer(b.Store, nil, e.log, 0).Run(cmd.Context())
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "migrated: %d\nreopened: %d\nduplicates removed: %d\n",
					report.Migrated, report.Reopened, report.Duplicates)
				return nil
			})
		},
	}
}
