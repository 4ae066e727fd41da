package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/bookshelf/internal/app"
	"github.com/MrSnakeDoc/bookshelf/internal/logger"
	"github.com/MrSnakeDoc/bookshelf/internal/transfer"
	"github.com/MrSnakeDoc/bookshelf/internal/utils"
)

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole collection as YAML",
		Long:  `Export the wishlist and the acquired books as YAML, to stdout or to a file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := loadEnv()
			return withBackend(cmd.Context(), e, func(b *app.Backend) error {
				w := cmd.OutOrStdout()
				if output != "" {
					f, err := os.Create(output)
					if err != nil {
						return err
					}
					defer utils.MustClose(f, e.log, output)
					w = f
				}

				doc, err := transfer.New(b.Store, nil).Export(cmd.Context(), w)
				if err != nil {
					return err
				}
				e.log.Info("export finished",
					logger.Int("wishlist", len(doc.Wishlist)),
					logger.Int("acquired", len(doc.Acquired)),
					logger.String("file", output))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the whole collection with a YAML export",
		Long: `Import a YAML export. Every existing record is replaced.
Missing ids are generated; a file that fails validation leaves the store untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := loadEnv()
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer utils.Close(f)

			return withBackend(cmd.Context(), e, func(b *app.Backend) error {
				ds, err := transfer.New(b.Store, nil).Import(cmd.Context(), f)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "imported %d wishlist entries and %d books\n", len(ds.Wishlist), len(ds.Acquired))
				return nil
			})
		},
	}
}
