package main

import (
	"github.com/spf13/cobra"

	"github.com/ghuser/stockkeeper/migrations"
	"github.com/ghuser/stockkeeper/pkg/migrator"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|status]",
		Short: "Apply or inspect the inventory schema migrations",
		Long: `Apply or inspect the inventory schema migrations.

With no argument, or with "up", every pending migration is applied.
"status" lists each migration with the time it was applied.`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}
			return opts.withBackend(cmd.Context(), func(b *backend) error {
				if b.DB == nil {
					return usageErrorf("migrate needs a PostgreSQL backend")
				}
				if action == "status" {
					return migrator.Status(cmd.Context(), b.DB.DB(), migrations.Inventory(), cmd.OutOrStdout())
				}
				if err := migrator.Up(cmd.Context(), b.DB.DB(), migrations.Inventory()); err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]string{"status": "up to date"})
			})
		},
	}
	return cmd
}
