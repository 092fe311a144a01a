package cli

import (
	"github.com/spf13/cobra"

	"github.com/agrivista/api-go/config"
	"github.com/agrivista/api-go/logger"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create or update the database schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			db, err := config.InitDB(cfg.Database)
			if err != nil {
				return err
			}
			if err := config.Migrate(db); err != nil {
				return err
			}
			logger.L.Info("migration finished")
			return nil
		},
	}
}
