package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrivista/api-go/config"
	"github.com/agrivista/api-go/logger"
)

type rootOptions struct {
	configFile string
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "agrivista",
		Short:        "AgriVista API server",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to config file (default ./config.yaml)")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newAdminCmd(opts),
	)
	return cmd
}

func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.SetLevel(cfg.LogLevel)
	logger.L.Debug("config loaded", zap.String("environment", cfg.Environment))
	return cfg, nil
}
