// Package cli implements buffetctl, the operator command line.
package cli

import (
	"buffet/pkg/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const ServiceName = "buffetctl"

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buffetctl",
		Short: "Operate the buffet reservation backend",
		Long: `buffetctl runs maintenance tasks against the reservation database:
schema migrations, capacity settings, booking exports and operator tokens.

Configuration is read from the environment and an optional .env file.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newMigrateCmd(),
		newSeedSettingsCmd(),
		newExportBookingsCmd(),
		newTokenCmd(),
	)
	return cmd
}

// connect loads configuration and opens the Mongo client. Callers must
// call GracefulShutdown on the result.
func connect() *config.Config {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	return cfg
}
