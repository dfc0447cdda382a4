package cli

import (
	"context"
	"time"

	mongoMigration "buffet/internal/migrations/mongo"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create collections, JSON schema validators and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			cfg := connect()
			defer cfg.GracefulShutdown()

			db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
			return mongoMigration.RunMigration(ctx, db, cfg.Log)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall migration timeout")
	return cmd
}
