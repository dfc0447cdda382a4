package cli

import (
	"fmt"

	"buffet/internal/settings/repository"
	"buffet/internal/settings/service"
	"buffet/pkg/validation"

	"github.com/spf13/cobra"
)

func newSeedSettingsCmd() *cobra.Command {
	var lunch, dinner int

	cmd := &cobra.Command{
		Use:   "seed-settings",
		Short: "Set the seat capacity of lunch and dinner sessions",
		Example: `  # Restore the defaults
  buffetctl seed-settings

  # Raise dinner capacity only
  buffetctl seed-settings --dinner 60`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := connect()
			defer cfg.GracefulShutdown()

			svc := service.NewSettingService(repository.NewMongoSettingRepository(cfg), validation.New(cfg.Log), cfg.Log)

			capacity, err := svc.SessionCapacity(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("lunch") || !cmd.Flags().Changed("dinner") {
				capacity.Lunch = lunch
			}
			if cmd.Flags().Changed("dinner") || !cmd.Flags().Changed("lunch") {
				capacity.Dinner = dinner
			}

			saved, err := svc.UpdateSessionCapacity(cmd.Context(), capacity)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session capacity: lunch=%d dinner=%d\n", saved.Lunch, saved.Dinner)
			return nil
		},
	}

	cmd.Flags().IntVar(&lunch, "lunch", 30, "Seats per lunch session")
	cmd.Flags().IntVar(&dinner, "dinner", 40, "Seats per dinner session")
	return cmd
}
