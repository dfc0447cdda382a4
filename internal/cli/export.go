package cli

import (
	"fmt"
	"io"
	"os"

	adminservice "buffet/internal/admin/service"
	bookingsrepo "buffet/internal/bookings/repository"
	profilesrepo "buffet/internal/profiles/repository"
	profilesservice "buffet/internal/profiles/service"
	"buffet/pkg/locale"
	"buffet/pkg/validation"

	"github.com/spf13/cobra"
)

func newExportBookingsCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export-bookings",
		Short: "Write the latest bookings as CSV",
		Example: `  # Write to the dated default file
  buffetctl export-bookings

  # Stream to stdout
  buffetctl export-bookings --out -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := connect()
			defer cfg.GracefulShutdown()

			profiles := profilesservice.NewProfileService(
				profilesrepo.NewMongoProfileRepository(cfg),
				validation.New(cfg.Log),
				locale.PhoneRegions(cfg.RestaurantTimezone),
				cfg.Log,
			)
			svc := adminservice.NewAdminService(bookingsrepo.NewMongoBookingRepository(cfg), profiles, nil, nil, cfg.Location, cfg.Log)

			if out == "" {
				out = adminservice.ExportFilename(cfg.Now())
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			if err := svc.ExportCSV(cmd.Context(), w); err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Bookings written to %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", `Output file, "-" for stdout (default bookings-YYYY-MM-DD.csv)`)
	return cmd
}
