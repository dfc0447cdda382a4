package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"buffet/pkg/config"
	"buffet/pkg/middleware"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		p     middleware.Principal
		admin bool
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token signed with AUTH_JWT_SECRET",
		Example: `  buffetctl token --user ops-1 --email ops@example.com --admin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv(config.EnvAuthJWTSecret)
			if secret == "" {
				return errors.New(config.EnvAuthJWTSecret + " is not set")
			}
			if admin {
				p.Role = middleware.RoleAdmin
			}

			token, err := middleware.SignToken(secret, p, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&p.UserID, "user", "", "Subject (user id)")
	cmd.Flags().StringVar(&p.Email, "email", "", "Email claim")
	cmd.Flags().StringVar(&p.Name, "name", "", "Full name claim")
	cmd.Flags().BoolVar(&admin, "admin", false, "Grant the admin role")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
