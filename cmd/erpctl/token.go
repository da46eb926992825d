package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go-erp/internal/middleware"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		claims middleware.Claims
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an access token with JWT_SECRET for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			if claims.UserID == "" || claims.CompanyID == "" || claims.EmployeeID == "" {
				return errors.New("--user, --company and --employee are required")
			}
			token, err := middleware.IssueToken(claims, []byte(secret), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&claims.UserID, "user", "", "user id")
	cmd.Flags().StringVar(&claims.CompanyID, "company", "", "company id")
	cmd.Flags().StringVar(&claims.EmployeeID, "employee", "", "employee id")
	cmd.Flags().StringVar(&claims.Role, "role", "", "role name carried in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	return cmd
}
