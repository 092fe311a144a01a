package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agrivista/api-go/config"
	"github.com/agrivista/api-go/controllers"
	"github.com/agrivista/api-go/models"
)

func newAdminCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "manage admin accounts",
	}
	cmd.AddCommand(newAdminCreateCmd(opts))
	return cmd
}

func newAdminCreateCmd(opts *rootOptions) *cobra.Command {
	req := &controllers.AdminSignupRequest{}
	var super bool
	cmd := &cobra.Command{
		Use:   "create",
		Short: "create an admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				req.Password = os.Getenv("ADMIN_PASSWORD")
			}
			if req.Email == "" || len(req.Password) < 8 {
				return fmt.Errorf("--email and a password of at least 8 characters (--password or ADMIN_PASSWORD) are required")
			}
			if req.FullName == "" {
				req.FullName = req.Email
			}
			if super {
				req.Role = models.AdminRoleSuperAdmin
			}

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
			admin, err := controllers.CreateAdmin(db.WithContext(cmd.Context()), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (id %d)\n", admin.Role, admin.Email, admin.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&req.FullName, "name", "", "admin full name")
	cmd.Flags().StringVar(&req.Password, "password", "", "admin password")
	cmd.Flags().StringSliceVar(&req.Permissions, "permission", nil, "granted permission, repeatable")
	cmd.Flags().BoolVar(&super, "superadmin", false, "create a superadmin")
	return cmd
}
