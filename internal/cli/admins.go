package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/genix/genix-site/internal/service"
)

func newCreateCmd(a *app) *cobra.Command {
	var (
		in            service.CreateAdminInput
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if passwordStdin {
				password, err := readLine(cmd)
				if err != nil {
					return err
				}
				in.Password = password
			}
			if in.Password == "" {
				return fmt.Errorf("password is required (--password or --password-stdin)")
			}

			return a.withAdminService(cmd.Context(), func(svc *service.AdminService) error {
				admin, err := svc.CreateAdmin(cmd.Context(), in)
				if err != nil {
					return fmt.Errorf("create admin: %w", err)
				}

				state := "active"
				if !admin.IsActive {
					state = "inactive"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (%s, %s)\n", admin.ID, admin.Email, state)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "Admin email address")
	cmd.Flags().StringVar(&in.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&in.Password, "password", "", "Initial password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	cmd.Flags().StringVar(&in.Role, "role", "", "Role (default admin)")
	cmd.Flags().BoolVar(&in.Inactive, "inactive", false, "Create the account deactivated")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newSetActiveCmd(a *app, active bool) *cobra.Command {
	use, short := "deactivate", "Deactivate an admin account"
	if active {
		use, short = "activate", "Activate an admin account"
	}

	return &cobra.Command{
		Use:   use + " <id|email>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withAdminService(cmd.Context(), func(svc *service.AdminService) error {
				admin, err := svc.SetActive(cmd.Context(), args[0], active)
				if err != nil {
					return fmt.Errorf("%s admin: %w", use, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Admin %s (%s): %sd\n", admin.ID, admin.Email, use)
				return nil
			})
		},
	}
}

func readLine(cmd *cobra.Command) (string, error) {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
