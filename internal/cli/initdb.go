package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/genix/genix-site/internal/database"
)

func newInitDBCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the admins table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.connect(cmd.Context(), a.databaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.EnsureSchema(cmd.Context(), db.DB); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "admins table ready")
			return nil
		},
	}
}
