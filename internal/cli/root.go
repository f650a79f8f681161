package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/genix/genix-site/internal/config"
	"github.com/genix/genix-site/internal/database"
	"github.com/genix/genix-site/internal/repository"
	"github.com/genix/genix-site/internal/service"
)

// connectFunc opens the admin store. Tests swap it for a sqlmock handle.
type connectFunc func(ctx context.Context, databaseURL string) (*database.DB, error)

type app struct {
	databaseURL string
	logLevel    string

	in      io.Reader
	out     io.Writer
	connect connectFunc
}

func connectPostgres(ctx context.Context, databaseURL string) (*database.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database url is required (--database-url or DATABASE_URL)")
	}
	db, err := database.Connect(databaseURL, config.DefaultPool)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.DBPingTimeout)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// NewRootCmd creates the root command for the genix-admin tool.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{
		in:      os.Stdin,
		out:     os.Stdout,
		connect: connectPostgres,
	})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "genix-admin",
		Short: "Manage Genix admin accounts",
		Long:  "genix-admin bootstraps the admins table and seeds, activates or deactivates admin accounts.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
			level, err := zerolog.ParseLevel(a.logLevel)
			if err != nil || level == zerolog.NoLevel {
				level = zerolog.InfoLevel
			}
			zerolog.SetGlobalLevel(level)
		},
		SilenceUsage: true,
	}
	root.SetIn(a.in)
	root.SetOut(a.out)

	root.PersistentFlags().StringVar(&a.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres URL (or DATABASE_URL env)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newInitDBCmd(a),
		newCreateCmd(a),
		newSetActiveCmd(a, true),
		newSetActiveCmd(a, false),
		newHashPasswordCmd(a),
	)

	return root
}

// withAdminService opens the store, runs fn and closes the store again.
func (a *app) withAdminService(ctx context.Context, fn func(svc *service.AdminService) error) error {
	db, err := a.connect(ctx, a.databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(service.NewAdminService(repository.NewAdminRepository(db.DB)))
}
