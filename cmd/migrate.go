package cmd

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/JinxSeven/Risk-360/db"
	"github.com/JinxSeven/Risk-360/pkg/logger"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the embedded db migrations against the hosted backend",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg := mustLoadConfig()
	lg := logger.LoggerWrapper()

	if !cfg.Database.Configured() {
		return fmt.Errorf("database.source is empty; nothing to migrate in demo mode")
	}

	conn, err := goose.OpenDBWithDriver("pgx", cfg.Database.GetDSN())
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer conn.Close()

	goose.SetBaseFS(db.Migrations)
	goose.SetTableName("schema_migrations")
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	command := "up"
	if migrateRollback {
		command = "down"
	}
	lg.Info("running migrations", "command", command)
	if err := goose.RunContext(ctx, command, conn, db.MigrationsDir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
