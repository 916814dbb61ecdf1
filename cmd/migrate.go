package cmd

import (
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/sakti/db"
	"github.com/frahmantamala/sakti/internal"
	"github.com/frahmantamala/sakti/internal/core/database"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the db migrations embedded from db/migrations",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	// the SQL files are postgres only; sqlite databases take the schema from the models
	if cfg.Database.Driver == internal.DriverSQLite {
		conn, err := database.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer conn.Close()
		return database.AutoMigrate(conn.Gorm.WithContext(ctx))
	}

	sqlDB, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(db.Migrations)
	goose.SetTableName("schema_migrations")
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	command := "up"
	if migrateRollback {
		command = "down"
	}
	if err := goose.RunContext(ctx, command, sqlDB, db.MigrationsDir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
