package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/sakti/internal/core/database"
	"github.com/frahmantamala/sakti/internal/seed"
	"github.com/frahmantamala/sakti/internal/user"
	userPostgres "github.com/frahmantamala/sakti/internal/user/postgres"
	"github.com/frahmantamala/sakti/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with the demo accounts, change requests and approvals.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		log := logger.Configure(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)

		conn, err := database.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer conn.Close()

		users := user.NewService(userPostgres.NewUserRepository(conn.Gorm), cfg.Security.BCryptCost, log)
		seeder := seed.NewSeeder(conn.Gorm, users, log)

		if clearData {
			if err := seeder.Clear(cmd.Context()); err != nil {
				return err
			}
		}
		return seeder.Run(cmd.Context())
	},
}
