// Package database opens the gorm connection shared by every repository and
// exposes the same pool to sqlx for hand written aggregate queries.
package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/sakti/internal"
	approvalDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/approval"
	crDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/changerequest"
	notificationDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/notification"
	userDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/user"
)

type DB struct {
	Gorm *gorm.DB
	SQLX *sqlx.DB
}

func Open(cfg internal.DatabaseConfig) (*DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case internal.DriverPostgres:
		dialector = postgres.Open(cfg.Source)
	case internal.DriverSQLite:
		dialector = sqlite.Open(cfg.Source)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Gorm: gdb, SQLX: sqlx.NewDb(sqlDB, SQLXDriverName(cfg.Driver))}, nil
}

// OpenInMemory returns a private sqlite database with every table created.
// A single connection keeps the in-memory schema alive for the pool.
func OpenInMemory() (*DB, error) {
	db, err := Open(internal.DatabaseConfig{
		Driver:       internal.DriverSQLite,
		Source:       "file::memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db.Gorm); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// SQLXDriverName maps a config driver onto the name sqlx uses to pick the
// bind variable style.
func SQLXDriverName(driver string) string {
	if driver == internal.DriverSQLite {
		return "sqlite3"
	}
	return "pgx"
}

func Models() []interface{} {
	return []interface{}{
		&userDatamodel.User{},
		&crDatamodel.ChangeRequest{},
		&crDatamodel.AffectedAsset{},
		&crDatamodel.Inspection{},
		&crDatamodel.Schedule{},
		&crDatamodel.StatusEvent{},
		&approvalDatamodel.Approval{},
		&notificationDatamodel.Notification{},
		&crDatamodel.PatchJob{},
	}
}

// AutoMigrate creates the schema from the gorm models. Production databases
// are migrated with the goose files instead.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (d *DB) Close() error {
	return d.SQLX.Close()
}
