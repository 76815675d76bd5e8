// Package db opens the configured record store.
package db

import (
	stdlog "log"
	"os"
	"path/filepath"

	"dao_voting/internal/config"
	"dao_voting/internal/models"
	"dao_voting/sdk"
	"dao_voting/store/kvstore"
	"dao_voting/store/memstore"
	"dao_voting/store/sqlstore"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens a gorm connection for the SQL dialects. It returns nil, nil when
// the config does not point at a SQL database.
func Open(cfg config.Config) (*gorm.DB, error) {
	// Configure GORM logger (Silent to avoid cluttering output; only errors will be logged)
	newLogger := logger.New(
		stdlog.New(os.Stdout, "", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	switch cfg.DBDialect {
	case config.DatabaseSchemePostgres:
		return gorm.Open(postgres.Open(cfg.DBDsn), &gorm.Config{Logger: newLogger})
	case config.DatabaseSchemeSQLite:
		return gorm.Open(sqlite.Open(cfg.DBDsn), &gorm.Config{Logger: newLogger})
	default:
		return nil, nil
	}
}

// AutoMigrate runs database migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&models.Record{},
	)
}

// OpenStore picks the record store for cfg: SQL through gorm, goleveldb, or
// the in-memory map (optionally snapshotted to cfg.StateFile).
func OpenStore(cfg config.Config, log zerolog.Logger) (sdk.Store, error) {
	switch cfg.DBDialect {
	case config.DatabaseSchemePostgres, config.DatabaseSchemeSQLite:
		gormDB, err := Open(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "connect database")
		}
		if err := AutoMigrate(gormDB); err != nil {
			return nil, errors.Wrap(err, "run migrations")
		}
		log.Debug().Str("dialect", cfg.DBDialect).Msg("sql store ready")
		return sqlstore.New(gormDB), nil
	case config.DatabaseSchemeLevelDB:
		dir, name := filepath.Split(filepath.Clean(cfg.DBDsn))
		if dir == "" {
			dir = "."
		}
		st, err := kvstore.Open(name, dir)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("path", cfg.DBDsn).Msg("leveldb store ready")
		return st, nil
	case "":
		if cfg.StateFile == "" {
			log.Warn().Msg("DATABASE_URL not provided – state lives in memory only")
			return memstore.New(), nil
		}
		log.Debug().Str("file", cfg.StateFile).Msg("memory store with snapshot file")
		st, err := memstore.Open(cfg.StateFile)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, errors.Errorf("unsupported DB dialect: %s", cfg.DBDialect)
	}
}
