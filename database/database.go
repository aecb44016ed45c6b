package database

import (
	"context"
	"fmt"
	"time"

	"github.com/quonaro/portfolio-backend/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

type Database struct {
	db          *gorm.DB
	projectRepo ProjectStore
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:          db,
		projectRepo: NewProjectRepo(db),
	}
}

// NewSnapshot serves the bundled read-only catalog.
func NewSnapshot() (Database, error) {
	repo, err := NewBundledSnapshotRepo()
	if err != nil {
		return Database{}, err
	}
	return Database{projectRepo: repo}, nil
}

func (d Database) ProjectRepo() ProjectStore {
	return d.projectRepo
}

// ReadOnly reports whether writes will be rejected.
func (d Database) ReadOnly() bool {
	return d.db == nil
}

func (d Database) GormDB() *gorm.DB {
	return d.db
}

func (d Database) Ping(ctx context.Context) error {
	if d.db == nil {
		return nil
	}
	var result int
	return d.db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error
}

// Open connects to Postgres and registers the read replica, if any.
func Open(settings config.DatabaseSettings) (*gorm.DB, error) {
	if settings.DSN == "" {
		return nil, fmt.Errorf("unsupported DB_TYPE %q", settings.Type)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  settings.DSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newGormLogger(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if settings.ReplicaDSN != "" {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  settings.ReplicaDSN,
				PreferSimpleProtocol: true,
			})},
			Policy: dbresolver.RandomPolicy{},
		}).
			SetMaxIdleConns(5).
			SetConnMaxLifetime(time.Hour))
		if err != nil {
			return nil, fmt.Errorf("register read replica: %w", err)
		}
	}

	return db, nil
}

func newGormLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		zerologWriter{log.With().Str("component", "gorm").Logger()},
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// zerologWriter adapts zerolog to gorm's Printf based logger.
type zerologWriter struct {
	logger zerolog.Logger
}

func (w zerologWriter) Printf(format string, args ...interface{}) {
	w.logger.Warn().Msgf(format, args...)
}
