package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rpupo63/blog-backend/config"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options describes how to reach the store.
type Options struct {
	Driver        string
	DSN           string
	ReplicaDSNs   []string
	SlowThreshold time.Duration
	LogLevel      logger.LogLevel
}

// OptionsFromConfig reads DB_DRIVER, DATABASE_URL (or the DB_* parts),
// DATABASE_REPLICA_URLS, DB_SLOW_THRESHOLD_MS and DB_LOG_LEVEL.
func OptionsFromConfig(c map[string]string) Options {
	dsn := config.GetString(c, "DATABASE_URL", "")
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(c, "DB_HOST", "localhost"),
			config.GetString(c, "DB_USER", "postgres"),
			config.GetString(c, "DB_PASSWORD", ""),
			config.GetString(c, "DB_NAME", "blog"),
			config.GetString(c, "DB_PORT", "5432"),
			config.GetString(c, "DB_SSLMODE", "disable"),
		)
	}

	return Options{
		Driver:        strings.ToLower(config.GetString(c, "DB_DRIVER", DriverPostgres)),
		DSN:           dsn,
		ReplicaDSNs:   config.GetList(c, "DATABASE_REPLICA_URLS", nil),
		SlowThreshold: time.Duration(config.GetInt(c, "DB_SLOW_THRESHOLD_MS", 200)) * time.Millisecond,
		LogLevel:      parseLogLevel(config.GetString(c, "DB_LOG_LEVEL", "warn")),
	}
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// NewLogger routes gorm's SQL log through zerolog.
func NewLogger(zl zerolog.Logger, slowThreshold time.Duration, level logger.LogLevel) logger.Interface {
	return logger.New(&zl, logger.Config{
		SlowThreshold:             slowThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// NewGormConfig is the configuration shared by every connection. Store
// errors are translated to gorm sentinels and timestamps are UTC with
// microsecond precision so they round-trip through postgres unchanged.
func NewGormConfig(l logger.Interface, now func() time.Time) *gorm.Config {
	if now == nil {
		now = func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }
	}
	return &gorm.Config{
		Logger:         l,
		NowFunc:        now,
		TranslateError: true,
		PrepareStmt:    false,
	}
}

// Open connects to the primary, registers read replicas and prepares join tables.
func Open(opts Options, zl zerolog.Logger) (*gorm.DB, error) {
	if opts.DSN == "" {
		return nil, errors.New("database DSN cannot be empty")
	}

	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverPostgres, "":
		dialector = postgres.New(postgres.Config{DSN: opts.DSN, PreferSimpleProtocol: true})
	case DriverSQLite:
		dialector = SQLiteDialector(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, NewGormConfig(NewLogger(zl, opts.SlowThreshold, opts.LogLevel), nil))
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if len(opts.ReplicaDSNs) > 0 {
		if opts.Driver == DriverSQLite {
			return nil, errors.New("read replicas require the postgres driver")
		}
		replicas := make([]gorm.Dialector, 0, len(opts.ReplicaDSNs))
		for _, dsn := range opts.ReplicaDSNs {
			replicas = append(replicas, postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}))
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas:          replicas,
			Policy:            dbresolver.RandomPolicy{},
			TraceResolverMode: true,
		})); err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
		zl.Info().Int("replicas", len(replicas)).Msg("read replicas registered")
	}

	if err := Prepare(db); err != nil {
		return nil, err
	}

	return db, nil
}
