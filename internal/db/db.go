package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options tune Open.
type Options struct {
	// Retries is the number of extra connection attempts for postgres.
	Retries int
	// RetryDelay is the pause between attempts.
	RetryDelay time.Duration
	// Debug logs every SQL statement.
	Debug bool
}

// Open connects to postgres or sqlite depending on the DSN. Errors are
// translated by gorm so unique violations surface as gorm.ErrDuplicatedKey.
func Open(ctx context.Context, dsn string, opts Options) (*gorm.DB, error) {
	dsn = NormalizeDSN(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("database dsn is empty")
	}
	logLevel := logger.Warn
	if opts.Debug {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}

	dialect := Dialect(dsn)
	var (
		database *gorm.DB
		err      error
	)
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if dialect == DialectPostgres {
			database, err = gorm.Open(postgres.Open(dsn), cfg)
		} else {
			database, err = gorm.Open(sqlite.Open(SQLitePath(dsn)), cfg)
		}
		if err == nil {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt+1).Str("dsn", MaskDSN(dsn)).Msg("database connection failed")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.RetryDelay):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", dialect, err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	if dialect == DialectSQLite {
		// sqlite serialises writers; a single connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	log.Info().Str("dialect", dialect).Str("dsn", MaskDSN(dsn)).Msg("database connected")
	return database, nil
}

// Ping checks connectivity of an open handle.
func Ping(ctx context.Context, database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying sql.DB resources for the provided handle.
func Close(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
