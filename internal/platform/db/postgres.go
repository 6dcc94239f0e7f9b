package db

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Options bound the shared connection pool. Every concurrent correlation task
// draws its own connection from this pool and releases it when done.
type Options struct {
	MaxOpenConns  int
	StatementWait time.Duration
}

// Postgres wraps DB connectivity.
type Postgres struct {
	DB *gorm.DB
}

func Connect(dsn string, opts Options) (*Postgres, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	// lock_timeout must ride the DSN: a SET on one pooled session would leave
	// every other connection in the pool unbounded.
	dsn = withLockTimeout(dsn, opts.StatementWait)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve postgres sql db handle: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		sqlDB.SetMaxIdleConns(opts.MaxOpenConns)
	}
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Postgres{DB: db}, nil
}

// withLockTimeout bounds how long a contended write may block on a locked
// row, on every connection the pool opens. Handles both URL and keyword DSNs.
func withLockTimeout(dsn string, wait time.Duration) string {
	if wait <= 0 {
		return dsn
	}
	option := fmt.Sprintf("-c lock_timeout=%d", wait.Milliseconds())
	if strings.Contains(dsn, "://") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "options=" + url.QueryEscape(option)
	}
	return dsn + fmt.Sprintf(" options='%s'", option)
}

func (p *Postgres) Close() error {
	if p == nil || p.DB == nil {
		return nil
	}
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
