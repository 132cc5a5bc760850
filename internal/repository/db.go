package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/receiptscan/email-receipts/internal/common"
)

const (
	dialectSQLite   = "sqlite"
	dialectPostgres = "postgres"
)

type Config struct {
	DSN         string
	DialTimeout time.Duration
}

// Store wraps the receipt database handle together with its dialect.
type Store struct {
	DB      *sql.DB
	dialect string
}

// Open opens the receipt store. postgres:// or postgresql:// DSNs go
// through the pgx stdlib driver; anything else is treated as a SQLite
// file path (":memory:" included).
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dialect := dialectSQLite
	driver := "sqlite"
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
		dialect = dialectPostgres
		driver = "pgx"
	}

	logger.Info("connecting to receipt store", "dialect", dialect)
	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, common.NewAppError("DB_OPEN", fmt.Sprintf("open %s store", dialect), err)
	}
	if dialect == dialectSQLite && strings.Contains(cfg.DSN, ":memory:") {
		// each pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, common.NewAppError("DB_UNREACHABLE", fmt.Sprintf("ping %s store", dialect), err)
	}

	logger.Info("receipt store connected")
	return &Store{DB: db, dialect: dialect}, nil
}

// Close closes the store handle gracefully.
func (s *Store) Close(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := s.DB.Close(); err != nil {
		logger.Error("failed to close receipt store", "error", err)
		return
	}
	logger.Info("receipt store closed")
}

// HealthCheck pings the store to catch DSN issues early.
func (s *Store) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.DB.PingContext(ctx)
}

// bind rewrites ? placeholders to the $n form pgx expects. SQLite takes
// the query unchanged.
func (s *Store) bind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
