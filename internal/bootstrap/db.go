package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DBOptions configures the pgx pool that backs user profiles and the
// database health probe. Zero values pick the defaults below.
type DBOptions struct {
	// DSN is a postgres:// URL, see postgres.URL.
	DSN string
	// MaxConns caps the pool. Profile upserts are rare, so it stays small.
	MaxConns    int32
	ConnectTO   time.Duration
	PingTO      time.Duration
	MaxIdleTime time.Duration
}

const (
	defaultMaxConns    = 4
	defaultConnectTO   = 5 * time.Second
	defaultPingTO      = 2 * time.Second
	defaultMaxIdleTime = 5 * time.Minute
)

func (o DBOptions) withDefaults() DBOptions {
	if o.MaxConns <= 0 {
		o.MaxConns = defaultMaxConns
	}
	if o.ConnectTO <= 0 {
		o.ConnectTO = defaultConnectTO
	}
	if o.PingTO <= 0 {
		o.PingTO = defaultPingTO
	}
	if o.MaxIdleTime <= 0 {
		o.MaxIdleTime = defaultMaxIdleTime
	}
	return o
}

// OpenDB opens and pings the profile pool. The project store uses its own
// database/sql handle; see postgres.NewConnection.
func OpenDB(ctx context.Context, opt DBOptions) (*pgxpool.Pool, error) {
	if opt.DSN == "" {
		return nil, fmt.Errorf("database url is not set")
	}
	opt = opt.withDefaults()

	cfg, err := pgxpool.ParseConfig(opt.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = opt.MaxConns
	cfg.MaxConnIdleTime = opt.MaxIdleTime

	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(cctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	pctx, pcancel := context.WithTimeout(ctx, opt.PingTO)
	defer pcancel()
	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return pool, nil
}
