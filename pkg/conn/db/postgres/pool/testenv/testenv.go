package testenv

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
	kpool "github.com/smartbiz-gst/smartbiz/pkg/conn/db/postgres/pool"
	kpgschema "github.com/smartbiz-gst/smartbiz/pkg/domain/schema/db/postgres"
	schemarepo "github.com/smartbiz-gst/smartbiz/schema/postgres"
)

// environment variable pointing the database for tests.
//
// Tests using PoolBroaker are skipped when it is empty.
const EnvDatabaseURL = "SMARTBIZ_TEST_DATABASE_URL"

// PoolBroaker is a interface to get a pool.
type PoolBroaker interface {
	// GetPool returns a pool.
	//
	// Tables are cleaned up before returning and after t.
	GetPool(ctx context.Context, t *testing.T) kpool.Pool
}

type pg struct {
	pool    *pgxpool.Pool
	cleanup bool
}

func (p *pg) GetPool(ctx context.Context, t *testing.T) kpool.Pool {
	t.Helper()
	if p.cleanup {
		t.Cleanup(func() { ClearTables(context.Background(), p.pool, t) })
		ClearTables(ctx, p.pool, t)
	}
	return kpool.Wrap(p.pool)
}

type pgConnOptions struct {
	URL          string
	DoNotCleanup bool
}

type PgConnOption func(*pgConnOptions) *pgConnOptions

// connect to url instead of the one in EnvDatabaseURL.
func WithURL(url string) PgConnOption {
	return func(o *pgConnOptions) *pgConnOptions {
		o.URL = url
		return o
	}
}

func WithDoNotCleanup() PgConnOption {
	return func(o *pgConnOptions) *pgConnOptions {
		o.DoNotCleanup = true
		return o
	}
}

// NewPoolBroaker connects the test database and brings its schema up to date.
//
// # Args
//
// - ctx: context for connection.
//
// - t: scope of the PoolBroaker. When this test is finished, the pool will be closed.
// If no database is configured, t is skipped.
func NewPoolBroaker(ctx context.Context, t *testing.T, options ...PgConnOption) PoolBroaker {
	t.Helper()

	opts := &pgConnOptions{URL: os.Getenv(EnvDatabaseURL)}
	for _, o := range options {
		opts = o(opts)
	}
	if opts.URL == "" {
		t.Skipf("%s is not set; skip tests with database", EnvDatabaseURL)
	}

	pool, err := pgxpool.Connect(ctx, opts.URL)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	if err := kpgschema.New(kpool.Wrap(pool), schemarepo.Repository).Upgrade(ctx); err != nil {
		t.Fatal(err)
	}

	return &pg{pool: pool, cleanup: !opts.DoNotCleanup}
}

func ClearTables(ctx context.Context, p *pgxpool.Pool, t *testing.T) {
	t.Helper()

	// by cascade, rows of tables referring "users" are also deleted.
	if _, err := p.Exec(ctx, `truncate "users" RESTART IDENTITY cascade`); err != nil {
		t.Errorf("fail to clean-up tables.: %v", err)
	}
}
