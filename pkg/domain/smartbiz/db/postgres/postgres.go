package postgres

import (
	"context"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	kpool "github.com/smartbiz-gst/smartbiz/pkg/conn/db/postgres/pool"
	kquickadd "github.com/smartbiz-gst/smartbiz/pkg/domain/quickadd/db"
	kpgquickadd "github.com/smartbiz-gst/smartbiz/pkg/domain/quickadd/db/postgres"
	kschema "github.com/smartbiz-gst/smartbiz/pkg/domain/schema/db"
	kpgschema "github.com/smartbiz-gst/smartbiz/pkg/domain/schema/db/postgres"
	dbInterface "github.com/smartbiz-gst/smartbiz/pkg/domain/smartbiz/db"
	kuser "github.com/smartbiz-gst/smartbiz/pkg/domain/user/db"
	kpguser "github.com/smartbiz-gst/smartbiz/pkg/domain/user/db/postgres"
	xe "github.com/smartbiz-gst/smartbiz/pkg/errors"
	"github.com/smartbiz-gst/smartbiz/pkg/utils/retry"
	schemarepo "github.com/smartbiz-gst/smartbiz/schema/postgres"
)

type smartbizPostgres struct {
	pool      *pgxpool.Pool
	wrapped   kpool.Pool
	users     kuser.UserInterface
	quickAdds kquickadd.QuickAddInterface
	schema    kschema.SchemaInterface
}

type Config struct {
	SchemaRepository fs.FS

	// how many times connecting is tried before giving up.
	ConnectAttempts int

	// wait before the first retry. It doubles for each retry.
	ConnectBackoff time.Duration

	MaxConns int32
}

func DefaultConfig() Config {
	return Config{
		SchemaRepository: schemarepo.Repository,
		ConnectAttempts:  5,
		ConnectBackoff:   500 * time.Millisecond,
		MaxConns:         20,
	}
}

type Option func(*Config) *Config

func WithSchemaRepository(repository fs.FS) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

func WithConnectRetry(attempts int, backoff time.Duration) Option {
	return func(c *Config) *Config {
		c.ConnectAttempts = attempts
		c.ConnectBackoff = backoff
		return c
	}
}

func WithMaxConns(n int32) Option {
	return func(c *Config) *Config {
		c.MaxConns = n
		return c
	}
}

// New connects to the database at url.
//
// Connecting is retried with exponential backoff, for databases starting up together.
func New(
	ctx context.Context,
	url string,
	options ...Option,
) (dbInterface.Database, error) {
	c := DefaultConfig()
	for _, option := range options {
		c = *option(&c)
	}

	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if 0 < c.MaxConns {
		poolConfig.MaxConns = c.MaxConns
	}

	attempts := 0
	pool, err := retry.Blocking(
		ctx,
		retry.ExponentialBackoff(c.ConnectBackoff, 2),
		func() (*pgxpool.Pool, error) {
			attempts += 1
			pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
			if err == nil {
				if err = pool.Ping(ctx); err == nil {
					return pool, nil
				}
				pool.Close()
			}
			if attempts < c.ConnectAttempts {
				return nil, retry.ErrRetry
			}
			return nil, err
		},
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	p := kpool.Wrap(pool)
	return &smartbizPostgres{
		pool:      pool,
		wrapped:   p,
		users:     kpguser.New(p),
		quickAdds: kpgquickadd.New(p),
		schema:    kpgschema.New(p, c.SchemaRepository),
	}, nil
}

func (s *smartbizPostgres) Users() kuser.UserInterface {
	return s.users
}

func (s *smartbizPostgres) QuickAdds() kquickadd.QuickAddInterface {
	return s.quickAdds
}

func (s *smartbizPostgres) Schema() kschema.SchemaInterface {
	return s.schema
}

func (s *smartbizPostgres) Ping(ctx context.Context) error {
	return s.wrapped.Ping(ctx)
}

func (s *smartbizPostgres) Close() error {
	s.pool.Close()
	return nil
}
