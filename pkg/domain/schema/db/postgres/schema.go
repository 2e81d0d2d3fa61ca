package postgres

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	kpool "github.com/smartbiz-gst/smartbiz/pkg/conn/db/postgres/pool"
	kschema "github.com/smartbiz-gst/smartbiz/pkg/domain/schema/db"
	xe "github.com/smartbiz-gst/smartbiz/pkg/errors"
)

type pgSchema struct {
	pool       kpool.Pool
	repository fs.FS
}

var _ kschema.SchemaInterface = &pgSchema{}

// New creates a new Schema.
//
// # Args
//
// - pool: connections to the database.
//
// - repository: schema repository. Its top level directories named by integers are versions.
func New(pool kpool.Pool, repository fs.FS) kschema.SchemaInterface {
	return &pgSchema{pool: pool, repository: repository}
}

type version struct {
	Version int
	Root    string
}

func (v version) Apply(ctx context.Context, repository fs.FS, conn kpool.Queryer) error {
	return fs.WalkDir(repository, v.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".sql") {
			return nil
		}

		query, err := fs.ReadFile(repository, p)
		if err != nil {
			return err
		}
		if _, err := conn.Exec(ctx, string(query)); err != nil {
			return xe.WrapWithNote(p, err)
		}
		return nil
	})
}

func (s *pgSchema) Version(ctx context.Context) (int, error) {
	var version *int
	if err := s.pool.QueryRow(
		ctx, `SELECT max("version") FROM "schema_version"`,
	).Scan(&version); err != nil {
		if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) && pgerr.Code == pgerrcode.UndefinedTable {
			return 0, nil
		}
		return -1, xe.Wrap(err)
	}
	if version == nil {
		return 0, nil
	}
	return *version, nil
}

func (s *pgSchema) Latest() (int, error) {
	vs, err := s.versions()
	if err != nil {
		return -1, err
	}
	if len(vs) == 0 {
		return 0, nil
	}
	return vs[len(vs)-1].Version, nil
}

func (s *pgSchema) Upgrade(ctx context.Context) error {
	schemaVersions, err := s.versions()
	if err != nil {
		return err
	}

	current, err := s.Version(ctx)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	for _, v := range schemaVersions {
		if v.Version <= current {
			continue
		}
		if err := v.Apply(ctx, s.repository, tx); err != nil {
			return xe.Wrap(err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM "schema_version"`); err != nil {
			return xe.Wrap(err)
		}
		if _, err := tx.Exec(
			ctx, `INSERT INTO "schema_version" ("version") VALUES ($1)`, v.Version,
		); err != nil {
			return xe.Wrap(err)
		}
	}

	return xe.Wrap(tx.Commit(ctx))
}

func (s *pgSchema) Drop(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range []string{
		`DROP TABLE IF EXISTS "quick_add_views" CASCADE`,
		`DROP TABLE IF EXISTS "quick_add_likes" CASCADE`,
		`DROP TABLE IF EXISTS "quick_add_requests" CASCADE`,
		`DROP TABLE IF EXISTS "users" CASCADE`,
		`DROP FUNCTION IF EXISTS "update_updated_at_column"() CASCADE`,
		`DROP TABLE IF EXISTS "schema_version"`,
	} {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return xe.WrapWithNote(stmt, err)
		}
	}
	return xe.Wrap(tx.Commit(ctx))
}

// versions lists schema versions in the repository, sorted by version number.
func (s *pgSchema) versions() ([]version, error) {
	dir, err := fs.ReadDir(s.repository, ".")
	if err != nil {
		return nil, xe.Wrap(err)
	}

	schemaVersions := make([]version, 0, len(dir))
	for _, entry := range dir {
		if !entry.IsDir() {
			continue
		}
		v, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		if v <= 0 {
			return nil, fmt.Errorf("schema version should be positive: %s", entry.Name())
		}
		schemaVersions = append(schemaVersions, version{
			Version: v,
			Root:    path.Clean(entry.Name()),
		})
	}
	slices.SortFunc(
		schemaVersions,
		func(i, j version) int { return cmp.Compare(i.Version, j.Version) },
	)

	return schemaVersions, nil
}
