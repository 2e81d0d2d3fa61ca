package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	kpool "github.com/smartbiz-gst/smartbiz/pkg/conn/db/postgres/pool"
	"github.com/smartbiz-gst/smartbiz/pkg/conn/db/postgres/scanner"
	"github.com/smartbiz-gst/smartbiz/pkg/domain"
	pgerrors "github.com/smartbiz-gst/smartbiz/pkg/domain/errors/dberrors/postgres"
	kuser "github.com/smartbiz-gst/smartbiz/pkg/domain/user/db"
	xe "github.com/smartbiz-gst/smartbiz/pkg/errors"
)

const userColumns = `
	"id"::text, "email", "password_hash", "first_name", "last_name",
	"business_name", "business_type", "phone", "address", "city", "state",
	"pincode", "gst_number", "user_type", "is_verified", "is_active",
	"created_at", "updated_at"
`

type pgUser struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kuser.UserInterface {
	return &pgUser{pool: pool}
}

// one user or Missing.
func single(users []domain.User, identity string) (*domain.User, error) {
	if len(users) == 0 {
		return nil, xe.Wrap(pgerrors.Missing{Table: "users", Identity: identity})
	}
	return &users[0], nil
}

func (m *pgUser) Register(ctx context.Context, spec *domain.UserSpec) (*domain.User, error) {
	users, err := scanner.New[domain.User]().QueryAll(
		ctx, m.pool,
		`
		insert into "users" (
			"email", "password_hash", "first_name", "last_name",
			"business_name", "business_type", "phone", "user_type"
		) values ($1, $2, $3, $4, $5, $6, $7, $8)
		returning `+userColumns,
		spec.Email, spec.PasswordHash, spec.FirstName, spec.LastName,
		spec.BusinessName, spec.BusinessType, spec.Phone, spec.UserType,
	)
	if err != nil {
		if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) && pgerr.Code == pgerrcode.UniqueViolation {
			return nil, xe.Wrap(pgerrors.Conflict{
				Table: "users", Constraint: pgerr.ConstraintName, Cause: err,
			})
		}
		return nil, xe.Wrap(err)
	}
	return single(users, spec.Email)
}

func (m *pgUser) Get(ctx context.Context, id string) (*domain.User, error) {
	users, err := scanner.New[domain.User]().QueryAll(
		ctx, m.pool,
		`select `+userColumns+` from "users" where "id" = $1::uuid`,
		id,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return single(users, id)
}

func (m *pgUser) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := scanner.New[domain.User]().QueryAll(
		ctx, m.pool,
		`select `+userColumns+` from "users" where lower("email") = lower($1)`,
		email,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return single(users, email)
}

func (m *pgUser) Find(ctx context.Context, query domain.UserFindQuery) (domain.Paged[domain.User], error) {
	where := []string{"true"}
	params := []any{}
	param := func(v any) string {
		params = append(params, v)
		return fmt.Sprintf("$%d", len(params))
	}

	if query.UserType != nil {
		where = append(where, `"user_type" = `+param(string(*query.UserType)))
	}
	if query.IsActive != nil {
		where = append(where, `"is_active" = `+param(*query.IsActive))
	}
	if query.Search != "" {
		p := param("%" + escapeLike(query.Search) + "%")
		where = append(where, fmt.Sprintf(
			`("first_name" ilike %[1]s escape '\' or "last_name" ilike %[1]s escape '\'`+
				` or "email" ilike %[1]s escape '\' or "business_name" ilike %[1]s escape '\')`,
			p,
		))
	}
	cond := strings.Join(where, " and ")

	var total int
	if err := m.pool.QueryRow(
		ctx, `select count(*) from "users" where `+cond, params...,
	).Scan(&total); err != nil {
		return domain.Paged[domain.User]{}, xe.Wrap(err)
	}

	limit := param(query.Page.Size)
	offset := param(query.Page.Offset())
	users, err := scanner.New[domain.User]().QueryAll(
		ctx, m.pool,
		`select `+userColumns+` from "users" where `+cond+
			` order by "created_at" desc, "id" limit `+limit+` offset `+offset,
		params...,
	)
	if err != nil {
		return domain.Paged[domain.User]{}, xe.Wrap(err)
	}
	return domain.Paged[domain.User]{Items: users, Total: total}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match itself literally in a like pattern with escape '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (m *pgUser) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	columns := update.Columns()
	if len(columns) == 0 {
		return m.Get(ctx, id)
	}

	sets := make([]string, 0, len(columns))
	params := []any{id}
	for _, c := range columns {
		params = append(params, c.Value)
		// column names come from domain.ProfileUpdate, not from requests.
		sets = append(sets, fmt.Sprintf(`%s = $%d`, pgx.Identifier{c.Column}.Sanitize(), len(params)))
	}

	users, err := scanner.New[domain.User]().QueryAll(
		ctx, m.pool,
		`update "users" set `+strings.Join(sets, ", ")+
			` where "id" = $1::uuid returning `+userColumns,
		params...,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return single(users, id)
}

func (m *pgUser) SetPasswordHash(ctx context.Context, id string, hash string) error {
	ctag, err := m.pool.Exec(
		ctx,
		`update "users" set "password_hash" = $2 where "id" = $1::uuid`,
		id, hash,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if ctag.RowsAffected() == 0 {
		return xe.Wrap(pgerrors.Missing{Table: "users", Identity: id})
	}
	return nil
}

func (m *pgUser) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	var current bool
	if err := tx.QueryRow(
		ctx,
		`select "is_active" from "users" where "id" = $1::uuid for update`,
		id,
	).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xe.Wrap(pgerrors.Missing{Table: "users", Identity: id})
		}
		return nil, xe.Wrap(err)
	}
	if current == active {
		state := "deactivated"
		if active {
			state = "active"
		}
		return nil, xe.Wrap(pgerrors.InvalidState{Table: "users", Identity: id, State: state})
	}

	users, err := scanner.New[domain.User]().QueryAll(
		ctx, tx,
		`update "users" set "is_active" = $2 where "id" = $1::uuid returning `+userColumns,
		id, active,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, xe.Wrap(err)
	}
	return single(users, id)
}

func (m *pgUser) Delete(ctx context.Context, id string) error {
	ctag, err := m.pool.Exec(ctx, `delete from "users" where "id" = $1::uuid`, id)
	if err != nil {
		return xe.Wrap(err)
	}
	if ctag.RowsAffected() == 0 {
		return xe.Wrap(pgerrors.Missing{Table: "users", Identity: id})
	}
	return nil
}
