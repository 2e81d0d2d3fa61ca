// Package tables manipulates records of PostgreSQL tables directly, for tests.
package tables

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/jackc/pgconn"
	kpool "github.com/smartbiz-gst/smartbiz/pkg/conn/db/postgres/pool"
	"github.com/smartbiz-gst/smartbiz/pkg/conn/db/postgres/scanner"
)

func withCause(v any, reason error) error {
	return fmt.Errorf("error caused inserting record %+v: %w", v, reason)
}

// table-level operations for PostgreSQL.
//
// Note: this package DOES NOT verify consistencies of records.
//
// Methods named `Insert...` insert a record into one table.
// Methods named after a table read records from it.
type Tables struct {
	ctx  context.Context
	pool kpool.Pool
}

func New(ctx context.Context, pool kpool.Pool) *Tables {
	return &Tables{ctx: ctx, pool: pool}
}

func shouldEffect(ctag pgconn.CommandTag, require int) error {
	if int64(require) <= ctag.RowsAffected() {
		return nil
	}
	if _, file, line, ok := runtime.Caller(1); ok {
		return fmt.Errorf("added rows are not enough @ %s:%d", file, line)
	}
	return errors.New("added rows are not enough")
}

func (t *Tables) InsertUser(u User) error {
	userType := u.UserType
	if userType == "" {
		userType = "shopkeeper"
	}
	ctag, err := t.pool.Exec(
		t.ctx,
		`
		insert into "users" (
			"id", "email", "password_hash", "first_name", "last_name",
			"business_name", "city", "state", "user_type", "is_active"
		) values ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		u.BusinessName, u.City, u.State, userType, u.IsActive,
	)
	if err != nil {
		return withCause(u, err)
	}
	return shouldEffect(ctag, 1)
}

func (t *Tables) InsertQuickAdd(q QuickAdd) error {
	ctag, err := t.pool.Exec(
		t.ctx,
		`
		insert into "quick_add_requests" (
			"id", "user_id", "title", "description", "category", "product_type",
			"duration_days", "status", "views", "likes",
			"created_at", "expires_at", "updated_at"
		) values (
			$1::uuid, $2::uuid, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13
		)
		`,
		q.ID, q.UserID, q.Title, q.Description, q.Category, q.ProductType,
		q.DurationDays, q.Status, q.Views, q.Likes,
		q.CreatedAt, q.ExpiresAt, q.UpdatedAt,
	)
	if err != nil {
		return withCause(q, err)
	}
	return shouldEffect(ctag, 1)
}

func (t *Tables) InsertLike(l Like) error {
	ctag, err := t.pool.Exec(
		t.ctx,
		`insert into "quick_add_likes" ("user_id", "quick_add_id") values ($1::uuid, $2::uuid)`,
		l.UserID, l.QuickAddID,
	)
	if err != nil {
		return withCause(l, err)
	}
	return shouldEffect(ctag, 1)
}

func (t *Tables) QuickAdds() ([]QuickAdd, error) {
	return scanner.New[QuickAdd]().QueryAll(
		t.ctx, t.pool,
		`
		select
			"id"::text, "user_id"::text, "title", "description", "category", "product_type",
			"duration_days", "status", "views", "likes",
			"created_at", "expires_at", "updated_at"
		from "quick_add_requests"
		order by "created_at", "id"
		`,
	)
}

// QuickAdd returns the record with the id, or nil if missing.
func (t *Tables) QuickAdd(id string) (*QuickAdd, error) {
	all, err := t.QuickAdds()
	if err != nil {
		return nil, err
	}
	for _, q := range all {
		if q.ID == id {
			return &q, nil
		}
	}
	return nil, nil
}

func (t *Tables) Likes() ([]Like, error) {
	return scanner.New[Like]().QueryAll(
		t.ctx, t.pool,
		`select "user_id"::text, "quick_add_id"::text from "quick_add_likes" order by "created_at"`,
	)
}

func (t *Tables) Views() ([]View, error) {
	return scanner.New[View]().QueryAll(
		t.ctx, t.pool,
		`
		select "quick_add_id"::text, "user_id"::text, host("ip_address") as "ip_address"
		from "quick_add_views" order by "created_at"
		`,
	)
}

func (t *Tables) Users() ([]User, error) {
	return scanner.New[User]().QueryAll(
		t.ctx, t.pool,
		`
		select
			"id"::text, "email", "password_hash", "first_name", "last_name",
			"business_name", "city", "state", "user_type", "is_active"
		from "users" order by "email"
		`,
	)
}
