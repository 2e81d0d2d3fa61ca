package postgres

import (
	"context"
	"time"

	"github.com/smartbiz-gst/smartbiz/pkg/conn/db/postgres/scanner"
	"github.com/smartbiz-gst/smartbiz/pkg/domain"
	xe "github.com/smartbiz-gst/smartbiz/pkg/errors"
)

func (m *pgQuickAdd) Expire(ctx context.Context, now time.Time) ([]domain.ExpiredQuickAdd, error) {
	expired, err := scanner.New[domain.ExpiredQuickAdd]().QueryAll(
		ctx, m.pool,
		`
		update "quick_add_requests"
		set "status" = $1, "updated_at" = $3
		where "status" = $2 and "expires_at" < $3
		returning "id"::text, "title", "user_id"::text
		`,
		string(domain.Expired), string(domain.Approved), now,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return expired, nil
}

func (m *pgQuickAdd) Purge(ctx context.Context, before time.Time) ([]domain.QuickAdd, error) {
	rows, err := scanner.New[quickAddRow]().QueryAll(
		ctx, m.pool,
		`
		delete from "quick_add_requests"
		where "status" = $1 and "updated_at" < $2
		returning `+quickAddColumns(""),
		string(domain.Expired), before,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	purged, err := mapRows(rows, quickAddRow.toDomain)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return purged, nil
}

func (m *pgQuickAdd) ExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.ExpiringQuickAdd, error) {
	expiring, err := scanner.New[domain.ExpiringQuickAdd]().QueryAll(
		ctx, m.pool,
		`
		select
			qa."id"::text, qa."title", qa."expires_at", qa."user_id"::text,
			u."email", u."first_name", u."last_name"
		from "quick_add_requests" as qa
		inner join "users" as u on u."id" = qa."user_id"
		where qa."status" = $1 and qa."expires_at" between $2 and $3
		order by qa."expires_at", qa."id"
		`,
		string(domain.Approved), from, to,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return expiring, nil
}
