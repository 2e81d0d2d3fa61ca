package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	kpool "github.com/smartbiz-gst/smartbiz/pkg/conn/db/postgres/pool"
	"github.com/smartbiz-gst/smartbiz/pkg/conn/db/postgres/scanner"
	"github.com/smartbiz-gst/smartbiz/pkg/domain"
	pgerrors "github.com/smartbiz-gst/smartbiz/pkg/domain/errors/dberrors/postgres"
	kquickadd "github.com/smartbiz-gst/smartbiz/pkg/domain/quickadd/db"
	xe "github.com/smartbiz-gst/smartbiz/pkg/errors"
)

type pgQuickAdd struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kquickadd.QuickAddInterface {
	return &pgQuickAdd{pool: pool}
}

// columns of "quick_add_requests", qualified by alias when it is not empty.
func quickAddColumns(alias string) string {
	q := ""
	if alias != "" {
		q = alias + "."
	}
	return fmt.Sprintf(`
		%[1]s"id"::text, %[1]s"user_id"::text, %[1]s"title", %[1]s"description",
		%[1]s"category", %[1]s"product_type", %[1]s"price_range", %[1]s"duration_days",
		%[1]s"design_preference", %[1]s"images", %[1]s"status", %[1]s"views", %[1]s"likes",
		%[1]s"created_at", %[1]s"expires_at", %[1]s"approved_at", %[1]s"rejected_at",
		%[1]s"rejection_reason", %[1]s"updated_at"
	`, q)
}

// listings joined with owners, like count and whether the viewer ($1) likes them.
//
// Callers append where/order/limit clauses. Placeholders after $1 are free.
var selectDetail = `
	select ` + quickAddColumns("qa") + `,
		u."first_name", u."last_name", u."business_name", u."city", u."state",
		(
			select count(*) from "quick_add_likes" as l where l."quick_add_id" = qa."id"
		)::int as "like_count",
		exists(
			select 1 from "quick_add_likes" as l
			where l."quick_add_id" = qa."id" and l."user_id" = $1::uuid
		) as "is_liked"
	from "quick_add_requests" as qa
	inner join "users" as u on u."id" = qa."user_id"
`

type quickAddRow struct {
	ID               string
	UserID           string
	Title            string
	Description      string
	Category         string
	ProductType      domain.ProductType
	PriceRange       *string
	DurationDays     int
	DesignPreference domain.DesignPreference
	Images           pgtype.JSONB
	Status           domain.QuickAddStatus
	Views            int
	Likes            int
	CreatedAt        time.Time
	ExpiresAt        time.Time
	ApprovedAt       *time.Time
	RejectedAt       *time.Time
	RejectionReason  *string
	UpdatedAt        time.Time
}

func (r quickAddRow) toDomain() (domain.QuickAdd, error) {
	images := []domain.Image{}
	if r.Images.Status == pgtype.Present {
		if err := r.Images.AssignTo(&images); err != nil {
			return domain.QuickAdd{}, fmt.Errorf("images of %s: %w", r.ID, err)
		}
	}
	return domain.QuickAdd{
		ID:               r.ID,
		UserID:           r.UserID,
		Title:            r.Title,
		Description:      r.Description,
		Category:         r.Category,
		ProductType:      r.ProductType,
		PriceRange:       r.PriceRange,
		DurationDays:     r.DurationDays,
		DesignPreference: r.DesignPreference,
		Images:           images,
		Status:           r.Status,
		Views:            r.Views,
		Likes:            r.Likes,
		CreatedAt:        r.CreatedAt,
		ExpiresAt:        r.ExpiresAt,
		ApprovedAt:       r.ApprovedAt,
		RejectedAt:       r.RejectedAt,
		RejectionReason:  r.RejectionReason,
		UpdatedAt:        r.UpdatedAt,
	}, nil
}

type detailRow struct {
	ID               string
	UserID           string
	Title            string
	Description      string
	Category         string
	ProductType      domain.ProductType
	PriceRange       *string
	DurationDays     int
	DesignPreference domain.DesignPreference
	Images           pgtype.JSONB
	Status           domain.QuickAddStatus
	Views            int
	Likes            int
	CreatedAt        time.Time
	ExpiresAt        time.Time
	ApprovedAt       *time.Time
	RejectedAt       *time.Time
	RejectionReason  *string
	UpdatedAt        time.Time

	FirstName    string
	LastName     string
	BusinessName *string
	City         *string
	State        *string
	LikeCount    int
	IsLiked      bool
}

func (r detailRow) toDomain() (domain.QuickAddDetail, error) {
	qa, err := quickAddRow{
		ID: r.ID, UserID: r.UserID, Title: r.Title, Description: r.Description,
		Category: r.Category, ProductType: r.ProductType, PriceRange: r.PriceRange,
		DurationDays: r.DurationDays, DesignPreference: r.DesignPreference,
		Images: r.Images, Status: r.Status, Views: r.Views, Likes: r.Likes,
		CreatedAt: r.CreatedAt, ExpiresAt: r.ExpiresAt,
		ApprovedAt: r.ApprovedAt, RejectedAt: r.RejectedAt,
		RejectionReason: r.RejectionReason, UpdatedAt: r.UpdatedAt,
	}.toDomain()
	if err != nil {
		return domain.QuickAddDetail{}, err
	}
	return domain.QuickAddDetail{
		QuickAdd: qa,
		Owner: domain.Owner{
			FirstName:    r.FirstName,
			LastName:     r.LastName,
			BusinessName: r.BusinessName,
			City:         r.City,
			State:        r.State,
		},
		LikeCount: r.LikeCount,
		IsLiked:   r.IsLiked,
	}, nil
}

func mapRows[R any, T any](rows []R, f func(R) (T, error)) ([]T, error) {
	ret := make([]T, 0, len(rows))
	for _, r := range rows {
		t, err := f(r)
		if err != nil {
			return nil, err
		}
		ret = append(ret, t)
	}
	return ret, nil
}

func (m *pgQuickAdd) Register(ctx context.Context, spec *domain.QuickAddSpec, now time.Time) (*domain.QuickAdd, error) {
	images := pgtype.JSONB{}
	imgs := spec.Images
	if imgs == nil {
		imgs = []domain.Image{}
	}
	if err := images.Set(imgs); err != nil {
		return nil, xe.Wrap(err)
	}

	design := spec.DesignPreference
	if design == "" {
		design = domain.DefaultDesignPreference
	}

	rows, err := scanner.New[quickAddRow]().QueryAll(
		ctx, m.pool,
		`
		insert into "quick_add_requests" (
			"user_id", "title", "description", "category", "product_type",
			"price_range", "duration_days", "design_preference", "images",
			"status", "created_at", "updated_at", "expires_at"
		) values (
			$1::uuid, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $11, $12
		)
		returning `+quickAddColumns(""),
		spec.UserID, spec.Title, spec.Description, spec.Category, string(spec.ProductType),
		spec.PriceRange, spec.DurationDays, string(design), images,
		string(domain.Pending), now, spec.ExpiresAt(now),
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if len(rows) == 0 {
		return nil, xe.New("no rows inserted")
	}
	qa, err := rows[0].toDomain()
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return &qa, nil
}

func (m *pgQuickAdd) get(ctx context.Context, conn kpool.Queryer, id string, viewer *string) (*domain.QuickAddDetail, error) {
	rows, err := scanner.New[detailRow]().QueryAll(
		ctx, conn, selectDetail+` where qa."id" = $2::uuid`, viewer, id,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if len(rows) == 0 {
		return nil, xe.Wrap(pgerrors.Missing{Table: "quick_add_requests", Identity: id})
	}
	d, err := rows[0].toDomain()
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return &d, nil
}

func (m *pgQuickAdd) Get(ctx context.Context, id string, viewer *string) (*domain.QuickAddDetail, error) {
	return m.get(ctx, m.pool, id, viewer)
}

var sortColumns = map[domain.SortColumn]string{
	domain.SortByCreatedAt: `qa."created_at"`,
	domain.SortByExpiresAt: `qa."expires_at"`,
	domain.SortByViews:     `qa."views"`,
	domain.SortByLikes:     `qa."likes"`,
}

var sortOrders = map[domain.SortOrder]string{
	domain.Ascending:  "asc",
	domain.Descending: "desc",
}

// filter is a condition with one "?" placeholder.
type filter struct {
	clause string
	value  any
}

// render joins filters with "and", numbering placeholders from first.
func render(filters []filter, first int) (string, []any) {
	clauses := make([]string, 0, len(filters))
	params := make([]any, 0, len(filters))
	for nth, f := range filters {
		clauses = append(clauses, strings.Replace(f.clause, "?", fmt.Sprintf("$%d", first+nth), 1))
		params = append(params, f.value)
	}
	return strings.Join(clauses, " and "), params
}

func (m *pgQuickAdd) Find(ctx context.Context, query domain.QuickAddFindQuery) (domain.Paged[domain.QuickAddDetail], error) {
	column, ok := sortColumns[query.SortBy]
	if !ok {
		column = sortColumns[domain.SortByCreatedAt]
	}
	order, ok := sortOrders[query.SortOrder]
	if !ok {
		order = sortOrders[domain.Descending]
	}

	filters := []filter{{`qa."status" = ?`, string(query.Status)}}
	if query.ProductType != nil {
		filters = append(filters, filter{`qa."product_type" = ?`, string(*query.ProductType)})
	}
	if query.Category != "" {
		filters = append(filters, filter{`qa."category" = ?`, query.Category})
	}

	var total int
	{
		cond, params := render(filters, 1)
		if err := m.pool.QueryRow(
			ctx, `select count(*) from "quick_add_requests" as qa where `+cond, params...,
		).Scan(&total); err != nil {
			return domain.Paged[domain.QuickAddDetail]{}, xe.Wrap(err)
		}
	}

	// $1 is the viewer in selectDetail.
	cond, params := render(filters, 2)
	params = append([]any{query.Viewer}, params...)
	params = append(params, query.Page.Size, query.Page.Offset())
	rows, err := scanner.New[detailRow]().QueryAll(
		ctx, m.pool,
		selectDetail+` where `+cond+
			fmt.Sprintf(
				` order by %s %s, qa."id" %s limit $%d offset $%d`,
				column, order, order, len(params)-1, len(params),
			),
		params...,
	)
	if err != nil {
		return domain.Paged[domain.QuickAddDetail]{}, xe.Wrap(err)
	}
	items, err := mapRows(rows, detailRow.toDomain)
	if err != nil {
		return domain.Paged[domain.QuickAddDetail]{}, xe.Wrap(err)
	}
	return domain.Paged[domain.QuickAddDetail]{Items: items, Total: total}, nil
}

func (m *pgQuickAdd) FindByOwner(ctx context.Context, userId string, page domain.Page) (domain.Paged[domain.QuickAddDetail], error) {
	var total int
	if err := m.pool.QueryRow(
		ctx,
		`select count(*) from "quick_add_requests" where "user_id" = $1::uuid`,
		userId,
	).Scan(&total); err != nil {
		return domain.Paged[domain.QuickAddDetail]{}, xe.Wrap(err)
	}

	// the owner is the viewer.
	rows, err := scanner.New[detailRow]().QueryAll(
		ctx, m.pool,
		selectDetail+` where qa."user_id" = $1::uuid
		order by qa."created_at" desc, qa."id" desc
		limit $2 offset $3`,
		userId, page.Size, page.Offset(),
	)
	if err != nil {
		return domain.Paged[domain.QuickAddDetail]{}, xe.Wrap(err)
	}
	items, err := mapRows(rows, detailRow.toDomain)
	if err != nil {
		return domain.Paged[domain.QuickAddDetail]{}, xe.Wrap(err)
	}
	return domain.Paged[domain.QuickAddDetail]{Items: items, Total: total}, nil
}

func (m *pgQuickAdd) View(ctx context.Context, view domain.View) (*domain.QuickAddDetail, error) {
	ip := pgtype.Inet{Status: pgtype.Null}
	if len(view.IPAddress) != 0 {
		if err := ip.Set(view.IPAddress); err != nil {
			return nil, xe.Wrap(err)
		}
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	ctag, err := tx.Exec(
		ctx,
		`update "quick_add_requests" set "views" = "views" + 1 where "id" = $1::uuid`,
		view.QuickAddID,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if ctag.RowsAffected() == 0 {
		return nil, xe.Wrap(pgerrors.Missing{Table: "quick_add_requests", Identity: view.QuickAddID})
	}

	if _, err := tx.Exec(
		ctx,
		`
		insert into "quick_add_views" ("quick_add_id", "user_id", "ip_address", "user_agent")
		values ($1::uuid, $2::uuid, $3, $4)
		on conflict do nothing
		`,
		view.QuickAddID, view.UserID, ip, view.UserAgent,
	); err != nil {
		return nil, xe.Wrap(err)
	}

	detail, err := m.get(ctx, tx, view.QuickAddID, view.UserID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, xe.Wrap(err)
	}
	return detail, nil
}

func (m *pgQuickAdd) ToggleLike(ctx context.Context, quickAddId string, userId string) (domain.LikeToggled, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return domain.LikeToggled{}, xe.Wrap(err)
	}
	defer tx.Rollback(ctx)

	// lock the listing to serialize toggles on it.
	var locked string
	if err := tx.QueryRow(
		ctx,
		`select "id"::text from "quick_add_requests" where "id" = $1::uuid for update`,
		quickAddId,
	).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.LikeToggled{}, xe.Wrap(pgerrors.Missing{Table: "quick_add_requests", Identity: quickAddId})
		}
		return domain.LikeToggled{}, xe.Wrap(err)
	}

	ctag, err := tx.Exec(
		ctx,
		`delete from "quick_add_likes" where "user_id" = $1::uuid and "quick_add_id" = $2::uuid`,
		userId, quickAddId,
	)
	if err != nil {
		return domain.LikeToggled{}, xe.Wrap(err)
	}

	result := domain.LikeToggled{}
	delta := -1
	if ctag.RowsAffected() == 0 {
		if _, err := tx.Exec(
			ctx,
			`insert into "quick_add_likes" ("user_id", "quick_add_id") values ($1::uuid, $2::uuid)`,
			userId, quickAddId,
		); err != nil {
			return domain.LikeToggled{}, xe.Wrap(err)
		}
		result.Liked = true
		delta = 1
	}

	if err := tx.QueryRow(
		ctx,
		`update "quick_add_requests" set "likes" = "likes" + $2 where "id" = $1::uuid returning "likes"`,
		quickAddId, delta,
	).Scan(&result.Likes); err != nil {
		return domain.LikeToggled{}, xe.Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.LikeToggled{}, xe.Wrap(err)
	}
	return result, nil
}

func (m *pgQuickAdd) Delete(ctx context.Context, id string) (*domain.QuickAdd, error) {
	rows, err := scanner.New[quickAddRow]().QueryAll(
		ctx, m.pool,
		`delete from "quick_add_requests" where "id" = $1::uuid returning `+quickAddColumns(""),
		id,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if len(rows) == 0 {
		return nil, xe.Wrap(pgerrors.Missing{Table: "quick_add_requests", Identity: id})
	}
	qa, err := rows[0].toDomain()
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return &qa, nil
}
