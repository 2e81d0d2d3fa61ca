package db

import (
	"context"
	"time"

	"github.com/smartbiz-gst/smartbiz/pkg/domain"
)

type QuickAddInterface interface {
	// Register a new listing as pending.
	//
	// # Args
	//
	// - ctx
	//
	// - spec: the listing.
	//
	// - now: creation time. Expiry is now + duration.
	//
	// # Returns
	//
	// - *domain.QuickAdd: registered listing.
	//
	// - error
	Register(ctx context.Context, spec *domain.QuickAddSpec, now time.Time) (*domain.QuickAdd, error)

	// Get a listing by id, as seen by viewer (nil for anonymous).
	//
	// error wraps errors.ErrMissing when not found.
	Get(ctx context.Context, id string, viewer *string) (*domain.QuickAddDetail, error)

	// Find listings.
	Find(ctx context.Context, query domain.QuickAddFindQuery) (domain.Paged[domain.QuickAddDetail], error)

	// FindByOwner lists listings of a user in any status, newest first.
	FindByOwner(ctx context.Context, userId string, page domain.Page) (domain.Paged[domain.QuickAddDetail], error)

	// View records a view of a listing and increments its view counter, atomically.
	//
	// The view is recorded at most once per viewer, but the counter is always incremented.
	//
	// # Returns
	//
	// - *domain.QuickAddDetail: the listing after increment.
	//
	// - error: wraps errors.ErrMissing when the listing is not found.
	View(ctx context.Context, view domain.View) (*domain.QuickAddDetail, error)

	// ToggleLike likes the listing for the user, or unlikes it if already liked.
	//
	// Like records and the like counter change together.
	//
	// error wraps errors.ErrMissing when the listing is not found.
	ToggleLike(ctx context.Context, quickAddId string, userId string) (domain.LikeToggled, error)

	// Delete a listing with its likes and views.
	//
	// # Returns
	//
	// - *domain.QuickAdd: the deleted listing.
	//
	// - error: wraps errors.ErrMissing when not found.
	Delete(ctx context.Context, id string) (*domain.QuickAdd, error)

	// Expire turns approved listings with expiry before now into expired.
	//
	// "updated_at" of them is set to now.
	Expire(ctx context.Context, now time.Time) ([]domain.ExpiredQuickAdd, error)

	// Purge deletes expired listings last updated before the time.
	Purge(ctx context.Context, before time.Time) ([]domain.QuickAdd, error)

	// ExpiringBetween lists approved listings expiring in [from, to], with owner contacts.
	ExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.ExpiringQuickAdd, error)
}
