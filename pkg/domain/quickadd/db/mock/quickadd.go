// this package provide "mock" implementation of quick add database for testing.
package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/smartbiz-gst/smartbiz/pkg/domain"
	kdbmock "github.com/smartbiz-gst/smartbiz/pkg/domain/internal/db/mock"
	kquickadd "github.com/smartbiz-gst/smartbiz/pkg/domain/quickadd/db"
)

type RegisterArgs struct {
	Spec *domain.QuickAddSpec
	Now  time.Time
}

type GetArgs struct {
	Id     string
	Viewer *string
}

type FindByOwnerArgs struct {
	UserId string
	Page   domain.Page
}

type ToggleLikeArgs struct {
	QuickAddId string
	UserId     string
}

type BetweenArgs struct {
	From time.Time
	To   time.Time
}

type QuickAddInterface struct {
	Impl struct {
		Register        func(context.Context, *domain.QuickAddSpec, time.Time) (*domain.QuickAdd, error)
		Get             func(context.Context, string, *string) (*domain.QuickAddDetail, error)
		Find            func(context.Context, domain.QuickAddFindQuery) (domain.Paged[domain.QuickAddDetail], error)
		FindByOwner     func(context.Context, string, domain.Page) (domain.Paged[domain.QuickAddDetail], error)
		View            func(context.Context, domain.View) (*domain.QuickAddDetail, error)
		ToggleLike      func(context.Context, string, string) (domain.LikeToggled, error)
		Delete          func(context.Context, string) (*domain.QuickAdd, error)
		Expire          func(context.Context, time.Time) ([]domain.ExpiredQuickAdd, error)
		Purge           func(context.Context, time.Time) ([]domain.QuickAdd, error)
		ExpiringBetween func(context.Context, time.Time, time.Time) ([]domain.ExpiringQuickAdd, error)
	}
	Calls struct {
		Register        kdbmock.CallLog[RegisterArgs]
		Get             kdbmock.CallLog[GetArgs]
		Find            kdbmock.CallLog[domain.QuickAddFindQuery]
		FindByOwner     kdbmock.CallLog[FindByOwnerArgs]
		View            kdbmock.CallLog[domain.View]
		ToggleLike      kdbmock.CallLog[ToggleLikeArgs]
		Delete          kdbmock.CallLog[string]
		Expire          kdbmock.CallLog[time.Time]
		Purge           kdbmock.CallLog[time.Time]
		ExpiringBetween kdbmock.CallLog[BetweenArgs]
	}
}

var _ kquickadd.QuickAddInterface = &QuickAddInterface{}

func NewQuickAddInterface() *QuickAddInterface {
	return &QuickAddInterface{}
}

func (m *QuickAddInterface) Register(ctx context.Context, spec *domain.QuickAddSpec, now time.Time) (*domain.QuickAdd, error) {
	m.Calls.Register = append(m.Calls.Register, RegisterArgs{Spec: spec, Now: now})
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, spec, now)
	}
	panic(errors.New("should not be called"))
}

func (m *QuickAddInterface) Get(ctx context.Context, id string, viewer *string) (*domain.QuickAddDetail, error) {
	m.Calls.Get = append(m.Calls.Get, GetArgs{Id: id, Viewer: viewer})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id, viewer)
	}
	panic(errors.New("should not be called"))
}

func (m *QuickAddInterface) Find(ctx context.Context, query domain.QuickAddFindQuery) (domain.Paged[domain.QuickAddDetail], error) {
	m.Calls.Find = append(m.Calls.Find, query)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic(errors.New("should not be called"))
}

func (m *QuickAddInterface) FindByOwner(ctx context.Context, userId string, page domain.Page) (domain.Paged[domain.QuickAddDetail], error) {
	m.Calls.FindByOwner = append(m.Calls.FindByOwner, FindByOwnerArgs{UserId: userId, Page: page})
	if m.Impl.FindByOwner != nil {
		return m.Impl.FindByOwner(ctx, userId, page)
	}
	panic(errors.New("should not be called"))
}

func (m *QuickAddInterface) View(ctx context.Context, view domain.View) (*domain.QuickAddDetail, error) {
	m.Calls.View = append(m.Calls.View, view)
	if m.Impl.View != nil {
		return m.Impl.View(ctx, view)
	}
	panic(errors.New("should not be called"))
}

func (m *QuickAddInterface) ToggleLike(ctx context.Context, quickAddId string, userId string) (domain.LikeToggled, error) {
	m.Calls.ToggleLike = append(m.Calls.ToggleLike, ToggleLikeArgs{QuickAddId: quickAddId, UserId: userId})
	if m.Impl.ToggleLike != nil {
		return m.Impl.ToggleLike(ctx, quickAddId, userId)
	}
	panic(errors.New("should not be called"))
}

func (m *QuickAddInterface) Delete(ctx context.Context, id string) (*domain.QuickAdd, error) {
	m.Calls.Delete = append(m.Calls.Delete, id)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(errors.New("should not be called"))
}

func (m *QuickAddInterface) Expire(ctx context.Context, now time.Time) ([]domain.ExpiredQuickAdd, error) {
	m.Calls.Expire = append(m.Calls.Expire, now)
	if m.Impl.Expire != nil {
		return m.Impl.Expire(ctx, now)
	}
	panic(errors.New("should not be called"))
}

func (m *QuickAddInterface) Purge(ctx context.Context, before time.Time) ([]domain.QuickAdd, error) {
	m.Calls.Purge = append(m.Calls.Purge, before)
	if m.Impl.Purge != nil {
		return m.Impl.Purge(ctx, before)
	}
	panic(errors.New("should not be called"))
}

func (m *QuickAddInterface) ExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.ExpiringQuickAdd, error) {
	m.Calls.ExpiringBetween = append(m.Calls.ExpiringBetween, BetweenArgs{From: from, To: to})
	if m.Impl.ExpiringBetween != nil {
		return m.Impl.ExpiringBetween(ctx, from, to)
	}
	panic(errors.New("should not be called"))
}
