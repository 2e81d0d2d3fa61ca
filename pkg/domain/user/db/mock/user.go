// this package provide "mock" implementation of user database for testing.
package mocks

import (
	"context"
	"errors"

	"github.com/smartbiz-gst/smartbiz/pkg/domain"
	kdbmock "github.com/smartbiz-gst/smartbiz/pkg/domain/internal/db/mock"
	kuser "github.com/smartbiz-gst/smartbiz/pkg/domain/user/db"
)

type UpdateProfileArgs struct {
	Id     string
	Update domain.ProfileUpdate
}

type SetPasswordHashArgs struct {
	Id   string
	Hash string
}

type SetActiveArgs struct {
	Id     string
	Active bool
}

type UserInterface struct {
	Impl struct {
		Register        func(context.Context, *domain.UserSpec) (*domain.User, error)
		Get             func(context.Context, string) (*domain.User, error)
		GetByEmail      func(context.Context, string) (*domain.User, error)
		Find            func(context.Context, domain.UserFindQuery) (domain.Paged[domain.User], error)
		UpdateProfile   func(context.Context, string, domain.ProfileUpdate) (*domain.User, error)
		SetPasswordHash func(context.Context, string, string) error
		SetActive       func(context.Context, string, bool) (*domain.User, error)
		Delete          func(context.Context, string) error
	}
	Calls struct {
		Register        kdbmock.CallLog[*domain.UserSpec]
		Get             kdbmock.CallLog[string]
		GetByEmail      kdbmock.CallLog[string]
		Find            kdbmock.CallLog[domain.UserFindQuery]
		UpdateProfile   kdbmock.CallLog[UpdateProfileArgs]
		SetPasswordHash kdbmock.CallLog[SetPasswordHashArgs]
		SetActive       kdbmock.CallLog[SetActiveArgs]
		Delete          kdbmock.CallLog[string]
	}
}

var _ kuser.UserInterface = &UserInterface{}

func NewUserInterface() *UserInterface {
	return &UserInterface{}
}

func (m *UserInterface) Register(ctx context.Context, spec *domain.UserSpec) (*domain.User, error) {
	m.Calls.Register = append(m.Calls.Register, spec)
	if m.Impl.Register != nil {
		return m.Impl.Register(ctx, spec)
	}
	panic(errors.New("should not be called"))
}

func (m *UserInterface) Get(ctx context.Context, id string) (*domain.User, error) {
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(errors.New("should not be called"))
}

func (m *UserInterface) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.Calls.GetByEmail = append(m.Calls.GetByEmail, email)
	if m.Impl.GetByEmail != nil {
		return m.Impl.GetByEmail(ctx, email)
	}
	panic(errors.New("should not be called"))
}

func (m *UserInterface) Find(ctx context.Context, query domain.UserFindQuery) (domain.Paged[domain.User], error) {
	m.Calls.Find = append(m.Calls.Find, query)
	if m.Impl.Find != nil {
		return m.Impl.Find(ctx, query)
	}
	panic(errors.New("should not be called"))
}

func (m *UserInterface) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	m.Calls.UpdateProfile = append(m.Calls.UpdateProfile, UpdateProfileArgs{Id: id, Update: update})
	if m.Impl.UpdateProfile != nil {
		return m.Impl.UpdateProfile(ctx, id, update)
	}
	panic(errors.New("should not be called"))
}

func (m *UserInterface) SetPasswordHash(ctx context.Context, id string, hash string) error {
	m.Calls.SetPasswordHash = append(m.Calls.SetPasswordHash, SetPasswordHashArgs{Id: id, Hash: hash})
	if m.Impl.SetPasswordHash != nil {
		return m.Impl.SetPasswordHash(ctx, id, hash)
	}
	panic(errors.New("should not be called"))
}

func (m *UserInterface) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	m.Calls.SetActive = append(m.Calls.SetActive, SetActiveArgs{Id: id, Active: active})
	if m.Impl.SetActive != nil {
		return m.Impl.SetActive(ctx, id, active)
	}
	panic(errors.New("should not be called"))
}

func (m *UserInterface) Delete(ctx context.Context, id string) error {
	m.Calls.Delete = append(m.Calls.Delete, id)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(errors.New("should not be called"))
}
