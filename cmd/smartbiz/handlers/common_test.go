package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/smartbiz-gst/smartbiz/cmd/smartbiz/handlers"
	"github.com/smartbiz-gst/smartbiz/pkg/api/types/envelope"
	apierr "github.com/smartbiz-gst/smartbiz/pkg/api/types/errors"
	"github.com/smartbiz-gst/smartbiz/pkg/auth"
	"github.com/smartbiz-gst/smartbiz/pkg/domain"
	domerr "github.com/smartbiz-gst/smartbiz/pkg/domain/errors"
	qamocks "github.com/smartbiz-gst/smartbiz/pkg/domain/quickadd/db/mock"
	usermocks "github.com/smartbiz-gst/smartbiz/pkg/domain/user/db/mock"
	"github.com/smartbiz-gst/smartbiz/pkg/utils/pointer"
)

const (
	ownerId    = "0b3d7c7e-5d0c-4a59-9b0e-3f1f0e8f2a01"
	otherId    = "0b3d7c7e-5d0c-4a59-9b0e-3f1f0e8f2a02"
	adminId    = "0b3d7c7e-5d0c-4a59-9b0e-3f1f0e8f2a03"
	inactiveId = "0b3d7c7e-5d0c-4a59-9b0e-3f1f0e8f2a04"
	missingId  = "0b3d7c7e-5d0c-4a59-9b0e-3f1f0e8f2a99"

	qaId = "5f8e1f7a-2b44-4c1e-8d7a-9e6c1b2d3e01"
)

var (
	secret = []byte("handlers-test-secret")
	now    = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
)

func fixtureUsers() map[string]*domain.User {
	return map[string]*domain.User{
		ownerId: {
			ID: ownerId, Email: "owner@example.com", PasswordHash: "hashed:owner-pass",
			FirstName: "Asha", LastName: "Rao", BusinessName: pointer.Ref("Rao Stores"),
			City: pointer.Ref("Pune"), State: pointer.Ref("Maharashtra"),
			UserType: domain.Shopkeeper, IsActive: true,
		},
		otherId: {
			ID: otherId, Email: "other@example.com", PasswordHash: "hashed:other-pass",
			FirstName: "Ravi", LastName: "Kumar", UserType: domain.Buyer, IsActive: true,
		},
		adminId: {
			ID: adminId, Email: "admin@example.com", PasswordHash: "hashed:admin-pass",
			FirstName: "Admin", LastName: "User", UserType: domain.Admin, IsActive: true,
		},
		inactiveId: {
			ID: inactiveId, Email: "inactive@example.com", PasswordHash: "hashed:inactive-pass",
			FirstName: "Old", LastName: "User", UserType: domain.Shopkeeper, IsActive: false,
		},
	}
}

// usersOf returns a user mock answering Get and GetByEmail from the fixture.
func usersOf(fixture map[string]*domain.User) *usermocks.UserInterface {
	m := usermocks.NewUserInterface()
	m.Impl.Get = func(_ context.Context, id string) (*domain.User, error) {
		if u, ok := fixture[id]; ok {
			return u, nil
		}
		return nil, domerr.ErrMissing
	}
	m.Impl.GetByEmail = func(_ context.Context, email string) (*domain.User, error) {
		for _, u := range fixture {
			if u.Email == email {
				return u, nil
			}
		}
		return nil, domerr.ErrMissing
	}
	return m
}

// plainHasher "hashes" passwords as "hashed:PASSWORD".
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Verify(hash string, password string) error {
	if hash != "hashed:"+password {
		return auth.ErrPasswordMismatch
	}
	return nil
}

type fakeImages struct {
	accepted  []domain.Image
	acceptErr error

	forms   []*multipart.Form
	removed [][]domain.Image
}

func (f *fakeImages) Accept(form *multipart.Form) ([]domain.Image, error) {
	f.forms = append(f.forms, form)
	if f.acceptErr != nil {
		return nil, f.acceptErr
	}
	return f.accepted, nil
}

func (f *fakeImages) Remove(images []domain.Image) error {
	f.removed = append(f.removed, images)
	return nil
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type server struct {
	e      *echo.Echo
	tokens *auth.Tokens
}

func newServer(
	users *usermocks.UserInterface,
	quickAdds *qamocks.QuickAddInterface,
	images *fakeImages,
) server {
	e := echo.New()
	e.Logger.SetOutput(io.Discard)
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler(true)

	if images == nil {
		images = &fakeImages{}
	}
	tokens := auth.NewTokens(secret, time.Hour)
	handlers.Register(e, handlers.Backend{
		Users:     users,
		QuickAdds: quickAdds,
		Database:  pinger{},
		Tokens:    tokens,
		Hasher:    plainHasher{},
		Images:    images,
		Now:       func() time.Time { return now },
	})
	return server{e: e, tokens: tokens}
}

func (s server) tokenOf(t *testing.T, userId string) string {
	t.Helper()
	token, err := s.tokens.Issue(userId, userId+"@example.com")
	if err != nil {
		t.Fatal(err)
	}
	return token
}

// response body, with data left raw.
type body struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	Data       json.RawMessage      `json:"data"`
	Pagination *envelope.Pagination `json:"pagination"`
	Errors     []apierr.FieldError  `json:"errors"`
	Liked      *bool                `json:"liked"`
	Likes      *int                 `json:"likes"`
	Error      string               `json:"error"`
	Stack      []string             `json:"stack"`
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) body {
	t.Helper()
	b := body{}
	if err := json.Unmarshal(resp.Body.Bytes(), &b); err != nil {
		t.Fatalf("response is not JSON: %s (%s)", err, resp.Body.String())
	}
	return b
}

func dataOf[T any](t *testing.T, b body) T {
	t.Helper()
	v := new(T)
	if err := json.Unmarshal(b.Data, v); err != nil {
		t.Fatalf("unexpected data: %s (%s)", err, string(b.Data))
	}
	return *v
}

func hasFieldError(b body, field string) bool {
	for _, f := range b.Errors {
		if f.Field == field {
			return true
		}
	}
	return false
}
