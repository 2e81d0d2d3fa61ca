package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	httptestutil "github.com/smartbiz-gst/smartbiz/internal/testutils/http"
	apierr "github.com/smartbiz-gst/smartbiz/pkg/api/types/errors"
	apiquickadds "github.com/smartbiz-gst/smartbiz/pkg/api/types/quickadds"
	"github.com/smartbiz-gst/smartbiz/pkg/domain"
	domerr "github.com/smartbiz-gst/smartbiz/pkg/domain/errors"
	qamocks "github.com/smartbiz-gst/smartbiz/pkg/domain/quickadd/db/mock"
	"github.com/smartbiz-gst/smartbiz/pkg/upload"
	"github.com/smartbiz-gst/smartbiz/pkg/utils/pointer"
)

func stored() []domain.Image {
	return []domain.Image{
		{
			Filename: "images-1709287200000-1.png", OriginalName: "banner.png",
			Path: "uploads/images-1709287200000-1.png", Size: 1024, Mimetype: "image/png",
		},
	}
}

func quickAddOf(spec *domain.QuickAddSpec, createdAt time.Time) *domain.QuickAdd {
	return &domain.QuickAdd{
		ID: qaId, UserID: spec.UserID, Title: spec.Title, Description: spec.Description,
		Category: spec.Category, ProductType: spec.ProductType, PriceRange: spec.PriceRange,
		DurationDays: spec.DurationDays, DesignPreference: spec.DesignPreference,
		Images: spec.Images, Status: domain.Pending,
		CreatedAt: createdAt, ExpiresAt: spec.ExpiresAt(createdAt), UpdatedAt: createdAt,
	}
}

func detailOf(userId string) *domain.QuickAddDetail {
	return &domain.QuickAddDetail{
		QuickAdd: domain.QuickAdd{
			ID: qaId, UserID: userId, Title: "Diwali sale", Description: "20% off",
			Category: "Clothing", ProductType: domain.Promotion, DurationDays: 3,
			DesignPreference: domain.Modern, Images: stored(), Status: domain.Approved,
			Views: 8, Likes: 2, CreatedAt: now, ExpiresAt: now.Add(72 * time.Hour), UpdatedAt: now,
		},
		Owner:     fixtureUsers()[ownerId].Owner(),
		LikeCount: 2,
	}
}

func TestCreateQuickAdd(t *testing.T) {
	validFields := func() map[string]string {
		return map[string]string{
			"title": " Diwali sale ", "description": "20% off on all items", "category": "Clothing",
			"productType": "promotion", "duration": "3", "priceRange": "₹500 - ₹1000",
		}
	}
	banner := httptestutil.File{Field: "images", Filename: "banner.png", Content: []byte("png")}

	t.Run("it creates a pending listing with uploaded images", func(t *testing.T) {
		quickAdds := qamocks.NewQuickAddInterface()
		quickAdds.Impl.Register = func(_ context.Context, spec *domain.QuickAddSpec, now time.Time) (*domain.QuickAdd, error) {
			return quickAddOf(spec, now), nil
		}
		images := &fakeImages{accepted: stored()}
		s := newServer(usersOf(fixtureUsers()), quickAdds, images)

		reqBody, ctype := httptestutil.Multipart(t, validFields(), banner)
		resp := httptestutil.Serve(
			s.e, http.MethodPost, "/quick-add/create", reqBody, ctype,
			httptestutil.WithBearer(s.tokenOf(t, ownerId)),
		)
		if resp.Code != http.StatusCreated {
			t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
		}

		args := quickAdds.Calls.Register.Last()
		if !args.Now.Equal(now) {
			t.Errorf("unexpected creation time: %s", args.Now)
		}
		spec := args.Spec
		if spec.UserID != ownerId || spec.Title != "Diwali sale" || spec.DurationDays != 3 ||
			spec.DesignPreference != domain.Modern || len(spec.Images) != 1 {
			t.Errorf("unexpected spec: %+v", spec)
		}
		if len(images.forms) != 1 || len(images.forms[0].File["images"]) != 1 {
			t.Errorf("uploaded files are not passed: %+v", images.forms)
		}
		if len(images.removed) != 0 {
			t.Errorf("images are removed: %+v", images.removed)
		}

		b := decode(t, resp)
		if b.Message != "Quick add request created successfully" {
			t.Errorf("message = %s", b.Message)
		}
		created := dataOf[apiquickadds.Created](t, b)
		if created.Status != "pending" || !created.ExpiresAt.Equal(now.Add(72*time.Hour)) ||
			created.DesignPreference != "Modern" || pointer.SafeDeref(created.PriceRange) != "₹500 - ₹1000" {
			t.Errorf("unexpected data: %+v", created)
		}
		if len(created.Images) != 1 || created.Images[0].OriginalName != "banner.png" {
			t.Errorf("unexpected images: %+v", created.Images)
		}
	})

	t.Run("it discards stored images when the form is invalid", func(t *testing.T) {
		quickAdds := qamocks.NewQuickAddInterface()
		images := &fakeImages{accepted: stored()}
		s := newServer(usersOf(fixtureUsers()), quickAdds, images)

		fields := validFields()
		fields["duration"] = "8"
		fields["productType"] = "sale"
		reqBody, ctype := httptestutil.Multipart(t, fields, banner)
		resp := httptestutil.Serve(
			s.e, http.MethodPost, "/quick-add/create", reqBody, ctype,
			httptestutil.WithBearer(s.tokenOf(t, ownerId)),
		)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
		}
		b := decode(t, resp)
		if !hasFieldError(b, "duration") || !hasFieldError(b, "productType") {
			t.Errorf("unexpected errors: %+v", b.Errors)
		}
		if len(images.removed) != 1 || len(images.removed[0]) != 1 {
			t.Errorf("images are not discarded: %+v", images.removed)
		}
		if 0 < quickAdds.Calls.Register.Times() {
			t.Errorf("invalid listing is registered")
		}
	})

	t.Run("it discards stored images when registration fails", func(t *testing.T) {
		quickAdds := qamocks.NewQuickAddInterface()
		quickAdds.Impl.Register = func(context.Context, *domain.QuickAddSpec, time.Time) (*domain.QuickAdd, error) {
			return nil, errors.New("connection refused")
		}
		images := &fakeImages{accepted: stored()}
		s := newServer(usersOf(fixtureUsers()), quickAdds, images)

		reqBody, ctype := httptestutil.Multipart(t, validFields(), banner)
		resp := httptestutil.Serve(
			s.e, http.MethodPost, "/quick-add/create", reqBody, ctype,
			httptestutil.WithBearer(s.tokenOf(t, ownerId)),
		)
		if resp.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
		}
		if len(images.removed) != 1 {
			t.Errorf("images are not discarded: %+v", images.removed)
		}
	})

	t.Run("it responds 400 for rejected uploads", func(t *testing.T) {
		quickAdds := qamocks.NewQuickAddInterface()
		images := &fakeImages{acceptErr: upload.ErrNotAnImage}
		s := newServer(usersOf(fixtureUsers()), quickAdds, images)

		reqBody, ctype := httptestutil.Multipart(t, validFields(), banner)
		resp := httptestutil.Serve(
			s.e, http.MethodPost, "/quick-add/create", reqBody, ctype,
			httptestutil.WithBearer(s.tokenOf(t, ownerId)),
		)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
		}
		if b := decode(t, resp); b.Message != upload.ErrNotAnImage.Message {
			t.Errorf("message = %s", b.Message)
		}
	})

	t.Run("it accepts url-encoded forms without images", func(t *testing.T) {
		quickAdds := qamocks.NewQuickAddInterface()
		quickAdds.Impl.Register = func(_ context.Context, spec *domain.QuickAddSpec, now time.Time) (*domain.QuickAdd, error) {
			return quickAddOf(spec, now), nil
		}
		images := &fakeImages{}
		s := newServer(usersOf(fixtureUsers()), quickAdds, images)

		resp := httptestutil.Serve(
			s.e, http.MethodPost, "/quick-add/create",
			strings.NewReader("title=Wanted&description=Bulk+rice&category=Grocery&productType=request&duration=1&designPreference=Poster"),
			httptestutil.ContentType("application/x-www-form-urlencoded"),
			httptestutil.WithBearer(s.tokenOf(t, ownerId)),
		)
		if resp.Code != http.StatusCreated {
			t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
		}
		if len(images.forms) != 1 || images.forms[0] != nil {
			t.Errorf("unexpected forms: %+v", images.forms)
		}
		spec := quickAdds.Calls.Register.Last().Spec
		if spec.ProductType != domain.Request || spec.DesignPreference != domain.Poster || len(spec.Images) != 0 {
			t.Errorf("unexpected spec: %+v", spec)
		}
	})

	t.Run("it requires authentication", func(t *testing.T) {
		quickAdds := qamocks.NewQuickAddInterface()
		images := &fakeImages{}
		s := newServer(usersOf(fixtureUsers()), quickAdds, images)

		reqBody, ctype := httptestutil.Multipart(t, validFields())
		resp := httptestutil.Serve(s.e, http.MethodPost, "/quick-add/create", reqBody, ctype)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
		}
		if len(images.forms) != 0 {
			t.Errorf("uploads are accepted")
		}
	})
}

func TestListQuickAdds(t *testing.T) {
	type then struct {
		query domain.QuickAddFindQuery
	}
	for name, testcase := range map[string]struct {
		when   string
		bearer string
		then   then
	}{
		"defaults for anonymous viewers": {
			when: "/quick-add/all",
			then: then{query: domain.QuickAddFindQuery{
				Status: domain.Approved, SortBy: domain.SortByCreatedAt, SortOrder: domain.Descending,
				Page: domain.Page{Number: 1, Size: 10},
			}},
		},
		"filters for a signed-in viewer": {
			when:   "/quick-add/all?page=3&limit=50&status=expired&productType=request&category=Grocery&sortBy=likes&sortOrder=asc",
			bearer: otherId,
			then: then{query: domain.QuickAddFindQuery{
				Status: domain.Expired, ProductType: pointer.Ref(domain.Request), Category: "Grocery",
				SortBy: domain.SortByLikes, SortOrder: domain.Ascending, Viewer: pointer.Ref(otherId),
				Page: domain.Page{Number: 3, Size: 50},
			}},
		},
		"invalid token is taken as anonymous": {
			when:   "/quick-add/all",
			bearer: missingId,
			then: then{query: domain.QuickAddFindQuery{
				Status: domain.Approved, SortBy: domain.SortByCreatedAt, SortOrder: domain.Descending,
				Page: domain.Page{Number: 1, Size: 10},
			}},
		},
	} {
		t.Run(name, func(t *testing.T) {
			quickAdds := qamocks.NewQuickAddInterface()
			quickAdds.Impl.Find = func(context.Context, domain.QuickAddFindQuery) (domain.Paged[domain.QuickAddDetail], error) {
				return domain.Paged[domain.QuickAddDetail]{
					Items: []domain.QuickAddDetail{*detailOf(ownerId)}, Total: 1,
				}, nil
			}
			s := newServer(usersOf(fixtureUsers()), quickAdds, nil)

			opts := []httptestutil.RequestOption{}
			if testcase.bearer != "" {
				opts = append(opts, httptestutil.WithBearer(s.tokenOf(t, testcase.bearer)))
			}
			resp := httptestutil.Serve(s.e, http.MethodGet, testcase.when, nil, opts...)
			if resp.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
			}

			actual := quickAdds.Calls.Find.Last()
			expected := testcase.then.query
			if actual.Status != expected.Status || actual.Category != expected.Category ||
				actual.SortBy != expected.SortBy || actual.SortOrder != expected.SortOrder ||
				actual.Page != expected.Page ||
				pointer.SafeDeref(actual.ProductType) != pointer.SafeDeref(expected.ProductType) ||
				pointer.SafeDeref(actual.Viewer) != pointer.SafeDeref(expected.Viewer) {
				t.Errorf("query:\n===actual===\n%+v\n===expected===\n%+v", actual, expected)
			}

			b := decode(t, resp)
			items := dataOf[[]apiquickadds.Detail](t, b)
			if len(items) != 1 || items[0].User.Name != "Asha Rao" || items[0].User.Location != "Pune, Maharashtra" {
				t.Errorf("unexpected items: %+v", items)
			}
			if b.Pagination == nil || b.Pagination.TotalItems != 1 {
				t.Errorf("unexpected pagination: %+v", b.Pagination)
			}
		})
	}

	t.Run("it responds an empty page as an empty array", func(t *testing.T) {
		quickAdds := qamocks.NewQuickAddInterface()
		quickAdds.Impl.Find = func(context.Context, domain.QuickAddFindQuery) (domain.Paged[domain.QuickAddDetail], error) {
			return domain.Paged[domain.QuickAddDetail]{}, nil
		}
		s := newServer(usersOf(fixtureUsers()), quickAdds, nil)

		resp := httptestutil.Serve(s.e, http.MethodGet, "/quick-add/all", nil)
		b := decode(t, resp)
		if string(b.Data) != "[]" {
			t.Errorf("data = %s", string(b.Data))
		}
		if p := b.Pagination; p == nil || p.TotalPages != 0 || p.HasNextPage || p.HasPrevPage {
			t.Errorf("unexpected pagination: %+v", p)
		}
	})

	t.Run("it rejects unknown sort column", func(t *testing.T) {
		s := newServer(usersOf(fixtureUsers()), qamocks.NewQuickAddInterface(), nil)

		resp := httptestutil.Serve(s.e, http.MethodGet, "/quick-add/all?sortBy=price", nil)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
		}
		if b := decode(t, resp); !hasFieldError(b, "sortBy") {
			t.Errorf("unexpected errors: %+v", b.Errors)
		}
	})

	for name, testcase := range map[string]struct {
		when string
		then apierr.FieldError
	}{
		"page=0": {
			when: "/quick-add/all?page=0",
			then: apierr.FieldError{Field: "page", Message: "Page must be a positive integer"},
		},
		"limit=0": {
			when: "/quick-add/all?limit=0",
			then: apierr.FieldError{Field: "limit", Message: "Limit must be between 1 and 50"},
		},
		"page=0 of owner's listings": {
			when: "/quick-add/user/" + ownerId + "?page=0",
			then: apierr.FieldError{Field: "page", Message: "Page must be a positive integer"},
		},
	} {
		t.Run("it rejects explicit "+name, func(t *testing.T) {
			quickAdds := qamocks.NewQuickAddInterface()
			s := newServer(usersOf(fixtureUsers()), quickAdds, nil)

			resp := httptestutil.Serve(
				s.e, http.MethodGet, testcase.when, nil,
				httptestutil.WithBearer(s.tokenOf(t, ownerId)),
			)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
			}
			b := decode(t, resp)
			if len(b.Errors) != 1 || b.Errors[0] != testcase.then {
				t.Errorf("errors = %+v, expected [%+v]", b.Errors, testcase.then)
			}
			if 0 < quickAdds.Calls.Find.Times() || 0 < quickAdds.Calls.FindByOwner.Times() {
				t.Errorf("repository is called")
			}
		})
	}
}

func TestListUserQuickAdds(t *testing.T) {
	for name, testcase := range map[string]struct {
		caller string
		code   int
	}{
		"owner":   {caller: ownerId, code: http.StatusOK},
		"admin":   {caller: adminId, code: http.StatusOK},
		"someone": {caller: otherId, code: http.StatusForbidden},
	} {
		t.Run(name, func(t *testing.T) {
			quickAdds := qamocks.NewQuickAddInterface()
			quickAdds.Impl.FindByOwner = func(context.Context, string, domain.Page) (domain.Paged[domain.QuickAddDetail], error) {
				return domain.Paged[domain.QuickAddDetail]{
					Items: []domain.QuickAddDetail{*detailOf(ownerId)}, Total: 1,
				}, nil
			}
			s := newServer(usersOf(fixtureUsers()), quickAdds, nil)

			resp := httptestutil.Serve(
				s.e, http.MethodGet, "/quick-add/user/"+ownerId+"?page=2", nil,
				httptestutil.WithBearer(s.tokenOf(t, testcase.caller)),
			)
			if resp.Code != testcase.code {
				t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
			}
			if testcase.code != http.StatusOK {
				if 0 < quickAdds.Calls.FindByOwner.Times() {
					t.Errorf("listings are looked up")
				}
				return
			}
			args := quickAdds.Calls.FindByOwner.Last()
			if args.UserId != ownerId || args.Page != (domain.Page{Number: 2, Size: 10}) {
				t.Errorf("unexpected args: %+v", args)
			}
		})
	}
}

func TestGetQuickAdd(t *testing.T) {
	t.Run("it records a view of a signed-in viewer", func(t *testing.T) {
		quickAdds := qamocks.NewQuickAddInterface()
		quickAdds.Impl.View = func(context.Context, domain.View) (*domain.QuickAddDetail, error) {
			d := detailOf(ownerId)
			d.Views++
			d.IsLiked = true
			return d, nil
		}
		s := newServer(usersOf(fixtureUsers()), quickAdds, nil)

		resp := httptestutil.Serve(
			s.e, http.MethodGet, "/quick-add/"+qaId, nil,
			httptestutil.WithBearer(s.tokenOf(t, otherId)),
			httptestutil.WithRealIP("203.0.113.7"),
			httptestutil.WithHeader("User-Agent", "test-agent/1.0"),
		)
		if resp.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
		}

		view := quickAdds.Calls.View.Last()
		if view.QuickAddID != qaId || pointer.SafeDeref(view.UserID) != otherId ||
			view.IPAddress.String() != "203.0.113.7" || view.UserAgent != "test-agent/1.0" {
			t.Errorf("unexpected view: %+v", view)
		}

		detail := dataOf[apiquickadds.Detail](t, decode(t, resp))
		if detail.Views != 9 || !detail.IsLiked || detail.Likes != 2 {
			t.Errorf("unexpected detail: %+v", detail)
		}
	})

	t.Run("it records a view of an anonymous viewer", func(t *testing.T) {
		quickAdds := qamocks.NewQuickAddInterface()
		quickAdds.Impl.View = func(context.Context, domain.View) (*domain.QuickAddDetail, error) {
			return detailOf(ownerId), nil
		}
		s := newServer(usersOf(fixtureUsers()), quickAdds, nil)

		resp := httptestutil.Serve(s.e, http.MethodGet, "/quick-add/"+qaId, nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
		}
		if view := quickAdds.Calls.View.Last(); view.UserID != nil {
			t.Errorf("unexpected viewer: %+v", view)
		}
	})

	for name, testcase := range map[string]struct {
		target  string
		code    int
		message string
	}{
		"missing listing": {target: qaId, code: http.StatusNotFound, message: "Quick add request not found"},
		"malformed id":    {target: "42", code: http.StatusBadRequest, message: "Validation failed"},
	} {
		t.Run("it responds for "+name, func(t *testing.T) {
			quickAdds := qamocks.NewQuickAddInterface()
			quickAdds.Impl.View = func(context.Context, domain.View) (*domain.QuickAddDetail, error) {
				return nil, domerr.ErrMissing
			}
			s := newServer(usersOf(fixtureUsers()), quickAdds, nil)

			resp := httptestutil.Serve(s.e, http.MethodGet, "/quick-add/"+testcase.target, nil)
			if resp.Code != testcase.code {
				t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
			}
			b := decode(t, resp)
			if b.Message != testcase.message {
				t.Errorf("message = %s", b.Message)
			}
			if testcase.code == http.StatusBadRequest {
				if len(b.Errors) != 1 || b.Errors[0].Message != "Invalid quick add ID" {
					t.Errorf("unexpected errors: %+v", b.Errors)
				}
			}
		})
	}
}

func TestToggleLike(t *testing.T) {
	for name, testcase := range map[string]struct {
		when    domain.LikeToggled
		message string
	}{
		"like": {
			when: domain.LikeToggled{Liked: true, Likes: 3}, message: "Quick add liked successfully",
		},
		"unlike": {
			when: domain.LikeToggled{Liked: false, Likes: 0}, message: "Quick add unliked successfully",
		},
	} {
		t.Run(name, func(t *testing.T) {
			quickAdds := qamocks.NewQuickAddInterface()
			quickAdds.Impl.ToggleLike = func(context.Context, string, string) (domain.LikeToggled, error) {
				return testcase.when, nil
			}
			s := newServer(usersOf(fixtureUsers()), quickAdds, nil)

			resp := httptestutil.Serve(
				s.e, http.MethodPost, "/quick-add/"+qaId+"/like", nil,
				httptestutil.WithBearer(s.tokenOf(t, otherId)),
			)
			if resp.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
			}
			args := quickAdds.Calls.ToggleLike.Last()
			if args.QuickAddId != qaId || args.UserId != otherId {
				t.Errorf("unexpected args: %+v", args)
			}

			b := decode(t, resp)
			if b.Message != testcase.message {
				t.Errorf("message = %s", b.Message)
			}
			if b.Liked == nil || *b.Liked != testcase.when.Liked || b.Likes == nil || *b.Likes != testcase.when.Likes {
				t.Errorf("unexpected liked/likes: %v %v", b.Liked, b.Likes)
			}
		})
	}

	t.Run("it responds 404 for a missing listing", func(t *testing.T) {
		quickAdds := qamocks.NewQuickAddInterface()
		quickAdds.Impl.ToggleLike = func(context.Context, string, string) (domain.LikeToggled, error) {
			return domain.LikeToggled{}, domerr.ErrMissing
		}
		s := newServer(usersOf(fixtureUsers()), quickAdds, nil)

		resp := httptestutil.Serve(
			s.e, http.MethodPost, "/quick-add/"+qaId+"/like", nil,
			httptestutil.WithBearer(s.tokenOf(t, otherId)),
		)
		if resp.Code != http.StatusNotFound {
			t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
		}
	})
}

func TestDeleteQuickAdd(t *testing.T) {
	for name, testcase := range map[string]struct {
		caller  string
		code    int
		message string
	}{
		"owner deletes": {
			caller: ownerId, code: http.StatusOK, message: "Quick add request deleted successfully",
		},
		"admin deletes": {
			caller: adminId, code: http.StatusOK, message: "Quick add request deleted successfully",
		},
		"someone else": {
			caller: otherId, code: http.StatusForbidden, message: "Access denied",
		},
	} {
		t.Run(name, func(t *testing.T) {
			quickAdds := qamocks.NewQuickAddInterface()
			quickAdds.Impl.Get = func(context.Context, string, *string) (*domain.QuickAddDetail, error) {
				return detailOf(ownerId), nil
			}
			quickAdds.Impl.Delete = func(context.Context, string) (*domain.QuickAdd, error) {
				return &detailOf(ownerId).QuickAdd, nil
			}
			images := &fakeImages{}
			s := newServer(usersOf(fixtureUsers()), quickAdds, images)

			resp := httptestutil.Serve(
				s.e, http.MethodDelete, "/quick-add/"+qaId, nil,
				httptestutil.WithBearer(s.tokenOf(t, testcase.caller)),
			)
			if resp.Code != testcase.code {
				t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
			}
			if b := decode(t, resp); b.Message != testcase.message {
				t.Errorf("message = %s", b.Message)
			}

			if testcase.code != http.StatusOK {
				if 0 < quickAdds.Calls.Delete.Times() || 0 < len(images.removed) {
					t.Errorf("listing is deleted by %s", testcase.caller)
				}
				return
			}
			if quickAdds.Calls.Delete.Last() != qaId {
				t.Errorf("unexpected target: %v", quickAdds.Calls.Delete)
			}
			if len(images.removed) != 1 || images.removed[0][0].Filename != stored()[0].Filename {
				t.Errorf("images are not removed: %+v", images.removed)
			}
		})
	}

	t.Run("it responds 404 for a missing listing", func(t *testing.T) {
		quickAdds := qamocks.NewQuickAddInterface()
		quickAdds.Impl.Get = func(context.Context, string, *string) (*domain.QuickAddDetail, error) {
			return nil, domerr.ErrMissing
		}
		s := newServer(usersOf(fixtureUsers()), quickAdds, nil)

		resp := httptestutil.Serve(
			s.e, http.MethodDelete, "/quick-add/"+qaId, nil,
			httptestutil.WithBearer(s.tokenOf(t, ownerId)),
		)
		if resp.Code != http.StatusNotFound {
			t.Fatalf("status = %d: %s", resp.Code, resp.Body.String())
		}
	})
}
