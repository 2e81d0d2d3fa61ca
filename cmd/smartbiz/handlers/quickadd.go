package handlers

import (
	"errors"
	"mime/multipart"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/smartbiz-gst/smartbiz/pkg/api/types/envelope"
	apierr "github.com/smartbiz-gst/smartbiz/pkg/api/types/errors"
	apiquickadds "github.com/smartbiz-gst/smartbiz/pkg/api/types/quickadds"
	"github.com/smartbiz-gst/smartbiz/pkg/domain"
	domerr "github.com/smartbiz-gst/smartbiz/pkg/domain/errors"
	kquickadd "github.com/smartbiz-gst/smartbiz/pkg/domain/quickadd/db"
)

// Images stores uploaded images and removes them.
type Images interface {
	Accept(form *multipart.Form) ([]domain.Image, error)
	Remove(images []domain.Image) error
}

func CreateQuickAddHandler(quickAdds kquickadd.QuickAddInterface, images Images, now func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return apierr.Unauthorized("Access token required", nil)
		}

		form, err := c.MultipartForm()
		if errors.Is(err, http.ErrNotMultipart) {
			form = nil
		} else if err != nil {
			return apierr.BadRequest("Invalid multipart form", err)
		}

		stored, err := images.Accept(form)
		if err != nil {
			return err
		}

		// files are useless unless the listing is registered.
		discard := func() {
			if err := images.Remove(stored); err != nil {
				c.Logger().Warnf("failed to remove uploaded images: %s", err)
			}
		}

		req := new(apiquickadds.CreateRequest)
		if err := bind(c, req); err != nil {
			discard()
			return err
		}

		created, err := quickAdds.Register(c.Request().Context(), req.Spec(user.ID, stored), now())
		if err != nil {
			discard()
			return err
		}

		return c.JSON(http.StatusCreated, envelope.OK(
			"Quick add request created successfully", apiquickadds.ComposeCreated(*created),
		))
	}
}

func ListQuickAddsHandler(quickAdds kquickadd.QuickAddInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		q := new(apiquickadds.ListQuery)
		if err := bind(c, q); err != nil {
			return err
		}

		query := q.FindQuery(viewerOf(c))
		found, err := quickAdds.Find(c.Request().Context(), query)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, envelope.Paginated(query.Page, found, apiquickadds.ComposeDetail))
	}
}

func ListUserQuickAddsHandler(quickAdds kquickadd.QuickAddInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		userId, err := uuidParam(c, paramKey, "Invalid user ID")
		if err != nil {
			return err
		}
		if me := CurrentUser(c); me == nil || !me.CanAccess(userId) {
			return apierr.AccessDenied()
		}

		q := new(apiquickadds.ListQuery)
		if err := bind(c, q); err != nil {
			return err
		}

		page := q.PageOf()
		found, err := quickAdds.FindByOwner(c.Request().Context(), userId, page)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, envelope.Paginated(page, found, apiquickadds.ComposeDetail))
	}
}

// GetQuickAddHandler responds a listing, counting the request as a view.
func GetQuickAddHandler(quickAdds kquickadd.QuickAddInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuidParam(c, paramKey, "Invalid quick add ID")
		if err != nil {
			return err
		}

		detail, err := quickAdds.View(c.Request().Context(), domain.View{
			QuickAddID: id,
			UserID:     viewerOf(c),
			IPAddress:  net.ParseIP(c.RealIP()),
			UserAgent:  c.Request().UserAgent(),
		})
		if errors.Is(err, domerr.ErrMissing) {
			return apierr.NotFound("Quick add request not found")
		} else if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, envelope.OK("", apiquickadds.ComposeDetail(*detail)))
	}
}

func ToggleLikeHandler(quickAdds kquickadd.QuickAddInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return apierr.Unauthorized("Access token required", nil)
		}
		id, err := uuidParam(c, paramKey, "Invalid quick add ID")
		if err != nil {
			return err
		}

		toggled, err := quickAdds.ToggleLike(c.Request().Context(), id, user.ID)
		if errors.Is(err, domerr.ErrMissing) {
			return apierr.NotFound("Quick add request not found")
		} else if err != nil {
			return err
		}

		message := "Quick add unliked successfully"
		if toggled.Liked {
			message = "Quick add liked successfully"
		}
		body := envelope.OK(message, nil)
		body.Liked = &toggled.Liked
		body.Likes = &toggled.Likes
		return c.JSON(http.StatusOK, body)
	}
}

// DeleteQuickAddHandler deletes a listing of the current user (or any listing, for admins).
//
// Image files of the listing are removed best-effort.
func DeleteQuickAddHandler(quickAdds kquickadd.QuickAddInterface, images Images, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return apierr.Unauthorized("Access token required", nil)
		}
		id, err := uuidParam(c, paramKey, "Invalid quick add ID")
		if err != nil {
			return err
		}

		ctx := c.Request().Context()
		target, err := quickAdds.Get(ctx, id, nil)
		if errors.Is(err, domerr.ErrMissing) {
			return apierr.NotFound("Quick add request not found")
		} else if err != nil {
			return err
		}
		if !user.CanAccess(target.UserID) {
			return apierr.AccessDenied()
		}

		deleted, err := quickAdds.Delete(ctx, id)
		if errors.Is(err, domerr.ErrMissing) {
			return apierr.NotFound("Quick add request not found")
		} else if err != nil {
			return err
		}

		if err := images.Remove(deleted.Images); err != nil {
			c.Logger().Warnf("failed to remove images of %s: %s", id, err)
		}

		return c.JSON(http.StatusOK, envelope.OK("Quick add request deleted successfully", nil))
	}
}
