package handlers

import (
	"time"

	"github.com/labstack/echo/v4"
	kquickadd "github.com/smartbiz-gst/smartbiz/pkg/domain/quickadd/db"
	kuser "github.com/smartbiz-gst/smartbiz/pkg/domain/user/db"
)

type Tokens interface {
	TokenIssuer
	TokenVerifier
}

// Backend is what handlers depend on.
type Backend struct {
	Users     kuser.UserInterface
	QuickAdds kquickadd.QuickAddInterface
	Database  Pinger

	Tokens Tokens
	Hasher PasswordHasher

	Images Images

	// directory of stored images, served under /uploads. Empty to not serve.
	UploadDir string

	Now func() time.Time
}

// Register routes of the backend into e.
func Register(e *echo.Echo, b Backend) {
	now := b.Now
	if now == nil {
		now = time.Now
	}
	required := RequireAuth(b.Tokens, b.Users)
	optional := OptionalAuth(b.Tokens, b.Users)

	e.GET("/health", HealthHandler(b.Database))

	{
		g := e.Group("/auth")
		g.POST("/register", RegisterHandler(b.Users, b.Hasher, b.Tokens))
		g.POST("/login", LoginHandler(b.Users, b.Hasher, b.Tokens))
		g.GET("/profile", GetProfileHandler(), required)
		g.PUT("/profile", UpdateProfileHandler(b.Users), required)
		g.PUT("/change-password", ChangePasswordHandler(b.Users, b.Hasher), required)
	}

	{
		id := "id"
		g := e.Group("/users", required)
		g.GET("", ListUsersHandler(b.Users), AdminOnly)
		g.GET("/:id", GetUserHandler(b.Users, id))
		g.PUT("/:id/activate", SetUserActiveHandler(b.Users, id, true), AdminOnly)
		g.PUT("/:id/deactivate", SetUserActiveHandler(b.Users, id, false), AdminOnly)
		g.DELETE("/:id", DeleteUserHandler(b.Users, id), AdminOnly)
	}

	{
		id := "id"
		g := e.Group("/quick-add")
		g.POST("/create", CreateQuickAddHandler(b.QuickAdds, b.Images, now), required)
		g.GET("/all", ListQuickAddsHandler(b.QuickAdds), optional)
		g.GET("/user/:userId", ListUserQuickAddsHandler(b.QuickAdds, "userId"), required)
		g.GET("/:id", GetQuickAddHandler(b.QuickAdds, id), optional)
		g.POST("/:id/like", ToggleLikeHandler(b.QuickAdds, id), required)
		g.DELETE("/:id", DeleteQuickAddHandler(b.QuickAdds, b.Images, id), required)
	}

	if b.UploadDir != "" {
		e.Static("/uploads", b.UploadDir)
	}
}
