package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/pixelcart/internal/config"
	"github.com/example/pixelcart/internal/models"
	"github.com/example/pixelcart/internal/utils"
)

const (
	userContextKey = "currentUserID"

	// SessionCookie carries the session JWT for every login flow.
	SessionCookie = "session"
	// TokenCookie is the additional bearer credential set by password
	// logins.
	TokenCookie = "token"
)

// LoadSession resolves the session from cookies or the Authorization
// header and stores the user ID in context. It never rejects a request;
// the Require* middlewares below enforce access.
func LoadSession(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := sessionToken(c); token != "" {
			if userID, err := utils.ParseToken(cfg.JWTSecret, token); err == nil {
				c.Locals(userContextKey, userID)
			}
		}
		return c.Next()
	}
}

// RequirePage guards server-rendered routes: unauthenticated requests are
// redirected to the login page.
func RequirePage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := GetCurrentUserID(c); !ok {
			return c.Redirect("/login")
		}
		return c.Next()
	}
}

// RequireAPI guards JSON routes: unauthenticated requests get 401.
func RequireAPI() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := GetCurrentUserID(c); !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		return c.Next()
	}
}

// RequireAdmin allows only the configured admin account; everyone else is
// sent back to the home page.
func RequireAdmin(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := GetCurrentUserID(c)
		if !ok || cfg.AdminEmail == "" {
			return c.Redirect("/")
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return c.Redirect("/")
		}

		if !strings.EqualFold(user.Email, cfg.AdminEmail) {
			return c.Redirect("/")
		}

		return c.Next()
	}
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}

func sessionToken(c *fiber.Ctx) string {
	if token := c.Cookies(SessionCookie); token != "" {
		return token
	}
	if token := c.Cookies(TokenCookie); token != "" {
		return token
	}

	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
