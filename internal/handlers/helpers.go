package handlers

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const flashCookie = "flash"

// setFlash stores a one-shot message shown on the next rendered page.
func setFlash(c *fiber.Ctx, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		HTTPOnly: true,
		Expires:  time.Now().Add(5 * time.Minute),
	})
}

// takeFlash returns the pending flash message, clearing it.
func takeFlash(c *fiber.Ctx) string {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return ""
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    "",
		HTTPOnly: true,
		Expires:  time.Now().Add(-time.Hour),
	})

	message, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return message
}

// isJSONRoute reports whether a path belongs to the JSON API surface.
// Everything else is a page route that degrades to redirects and rendered
// fallbacks instead of raw errors.
func isJSONRoute(path string) bool {
	return strings.HasPrefix(path, "/cart/") || strings.HasPrefix(path, "/wishlist/")
}

// NewErrorHandler builds the app-level error handler: JSON routes get the
// {success:false, message} envelope, page routes get a login redirect or
// the not-found page.
func NewErrorHandler(brand string) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}

		if isJSONRoute(c.Path()) {
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": message,
			})
		}

		switch code {
		case fiber.StatusUnauthorized, fiber.StatusForbidden:
			return c.Redirect("/login")
		case fiber.StatusNotFound:
			return c.Status(code).Render("404", fiber.Map{
				"Title": "Not Found",
				"Brand": brand,
			}, "layouts/main")
		default:
			setFlash(c, message)
			return c.Redirect("/")
		}
	}
}
