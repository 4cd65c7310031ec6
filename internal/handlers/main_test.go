package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/pixelcart/internal/cache"
	"github.com/example/pixelcart/internal/config"
	"github.com/example/pixelcart/internal/database"
	"github.com/example/pixelcart/internal/handlers"
	"github.com/example/pixelcart/internal/models"
	"github.com/example/pixelcart/internal/routes"
	"github.com/example/pixelcart/internal/services"
	"github.com/example/pixelcart/internal/utils"
)

// captureSender records OTP codes instead of sending email.
type captureSender struct {
	to   string
	code string
}

func (s *captureSender) SendOTP(to, code string) error {
	s.to = to
	s.code = code
	return nil
}

func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:    "test-secret",
		TokenExpires: time.Hour,
		AdminEmail:   "admin@example.com",
		BrandName:    "Pixelcart",
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestApp(t *testing.T, sender services.OTPSender) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	cfg := newTestConfig()
	db := newTestDB(t)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.NewErrorHandler(cfg.BrandName),
	})
	routes.RegisterWith(app, db, cfg, sender, services.NewTelegramService("", ""), cache.New(""))

	return app, db, cfg
}

func createUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{Email: email}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createProduct(t *testing.T, db *gorm.DB, name string, price float64) models.Product {
	t.Helper()

	product := models.Product{
		Name:     name,
		Brand:    "Testbrand",
		Image:    "/static/img/test.jpg",
		Price:    price,
		Category: "test",
		Rating:   4.5,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func sessionCookie(t *testing.T, cfg *config.Config, user models.User) string {
	t.Helper()

	token, err := utils.GenerateToken(cfg.JWTSecret, user.ID, cfg.TokenExpires)
	require.NoError(t, err)
	return "session=" + token
}

func jsonRequest(method, path, body, cookie string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	return req
}

func formRequest(method, path string, form url.Values, cookie string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &body))
	return body
}
