package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/pixelcart/internal/models"
)

func TestAdminAddProductPersistsWithDefaults(t *testing.T) {
	app, db, cfg := newTestApp(t, &captureSender{})
	admin := createUser(t, db, cfg.AdminEmail)
	cookie := sessionCookie(t, cfg, admin)

	form := url.Values{
		"name":     {"  Desk Lamp  "},
		"image":    {"/static/img/lamp.jpg"},
		"category": {"Lighting"},
		"price":    {"34.50"},
	}

	resp, err := app.Test(formRequest(http.MethodPost, "/admin/add-product", form, cookie))
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/admin?message=")
	assert.Contains(t, resp.Header.Get("Location"), url.QueryEscape("Product added successfully!"))

	var product models.Product
	require.NoError(t, db.Where("name = ?", "Desk Lamp").First(&product).Error)

	assert.Equal(t, "lighting", product.Category)
	assert.Equal(t, "No description available.", product.Description)
	assert.Equal(t, "Unbranded", product.Brand)
	assert.Equal(t, 34.50, product.Price)
	assert.Equal(t, 4.5, product.Rating)
	assert.Equal(t, 0, product.NumRatings)
	assert.Nil(t, product.OriginalPrice)
}

func TestAdminAddProductRejectsMissingPrice(t *testing.T) {
	app, db, cfg := newTestApp(t, &captureSender{})
	admin := createUser(t, db, cfg.AdminEmail)
	cookie := sessionCookie(t, cfg, admin)

	form := url.Values{
		"name":     {"Desk Lamp"},
		"image":    {"/static/img/lamp.jpg"},
		"category": {"lighting"},
	}

	resp, err := app.Test(formRequest(http.MethodPost, "/admin/add-product", form, cookie))
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	location := resp.Header.Get("Location")
	assert.True(t, strings.HasPrefix(location, "/admin?message="), "unexpected redirect %q", location)
	assert.Contains(t, location, url.QueryEscape("Error adding product"))

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAdminAddProductRejectsBadRating(t *testing.T) {
	app, db, cfg := newTestApp(t, &captureSender{})
	admin := createUser(t, db, cfg.AdminEmail)
	cookie := sessionCookie(t, cfg, admin)

	form := url.Values{
		"name":     {"Desk Lamp"},
		"image":    {"/static/img/lamp.jpg"},
		"category": {"lighting"},
		"price":    {"10"},
		"rating":   {"7"},
	}

	resp, err := app.Test(formRequest(http.MethodPost, "/admin/add-product", form, cookie))
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAdminRoutesRejectNonAdmin(t *testing.T) {
	app, db, cfg := newTestApp(t, &captureSender{})
	user := createUser(t, db, "shopper@example.com")
	cookie := sessionCookie(t, cfg, user)

	form := url.Values{
		"name":     {"Desk Lamp"},
		"image":    {"/static/img/lamp.jpg"},
		"category": {"lighting"},
		"price":    {"10"},
	}

	resp, err := app.Test(formRequest(http.MethodPost, "/admin/add-product", form, cookie))
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAdminRoutesRequireLogin(t *testing.T) {
	app, _, _ := newTestApp(t, &captureSender{})

	resp, err := app.Test(formRequest(http.MethodPost, "/admin/add-product", url.Values{}, ""))
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}
