package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/pixelcart/internal/models"
	"github.com/example/pixelcart/internal/utils"
)

func responseCookie(t *testing.T, resp *http.Response, name string) string {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	t.Fatalf("cookie %q not set", name)
	return ""
}

func hasCookie(resp *http.Response, name string) bool {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name && cookie.Value != "" {
			return true
		}
	}
	return false
}

func TestSignupNormalizesEmailAndHashesPassword(t *testing.T) {
	app, db, _ := newTestApp(t, &captureSender{})

	form := url.Values{
		"email":    {"  Ada@Example.COM "},
		"password": {"secret123"},
	}

	resp, err := app.Test(formRequest(http.MethodPost, "/signup", form, ""))
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	var user models.User
	require.NoError(t, db.Where("email = ?", "ada@example.com").First(&user).Error)

	require.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.True(t, utils.CheckSecret(user.PasswordHash, "secret123"))
}

func TestPasswordLoginSetsSessionCookies(t *testing.T) {
	app, db, _ := newTestApp(t, &captureSender{})

	hash, err := utils.HashSecret("secret123")
	require.NoError(t, err)
	user := models.User{Email: "ada@example.com", PasswordHash: hash}
	require.NoError(t, db.Create(&user).Error)

	form := url.Values{
		"email":    {"ada@example.com"},
		"password": {"secret123"},
	}

	resp, err := app.Test(formRequest(http.MethodPost, "/login/password", form, ""))
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/products", resp.Header.Get("Location"))
	assert.True(t, hasCookie(resp, "session"))
	assert.True(t, hasCookie(resp, "token"))
}

func TestPasswordLoginRejectsWrongPassword(t *testing.T) {
	app, db, _ := newTestApp(t, &captureSender{})

	hash, err := utils.HashSecret("secret123")
	require.NoError(t, err)
	user := models.User{Email: "ada@example.com", PasswordHash: hash}
	require.NoError(t, db.Create(&user).Error)

	form := url.Values{
		"email":    {"ada@example.com"},
		"password": {"wrong"},
	}

	resp, err := app.Test(formRequest(http.MethodPost, "/login/password", form, ""))
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.False(t, hasCookie(resp, "session"))
}

func TestOTPLoginFlow(t *testing.T) {
	sender := &captureSender{}
	app, db, _ := newTestApp(t, sender)

	// Requesting a code for an unknown email creates the account.
	resp, err := app.Test(formRequest(http.MethodPost, "/send-otp", url.Values{"email": {"new@example.com"}}, ""))
	require.NoError(t, err)

	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/verify", resp.Header.Get("Location"))
	assert.Equal(t, "new@example.com", sender.to)
	require.Len(t, sender.code, 6)

	var user models.User
	require.NoError(t, db.Where("email = ?", "new@example.com").First(&user).Error)
	assert.NotEmpty(t, user.OTPHash)
	require.NotNil(t, user.OTPExpires)
	assert.False(t, user.IsVerified)

	pending := responseCookie(t, resp, "pending")

	resp, err = app.Test(formRequest(http.MethodPost, "/verify-otp",
		url.Values{"otp": {sender.code}}, "pending="+pending))
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/products", resp.Header.Get("Location"))
	assert.True(t, hasCookie(resp, "session"))

	// The code is single-use: consumed fields are cleared. Fetch into a
	// reset struct: gorm leaves pointer fields untouched when the column
	// scans as NULL into a previously populated destination.
	user = models.User{}
	require.NoError(t, db.Where("email = ?", "new@example.com").First(&user).Error)
	assert.True(t, user.IsVerified)
	assert.Empty(t, user.OTPHash)
	assert.Nil(t, user.OTPExpires)
}

func TestVerifyOTPRejectsWrongCode(t *testing.T) {
	sender := &captureSender{}
	app, _, _ := newTestApp(t, sender)

	resp, err := app.Test(formRequest(http.MethodPost, "/send-otp", url.Values{"email": {"new@example.com"}}, ""))
	require.NoError(t, err)
	pending := responseCookie(t, resp, "pending")

	wrong := "000000"
	if sender.code == wrong {
		wrong = "000001"
	}

	resp, err = app.Test(formRequest(http.MethodPost, "/verify-otp",
		url.Values{"otp": {wrong}}, "pending="+pending))
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/verify", resp.Header.Get("Location"))
	assert.False(t, hasCookie(resp, "session"))
}

func TestVerifyOTPWithoutPendingCookie(t *testing.T) {
	app, _, _ := newTestApp(t, &captureSender{})

	resp, err := app.Test(formRequest(http.MethodPost, "/verify-otp", url.Values{"otp": {"123456"}}, ""))
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLogoutClearsCookiesAndRedirectsHome(t *testing.T) {
	app, db, cfg := newTestApp(t, &captureSender{})
	user := createUser(t, db, "ada@example.com")

	resp, err := app.Test(formRequest(http.MethodGet, "/logout", nil, sessionCookie(t, cfg, user)))
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.False(t, hasCookie(resp, "session"))
}
