package handlers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/pixelcart/internal/config"
	"github.com/example/pixelcart/internal/middleware"
	"github.com/example/pixelcart/internal/models"
	"github.com/example/pixelcart/internal/services"
	"github.com/example/pixelcart/internal/utils"
)

const (
	otpTTL        = 5 * time.Minute
	pendingCookie = "pending"
	pendingTTL    = 10 * time.Minute
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer services.OTPSender
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, mailer services.OTPSender) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, mailer: mailer}
}

// ShowSignup renders the signup page.
func (h *AuthHandler) ShowSignup(c *fiber.Ctx) error {
	return c.Render("signup", fiber.Map{
		"Title": "Sign Up",
		"Brand": h.cfg.BrandName,
		"Error": takeFlash(c),
	}, "layouts/main")
}

type signupRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Signup creates a new account. The password is optional; OTP-only
// accounts simply never set one.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		return h.renderSignupError(c, "Email is required.")
	}

	var existing models.User
	if err := h.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return h.renderSignupError(c, "An account with this email already exists.")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	user := models.User{Email: email}
	if req.Password != "" {
		hash, err := utils.HashSecret(req.Password)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
		}
		user.PasswordHash = hash
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	return c.Redirect("/login")
}

func (h *AuthHandler) renderSignupError(c *fiber.Ctx, message string) error {
	return c.Render("signup", fiber.Map{
		"Title": "Sign Up",
		"Brand": h.cfg.BrandName,
		"Error": message,
	}, "layouts/main")
}

// ShowLogin renders the login page with any pending flash error.
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{
		"Title": "Login",
		"Brand": h.cfg.BrandName,
		"Error": takeFlash(c),
	}, "layouts/main")
}

type passwordLoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// PasswordLogin authenticates with email and password, setting both the
// session cookie and the bearer token cookie.
func (h *AuthHandler) PasswordLogin(c *fiber.Ctx) error {
	var req passwordLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	err := h.db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
	if err != nil || !user.HasPassword() {
		setFlash(c, "Invalid credentials or no password set for this account.")
		return c.Redirect("/login")
	}

	if !utils.CheckSecret(user.PasswordHash, req.Password) {
		setFlash(c, "Invalid credentials.")
		return c.Redirect("/login")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	h.setSessionCookie(c, middleware.SessionCookie, token)
	h.setSessionCookie(c, middleware.TokenCookie, token)

	return c.Redirect("/products")
}

type sendOTPRequest struct {
	Email string `json:"email" form:"email"`
}

// SendOTP finds or creates the account, stores a hashed 6-digit code with
// a 5-minute expiry, and emails the plain code.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req sendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		setFlash(c, "Email is required.")
		return c.Redirect("/login")
	}

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		user = models.User{Email: email}
	}

	code, err := generateOTPCode()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate code")
	}

	hash, err := utils.HashSecret(code)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash code")
	}

	expires := time.Now().Add(otpTTL)
	user.OTPHash = hash
	user.OTPExpires = &expires

	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	if err := h.mailer.SendOTP(email, code); err != nil {
		setFlash(c, "Could not send OTP email. Please try again.")
		return c.Redirect("/login")
	}

	pending, err := utils.GeneratePendingToken(h.cfg.JWTSecret, email, pendingTTL)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}
	c.Cookie(&fiber.Cookie{
		Name:     pendingCookie,
		Value:    pending,
		HTTPOnly: true,
		Expires:  time.Now().Add(pendingTTL),
	})

	return c.Redirect("/verify")
}

// ShowVerify renders the OTP entry page. Landing here without a pending
// verification goes back to login.
func (h *AuthHandler) ShowVerify(c *fiber.Ctx) error {
	email, err := utils.ParsePendingToken(h.cfg.JWTSecret, c.Cookies(pendingCookie))
	if err != nil {
		return c.Redirect("/login")
	}

	return c.Render("verify", fiber.Map{
		"Title": "Verify OTP",
		"Brand": h.cfg.BrandName,
		"Email": email,
		"Error": takeFlash(c),
	}, "layouts/main")
}

type verifyOTPRequest struct {
	OTP string `json:"otp" form:"otp"`
}

// VerifyOTP checks the submitted code and logs the user in.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	email, err := utils.ParsePendingToken(h.cfg.JWTSecret, c.Cookies(pendingCookie))
	if err != nil {
		setFlash(c, "Your session expired. Please try again.")
		return c.Redirect("/login")
	}

	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			setFlash(c, "User not found. Please start over.")
			return c.Redirect("/login")
		}
		return err
	}

	if user.OTPHash == "" || user.OTPExpires == nil || user.OTPExpires.Before(time.Now()) {
		setFlash(c, "Your OTP has expired. Please request a new one.")
		return c.Redirect("/login")
	}

	if !utils.CheckSecret(user.OTPHash, req.OTP) {
		setFlash(c, "Invalid OTP. Please try again.")
		return c.Redirect("/verify")
	}

	updates := map[string]interface{}{
		"otp_hash":    "",
		"otp_expires": nil,
		"is_verified": true,
	}
	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	h.clearCookie(c, pendingCookie)
	h.setSessionCookie(c, middleware.SessionCookie, token)

	return c.Redirect("/products")
}

// Logout clears every auth cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearCookie(c, middleware.SessionCookie)
	h.clearCookie(c, middleware.TokenCookie)
	h.clearCookie(c, pendingCookie)
	return c.Redirect("/")
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, name, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: true,
		Expires:  time.Now().Add(h.cfg.TokenExpires),
	})
}

func (h *AuthHandler) clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		HTTPOnly: true,
		Expires:  time.Now().Add(-time.Hour),
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateOTPCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
