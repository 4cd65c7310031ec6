package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/pixelcart/internal/config"
	"github.com/example/pixelcart/internal/middleware"
	"github.com/example/pixelcart/internal/models"
)

// ProfileHandler manages the profile page and its form posts.
type ProfileHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(db *gorm.DB, cfg *config.Config) *ProfileHandler {
	return &ProfileHandler{db: db, cfg: cfg}
}

// ShowProfile renders the profile page with order history.
func (h *ProfileHandler) ShowProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	var orders []models.Order
	if err := h.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("placed_at desc").
		Find(&orders).Error; err != nil {
		return err
	}

	return c.Render("profile", fiber.Map{
		"Title":   "Your Profile",
		"Brand":   h.cfg.BrandName,
		"User":    user,
		"Orders":  orders,
		"Message": takeFlash(c),
	}, "layouts/main")
}

type updateProfileRequest struct {
	FirstName string `json:"firstName" form:"firstName"`
	LastName  string `json:"lastName" form:"lastName"`
	Phone     string `json:"phone" form:"phone"`
}

// UpdateProfile updates name and phone fields.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.FirstName != "" {
		updates["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		updates["last_name"] = req.LastName
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if len(updates) == 0 {
		setFlash(c, "Nothing to update.")
		return c.Redirect("/profile")
	}
	updates["updated_at"] = time.Now()

	if err := h.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return err
	}

	setFlash(c, "Profile updated.")
	return c.Redirect("/profile")
}

type updateAddressRequest struct {
	Address    string `json:"address" form:"address"`
	City       string `json:"city" form:"city"`
	State      string `json:"state" form:"state"`
	PostalCode string `json:"postalCode" form:"postalCode"`
	Country    string `json:"country" form:"country"`
}

// UpdateAddress overwrites the embedded shipping address.
func (h *ProfileHandler) UpdateAddress(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateAddressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{
		"address_line": req.Address,
		"city":         req.City,
		"state":        req.State,
		"postal_code":  req.PostalCode,
		"country":      req.Country,
		"updated_at":   time.Now(),
	}

	if err := h.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return err
	}

	setFlash(c, "Address updated.")
	return c.Redirect("/profile")
}
