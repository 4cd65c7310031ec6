package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/pixelcart/internal/config"
	"github.com/example/pixelcart/internal/middleware"
	"github.com/example/pixelcart/internal/models"
)

// WishlistHandler manages the saved-items list.
type WishlistHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewWishlistHandler constructs WishlistHandler.
func NewWishlistHandler(db *gorm.DB, cfg *config.Config) *WishlistHandler {
	return &WishlistHandler{db: db, cfg: cfg}
}

// ShowWishlist renders the user's wishlist page.
func (h *WishlistHandler) ShowWishlist(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var items []models.WishlistItem
	if err := h.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("position asc").
		Find(&items).Error; err != nil {
		return err
	}

	return c.Render("wishlist", fiber.Map{
		"Title": "Your Wishlist",
		"Brand": h.cfg.BrandName,
		"Items": items,
	}, "layouts/main")
}

// Toggle flips a product's wishlist membership: present removes it, absent
// appends it at the end. Two rapid calls toggle twice; that is the
// intended semantics, not a bug.
func (h *WishlistHandler) Toggle(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	// A stale session may outlive account deletion.
	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	action := "added"
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var existing models.WishlistItem
		err := tx.Where("user_id = ? AND product_id = ?", userID, productID).
			First(&existing).Error
		if err == nil {
			action = "removed"
			return tx.Delete(&existing).Error
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		var maxPosition int
		if err := tx.Model(&models.WishlistItem{}).
			Where("user_id = ?", userID).
			Select("COALESCE(MAX(position), -1)").
			Scan(&maxPosition).Error; err != nil {
			return err
		}

		return tx.Create(&models.WishlistItem{
			UserID:    userID,
			ProductID: productID,
			Position:  maxPosition + 1,
		}).Error
	})
	if err != nil {
		return err
	}

	wishlist, err := h.wishlistProductIDs(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"action":   action,
		"wishlist": wishlist,
	})
}

func (h *WishlistHandler) wishlistProductIDs(userID uuid.UUID) ([]string, error) {
	var items []models.WishlistItem
	if err := h.db.Where("user_id = ?", userID).
		Order("position asc").
		Find(&items).Error; err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID.String())
	}
	return ids, nil
}
