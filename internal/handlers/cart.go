package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/pixelcart/internal/config"
	"github.com/example/pixelcart/internal/middleware"
	"github.com/example/pixelcart/internal/models"
	"github.com/example/pixelcart/internal/pricing"
)

// CartHandler manages cart mutation endpoints and the cart page.
type CartHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(db *gorm.DB, cfg *config.Config) *CartHandler {
	return &CartHandler{db: db, cfg: cfg}
}

// ShowCart renders the cart page with the pricing quote.
func (h *CartHandler) ShowCart(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	items, err := loadCart(h.db, userID)
	if err != nil {
		return err
	}

	return c.Render("cart", fiber.Map{
		"Title": "Your Cart",
		"Brand": h.cfg.BrandName,
		"Items": items,
		"Quote": quoteCart(items),
	}, "layouts/main")
}

type cartRequest struct {
	ProductID string `json:"productId" form:"productId"`
	Quantity  int    `json:"quantity" form:"quantity"`
}

// Add inserts a cart line or bumps an existing one. The increment happens
// in a single upsert statement, so concurrent adds from the same user
// cannot lose an update. Quantity is unbounded: there is no stock model.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req cartRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}

	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := h.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", quantity),
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error; err != nil {
		return err
	}

	count, err := h.cartCount(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"cartCount": count,
	})
}

// Update overwrites a line's quantity. A quantity of zero or less removes
// the line.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req cartRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	if req.Quantity <= 0 {
		if err := h.db.Where("user_id = ? AND product_id = ?", userID, productID).
			Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	}

	result := h.db.Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", req.Quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "cart item not found")
	}

	return c.JSON(fiber.Map{"success": true})
}

// Remove drops a line from the cart.
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req cartRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	if err := h.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *CartHandler) cartCount(userID uuid.UUID) (int, error) {
	var count int
	err := h.db.Model(&models.CartItem{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&count).Error
	return count, err
}

// loadCart fetches the user's cart lines with their products.
func loadCart(db *gorm.DB, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&items).Error
	return items, err
}

// quoteCart prices the cart's current lines.
func quoteCart(items []models.CartItem) pricing.Quote {
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		lines = append(lines, pricing.Line{
			UnitPrice: item.Product.Price,
			Quantity:  item.Quantity,
		})
	}
	return pricing.Calculate(lines)
}
