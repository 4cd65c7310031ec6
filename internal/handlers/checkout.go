package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/pixelcart/internal/config"
	"github.com/example/pixelcart/internal/middleware"
	"github.com/example/pixelcart/internal/models"
	"github.com/example/pixelcart/internal/pricing"
	"github.com/example/pixelcart/internal/services"
)

// CheckoutHandler turns a cart into an immutable order.
type CheckoutHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	telegram *services.TelegramService
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(db *gorm.DB, cfg *config.Config, telegram *services.TelegramService) *CheckoutHandler {
	return &CheckoutHandler{db: db, cfg: cfg, telegram: telegram}
}

// ShowCheckout renders the checkout form. An empty cart is a soft failure
// that sends the user back to the cart page.
func (h *CheckoutHandler) ShowCheckout(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	items, err := loadCart(h.db, userID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return c.Redirect("/cart")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	return c.Render("checkout", fiber.Map{
		"Title": "Checkout",
		"Brand": h.cfg.BrandName,
		"Items": items,
		"Quote": quoteCart(items),
		"User":  user,
		"Error": takeFlash(c),
	}, "layouts/main")
}

type checkoutRequest struct {
	FirstName     string `json:"firstName" form:"firstName"`
	LastName      string `json:"lastName" form:"lastName"`
	Phone         string `json:"phone" form:"phone"`
	Address       string `json:"address" form:"address"`
	City          string `json:"city" form:"city"`
	State         string `json:"state" form:"state"`
	PostalCode    string `json:"postalCode" form:"postalCode"`
	Country       string `json:"country" form:"country"`
	PaymentMethod string `json:"paymentMethod" form:"paymentMethod"`
	Notes         string `json:"notes" form:"notes"`
}

// ProcessCheckout snapshots the cart into an order. Order creation and
// cart clearing run in one transaction, so a retry after a failure can
// never produce two orders from the same cart.
func (h *CheckoutHandler) ProcessCheckout(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.FirstName == "" || req.Address == "" || req.PaymentMethod == "" {
		setFlash(c, "Please fill in your name, address, and payment method.")
		return c.Redirect("/checkout")
	}

	items, err := loadCart(h.db, userID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return c.Redirect("/cart")
	}

	order := models.Order{
		UserID:      userID,
		OrderNumber: generateOrderNumber(),
		Status:      "pending",
		PlacedAt:    time.Now(),

		ShippingFirstName:   req.FirstName,
		ShippingLastName:    req.LastName,
		ShippingPhone:       req.Phone,
		ShippingAddressLine: req.Address,
		ShippingCity:        req.City,
		ShippingState:       req.State,
		ShippingPostalCode:  req.PostalCode,
		ShippingCountry:     req.Country,

		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}

	// Snapshot current prices; the order never re-joins the catalog.
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		productID := item.ProductID
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   &productID,
			ProductName: item.Product.Name,
			Image:       item.Product.Image,
			Quantity:    item.Quantity,
			UnitPrice:   item.Product.Price,
			LineTotal:   item.Product.Price * float64(item.Quantity),
		})
		lines = append(lines, pricing.Line{
			UnitPrice: item.Product.Price,
			Quantity:  item.Quantity,
		})
	}

	quote := pricing.Calculate(lines)
	order.Subtotal = quote.Subtotal
	order.Shipping = quote.Shipping
	order.Tax = quote.Tax
	order.Total = quote.Total

	if err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	}); err != nil {
		return err
	}

	if h.telegram != nil {
		go func(order models.Order) {
			var user models.User
			if err := h.db.First(&user, "id = ?", order.UserID).Error; err != nil {
				return
			}
			if err := h.telegram.NotifyNewOrder(&order, user.Email); err != nil {
				log.Printf("[Checkout] Telegram notification failed for order %s: %v", order.OrderNumber, err)
			}
		}(order)
	}

	return c.Redirect("/orders/" + order.ID.String())
}

// ShowOrder renders the order confirmation page.
func (h *CheckoutHandler) ShowOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").
		First(&order, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.Render("order", fiber.Map{
		"Title": "Order " + order.OrderNumber,
		"Brand": h.cfg.BrandName,
		"Order": order,
	}, "layouts/main")
}

func generateOrderNumber() string {
	return fmt.Sprintf("#%d", time.Now().UnixNano()%1000000000)
}
