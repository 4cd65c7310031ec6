package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/pixelcart/internal/cache"
	"github.com/example/pixelcart/internal/config"
	"github.com/example/pixelcart/internal/models"
)

const recentLimit = 20

// AdminHandler manages the admin dashboard and product creation.
type AdminHandler struct {
	db      *gorm.DB
	cfg     *config.Config
	catalog *cache.Catalog
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB, cfg *config.Config, catalog *cache.Catalog) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg, catalog: catalog}
}

// Dashboard renders aggregate statistics plus recent records.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	var totalProducts int64
	if err := h.db.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return err
	}

	var totalUsers int64
	if err := h.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	var totalOrders int64
	if err := h.db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}

	var totalRevenue float64
	if err := h.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := h.db.Order("created_at desc").Limit(recentLimit).Find(&products).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := h.db.Preload("User").
		Order("placed_at desc").
		Limit(recentLimit).
		Find(&orders).Error; err != nil {
		return err
	}

	var users []models.User
	if err := h.db.Order("created_at desc").Limit(recentLimit).Find(&users).Error; err != nil {
		return err
	}

	var topProducts []models.Product
	if err := h.db.Order("rating desc").Limit(5).Find(&topProducts).Error; err != nil {
		return err
	}

	return c.Render("admin", fiber.Map{
		"Title":   "Admin Dashboard",
		"Brand":   h.cfg.BrandName,
		"Message": c.Query("message"),
		"Stats": fiber.Map{
			"TotalProducts": totalProducts,
			"TotalUsers":    totalUsers,
			"TotalOrders":   totalOrders,
			"TotalRevenue":  totalRevenue,
		},
		"Products":    products,
		"Orders":      orders,
		"Users":       users,
		"TopProducts": topProducts,
	}, "layouts/main")
}

type addProductRequest struct {
	Name          string `json:"name" form:"name"`
	Description   string `json:"description" form:"description"`
	Brand         string `json:"brand" form:"brand"`
	Image         string `json:"image" form:"image"`
	Price         string `json:"price" form:"price"`
	OriginalPrice string `json:"originalPrice" form:"originalPrice"`
	Category      string `json:"category" form:"category"`
	Rating        string `json:"rating" form:"rating"`
	NumRatings    string `json:"numRatings" form:"numRatings"`
}

// AddProduct validates and persists a new catalog record. Any validation
// failure redirects back to the dashboard with a message and persists
// nothing.
func (h *AdminHandler) AddProduct(c *fiber.Ctx) error {
	var req addProductRequest
	if err := c.BodyParser(&req); err != nil {
		return h.redirectWithMessage(c, "Error adding product: invalid form.")
	}

	product, err := buildProduct(req)
	if err != nil {
		return h.redirectWithMessage(c, "Error adding product: "+err.Error())
	}

	if err := h.db.Create(&product).Error; err != nil {
		return h.redirectWithMessage(c, "Error adding product.")
	}

	h.catalog.InvalidateProduct(c.Context(), product.ID)

	return h.redirectWithMessage(c, "Product added successfully!")
}

func (h *AdminHandler) redirectWithMessage(c *fiber.Ctx, message string) error {
	return c.Redirect("/admin?message=" + url.QueryEscape(message))
}

// buildProduct coerces the raw form fields, applying the catalog defaults.
func buildProduct(req addProductRequest) (models.Product, error) {
	product := models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Brand:       strings.TrimSpace(req.Brand),
		Image:       strings.TrimSpace(req.Image),
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Rating:      4.5,
	}

	if product.Name == "" {
		return product, fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	if product.Image == "" {
		return product, fiber.NewError(fiber.StatusBadRequest, "image is required")
	}
	if product.Category == "" {
		return product, fiber.NewError(fiber.StatusBadRequest, "category is required")
	}
	if product.Description == "" {
		product.Description = "No description available."
	}
	if product.Brand == "" {
		product.Brand = "Unbranded"
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(req.Price), 64)
	if err != nil || price < 0 {
		return product, fiber.NewError(fiber.StatusBadRequest, "price must be a non-negative number")
	}
	product.Price = price

	if raw := strings.TrimSpace(req.OriginalPrice); raw != "" {
		original, err := strconv.ParseFloat(raw, 64)
		if err != nil || original < 0 {
			return product, fiber.NewError(fiber.StatusBadRequest, "original price must be a non-negative number")
		}
		product.OriginalPrice = &original
	}

	if raw := strings.TrimSpace(req.Rating); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil || rating < 0 || rating > 5 {
			return product, fiber.NewError(fiber.StatusBadRequest, "rating must be between 0 and 5")
		}
		product.Rating = rating
	}

	if raw := strings.TrimSpace(req.NumRatings); raw != "" {
		numRatings, err := strconv.Atoi(raw)
		if err != nil || numRatings < 0 {
			return product, fiber.NewError(fiber.StatusBadRequest, "num ratings must be a non-negative integer")
		}
		product.NumRatings = numRatings
	}

	return product, nil
}
