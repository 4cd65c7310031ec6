package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/pixelcart/internal/cache"
	"github.com/example/pixelcart/internal/config"
	"github.com/example/pixelcart/internal/middleware"
	"github.com/example/pixelcart/internal/models"
	"github.com/example/pixelcart/internal/utils"
)

const (
	featuredLimit = 8
	relatedLimit  = 4
)

// StoreHandler serves the public storefront pages.
type StoreHandler struct {
	db      *gorm.DB
	cfg     *config.Config
	catalog *cache.Catalog
}

// NewStoreHandler constructs StoreHandler.
func NewStoreHandler(db *gorm.DB, cfg *config.Config, catalog *cache.Catalog) *StoreHandler {
	return &StoreHandler{db: db, cfg: cfg, catalog: catalog}
}

// Home renders the landing page with featured products.
func (h *StoreHandler) Home(c *fiber.Ctx) error {
	featured, ok := h.catalog.GetFeatured(c.Context())
	if !ok {
		if err := h.db.Order("rating desc").Limit(featuredLimit).Find(&featured).Error; err != nil {
			return err
		}
		h.catalog.SetFeatured(c.Context(), featured)
	}

	_, loggedIn := middleware.GetCurrentUserID(c)
	return c.Render("home", fiber.Map{
		"Title":    "Home",
		"Brand":    h.cfg.BrandName,
		"Featured": featured,
		"LoggedIn": loggedIn,
		"Message":  takeFlash(c),
	}, "layouts/main")
}

// Contact renders the contact page.
func (h *StoreHandler) Contact(c *fiber.Ctx) error {
	return c.Render("contact", fiber.Map{
		"Title": "Contact Us",
		"Brand": h.cfg.BrandName,
	}, "layouts/main")
}

// ListProducts renders the catalog with filter, search, and sort.
func (h *StoreHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{})

	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	if category != "" {
		query = query.Where("category = ?", category)
	}

	search := strings.TrimSpace(c.Query("q"))
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	sort := c.Query("sort")
	switch sort {
	case "price_asc":
		query = query.Order("price asc")
	case "price_desc":
		query = query.Order("price desc")
	case "rating":
		query = query.Order("rating desc")
	default:
		query = query.Order("created_at desc")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Limit(pg.Limit).Offset(pg.Offset).Find(&products).Error; err != nil {
		return err
	}

	return c.Render("products", fiber.Map{
		"Title":    "Products",
		"Brand":    h.cfg.BrandName,
		"Products": products,
		"Category": category,
		"Query":    search,
		"Sort":     sort,
		"Page":     pg.Page,
		"Total":    total,
	}, "layouts/main")
}

// GetProduct renders the detail page with related items from the same
// category.
func (h *StoreHandler) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	product, ok := h.catalog.GetProduct(c.Context(), id)
	if !ok {
		var loaded models.Product
		if err := h.db.First(&loaded, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusNotFound, "product not found")
			}
			return err
		}
		product = &loaded
		h.catalog.SetProduct(c.Context(), product)
	}

	var related []models.Product
	if err := h.db.Where("category = ? AND id <> ?", product.Category, product.ID).
		Order("rating desc").
		Limit(relatedLimit).
		Find(&related).Error; err != nil {
		return err
	}

	return c.Render("product", fiber.Map{
		"Title":   product.Name,
		"Brand":   h.cfg.BrandName,
		"Product": product,
		"Related": related,
	}, "layouts/main")
}
