package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/pixelcart/internal/cache"
	"github.com/example/pixelcart/internal/config"
	"github.com/example/pixelcart/internal/handlers"
	"github.com/example/pixelcart/internal/middleware"
	"github.com/example/pixelcart/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	mailer := services.NewMailer(cfg)
	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	catalog := cache.New(cfg.RedisAddr)

	RegisterWith(app, db, cfg, mailer, telegram, catalog)
}

// RegisterWith wires routes with explicit service dependencies so tests
// can substitute them.
func RegisterWith(app *fiber.App, db *gorm.DB, cfg *config.Config, mailer services.OTPSender, telegram *services.TelegramService, catalog *cache.Catalog) {
	authHandler := handlers.NewAuthHandler(db, cfg, mailer)
	storeHandler := handlers.NewStoreHandler(db, cfg, catalog)
	wishlistHandler := handlers.NewWishlistHandler(db, cfg)
	cartHandler := handlers.NewCartHandler(db, cfg)
	checkoutHandler := handlers.NewCheckoutHandler(db, cfg, telegram)
	profileHandler := handlers.NewProfileHandler(db, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg, catalog)

	app.Use(middleware.LoadSession(cfg))

	// Guards are attached per route: page routes redirect to /login,
	// JSON routes answer 401.
	page := middleware.RequirePage()
	api := middleware.RequireAPI()

	// Public pages
	app.Get("/", storeHandler.Home)
	app.Get("/contact", storeHandler.Contact)
	app.Get("/product/:id", storeHandler.GetProduct)

	// Auth
	app.Get("/signup", authHandler.ShowSignup)
	app.Post("/signup", authHandler.Signup)
	app.Get("/login", authHandler.ShowLogin)
	app.Post("/login", authHandler.SendOTP)
	app.Post("/login/password", authHandler.PasswordLogin)
	app.Post("/send-otp", authHandler.SendOTP)
	app.Get("/verify", authHandler.ShowVerify)
	app.Post("/verify-otp", authHandler.VerifyOTP)
	app.Get("/logout", authHandler.Logout)

	// Protected pages
	app.Get("/products", page, storeHandler.ListProducts)
	app.Get("/wishlist", page, wishlistHandler.ShowWishlist)
	app.Get("/cart", page, cartHandler.ShowCart)
	app.Get("/checkout", page, checkoutHandler.ShowCheckout)
	app.Post("/checkout/process", page, checkoutHandler.ProcessCheckout)
	app.Get("/orders/:id", page, checkoutHandler.ShowOrder)
	app.Get("/profile", page, profileHandler.ShowProfile)
	app.Post("/profile/update", page, profileHandler.UpdateProfile)
	app.Post("/profile/address", page, profileHandler.UpdateAddress)

	// JSON API
	app.Post("/wishlist/toggle/:productId", api, wishlistHandler.Toggle)
	app.Post("/cart/add", api, cartHandler.Add)
	app.Post("/cart/update", api, cartHandler.Update)
	app.Post("/cart/remove", api, cartHandler.Remove)

	// Admin
	admin := app.Group("/admin", page, middleware.RequireAdmin(db, cfg))
	admin.Get("/", adminHandler.Dashboard)
	admin.Post("/add-product", adminHandler.AddProduct)
}
