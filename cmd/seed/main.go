package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/example/pixelcart/internal/config"
	"github.com/example/pixelcart/internal/database"
	"github.com/example/pixelcart/internal/models"
)

type seedProduct struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Brand         string   `json:"brand"`
	Image         string   `json:"image"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice"`
	Category      string   `json:"category"`
	Rating        float64  `json:"rating"`
	NumRatings    int      `json:"numRatings"`
}

// Clears the product catalog and imports sample data, mirroring a fresh
// store setup.
func main() {
	file := flag.String("file", "products.data.json", "path to the product seed file")
	flag.Parse()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	payload, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("failed to read seed file: %v", err)
	}

	var seeds []seedProduct
	if err := json.Unmarshal(payload, &seeds); err != nil {
		log.Fatalf("failed to parse seed file: %v", err)
	}

	if err := db.Where("1 = 1").Delete(&models.Product{}).Error; err != nil {
		log.Fatalf("failed to clear products: %v", err)
	}
	log.Println("Cleared existing products.")

	products := make([]models.Product, 0, len(seeds))
	for _, seed := range seeds {
		rating := seed.Rating
		if rating == 0 {
			rating = 4.5
		}
		products = append(products, models.Product{
			Name:          seed.Name,
			Description:   seed.Description,
			Brand:         seed.Brand,
			Image:         seed.Image,
			Price:         seed.Price,
			OriginalPrice: seed.OriginalPrice,
			Category:      seed.Category,
			Rating:        rating,
			NumRatings:    seed.NumRatings,
		})
	}

	if err := db.Create(&products).Error; err != nil {
		log.Fatalf("failed to import products: %v", err)
	}

	log.Printf("Imported %d products.", len(products))
}
