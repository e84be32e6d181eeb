package main

import (
	"fmt"

	"github.com/atelier-market/atelier-api/internal/config"
	"github.com/atelier-market/atelier-api/internal/logger"
	"github.com/atelier-market/atelier-api/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	users := []struct {
		Name     string
		Email    string
		Password string
	}{
		{Name: "Mika", Email: "mika@example.com", Password: "mika-demo-pass"},
		{Name: "Ren", Email: "ren@example.com", Password: "ren-demo-pass"},
		{Name: "Sora", Email: "sora@example.com", Password: "sora-demo-pass"},
	}

	userIDs := map[string]uint{}
	for _, u := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			userIDs[u.Email] = existing.ID
			stdLog.Printf("User already exists: %s", u.Email)
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Printf("Failed to hash password for %s: %v", u.Email, err)
			continue
		}
		user := models.User{Name: u.Name, Email: u.Email, Password: string(hash)}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", u.Email, err)
			continue
		}
		userIDs[u.Email] = user.ID
		stdLog.Printf("Created user: %s", u.Email)
	}

	mikaID := userIDs["mika@example.com"]
	renID := userIDs["ren@example.com"]

	products := []models.Product{
		{
			OwnerID:     mikaID,
			Title:       "City Lights at Dusk",
			Description: "Digital illustration of a rain-soaked crossing under neon signs.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(24.00)),
			Tags:        models.StringArray([]string{"cityscape", "night", "neon"}),
			Images: models.StringArray([]string{
				"https://images.example.com/illustrations/city-lights-dusk.png",
			}),
			IsActive: true,
		},
		{
			OwnerID:     mikaID,
			Title:       "Harbor Morning",
			Description: "Watercolor-style harbor scene with fishing boats at sunrise.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(18.50)),
			Tags:        models.StringArray([]string{"seascape", "watercolor", "morning"}),
			Images: models.StringArray([]string{
				"https://images.example.com/illustrations/harbor-morning.png",
			}),
			IsActive: true,
		},
		{
			OwnerID:     mikaID,
			Title:       "Rooftop Garden",
			Description: "A quiet rooftop garden above a crowded city block.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(22.00)),
			Tags:        models.StringArray([]string{"cityscape", "plants", "slice-of-life"}),
			Images: models.StringArray([]string{
				"https://images.example.com/illustrations/rooftop-garden.png",
			}),
			IsActive: true,
		},
		{
			OwnerID:     renID,
			Title:       "Forest Spirit",
			Description: "Character illustration of a moss-covered forest guardian.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(32.00)),
			Tags:        models.StringArray([]string{"character", "fantasy", "forest"}),
			Images: models.StringArray([]string{
				"https://images.example.com/illustrations/forest-spirit.png",
			}),
			IsActive: true,
		},
		{
			OwnerID:     renID,
			Title:       "Dragon Over the Pass",
			Description: "A mountain pass scene with a dragon circling the peaks.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(40.00)),
			Tags:        models.StringArray([]string{"fantasy", "dragon", "landscape"}),
			Images: models.StringArray([]string{
				"https://images.example.com/illustrations/dragon-pass.png",
			}),
			IsActive: true,
		},
		{
			OwnerID:     renID,
			Title:       "Night Market Sketch",
			Description: "Loose ink sketch of a street food market after dark.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(12.00)),
			Tags:        models.StringArray([]string{"sketch", "night", "food"}),
			Images: models.StringArray([]string{
				"https://images.example.com/illustrations/night-market.png",
			}),
			IsActive: true,
		},
		{
			OwnerID:     renID,
			Title:       "Retired Commission Sample",
			Description: "An older commission sample no longer offered for sale.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(15.00)),
			Tags:        models.StringArray([]string{"character", "sample"}),
			Images: models.StringArray([]string{
				"https://images.example.com/illustrations/retired-sample.png",
			}),
			IsActive: false,
		},
	}

	for _, prod := range products {
		if prod.OwnerID == 0 {
			stdLog.Printf("Skip product %s: owner missing", prod.Title)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("title = ? AND owner_id = ?", prod.Title, prod.OwnerID).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Title, err)
			} else {
				stdLog.Printf("Created product: %s", prod.Title)
			}
		} else {
			existing.Description = prod.Description
			existing.Price = prod.Price
			existing.Tags = prod.Tags
			existing.Images = prod.Images
			existing.IsActive = prod.IsActive
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update product %s: %v", prod.Title, err)
			} else {
				stdLog.Printf("Updated product: %s", prod.Title)
			}
		}
	}

	fmt.Println("\nSeed data created.")
	fmt.Println("Summary:")
	fmt.Println("- 3 users (password is <name>-demo-pass)")
	fmt.Println("- 7 products (one inactive)")
}
