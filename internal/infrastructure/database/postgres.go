package database

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tillworks/checkout-api/internal/config"
	"github.com/tillworks/checkout-api/internal/domain/entity"
	"github.com/tillworks/checkout-api/internal/domain/enum"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Identity entities
		&entity.Business{},
		&entity.User{},

		// Catalogue read model
		&entity.Category{},
		&entity.Product{},

		// Sale entities
		&entity.Shift{},
		&entity.CartSession{},
		&entity.CartItem{},
		&entity.Transaction{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the store and admin user from environment
// configuration so a fresh install can log in.
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	storeName := viper.GetString("STORE_NAME")
	if storeName == "" {
		storeName = "Checkout Store"
	}

	var business entity.Business
	if err := db.Where("name = ?", storeName).First(&business).Error; err != nil {
		business = entity.Business{Name: storeName}
		if addr := viper.GetString("STORE_ADDRESS"); addr != "" {
			business.Address = &addr
		}
		if phone := viper.GetString("STORE_PHONE"); phone != "" {
			business.Phone = &phone
		}
		if taxID := viper.GetString("STORE_TAX_ID"); taxID != "" {
			business.TaxID = &taxID
		}
		if err := db.Create(&business).Error; err != nil {
			return fmt.Errorf("failed to create default business: %w", err)
		}
		log.Printf("Default business created: %s", storeName)
	}

	// Create admin user if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				if adminName == "" {
					adminName = "Store Admin"
				}
				// Split admin name into first and last name
				firstName := adminName
				lastName := ""
				for i, c := range adminName {
					if c == ' ' {
						firstName = adminName[:i]
						lastName = adminName[i+1:]
						break
					}
				}
				adminUser := entity.User{
					BusinessID: business.ID,
					FirstName:  firstName,
					LastName:   lastName,
					Email:      adminEmail,
					Password:   string(hashedPassword),
					Role:       enum.RoleAdmin,
					Provider:   "local",
				}
				if err := db.Create(&adminUser).Error; err != nil {
					log.Printf("Warning: failed to create admin user: %v", err)
				} else {
					log.Printf("Admin user created: %s", adminEmail)
				}
			}
		} else {
			log.Printf("Admin user already exists: %s", adminEmail)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
