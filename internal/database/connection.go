// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/techshopvn/techshop-backend/internal/config"
	"github.com/techshopvn/techshop-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Favorite{},
		&models.ViewHistory{},
		&models.Comment{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category_brand_price ON products(category, brand, price)",
		"CREATE INDEX IF NOT EXISTS idx_products_active ON products(is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_tags ON products USING GIN(tags)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, order_status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",

		// Interaction indexes
		"CREATE INDEX IF NOT EXISTS idx_favorites_product ON favorites(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_view_histories_user_viewed ON view_histories(user_id, viewed_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_comments_product_created ON comments(product_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_comments_user ON comments(user_id)",

		// Full-text search index
		"CREATE INDEX IF NOT EXISTS idx_products_search ON products USING GIN(to_tsvector('simple', name || ' ' || description))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	// Create default admin user
	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Name:  "Administrator",
			Email: "admin@techshop.vn",
			Role:  models.UserRoleAdmin,
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	// Seed a small catalog when the table is empty
	var productCount int64
	db.Model(&models.Product{}).Count(&productCount)

	if productCount == 0 {
		sampleProducts := []models.Product{
			{
				Name:          "iPhone 15 Pro Max 256GB",
				Description:   "Apple iPhone 15 Pro Max, titan design, chip A17 Pro",
				Price:         29990000,
				OriginalPrice: 34990000,
				Category:      "Điện thoại",
				Brand:         "Apple",
				Tags:          []string{"apple", "iphone", "flagship"},
				Stock:         50,
				IsActive:      true,
			},
			{
				Name:          "Samsung Galaxy S24 Ultra",
				Description:   "Samsung Galaxy S24 Ultra 12GB/256GB, bút S-Pen",
				Price:         26990000,
				OriginalPrice: 31990000,
				Category:      "Điện thoại",
				Brand:         "Samsung",
				Tags:          []string{"samsung", "android", "flagship"},
				Stock:         40,
				IsActive:      true,
			},
			{
				Name:        "MacBook Air M3 13 inch",
				Description: "Apple MacBook Air 13 inch, chip M3, 16GB RAM, 512GB SSD",
				Price:       32990000,
				Category:    "Laptop",
				Brand:       "Apple",
				Tags:        []string{"apple", "macbook", "laptop"},
				Stock:       25,
				IsActive:    true,
			},
			{
				Name:        "Dell XPS 13 Plus",
				Description: "Dell XPS 13 Plus, Intel Core i7, 16GB RAM, 512GB SSD",
				Price:       39990000,
				Category:    "Laptop",
				Brand:       "Dell",
				Tags:        []string{"dell", "laptop", "ultrabook"},
				Stock:       15,
				IsActive:    true,
			},
			{
				Name:        "Tai nghe AirPods Pro 2",
				Description: "Apple AirPods Pro thế hệ 2, chống ồn chủ động",
				Price:       5990000,
				Category:    "Phụ kiện",
				Brand:       "Apple",
				Tags:        []string{"apple", "airpods", "tai nghe"},
				Stock:       100,
				IsActive:    true,
			},
		}

		if err := db.Create(&sampleProducts).Error; err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}

		log.Printf("Seeded %d sample products", len(sampleProducts))
	}

	log.Println("Initial data seeding completed")
	return nil
}
