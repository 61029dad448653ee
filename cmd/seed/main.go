// Command seed populates a fresh database with an admin account and a small
// catalog of authors and books, enough to exercise the API by hand.
//
// Usage:
//
//	DATABASE_URL=postgres://... ADMIN_PASSWORD=... go run ./cmd/seed
package main

import (
	"log"
	"os"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bookstore/internal/auth"
	"bookstore/internal/models"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		log.Fatal("ADMIN_PASSWORD environment variable is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatalf("failed to create uuid extension: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Author{},
		&models.Book{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	if err := seedAdmin(db, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	if err := seedCatalog(db); err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}
	log.Println("[INFO] seed complete")
}

func seedAdmin(db *gorm.DB, password string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("[INFO] admin account already exists, skipping")
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.User{
		Username:     "admin",
		Email:        "admin@bookstore.local",
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	log.Printf("[INFO] created admin account (id=%s)", admin.ID)
	return nil
}

type seedBook struct {
	title       string
	price       string
	stock       int
	description string
}

var seedData = map[string]struct {
	bio   string
	books []seedBook
}{
	"Fyodor Dostoevsky": {
		bio: "Russian novelist, 1821-1881.",
		books: []seedBook{
			{"Crime and Punishment", "450.00", 12, "A psychological study of guilt and redemption."},
			{"The Brothers Karamazov", "520.00", 8, "The last and longest of his novels."},
		},
	},
	"Leo Tolstoy": {
		bio: "Russian writer, 1828-1910.",
		books: []seedBook{
			{"War and Peace", "600.00", 5, "Napoleonic wars through the eyes of five families."},
			{"Anna Karenina", "480.00", 10, "A tragedy of married life in imperial society."},
		},
	},
	"Mikhail Bulgakov": {
		bio: "Russian writer and playwright, 1891-1940.",
		books: []seedBook{
			{"The Master and Margarita", "390.00", 15, "The devil visits atheistic Moscow."},
		},
	},
}

func seedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Author{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("[INFO] catalog already populated, skipping")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for name, data := range seedData {
			author := &models.Author{Name: name, Bio: data.bio}
			if err := tx.Create(author).Error; err != nil {
				return err
			}
			for _, b := range data.books {
				price, err := decimal.NewFromString(b.price)
				if err != nil {
					return err
				}
				book := &models.Book{
					Title:       b.title,
					AuthorID:    author.ID,
					Price:       price,
					Description: b.description,
					Stock:       b.stock,
				}
				if err := tx.Create(book).Error; err != nil {
					return err
				}
			}
			log.Printf("[INFO] seeded author %q with %d book(s)", name, len(data.books))
		}
		return nil
	})
}
