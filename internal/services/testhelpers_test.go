package services

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bookstore/internal/auth"
	"bookstore/internal/models"
)

var testSeq atomic.Int64

// newTestDB connects to the database named by TEST_DATABASE_URL, migrates the
// schema and wipes all rows. Tests that need a database are skipped when the
// variable is unset, so the pure test suite still runs anywhere.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database-backed test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Author{},
		&models.Book{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	))
	require.NoError(t, db.Exec(`TRUNCATE reviews, order_items, orders, books, authors, users CASCADE`).Error)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	user := &models.User{
		Username:     fmt.Sprintf("user%d", testSeq.Add(1)),
		Email:        "test@bookstore.local",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestAuthor(t *testing.T, db *gorm.DB, name string) *models.Author {
	t.Helper()
	author := &models.Author{Name: name, Bio: "test author"}
	require.NoError(t, db.Create(author).Error)
	return author
}

func createTestBook(t *testing.T, db *gorm.DB, authorID uuid.UUID, title, price string, stock int) *models.Book {
	t.Helper()
	book := &models.Book{
		Title:    title,
		AuthorID: authorID,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
	require.NoError(t, db.Create(book).Error)
	return book
}

func bookStock(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var book models.Book
	require.NoError(t, db.First(&book, "id = ?", id).Error)
	return book.Stock
}
