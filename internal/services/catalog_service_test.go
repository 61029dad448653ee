package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore/internal/repositories"
)

func TestValidateBookInput(t *testing.T) {
	base := BookInput{
		Title:    "Valid",
		AuthorID: uuid.New(),
		Price:    decimal.RequireFromString("10.00"),
		Stock:    3,
	}

	tests := []struct {
		name   string
		mutate func(*BookInput)
		field  string
	}{
		{"empty title", func(b *BookInput) { b.Title = "  " }, "title"},
		{"zero price", func(b *BookInput) { b.Price = decimal.Zero }, "price"},
		{"negative price", func(b *BookInput) { b.Price = decimal.RequireFromString("-1") }, "price"},
		{"negative stock", func(b *BookInput) { b.Stock = -1 }, "stock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := base
			tt.mutate(&input)
			err := validateBookInput(input)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}

	assert.NoError(t, validateBookInput(base))
	zeroStock := base
	zeroStock.Stock = 0
	assert.NoError(t, validateBookInput(zeroStock), "zero stock is allowed")
}

func TestBookCRUD(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, repositories.NewAuthorRepository(db), repositories.NewBookRepository(db))

	author, err := svc.CreateAuthor(AuthorInput{Name: "Nikolai Gogol", Bio: "Satirist."})
	require.NoError(t, err)

	book, err := svc.CreateBook(BookInput{
		Title:    "Dead Souls",
		AuthorID: author.ID,
		Price:    decimal.RequireFromString("250.00"),
		Stock:    4,
	})
	require.NoError(t, err)
	require.NotNil(t, book.Author)
	assert.Equal(t, "Nikolai Gogol", book.Author.Name)

	// Repeated reads with no intervening writes are identical.
	first, err := svc.GetBook(book.ID)
	require.NoError(t, err)
	second, err := svc.GetBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Stock, second.Stock)
	assert.True(t, first.Price.Equal(second.Price))

	_, err = svc.CreateBook(BookInput{Title: "Orphan", AuthorID: uuid.New(), Price: decimal.RequireFromString("10"), Stock: 1})
	assert.ErrorIs(t, err, ErrAuthorNotFound)

	_, err = svc.GetBook(uuid.New())
	assert.ErrorIs(t, err, ErrBookNotFound)

	require.NoError(t, svc.DeleteBook(book.ID))
	_, err = svc.GetBook(book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestListBooksFilterSearchSort(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, repositories.NewAuthorRepository(db), repositories.NewBookRepository(db))

	tolstoy := createTestAuthor(t, db, "Leo Tolstoy")
	gogol := createTestAuthor(t, db, "Nikolai Gogol")
	createTestBook(t, db, tolstoy.ID, "War and Peace", "600.00", 5)
	createTestBook(t, db, tolstoy.ID, "Anna Karenina", "480.00", 10)
	createTestBook(t, db, gogol.ID, "Dead Souls", "250.00", 4)

	// Filter by author.
	books, total, err := svc.ListBooks(repositories.BookFilter{AuthorID: &tolstoy.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, books, 2)

	// Price range.
	min := decimal.RequireFromString("300")
	max := decimal.RequireFromString("500")
	books, total, err = svc.ListBooks(repositories.BookFilter{PriceMin: &min, PriceMax: &max})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, books, 1)
	assert.Equal(t, "Anna Karenina", books[0].Title)

	// Case-insensitive search across title and author name.
	books, _, err = svc.ListBooks(repositories.BookFilter{Search: "peace"})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "War and Peace", books[0].Title)

	books, _, err = svc.ListBooks(repositories.BookFilter{Search: "GOGOL"})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dead Souls", books[0].Title)

	// Sort by price descending.
	books, _, err = svc.ListBooks(repositories.BookFilter{SortBy: "price", SortOrder: "desc"})
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "War and Peace", books[0].Title)
	assert.Equal(t, "Dead Souls", books[2].Title)

	// Pagination.
	books, total, err = svc.ListBooks(repositories.BookFilter{SortBy: "price", SortOrder: "asc", Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, books, 1)
	assert.Equal(t, "War and Peace", books[0].Title)
}

func TestDeleteAuthorCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db, repositories.NewAuthorRepository(db), repositories.NewBookRepository(db))

	author := createTestAuthor(t, db, "Leo Tolstoy")
	book := createTestBook(t, db, author.ID, "War and Peace", "600.00", 5)

	require.NoError(t, svc.DeleteAuthor(author.ID))
	_, err := svc.GetBook(book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound, "books go with their author")
}
