package services

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bookstore/internal/models"
)

func TestExportRequiresAdminExactly(t *testing.T) {
	svc := NewExportService(nil)

	actors := []*models.User{
		nil,
		{ID: uuid.New(), Role: models.UserRoleGuest},
		{ID: uuid.New(), Role: models.UserRoleUser},
	}
	for _, actor := range actors {
		_, _, err := svc.Export(actor, "book", []string{"title"})
		assert.ErrorIs(t, err, ErrForbidden)
	}
}

func TestExportRejectsBadArguments(t *testing.T) {
	svc := NewExportService(nil)
	admin := &models.User{ID: uuid.New(), Role: models.UserRoleAdmin}

	_, _, err := svc.Export(admin, "payments", []string{"id"})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "model", validationErr.Field)

	_, _, err = svc.Export(admin, "book", nil)
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "fields", validationErr.Field)
}

func TestExportCell(t *testing.T) {
	book := models.Book{
		Title:     "Dead Souls",
		Price:     decimal.RequireFromString("250.00"),
		Stock:     4,
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	v := reflect.ValueOf(book)

	assert.Equal(t, "Dead Souls", exportCell(v, "title"))
	assert.Equal(t, "250", exportCell(v, "price"))
	assert.Equal(t, "4", exportCell(v, "stock"))
	assert.Equal(t, "2024-03-01T12:00:00Z", exportCell(v, "created_at"))
	assert.Equal(t, "", exportCell(v, "no_such_field"))

	user := models.User{Username: "admin", PasswordHash: "secret-hash"}
	uv := reflect.ValueOf(user)
	assert.Equal(t, "admin", exportCell(uv, "username"))
	assert.Equal(t, "", exportCell(uv, "password_hash"), "json-excluded fields must never export")
}

func TestExportCellRelationFieldsRenderEmpty(t *testing.T) {
	book := models.Book{Title: "Dead Souls"}
	assert.Equal(t, "", exportCell(reflect.ValueOf(book), "author"), "nil relation pointer")

	book.Author = &models.Author{Name: "Nikolai Gogol"}
	assert.Equal(t, "", exportCell(reflect.ValueOf(book), "author"), "loaded relation pointer")

	order := models.Order{
		Status: models.OrderStatusPending,
		Items:  []models.OrderItem{{Quantity: 2}},
	}
	ov := reflect.ValueOf(order)
	assert.Equal(t, "", exportCell(ov, "items"))
	assert.Equal(t, "", exportCell(ov, "user"))
	assert.Equal(t, "pending", exportCell(ov, "status"), "scalar fields still render")
}

func TestExportWorkbook(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService(db)
	admin := createTestUser(t, db, models.UserRoleAdmin)

	author := createTestAuthor(t, db, "Leo Tolstoy")
	createTestBook(t, db, author.ID, "War and Peace", "600.00", 5)
	createTestBook(t, db, author.ID, "Anna Karenina", "480.00", 10)

	data, filename, err := svc.Export(admin, "book", []string{"title", "stock"})
	require.NoError(t, err)
	assert.Equal(t, "book.xlsx", filename)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("book")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per book")
	assert.Equal(t, []string{"title", "stock"}, rows[0])

	titles := []string{rows[1][0], rows[2][0]}
	assert.ElementsMatch(t, []string{"War and Peace", "Anna Karenina"}, titles)
}
