package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ─── Sentinel Errors ──────────────────────────────────────────────────────────

var (
	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrAuthorNotFound is returned when the referenced author does not exist.
	ErrAuthorNotFound = errors.New("author not found")

	// ErrBookNotFound is returned when the referenced book does not exist.
	ErrBookNotFound = errors.New("book not found")

	// ErrOrderNotFound is returned when the referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrReviewNotFound is returned when the referenced review does not exist.
	ErrReviewNotFound = errors.New("review not found")

	// ErrEmptyOrder is returned when an order request contains no line items.
	ErrEmptyOrder = errors.New("order must contain at least one item")

	// ErrDuplicateReview is returned when the user already reviewed the book.
	// At most one review per (user, book) pair exists; the DB unique index
	// uniq_review_user_book is the authoritative backstop under races.
	ErrDuplicateReview = errors.New("user has already reviewed this book")

	// ErrForbidden is returned when an authenticated caller lacks the role or
	// ownership required for the operation. Distinct from authentication failure,
	// which never reaches the service layer.
	ErrForbidden = errors.New("forbidden")

	// ErrUsernameTaken is returned when registering with an existing username.
	ErrUsernameTaken = errors.New("username is already taken")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountDisabled is returned when an inactive account attempts to log in.
	ErrAccountDisabled = errors.New("account is disabled")
)

// ─── Typed Errors ─────────────────────────────────────────────────────────────

// BookNotFoundError identifies which book of a multi-line order request was missing.
// It unwraps to ErrBookNotFound.
type BookNotFoundError struct {
	BookID uuid.UUID
}

func (e *BookNotFoundError) Error() string {
	return fmt.Sprintf("book %s not found", e.BookID)
}

func (e *BookNotFoundError) Unwrap() error { return ErrBookNotFound }

// InsufficientStockError reports a line item whose requested quantity exceeds the
// book's available stock. The whole order-creation attempt is aborted; nothing is
// persisted and no stock changes.
type InsufficientStockError struct {
	BookID    uuid.UUID
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for book %s: available %d, requested %d",
		e.BookID, e.Available, e.Requested)
}

// ValidationError reports malformed input with per-field detail.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// isUniqueViolation checks whether a PostgreSQL unique-constraint error occurred.
// PostgreSQL error code 23505 = unique_violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
