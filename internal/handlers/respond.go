package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore/internal/services"
)

// writeError maps domain errors onto HTTP statuses:
//
//	validation            400
//	missing references    404
//	auth failures         401
//	role/ownership        403
//	state conflicts       409 (duplicate review, insufficient stock, taken username)
//
// Anything unrecognized is a 500 with a generic body; the cause goes to the log,
// not the client.
func writeError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		stockErr      *services.InsufficientStockError
		bookErr       *services.BookNotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Message,
			"field": validationErr.Field,
		})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "insufficient stock",
			"book_id":   stockErr.BookID,
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
	case errors.As(err, &bookErr):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "book not found",
			"book_id": bookErr.BookID,
		})
	case errors.Is(err, services.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrAuthorNotFound),
		errors.Is(err, services.ErrBookNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicateReview),
		errors.Is(err, services.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAccountDisabled),
		errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.Printf("[ERROR] request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
