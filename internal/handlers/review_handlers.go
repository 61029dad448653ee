package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookstore/internal/repositories"
)

type createReviewRequest struct {
	BookID  uuid.UUID `json:"book_id" binding:"required"`
	Rating  int       `json:"rating" binding:"required"`
	Comment string    `json:"comment"`
}

func (h *Handler) createReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviews.CreateReview(currentUser(c), req.BookID, req.Rating, req.Comment)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *Handler) listReviews(c *gin.Context) {
	p := parsePageParams(c)
	filter := repositories.ReviewFilter{
		SortBy:    p.SortBy,
		SortOrder: p.SortOrder,
		Page:      p.Page,
		PerPage:   p.PerPage,
	}

	if raw := c.Query("book_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book_id"})
			return
		}
		filter.BookID = &id
	}
	if raw := c.Query("rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rating"})
			return
		}
		filter.Rating = rating
	}

	reviews, total, err := h.reviews.ListReviews(filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageResponse(reviews, total, p))
}

func (h *Handler) getReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	review, err := h.reviews.GetReview(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

type updateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

func (h *Handler) updateReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviews.UpdateReview(currentUser(c), id, req.Rating, req.Comment)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *Handler) deleteReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	if err := h.reviews.DeleteReview(currentUser(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
