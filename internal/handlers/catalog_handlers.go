package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bookstore/internal/repositories"
	"bookstore/internal/services"
)

// ─── Authors ──────────────────────────────────────────────────────────────────

type authorRequest struct {
	Name string `json:"name" binding:"required"`
	Bio  string `json:"bio"`
}

func (h *Handler) listAuthors(c *gin.Context) {
	authors, err := h.catalog.ListAuthors()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, authors)
}

func (h *Handler) getAuthor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
		return
	}

	author, err := h.catalog.GetAuthor(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

func (h *Handler) createAuthor(c *gin.Context) {
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author, err := h.catalog.CreateAuthor(services.AuthorInput{Name: req.Name, Bio: req.Bio})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, author)
}

func (h *Handler) updateAuthor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
		return
	}

	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	author, err := h.catalog.UpdateAuthor(id, services.AuthorInput{Name: req.Name, Bio: req.Bio})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

func (h *Handler) deleteAuthor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
		return
	}

	if err := h.catalog.DeleteAuthor(id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── Books ────────────────────────────────────────────────────────────────────

type bookRequest struct {
	Title       string          `json:"title" binding:"required"`
	AuthorID    uuid.UUID       `json:"author_id" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required,gt=0"`
	Description string          `json:"description"`
	Stock       int             `json:"stock" binding:"gte=0"`
	CoverImage  string          `json:"cover_image" binding:"omitempty,url"`
}

func (r bookRequest) toInput() services.BookInput {
	return services.BookInput{
		Title:       r.Title,
		AuthorID:    r.AuthorID,
		Price:       r.Price,
		Description: r.Description,
		Stock:       r.Stock,
		CoverImage:  r.CoverImage,
	}
}

func (h *Handler) listBooks(c *gin.Context) {
	p := parsePageParams(c)
	filter := repositories.BookFilter{
		Search:    c.Query("search"),
		SortBy:    p.SortBy,
		SortOrder: p.SortOrder,
		Page:      p.Page,
		PerPage:   p.PerPage,
	}

	if raw := c.Query("author_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author_id"})
			return
		}
		filter.AuthorID = &id
	}
	if raw := c.Query("price_min"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price_min"})
			return
		}
		filter.PriceMin = &min
	}
	if raw := c.Query("price_max"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price_max"})
			return
		}
		filter.PriceMax = &max
	}

	books, total, err := h.catalog.ListBooks(filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageResponse(books, total, p))
}

func (h *Handler) getBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	book, err := h.catalog.GetBook(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *Handler) createBook(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.catalog.CreateBook(req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (h *Handler) updateBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.catalog.UpdateBook(id, req.toInput())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *Handler) deleteBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	if err := h.catalog.DeleteBook(id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
