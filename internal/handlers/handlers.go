package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookstore/internal/auth"
	"bookstore/internal/repositories"
	"bookstore/internal/services"
)

// Handler bundles the services behind the HTTP API.
type Handler struct {
	accounts services.AccountService
	catalog  services.CatalogService
	orders   services.OrderService
	reviews  services.ReviewService
	export   services.ExportService
	issuer   *auth.Issuer
	users    repositories.UserRepository
}

// RegisterRoutes mounts the full API under /api.
//
// Catalog and review reads are open to anyone, including unauthenticated guests;
// everything else sits behind bearer authentication. Ownership and admin checks
// happen in the service layer.
func RegisterRoutes(
	r *gin.Engine,
	accounts services.AccountService,
	catalog services.CatalogService,
	orders services.OrderService,
	reviews services.ReviewService,
	export services.ExportService,
	issuer *auth.Issuer,
	users repositories.UserRepository,
) {
	h := &Handler{
		accounts: accounts,
		catalog:  catalog,
		orders:   orders,
		reviews:  reviews,
		export:   export,
		issuer:   issuer,
		users:    users,
	}

	api := r.Group("/api")
	authed := api.Group("", authRequired(issuer, users))

	// Auth endpoints
	api.POST("/register", h.register)
	api.POST("/login", h.login)
	api.POST("/token/refresh", h.refreshToken)

	// User endpoints
	authed.GET("/users", h.listUsers)
	authed.GET("/users/:id", h.getUser)
	authed.PUT("/users/:id", h.updateUser)
	authed.DELETE("/users/:id", h.deleteUser)

	// Author endpoints
	api.GET("/authors", h.listAuthors)
	api.GET("/authors/:id", h.getAuthor)
	authed.POST("/authors", h.createAuthor)
	authed.PUT("/authors/:id", h.updateAuthor)
	authed.DELETE("/authors/:id", h.deleteAuthor)

	// Book endpoints
	api.GET("/books", h.listBooks)
	api.GET("/books/:id", h.getBook)
	authed.POST("/books", h.createBook)
	authed.PUT("/books/:id", h.updateBook)
	authed.DELETE("/books/:id", h.deleteBook)

	// Order endpoints
	authed.POST("/orders", h.createOrder)
	authed.GET("/orders", h.listOrders)
	authed.GET("/orders/:id", h.getOrder)
	authed.PUT("/orders/:id", h.updateOrder)
	authed.DELETE("/orders/:id", h.deleteOrder)

	// Review endpoints
	api.GET("/reviews", h.listReviews)
	api.GET("/reviews/:id", h.getReview)
	authed.POST("/reviews", h.createReview)
	authed.PUT("/reviews/:id", h.updateReview)
	authed.DELETE("/reviews/:id", h.deleteReview)

	// Admin export
	authed.GET("/export", h.exportData)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
}
