package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookstore/internal/models"
	"bookstore/internal/repositories"
	"bookstore/internal/services"
)

type orderLineRequest struct {
	BookID   uuid.UUID `json:"book_id" binding:"required"`
	Quantity int       `json:"quantity"`
}

type createOrderRequest struct {
	Items []orderLineRequest `json:"items"`
}

// createOrder places an order for the authenticated user. Validation of the line
// items, the stock checks and the atomic commit all live in the order service;
// this handler only shapes the request and the response.
func (h *Handler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines := make([]services.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, services.OrderLine{BookID: item.BookID, Quantity: item.Quantity})
	}

	order, err := h.orders.CreateOrder(currentUser(c), lines)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) listOrders(c *gin.Context) {
	p := parsePageParams(c)
	filter := repositories.OrderFilter{
		Status:    models.OrderStatus(c.Query("status")),
		SortBy:    p.SortBy,
		SortOrder: p.SortOrder,
		Page:      p.Page,
		PerPage:   p.PerPage,
	}

	orders, total, err := h.orders.ListOrders(currentUser(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageResponse(orders, total, p))
}

func (h *Handler) getOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.orders.GetOrder(currentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type updateOrderRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func (h *Handler) updateOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.UpdateOrderStatus(currentUser(c), id, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) deleteOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	if err := h.orders.DeleteOrder(currentUser(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
