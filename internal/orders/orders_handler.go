package orders

import (
	"errors"
	"net/http"
	"strconv"

	"prodtrack/pkg/auditlog"
	custom_error "prodtrack/pkg/errors"
	"prodtrack/pkg/models"
	"prodtrack/pkg/security"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service    *OrderService
	repository OrderRepository
	auditLog   *auditlog.Auditlog
}

func NewHandler(service *OrderService, repo OrderRepository, a *auditlog.Auditlog) *OrderHandler {
	return &OrderHandler{
		service:    service,
		repository: repo,
		auditLog:   a,
	}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/orders", security.Authorize("operator"), h.GetOrders)
	router.GET("/orders/:id", security.Authorize("operator"), h.GetOrder)
	router.POST("/orders", security.Authorize("supervisor"), h.CreateOrder)
	router.PATCH("/orders/:id", security.Authorize("supervisor"), h.UpdateOrder)
	router.POST("/orders/:id/items", security.Authorize("supervisor"), h.AddLineItem)
	router.PATCH("/orders/:id/cancel", security.Authorize("supervisor"), h.CancelOrder)
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	status := c.Query("status")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit format"})
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset format"})
		return
	}

	orders, err := h.repository.GetOrders(status, limit, offset)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get orders", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, err := h.repository.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get order", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	orderID, err := h.service.CreateOrder(req)
	if err != nil {
		var uniqueErr *custom_error.UniqueViolationError
		if errors.As(err, &uniqueErr) {
			c.JSON(http.StatusConflict, gin.H{"error": "Order number already exists", "details": err.Error()})
			return
		}
		if errors.Is(err, ErrEmptyOrder) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to create order", "details": err.Error()})
		return
	}

	order := models.Order{ID: orderID}
	go h.auditLog.Log("create", h.actorID(c), map[string]interface{}{
		"order_number":  req.OrderNumber,
		"customer_name": req.CustomerName,
		"line_items":    len(req.LineItems),
	}, &order)

	c.JSON(http.StatusCreated, gin.H{"id": orderID})
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req models.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if err := h.repository.UpdateOrderHeader(orderID, req); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to update order", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order updated"})
}

func (h *OrderHandler) AddLineItem(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req models.CreateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	itemID, err := h.service.AddLineItem(orderID, req)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to add line item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": itemID})
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	if err := h.service.CancelOrder(orderID); err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if errors.Is(err, ErrOrderNotCancelable) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to cancel order", "details": err.Error()})
		return
	}

	order := models.Order{ID: orderID}
	go h.auditLog.Log("cancel", h.actorID(c), map[string]interface{}{
		"msg": "Order cancelled by explicit user action",
	}, &order)

	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
}

func (h *OrderHandler) actorID(c *gin.Context) *int {
	raw, err := security.GetUserIDFromToken(c)
	if err != nil {
		return nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &id
}
