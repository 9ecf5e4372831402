package alerts

import (
	"errors"
	"net/http"
	"strconv"

	"prodtrack/pkg/auditlog"
	"prodtrack/pkg/security"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	service    *Service
	repository AlertRepository
	auditLog   *auditlog.Auditlog
}

func NewHandler(service *Service, repo AlertRepository, a *auditlog.Auditlog) *AlertHandler {
	return &AlertHandler{
		service:    service,
		repository: repo,
		auditLog:   a,
	}
}

func (h *AlertHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/alerts", security.Authorize("operator"), h.GetAlerts)
	router.GET("/alerts/stats", security.Authorize("operator"), h.GetStats)
	router.GET("/alerts/:id", security.Authorize("operator"), h.GetAlert)
	router.PATCH("/alerts/:id/acknowledge", security.Authorize("operator"), h.AcknowledgeAlert)
	router.PATCH("/alerts/:id/resolve", security.Authorize("supervisor"), h.ResolveAlert)
}

func (h *AlertHandler) GetAlerts(c *gin.Context) {
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

	filter := AlertFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Limit:    limit,
		Offset:   offset,
	}

	if orderID := c.Query("order_id"); orderID != "" {
		filter.OrderID, err = strconv.Atoi(orderID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order_id format"})
			return
		}
	}

	alerts, err := h.repository.GetAlerts(filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get alerts", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (h *AlertHandler) GetAlert(c *gin.Context) {
	alertID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alert ID"})
		return
	}

	alert, err := h.repository.GetAlert(alertID)
	if err != nil {
		if errors.Is(err, ErrAlertNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get alert", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, alert)
}

func (h *AlertHandler) GetStats(c *gin.Context) {
	stats, err := h.repository.GetStats()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get alert statistics", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AlertHandler) AcknowledgeAlert(c *gin.Context) {
	alertID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alert ID"})
		return
	}

	userID, err := h.actorID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify user"})
		return
	}

	alert, err := h.service.Acknowledge(alertID, userID)
	if err != nil {
		h.writeTransitionError(c, err)
		return
	}

	go h.auditLog.Log("acknowledge", &userID, map[string]interface{}{
		"stage": alert.Stage,
	}, alert)

	c.JSON(http.StatusOK, alert)
}

func (h *AlertHandler) ResolveAlert(c *gin.Context) {
	alertID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alert ID"})
		return
	}

	var req struct {
		Notes string `json:"notes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Resolution notes are required"})
		return
	}

	userID, err := h.actorID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify user"})
		return
	}

	alert, err := h.service.Resolve(alertID, userID, req.Notes)
	if err != nil {
		h.writeTransitionError(c, err)
		return
	}

	go h.auditLog.Log("resolve", &userID, map[string]interface{}{
		"stage": alert.Stage,
		"notes": req.Notes,
	}, alert)

	c.JSON(http.StatusOK, alert)
}

func (h *AlertHandler) writeTransitionError(c *gin.Context, err error) {
	if errors.Is(err, ErrAlertNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
		return
	}
	if errors.Is(err, ErrInvalidTransition) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to update alert", "details": err.Error()})
}

func (h *AlertHandler) actorID(c *gin.Context) (int, error) {
	raw, err := security.GetUserIDFromToken(c)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(raw)
}
