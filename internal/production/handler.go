package production

import (
	"errors"
	"net/http"
	"strconv"

	"prodtrack/internal/integrations/tracker"
	"prodtrack/pkg/auditlog"
	"prodtrack/pkg/models"
	"prodtrack/pkg/security"

	"github.com/gin-gonic/gin"
)

type ProductionHandler struct {
	service  *Service
	repo     ProductionRepository
	auditLog *auditlog.Auditlog
	tracker  *tracker.TrackerService
}

func NewHandler(service *Service, repo ProductionRepository, a *auditlog.Auditlog, t *tracker.TrackerService) *ProductionHandler {
	return &ProductionHandler{
		service:  service,
		repo:     repo,
		auditLog: a,
		tracker:  t,
	}
}

func (h *ProductionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/pipeline", security.Authorize("operator"), h.GetPipeline)
	router.POST("/items/:item_id/production", security.Authorize("operator"), h.TrackProduction)
	router.GET("/items/:item_id/production", security.Authorize("operator"), h.GetStageRecords)
}

// GetPipeline returns the ordered stage list so the dashboard doesn't
// hardcode it.
func (h *ProductionHandler) GetPipeline(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stages": Pipeline})
}

func (h *ProductionHandler) TrackProduction(c *gin.Context) {
	lineItemID, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid line item ID"})
		return
	}

	var req models.TrackProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	stage, err := ParseStage(req.Stage)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := h.actorID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify user"})
		return
	}

	result, err := h.service.TrackProduction(lineItemID, stage, req.Quantity, userID, req.Notes)
	if err != nil {
		if errors.Is(err, ErrLineItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Line item not found"})
			return
		}
		if errors.Is(err, ErrInvalidQuantity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to track production", "details": err.Error()})
		return
	}

	go h.auditLog.Log("track", &userID, map[string]interface{}{
		"line_item_id": lineItemID,
		"stage":        stage,
		"quantity":     req.Quantity,
		"order_status": result.OrderStatus,
	}, result.Record)

	if result.Alert != nil && result.Alert.Priority == models.AlertPriorityCritical {
		go h.tracker.EscalateAlert(result.Alert)
	}

	c.JSON(http.StatusCreated, result)
}

func (h *ProductionHandler) GetStageRecords(c *gin.Context) {
	lineItemID, err := strconv.Atoi(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid line item ID"})
		return
	}

	records, err := h.repo.GetStageRecords(lineItemID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get stage records", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *ProductionHandler) actorID(c *gin.Context) (int, error) {
	raw, err := security.GetUserIDFromToken(c)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(raw)
}
