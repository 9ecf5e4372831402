package auditlog

import (
	"net/http"
	"strconv"

	"prodtrack/pkg/security"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repository *AuditLogRepository
}

func NewHandler(r *AuditLogRepository) *Handler {
	return &Handler{repository: r}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit-logs/:resource_type/:id", security.Authorize("supervisor"), h.getResourceLog)
}

func (h *Handler) getResourceLog(c *gin.Context) {
	resourceType := c.Param("resource_type")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resource ID"})
		return
	}

	logs, err := h.repository.GetResourceLog(id, resourceType)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get audit log", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}
