package reports

import (
	"net/http"
	"strconv"
	"time"

	"prodtrack/pkg/security"

	"github.com/gin-gonic/gin"
)

// SummaryExporter pushes production summary rows to an external sheet.
// Nil when the integration is not configured.
type SummaryExporter interface {
	ExportProductionSummary(rows []ProductionSummaryRow) error
}

type ReportHandler struct {
	repository *ReportRepository
	exporter   SummaryExporter
}

func NewHandler(repo *ReportRepository, exporter SummaryExporter) *ReportHandler {
	return &ReportHandler{
		repository: repo,
		exporter:   exporter,
	}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("/production/:id", security.Authorize("operator"), h.getProductionSummary)
		reports.GET("/throughput", security.Authorize("supervisor"), h.getStageThroughput)
		reports.GET("/discrepancies", security.Authorize("supervisor"), h.getDiscrepancySummary)
		reports.POST("/production/:id/export", security.Authorize("supervisor"), h.exportProductionSummary)
	}
}

func (h *ReportHandler) getProductionSummary(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	rows, err := h.repository.GetProductionSummary(orderID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to build production summary", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) getStageThroughput(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.DefaultQuery("from", time.Now().AddDate(0, 0, -7).Format("2006-01-02")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
		return
	}
	to, err := time.Parse("2006-01-02", c.DefaultQuery("to", time.Now().AddDate(0, 0, 1).Format("2006-01-02")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
		return
	}

	rows, err := h.repository.GetStageThroughput(from, to)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to build throughput report", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) getDiscrepancySummary(c *gin.Context) {
	rows, err := h.repository.GetDiscrepancySummary()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to build discrepancy summary", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) exportProductionSummary(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Sheets export is not configured"})
		return
	}

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	rows, err := h.repository.GetProductionSummary(orderID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to build production summary", "details": err.Error()})
		return
	}

	if err := h.exporter.ExportProductionSummary(rows); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Export failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"exported_rows": len(rows)})
}
