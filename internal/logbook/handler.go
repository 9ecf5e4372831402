package logbook

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"prodtrack/internal/rate_limiter"
	"prodtrack/internal/repository"
	"prodtrack/pkg/security"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service     *Service
	repository  *LogbookRepository
	rateLimiter *rate_limiter.RateLimiter
}

func NewHandler(repository *repository.Repository) *Handler {
	logbookRepository := NewLogbookRepository(repository)
	service := NewService(logbookRepository)

	// 30 entries per user per minute is already generous for hand-typed
	// shift notes.
	rateLimiter := rate_limiter.NewRateLimiter(30, time.Minute)

	return &Handler{
		service:     service,
		repository:  logbookRepository,
		rateLimiter: rateLimiter,
	}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	logbook := router.Group("/logbook")
	{
		logbook.GET("/entries", security.Authorize("operator"), h.getEntries)
		logbook.GET("/entries/:id", security.Authorize("operator"), h.getEntry)
		logbook.POST("/entries", security.Authorize("operator"), h.createEntry)
	}
}

func (h *Handler) getEntries(c *gin.Context) {
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

	from, err := h.parseDateQuery(c, "from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
		return
	}
	to, err := h.parseDateQuery(c, "to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
		return
	}

	entries, err := h.repository.GetEntries(c.Query("category"), from, to, limit, offset)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get logbook entries", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *Handler) getEntry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	entry, err := h.repository.GetEntry(id)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Logbook entry not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get logbook entry", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *Handler) createEntry(c *gin.Context) {
	rawUserID, err := security.GetUserIDFromToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify user"})
		return
	}
	authorID, err := strconv.Atoi(rawUserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify user"})
		return
	}

	if !h.rateLimiter.IsAllowed(rawUserID) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many logbook entries. Slow down."})
		return
	}

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	entry, err := h.service.CreateEntry(req, authorID)
	if err != nil {
		if errors.Is(err, ErrInvalidShift) || errors.Is(err, ErrInvalidCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to create logbook entry", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
