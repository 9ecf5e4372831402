package revisions

import (
	"errors"
	"net/http"
	"strconv"

	"prodtrack/pkg/security"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service    *Service
	repository TicketRepository
}

func NewHandler(service *Service, repo TicketRepository) *Handler {
	return &Handler{
		service:    service,
		repository: repo,
	}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	revisions := router.Group("/revisions")
	{
		revisions.GET("", security.Authorize("operator"), h.getTickets)
		revisions.GET("/:id", security.Authorize("operator"), h.getTicket)
		revisions.POST("", security.Authorize("operator"), h.createTicket)
		revisions.PATCH("/:id/submit", security.Authorize("operator"), h.submitTicket)
		revisions.PATCH("/:id/approve", security.Authorize("supervisor"), h.approveTicket)
		revisions.PATCH("/:id/reject", security.Authorize("supervisor"), h.rejectTicket)
	}
}

func (h *Handler) getTickets(c *gin.Context) {
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

	tickets, err := h.repository.GetTickets(c.Query("status"), limit, offset)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get revision tickets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tickets)
}

func (h *Handler) getTicket(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	ticket, err := h.repository.GetTicket(id)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Revision ticket not found"})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get revision ticket", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ticket)
}

func (h *Handler) createTicket(c *gin.Context) {
	userID, err := h.actorID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify user"})
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	ticket, err := h.service.CreateTicket(req, userID)
	if err != nil {
		if errors.Is(err, ErrInvalidTarget) || errors.Is(err, ErrFieldNotAllowed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to create revision ticket", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

func (h *Handler) submitTicket(c *gin.Context) {
	h.transition(c, func(ticketID, userID int, _ *string) (*Ticket, error) {
		return h.service.SubmitTicket(ticketID, userID)
	})
}

func (h *Handler) approveTicket(c *gin.Context) {
	h.transition(c, h.service.ApproveTicket)
}

func (h *Handler) rejectTicket(c *gin.Context) {
	h.transition(c, h.service.RejectTicket)
}

func (h *Handler) transition(c *gin.Context, fn func(ticketID, userID int, notes *string) (*Ticket, error)) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket ID"})
		return
	}

	userID, err := h.actorID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unable to identify user"})
		return
	}

	var req DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
			return
		}
	}

	ticket, err := fn(id, userID, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Revision ticket not found"})
		case errors.Is(err, ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNotTicketOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to update revision ticket", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, ticket)
}

func (h *Handler) actorID(c *gin.Context) (int, error) {
	raw, err := security.GetUserIDFromToken(c)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(raw)
}
