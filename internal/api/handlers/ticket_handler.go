// internal/api/handlers/ticket_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/samhanlabs/gmvboard/internal/repository/postgres"
	"github.com/samhanlabs/gmvboard/internal/service"
)

type TicketHandler struct {
	service *service.TicketService
}

func NewTicketHandler(service *service.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

type createTicketRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

func (h *TicketHandler) Create(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ticket, err := h.service.Create(c.Request.Context(), req.Subject, req.Description, req.Priority, actor(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) List(c *gin.Context) {
	tickets, err := h.service.List(c.Request.Context(),
		strings.TrimSpace(c.Query("status")),
		parsePositiveIntWithDefault(c.Query("limit"), 50),
		parseNonNegativeInt(c.Query("offset")))
	if err != nil {
		log.Error().Err(err).Msg("failed to list tickets")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch tickets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

func ticketID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return 0, false
	}
	return id, true
}

func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	ticket, err := h.service.Get(c.Request.Context(), id)
	if errors.Is(err, postgres.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to get ticket")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch ticket"})
		return
	}

	c.JSON(http.StatusOK, ticket)
}

type updateTicketRequest struct {
	Status   string `json:"status"`
	Assignee string `json:"assignee"`
}

func (h *TicketHandler) Update(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	var req updateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ticket, err := h.service.Update(c.Request.Context(), id, req.Status, req.Assignee)
	if errors.Is(err, postgres.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ticket)
}

type postMessageRequest struct {
	Body string `json:"body"`
}

func (h *TicketHandler) PostMessage(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	message, err := h.service.PostMessage(c.Request.Context(), id, actor(c), req.Body)
	if errors.Is(err, postgres.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, message)
}

// ListMessages serves the chat polling loop: ?after= is the last message
// id the client has seen.
func (h *TicketHandler) ListMessages(c *gin.Context) {
	id, ok := ticketID(c)
	if !ok {
		return
	}

	var after int64
	if v, err := strconv.ParseInt(c.Query("after"), 10, 64); err == nil && v > 0 {
		after = v
	}

	messages, err := h.service.MessagesSince(c.Request.Context(), id, after)
	if errors.Is(err, postgres.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to list ticket messages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
