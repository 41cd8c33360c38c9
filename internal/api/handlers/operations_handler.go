// internal/api/handlers/operations_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/samhanlabs/gmvboard/internal/service"
)

type OperationsHandler struct {
	service *service.AuditService
}

func NewOperationsHandler(service *service.AuditService) *OperationsHandler {
	return &OperationsHandler{service: service}
}

// List returns the most recent audit entries, newest first.
func (h *OperationsHandler) List(c *gin.Context) {
	limit := parsePositiveIntWithDefault(c.Query("limit"), 50)

	entries, err := h.service.RecentOperations(c.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list operations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch operations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"operations": entries})
}
