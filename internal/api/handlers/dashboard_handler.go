// internal/api/handlers/dashboard_handler.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/samhanlabs/gmvboard/internal/domain"
	"github.com/samhanlabs/gmvboard/internal/service"
)

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) parseFilter(c *gin.Context) *domain.DashboardFilter {
	from := strings.TrimSpace(c.Query("from"))
	to := strings.TrimSpace(c.Query("to"))

	var typ domain.CampaignType
	switch strings.ToLower(strings.TrimSpace(c.Query("type"))) {
	case "live":
		typ = domain.CampaignTypeLive
	case "product":
		typ = domain.CampaignTypeProduct
	}

	if from == "" && to == "" && typ == "" {
		return nil
	}
	return &domain.DashboardFilter{From: from, To: to, CampaignType: typ}
}

func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context(), h.parseFilter(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch dashboard summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) GetTrend(c *gin.Context) {
	points, err := h.service.GetTrend(c.Request.Context(), h.parseFilter(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch dashboard trend")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch trend"})
		return
	}
	c.JSON(http.StatusOK, points)
}

func (h *DashboardHandler) GetTopGroups(c *gin.Context) {
	limit := 10
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && v > 0 {
		limit = v
	}

	groups, err := h.service.GetTopGroups(c.Request.Context(), h.parseFilter(c), limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch group summaries")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch groups"})
		return
	}
	c.JSON(http.StatusOK, groups)
}
