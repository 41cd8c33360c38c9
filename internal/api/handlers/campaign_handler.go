// internal/api/handlers/campaign_handler.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/samhanlabs/gmvboard/internal/domain"
	"github.com/samhanlabs/gmvboard/internal/ingest"
	"github.com/samhanlabs/gmvboard/internal/service"
)

type CampaignHandler struct {
	ingestService    *service.IngestService
	dashboardService *service.DashboardService
}

func NewCampaignHandler(ingestService *service.IngestService, dashboardService *service.DashboardService) *CampaignHandler {
	return &CampaignHandler{ingestService: ingestService, dashboardService: dashboardService}
}

// ingestResponse is the success body of every ingestion entry point.
type ingestResponse struct {
	Success          bool     `json:"success"`
	Message          string   `json:"message"`
	RecordsProcessed int      `json:"recordsProcessed"`
	RecordsInserted  int      `json:"recordsInserted"`
	RecordsUpdated   int      `json:"recordsUpdated"`
	Errors           []string `json:"errors,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
}

type rejectionResponse struct {
	Success   bool     `json:"success"`
	Error     string   `json:"error"`
	Message   string   `json:"message"`
	Errors    []string `json:"errors,omitempty"`
	Conflicts []string `json:"conflicts,omitempty"`
}

func campaignTypeParam(c *gin.Context) (domain.CampaignType, bool) {
	switch strings.ToLower(c.Param("type")) {
	case "live":
		return domain.CampaignTypeLive, true
	case "product":
		return domain.CampaignTypeProduct, true
	default:
		c.JSON(http.StatusBadRequest, rejectionResponse{
			Error:   "invalid campaign type",
			Message: fmt.Sprintf("unknown campaign type %q, expected live or product", c.Param("type")),
		})
		return "", false
	}
}

func actor(c *gin.Context) string {
	if email := strings.TrimSpace(c.GetHeader("X-User-Email")); email != "" {
		return email
	}
	return "unknown"
}

// respondIngest maps a service outcome onto the response contract:
// rejections are 400s with the full error/conflict detail, storage
// failures are 500s with detail gated to non-release mode.
func respondIngest(c *gin.Context, result *ingest.Result, err error, message string) {
	if err != nil {
		var rej *service.RejectionError
		if errors.As(err, &rej) {
			c.JSON(http.StatusBadRequest, rejectionResponse{
				Error:     rej.Reason,
				Message:   "batch rejected, nothing was written",
				Errors:    rej.Errors,
				Conflicts: rej.Conflicts,
			})
			return
		}

		log.Error().Err(err).Msg("ingestion failed")
		resp := rejectionResponse{
			Error:   "internal error",
			Message: "batch failed, the transaction was rolled back",
		}
		if gin.Mode() != gin.ReleaseMode {
			resp.Message = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusOK, ingestResponse{
		Success:          true,
		Message:          message,
		RecordsProcessed: result.Processed,
		RecordsInserted:  result.Inserted,
		RecordsUpdated:   result.Updated,
		Errors:           result.Errors,
		Warnings:         result.Warnings,
	})
}

// Upload handles POST /campaigns/:type/upload with a multipart workbook.
func (h *CampaignHandler) Upload(c *gin.Context) {
	typ, ok := campaignTypeParam(c)
	if !ok {
		return
	}

	reportDate := c.PostForm("report_date")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, rejectionResponse{
			Error:   "missing file",
			Message: "a spreadsheet file is required",
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, rejectionResponse{
			Error:   "unreadable file",
			Message: err.Error(),
		})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, rejectionResponse{
			Error:   "unreadable file",
			Message: err.Error(),
		})
		return
	}

	result, err := h.ingestService.IngestWorkbook(c.Request.Context(), typ, reportDate, data, fileHeader.Filename, actor(c))
	respondIngest(c, result, err, fmt.Sprintf("processed %s", fileHeader.Filename))
}

type manualEntryRequest struct {
	ReportDate string          `json:"report_date"`
	Rows       []ingest.RawRow `json:"rows"`
}

// ManualEntry handles POST /campaigns/:type/manual with pre-structured rows.
func (h *CampaignHandler) ManualEntry(c *gin.Context) {
	typ, ok := campaignTypeParam(c)
	if !ok {
		return
	}

	var req manualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, rejectionResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	result, err := h.ingestService.IngestRows(c.Request.Context(), typ, req.ReportDate, req.Rows, actor(c))
	respondIngest(c, result, err, "manual entry processed")
}

// DeleteByDate handles DELETE /campaigns?report_date=YYYY-MM-DD[&type=].
func (h *CampaignHandler) DeleteByDate(c *gin.Context) {
	reportDate := c.Query("report_date")

	var typ domain.CampaignType
	switch strings.ToLower(c.Query("type")) {
	case "live":
		typ = domain.CampaignTypeLive
	case "product":
		typ = domain.CampaignTypeProduct
	case "":
	default:
		c.JSON(http.StatusBadRequest, rejectionResponse{
			Error:   "invalid campaign type",
			Message: "expected live or product",
		})
		return
	}

	n, err := h.ingestService.DeleteByDate(c.Request.Context(), reportDate, typ, actor(c))
	if err != nil {
		var rej *service.RejectionError
		if errors.As(err, &rej) {
			c.JSON(http.StatusBadRequest, rejectionResponse{Error: rej.Reason, Message: "nothing was deleted"})
			return
		}
		log.Error().Err(err).Msg("delete by date failed")
		c.JSON(http.StatusInternalServerError, rejectionResponse{Error: "internal error", Message: "delete failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "recordsDeleted": n})
}

// List handles GET /campaigns?report_date=YYYY-MM-DD[&type=].
func (h *CampaignHandler) List(c *gin.Context) {
	reportDate := c.Query("report_date")
	if err := ingest.ValidateReportDate(reportDate); err != nil {
		c.JSON(http.StatusBadRequest, rejectionResponse{Error: "invalid report date", Message: err.Error()})
		return
	}

	var typ domain.CampaignType
	switch strings.ToLower(c.Query("type")) {
	case "live":
		typ = domain.CampaignTypeLive
	case "product":
		typ = domain.CampaignTypeProduct
	}

	records, err := h.dashboardService.ListByDate(c.Request.Context(), reportDate, typ)
	if err != nil {
		log.Error().Err(err).Msg("failed to list campaign records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
}
