package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"MC-REPORT/internal/services"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GenerateReport generates a report from a template and a data context
// POST /api/v1/templates/:templateId/generate
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	templateID := c.Param("templateId")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template ID is required"})
		return
	}

	var req services.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.reportService.Generate(c.Request.Context(), templateID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{
		"message": "Report generated successfully",
		"report":  result.Report,
	}
	if len(result.UnresolvedRequired) > 0 {
		response["unresolved_required"] = result.UnresolvedRequired
	}

	c.JSON(http.StatusCreated, response)
}

// GetReports lists generated reports
// GET /api/v1/reports?template_id=xxx&patient_id=xxx&limit=50&offset=0
func (h *ReportHandler) GetReports(c *gin.Context) {
	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}
	offset := 0
	if o := c.Query("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	reports, total, err := h.reportService.GetReports(c.Query("template_id"), c.Query("patient_id"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetReport returns a single generated report record
// GET /api/v1/reports/:reportId
func (h *ReportHandler) GetReport(c *gin.Context) {
	reportID := c.Param("reportId")
	if reportID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Report ID is required"})
		return
	}

	report, err := h.reportService.GetReport(reportID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// DownloadReport streams a report artifact
// GET /api/v1/reports/:reportId/download?format=html|pdf
func (h *ReportHandler) DownloadReport(c *gin.Context) {
	reportID := c.Param("reportId")
	if reportID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Report ID is required"})
		return
	}

	format := c.DefaultQuery("format", "html")
	if format != "html" && format != "pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be html or pdf"})
		return
	}

	reader, filename, mimeType, err := h.reportService.GetReportReader(c.Request.Context(), reportID, format)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", mimeType)

	if _, err := io.Copy(c.Writer, reader); err != nil {
		// Headers are already out; nothing useful left to send.
		log.Printf("Failed to stream report %s: %v", reportID, err)
	}
}

// RegenerateReport re-renders a report from its stored values
// POST /api/v1/reports/:reportId/regenerate
func (h *ReportHandler) RegenerateReport(c *gin.Context) {
	reportID := c.Param("reportId")
	if reportID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Report ID is required"})
		return
	}

	report, err := h.reportService.Regenerate(c.Request.Context(), reportID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Report regenerated successfully",
		"report":  report,
	})
}

// DeleteReport removes a generated report and its artifacts
// DELETE /api/v1/reports/:reportId
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	reportID := c.Param("reportId")
	if reportID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Report ID is required"})
		return
	}

	if err := h.reportService.DeleteReport(c.Request.Context(), reportID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Report deleted successfully"})
}
