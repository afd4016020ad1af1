package handlers

import (
	"net/http"
	"strconv"

	"MC-REPORT/internal/models"
	"MC-REPORT/internal/services"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService *services.StatisticsService
}

func NewStatisticsHandler(statisticsService *services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{
		statisticsService: statisticsService,
	}
}

// GetSummary returns total counts for all event types
// GET /api/v1/stats/summary
func (h *StatisticsHandler) GetSummary(c *gin.Context) {
	summary, err := h.statisticsService.GetSummary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
	})
}

// GetTemplateStats returns statistics for all templates
// GET /api/v1/stats/templates
func (h *StatisticsHandler) GetTemplateStats(c *gin.Context) {
	stats, err := h.statisticsService.GetTemplateStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"templates": stats,
	})
}

// GetStatsByTemplate returns statistics for a specific template
// GET /api/v1/stats/templates/:templateId
func (h *StatisticsHandler) GetStatsByTemplate(c *gin.Context) {
	templateID := c.Param("templateId")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "template_id is required"})
		return
	}

	stats, err := h.statisticsService.GetStatsByTemplate(templateID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetTrends returns time-based statistics
// GET /api/v1/stats/trends?days=30&template_id=xxx
func (h *StatisticsHandler) GetTrends(c *gin.Context) {
	days := 30
	if d := c.Query("days"); d != "" {
		if parsed, err := strconv.Atoi(d); err == nil && parsed > 0 && parsed <= 365 {
			days = parsed
		}
	}

	templateID := c.Query("template_id")

	trends, err := h.statisticsService.GetTrends(days, templateID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"days":   days,
		"trends": trends,
	})
}

// GetTimeSeries returns time-based statistics for a specific event type
// GET /api/v1/stats/trends/:eventType?days=30&template_id=xxx
func (h *StatisticsHandler) GetTimeSeries(c *gin.Context) {
	eventTypeStr := c.Param("eventType")
	if eventTypeStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_type is required"})
		return
	}

	var eventType models.EventType
	switch eventTypeStr {
	case "template_saved":
		eventType = models.EventTemplateSaved
	case "report_generated":
		eventType = models.EventReportGenerated
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       "invalid event_type",
			"valid_types": []string{"template_saved", "report_generated"},
		})
		return
	}

	days := 30
	if d := c.Query("days"); d != "" {
		if parsed, err := strconv.Atoi(d); err == nil && parsed > 0 && parsed <= 365 {
			days = parsed
		}
	}

	templateID := c.Query("template_id")

	data, err := h.statisticsService.GetTimeSeries(eventType, days, templateID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, data)
}
