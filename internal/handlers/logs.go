package handlers

import (
	"net/http"
	"strconv"

	"MC-REPORT/internal/services"

	"github.com/gin-gonic/gin"
)

type LogsHandler struct {
	activityLogService *services.ActivityLogService
}

func NewLogsHandler(activityLogService *services.ActivityLogService) *LogsHandler {
	return &LogsHandler{activityLogService: activityLogService}
}

func parsePagination(c *gin.Context) (limit, offset int) {
	limit = 100
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}
	offset = 0
	if o := c.Query("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

// GetAllLogs returns recorded API requests, newest first
// GET /api/v1/logs?method=POST&path=/templates&limit=100&offset=0
func (h *LogsHandler) GetAllLogs(c *gin.Context) {
	limit, offset := parsePagination(c)

	var (
		logs  interface{}
		total int64
		err   error
	)

	switch {
	case c.Query("method") != "":
		logs, total, err = h.activityLogService.GetLogsByMethod(c.Query("method"), limit, offset)
	case c.Query("path") != "":
		logs, total, err = h.activityLogService.GetLogsByPath(c.Query("path"), limit, offset)
	default:
		logs, total, err = h.activityLogService.GetAllLogs(limit, offset)
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":   logs,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
