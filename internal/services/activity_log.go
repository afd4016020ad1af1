package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"MC-REPORT/internal"
	"MC-REPORT/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// sanitizeUTF8 ensures the string is valid UTF-8, replacing invalid bytes
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	// Replace invalid UTF-8 sequences with replacement character
	return strings.ToValidUTF8(s, "�")
}

type ActivityLogService struct{}

func NewActivityLogService() *ActivityLogService {
	return &ActivityLogService{}
}

func (s *ActivityLogService) LogRequest(c *gin.Context, statusCode int, responseTime time.Duration) {
	clientIP := c.ClientIP()
	if clientIP == "" {
		clientIP = c.Request.RemoteAddr
	}

	queryParams := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			queryParams[key] = values[0]
		}
	}

	// Request body is stored in context by the middleware, if captured
	var requestBody string
	if body, exists := c.Get("request_body"); exists {
		if bodyStr, ok := body.(string); ok {
			requestBody = bodyStr
		}
	}

	queryParamsJSON, _ := json.Marshal(queryParams)

	// Sanitize request body to ensure valid UTF-8 for PostgreSQL
	activityLog := &models.ActivityLog{
		ID:           uuid.New().String(),
		Method:       c.Request.Method,
		Path:         c.Request.URL.Path,
		UserAgent:    c.Request.UserAgent(),
		IPAddress:    clientIP,
		RequestBody:  sanitizeUTF8(requestBody),
		QueryParams:  string(queryParamsJSON),
		StatusCode:   statusCode,
		ResponseTime: responseTime.Milliseconds(),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	// Save to database (don't block the request if this fails)
	go func() {
		if err := internal.DB.Create(activityLog).Error; err != nil {
			log.Printf("Failed to save activity log: %v", err)
		}
	}()
}

func (s *ActivityLogService) GetAllLogs(limit int, offset int) ([]models.ActivityLog, int64, error) {
	var logs []models.ActivityLog
	var total int64

	if err := internal.DB.Model(&models.ActivityLog{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count logs: %w", err)
	}

	query := internal.DB.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch logs: %w", err)
	}

	return logs, total, nil
}

func (s *ActivityLogService) GetLogsByMethod(method string, limit int, offset int) ([]models.ActivityLog, int64, error) {
	var logs []models.ActivityLog
	var total int64

	query := internal.DB.Where("method = ?", strings.ToUpper(method))

	if err := query.Model(&models.ActivityLog{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count logs: %w", err)
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch logs: %w", err)
	}

	return logs, total, nil
}

func (s *ActivityLogService) GetLogsByPath(path string, limit int, offset int) ([]models.ActivityLog, int64, error) {
	var logs []models.ActivityLog
	var total int64

	query := internal.DB.Where("path LIKE ?", "%"+path+"%")

	if err := query.Model(&models.ActivityLog{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count logs: %w", err)
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch logs: %w", err)
	}

	return logs, total, nil
}

// Middleware function to automatically log all requests
func (s *ActivityLogService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Capture request body for mutating requests
		if (c.Request.Method == "POST" || c.Request.Method == "PUT") && c.Request.Body != nil {
			bodyBytes, err := io.ReadAll(c.Request.Body)
			if err == nil {
				// Restore the body for other handlers
				c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

				if len(bodyBytes) > 0 {
					if len(bodyBytes) > 10000 { // 10KB limit
						c.Set("request_body", fmt.Sprintf("[Large body: %d bytes] %s...", len(bodyBytes), string(bodyBytes[:100])))
					} else {
						c.Set("request_body", string(bodyBytes))
					}
				}
			}
		}

		c.Next()

		duration := time.Since(start)
		s.LogRequest(c, c.Writer.Status(), duration)
	}
}
