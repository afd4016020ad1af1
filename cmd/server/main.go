package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"MC-REPORT/internal"
	"MC-REPORT/internal/config"
	"MC-REPORT/internal/handlers"
	"MC-REPORT/internal/services"
	"MC-REPORT/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	if err := internal.InitDB(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize storage client based on configuration
	ctx := context.Background()
	var storageClient storage.Client
	var localClient *storage.LocalClient

	switch cfg.Storage.Type {
	case "gcs":
		log.Printf("Initializing GCS storage with bucket: %s", cfg.GCS.BucketName)
		client, err := storage.NewGCSClient(ctx, cfg.GCS.BucketName, cfg.GCS.CredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize GCS client: %v", err)
		}
		storageClient = client
		log.Printf("GCS storage initialized")
	case "local":
		fallthrough
	default:
		log.Printf("Initializing local storage at: %s", cfg.Storage.LocalPath)
		client, err := storage.NewLocalClient(cfg.Storage.LocalPath, cfg.Storage.LocalURL, cfg.Storage.SecretKey)
		if err != nil {
			log.Fatalf("Failed to initialize local storage client: %v", err)
		}
		storageClient = client
		localClient = client
		log.Printf("Local storage initialized with base URL: %s", cfg.Storage.LocalURL)
	}
	defer storageClient.Close()

	// Initialize services
	statisticsService := services.NewStatisticsService()
	templateService := services.NewTemplateService(statisticsService)

	// PDF conversion is optional; report generation degrades to HTML-only
	pdfService, err := services.NewPDFService(cfg.Gotenberg.URL, cfg.Gotenberg.Timeout)
	if err != nil {
		log.Printf("Warning: Failed to initialize PDF service: %v", err)
		pdfService = nil
	} else {
		log.Printf("PDF service initialized with URL: %s, timeout: %s", cfg.Gotenberg.URL, cfg.Gotenberg.Timeout)
	}

	contextProvider := services.NewDBContextProvider()
	reportService := services.NewReportService(storageClient, templateService, contextProvider, pdfService, statisticsService)
	activityLogService := services.NewActivityLogService()

	// Initialize handlers
	templateHandler := handlers.NewTemplateHandler(templateService)
	reportHandler := handlers.NewReportHandler(reportService)
	logsHandler := handlers.NewLogsHandler(activityLogService)
	statisticsHandler := handlers.NewStatisticsHandler(statisticsService)

	// Initialize Gin router
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	// Activity logging middleware
	r.Use(activityLogService.LoggingMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"storage":   cfg.Storage.Type,
		})
	})

	// Local file server endpoint (only for local storage with public URL configured)
	if localClient != nil && cfg.Storage.LocalURL != "" {
		r.GET("/files/*filepath", func(c *gin.Context) {
			filePath := c.Param("filepath")
			if filePath == "" || filePath == "/" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "file path required"})
				return
			}

			if filePath[0] == '/' {
				filePath = filePath[1:]
			}

			// Security: Reject path traversal attempts
			cleanPath := filepath.Clean(filePath)
			if strings.Contains(cleanPath, "..") || strings.HasPrefix(cleanPath, "/") || strings.HasPrefix(cleanPath, "\\") {
				c.JSON(http.StatusForbidden, gin.H{"error": "invalid file path"})
				return
			}

			// Security: Always require signed URLs for file access
			expiresStr := c.Query("expires")
			signature := c.Query("signature")

			if signature == "" || expiresStr == "" {
				c.JSON(http.StatusForbidden, gin.H{"error": "signed URL required"})
				return
			}

			var expiresAt int64
			if _, err := fmt.Sscanf(expiresStr, "%d", &expiresAt); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expires parameter"})
				return
			}

			if !localClient.VerifySignedURL(cleanPath, expiresAt, signature) {
				c.JSON(http.StatusForbidden, gin.H{"error": "invalid or expired signature"})
				return
			}

			// Security: Verify the resolved path is within storage directory
			fullPath := localClient.GetFilePath(cleanPath)
			absPath, err := filepath.Abs(fullPath)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve path"})
				return
			}
			basePath, err := filepath.Abs(localClient.GetBasePath())
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve base path"})
				return
			}
			if !strings.HasPrefix(absPath, basePath+string(filepath.Separator)) {
				c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
				return
			}

			c.File(fullPath)
		})
		log.Printf("Local file server enabled at /files/*")
	} else if localClient != nil {
		log.Printf("Local storage in internal-only mode - files served via /reports/:id/download")
	}

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Template management
		v1.POST("/templates", templateHandler.CreateTemplate)
		v1.GET("/templates", templateHandler.GetTemplates)
		v1.POST("/templates/validate", templateHandler.ValidateTemplate)
		v1.GET("/templates/presets/default", templateHandler.GetDefaultPreset)
		v1.GET("/templates/presets/blank", templateHandler.GetBlankPreset)
		v1.GET("/templates/:templateId", templateHandler.GetTemplate)
		v1.PUT("/templates/:templateId", templateHandler.UpdateTemplate)
		v1.DELETE("/templates/:templateId", templateHandler.DeleteTemplate)
		v1.GET("/templates/:templateId/preview", templateHandler.PreviewTemplate)
		v1.POST("/templates/:templateId/duplicate", templateHandler.DuplicateTemplate)

		// Report generation and download
		v1.POST("/templates/:templateId/generate", reportHandler.GenerateReport)
		v1.GET("/reports", reportHandler.GetReports)
		v1.GET("/reports/:reportId", reportHandler.GetReport)
		v1.GET("/reports/:reportId/download", reportHandler.DownloadReport)
		v1.POST("/reports/:reportId/regenerate", reportHandler.RegenerateReport)
		v1.DELETE("/reports/:reportId", reportHandler.DeleteReport)

		// Activity logs
		v1.GET("/logs", logsHandler.GetAllLogs)

		// Statistics
		v1.GET("/stats/summary", statisticsHandler.GetSummary)
		v1.GET("/stats/templates", statisticsHandler.GetTemplateStats)
		v1.GET("/stats/templates/:templateId", statisticsHandler.GetStatsByTemplate)
		v1.GET("/stats/trends", statisticsHandler.GetTrends)
		v1.GET("/stats/trends/:eventType", statisticsHandler.GetTimeSeries)
	}

	// Create HTTP server with increased timeouts for PDF conversion
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s (environment: %s)", cfg.Server.Port, cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Give outstanding requests a deadline for completion
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := internal.CloseDB(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	if pdfService != nil {
		if err := pdfService.Close(); err != nil {
			log.Printf("Error closing PDF service: %v", err)
		}
	}

	log.Println("Server exited")
}
