package handlers

import (
	"errors"
	"net/http"

	"MC-REPORT/internal/models"
	"MC-REPORT/internal/services"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	templateService *services.TemplateService
}

func NewTemplateHandler(templateService *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// writeValidationError renders a rejected save as a structured violation
// list so the editor can show every problem at once.
func writeValidationError(c *gin.Context, vErr *services.ValidationError) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":      "template validation failed",
		"violations": vErr.Violations,
	})
}

// CreateTemplate creates a new report template
// POST /api/v1/templates
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var doc models.TemplateDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	template, err := h.templateService.CreateTemplate(&doc)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			writeValidationError(c, vErr)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Template created successfully",
		"template": template,
	})
}

// GetTemplates lists templates, optionally filtered by category
// GET /api/v1/templates?category=BLOOD_TEST
func (h *TemplateHandler) GetTemplates(c *gin.Context) {
	var templates []models.ReportTemplate
	var err error

	if category := c.Query("category"); category != "" {
		cat := models.Category(category)
		if !cat.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
			return
		}
		templates, err = h.templateService.GetTemplatesByCategory(cat)
	} else {
		templates, err = h.templateService.GetAllTemplates()
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"templates": models.ToListItems(templates),
		"total":     len(templates),
	})
}

// GetTemplate returns a single template as a typed document
// GET /api/v1/templates/:templateId
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	templateID := c.Param("templateId")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template ID is required"})
		return
	}

	doc, err := h.templateService.GetDocument(templateID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	c.JSON(http.StatusOK, doc)
}

// UpdateTemplate replaces a stored template with a new document
// PUT /api/v1/templates/:templateId
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	templateID := c.Param("templateId")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template ID is required"})
		return
	}

	var doc models.TemplateDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	template, err := h.templateService.UpdateTemplate(templateID, &doc)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			writeValidationError(c, vErr)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Template updated successfully",
		"template": template,
	})
}

// DeleteTemplate soft-deletes a template
// DELETE /api/v1/templates/:templateId
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	templateID := c.Param("templateId")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template ID is required"})
		return
	}

	if err := h.templateService.DeleteTemplate(templateID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

// ValidateTemplate dry-runs save validation without persisting anything.
// The editor calls this to refresh its violation list while the user works.
// POST /api/v1/templates/validate
func (h *TemplateHandler) ValidateTemplate(c *gin.Context) {
	var doc models.TemplateDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	violations := services.ValidateForSave(&doc)
	c.JSON(http.StatusOK, gin.H{
		"valid":      len(violations) == 0,
		"violations": violations,
	})
}

// PreviewTemplate renders the template HTML with placeholder tokens intact
// GET /api/v1/templates/:templateId/preview
func (h *TemplateHandler) PreviewTemplate(c *gin.Context) {
	templateID := c.Param("templateId")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template ID is required"})
		return
	}

	page, err := h.templateService.RenderPreview(templateID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// DuplicateTemplateRequest represents the request body for duplication
type DuplicateTemplateRequest struct {
	Name string `json:"name" binding:"required"`
}

// DuplicateTemplate copies a template under a new name
// POST /api/v1/templates/:templateId/duplicate
func (h *TemplateHandler) DuplicateTemplate(c *gin.Context) {
	templateID := c.Param("templateId")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template ID is required"})
		return
	}

	var req DuplicateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	template, err := h.templateService.DuplicateTemplate(templateID, req.Name)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			writeValidationError(c, vErr)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Template duplicated successfully",
		"template": template,
	})
}

// GetDefaultPreset returns the starting document for new templates
// GET /api/v1/templates/presets/default
func (h *TemplateHandler) GetDefaultPreset(c *gin.Context) {
	c.JSON(http.StatusOK, services.DefaultPreset())
}

// GetBlankPreset returns an empty document
// GET /api/v1/templates/presets/blank
func (h *TemplateHandler) GetBlankPreset(c *gin.Context) {
	c.JSON(http.StatusOK, services.BlankPreset())
}
