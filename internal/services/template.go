package services

import (
	"fmt"
	"strings"
	"time"

	"MC-REPORT/internal"
	"MC-REPORT/internal/models"
	"MC-REPORT/internal/render"

	"github.com/google/uuid"
)

// Violation is one save-time validation problem. All violations are
// collected and returned together so the user can fix everything at once.
type Violation struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// ValidationError carries the full violation list of a rejected save.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return "template validation failed: " + strings.Join(msgs, "; ")
}

// ValidateForSave checks the save-time invariants of a template document.
// Every check runs; nothing short-circuits. Returns nil when the document
// is savable.
func ValidateForSave(doc *models.TemplateDocument) []Violation {
	var violations []Violation

	if strings.TrimSpace(doc.TemplateName) == "" {
		violations = append(violations, Violation{
			Code:    "missing_name",
			Message: "template name is required",
		})
	}

	if doc.ElementCount() == 0 {
		violations = append(violations, Violation{
			Code:    "no_elements",
			Message: "template must contain at least one element",
		})
	}

	if unmapped := doc.UnmappedFields(); len(unmapped) > 0 {
		violations = append(violations, Violation{
			Code:    "unmapped_fields",
			Message: fmt.Sprintf("%d dynamic field(s) need mapping", len(unmapped)),
			Count:   len(unmapped),
		})
	}

	// Duplicate field names would collide in the mappings dictionary and
	// make placeholder substitution ambiguous.
	seen := make(map[string]bool, len(doc.DynamicFields))
	var dups []string
	for _, f := range doc.DynamicFields {
		if seen[f.FieldName] {
			dups = append(dups, f.FieldName)
		}
		seen[f.FieldName] = true
	}
	if len(dups) > 0 {
		violations = append(violations, Violation{
			Code:    "duplicate_field_names",
			Message: fmt.Sprintf("duplicate field name(s): %s", strings.Join(dups, ", ")),
			Count:   len(dups),
		})
	}

	return violations
}

type TemplateService struct {
	statsService *StatisticsService
}

func NewTemplateService(statsService *StatisticsService) *TemplateService {
	return &TemplateService{statsService: statsService}
}

// CreateTemplate validates and persists a new template document. The
// derived mappings dictionary and the static content HTML are recomputed
// from the document here, never taken from the caller.
func (s *TemplateService) CreateTemplate(doc *models.TemplateDocument) (*models.ReportTemplate, error) {
	if violations := ValidateForSave(doc); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	if !doc.Category.Valid() {
		return nil, fmt.Errorf("unknown category: %s", doc.Category)
	}

	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}

	template := doc.ToModel()
	template.StaticContent = render.Body(doc)

	if err := internal.DB.Create(template).Error; err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	if s.statsService != nil {
		s.statsService.RecordEvent(EventTemplateSaved, template.ID)
	}

	return template, nil
}

// UpdateTemplate validates and replaces a stored template as a whole
// document. There are no partial field patches; the row is immutable by
// replacement.
func (s *TemplateService) UpdateTemplate(templateID string, doc *models.TemplateDocument) (*models.ReportTemplate, error) {
	existing, err := s.GetTemplate(templateID)
	if err != nil {
		return nil, err
	}

	if violations := ValidateForSave(doc); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	if !doc.Category.Valid() {
		return nil, fmt.Errorf("unknown category: %s", doc.Category)
	}

	doc.ID = existing.ID
	template := doc.ToModel()
	template.StaticContent = render.Body(doc)
	template.CreatedAt = existing.CreatedAt

	if err := internal.DB.Save(template).Error; err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	if s.statsService != nil {
		s.statsService.RecordEvent(EventTemplateSaved, template.ID)
	}

	return template, nil
}

func (s *TemplateService) GetTemplate(templateID string) (*models.ReportTemplate, error) {
	var template models.ReportTemplate
	if err := internal.DB.First(&template, "id = ?", templateID).Error; err != nil {
		return nil, fmt.Errorf("template not found: %w", err)
	}
	return &template, nil
}

// GetDocument loads a stored template as a typed document. Malformed
// element JSON degrades to empty lists; see models.DocumentFromModel.
func (s *TemplateService) GetDocument(templateID string) (*models.TemplateDocument, error) {
	template, err := s.GetTemplate(templateID)
	if err != nil {
		return nil, err
	}
	return models.DocumentFromModel(template), nil
}

func (s *TemplateService) GetAllTemplates() ([]models.ReportTemplate, error) {
	var templates []models.ReportTemplate
	if err := internal.DB.Order("updated_at DESC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to get templates: %w", err)
	}
	return templates, nil
}

func (s *TemplateService) GetTemplatesByCategory(category models.Category) ([]models.ReportTemplate, error) {
	var templates []models.ReportTemplate
	if err := internal.DB.Where("category = ?", category).Order("updated_at DESC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to get templates: %w", err)
	}
	return templates, nil
}

// DeleteTemplate soft-deletes a template. Reports generated from it keep
// their template id; whether a template in use may be removed is the
// caller's concern.
func (s *TemplateService) DeleteTemplate(templateID string) error {
	template, err := s.GetTemplate(templateID)
	if err != nil {
		return err
	}
	return internal.DB.Delete(template).Error
}

// DuplicateTemplate copies a library template under a new name with fresh
// element ids, so edits to the copy never touch the original.
func (s *TemplateService) DuplicateTemplate(templateID, newName string) (*models.ReportTemplate, error) {
	doc, err := s.GetDocument(templateID)
	if err != nil {
		return nil, err
	}

	doc.ID = ""
	doc.TemplateName = newName
	for i := range doc.StaticElements {
		doc.StaticElements[i].ID = uuid.New().String()
	}
	for i := range doc.DynamicFields {
		doc.DynamicFields[i].ID = uuid.New().String()
	}

	return s.CreateTemplate(doc)
}

// RenderPreview renders a template's HTML with placeholder tokens intact,
// for the editor's preview pane. The persisted static content is reused
// when present so the preview matches what report generation will use.
func (s *TemplateService) RenderPreview(templateID string) (string, error) {
	template, err := s.GetTemplate(templateID)
	if err != nil {
		return "", err
	}

	body := template.StaticContent
	if body == "" {
		body = render.Body(models.DocumentFromModel(template))
	}

	return render.Page(template.TemplateName, body, time.Time{})
}

// DefaultPreset returns the starting document for first-time template
// creation: a report title and a patient-information header, no dynamic
// fields yet.
func DefaultPreset() *models.TemplateDocument {
	doc := &models.TemplateDocument{Canvas: models.DefaultCanvas}

	doc.AddStaticElement("Medical Report Template",
		models.Position{X: 50, Y: 30},
		models.Size{Width: 700, Height: 40},
		models.Style{FontSize: 24, FontWeight: "bold", TextAlign: "center"})

	doc.AddStaticElement("Patient Information",
		models.Position{X: 50, Y: 100},
		models.Size{Width: 300, Height: 30},
		models.Style{FontSize: 16, FontWeight: "bold", TextAlign: "left"})

	return doc
}

// BlankPreset returns an empty document.
func BlankPreset() *models.TemplateDocument {
	return &models.TemplateDocument{Canvas: models.DefaultCanvas}
}
