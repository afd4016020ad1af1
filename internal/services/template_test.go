package services

import (
	"testing"

	"MC-REPORT/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func violationCodes(violations []Violation) []string {
	codes := make([]string, len(violations))
	for i, v := range violations {
		codes[i] = v.Code
	}
	return codes
}

func savableDocument() *models.TemplateDocument {
	doc := &models.TemplateDocument{
		TemplateName: "Urine Test Report",
		Category:     models.CategoryUrineTest,
		Canvas:       models.DefaultCanvas,
	}
	doc.AddStaticElement("Urine Test", models.Position{X: 50, Y: 30}, models.Size{Width: 700, Height: 40}, models.Style{})
	f := doc.AddDynamicField(models.FieldText, models.Position{X: 50, Y: 100}, models.Size{Width: 200, Height: 30})
	f.FieldName = "patient_name"
	f.DataMapping = "patient.name"
	return doc
}

func TestValidateForSave_SavableDocument(t *testing.T) {
	assert.Empty(t, ValidateForSave(savableDocument()))
}

func TestValidateForSave_CollectsAllViolations(t *testing.T) {
	doc := &models.TemplateDocument{TemplateName: "   "}

	violations := ValidateForSave(doc)

	assert.ElementsMatch(t, []string{"missing_name", "no_elements"}, violationCodes(violations))
}

func TestValidateForSave_UnmappedFields(t *testing.T) {
	doc := savableDocument()
	doc.AddDynamicField(models.FieldDate, models.Position{X: 50, Y: 150}, models.Size{Width: 200, Height: 30})
	doc.AddDynamicField(models.FieldNumber, models.Position{X: 50, Y: 200}, models.Size{Width: 200, Height: 30})

	violations := ValidateForSave(doc)

	require.Len(t, violations, 1)
	assert.Equal(t, "unmapped_fields", violations[0].Code)
	assert.Equal(t, 2, violations[0].Count)
	assert.Equal(t, "2 dynamic field(s) need mapping", violations[0].Message)
}

func TestValidateForSave_MappingClearsViolation(t *testing.T) {
	doc := savableDocument()
	f := doc.AddDynamicField(models.FieldDate, models.Position{X: 50, Y: 150}, models.Size{Width: 200, Height: 30})
	require.Len(t, ValidateForSave(doc), 1)

	f.DataMapping = "visit.date"
	assert.Empty(t, ValidateForSave(doc), "mapping every field makes the document savable")
}

func TestValidateForSave_CustomMappingCounts(t *testing.T) {
	doc := savableDocument()
	f := doc.AddDynamicField(models.FieldTextarea, models.Position{X: 50, Y: 150}, models.Size{Width: 300, Height: 60})
	f.DataMapping = "custom"

	assert.Empty(t, ValidateForSave(doc), "custom is a valid mapping, not an unmapped state")
}

func TestValidateForSave_DuplicateFieldNames(t *testing.T) {
	doc := savableDocument()
	f := doc.AddDynamicField(models.FieldText, models.Position{X: 50, Y: 150}, models.Size{Width: 200, Height: 30})
	f.FieldName = "patient_name"
	f.DataMapping = "patient.id"

	violations := ValidateForSave(doc)

	require.Len(t, violations, 1)
	assert.Equal(t, "duplicate_field_names", violations[0].Code)
	assert.Contains(t, violations[0].Message, "patient_name")
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Violations: []Violation{
		{Code: "missing_name", Message: "template name is required"},
		{Code: "no_elements", Message: "template must contain at least one element"},
	}}

	assert.Equal(t, "template validation failed: template name is required; template must contain at least one element", err.Error())
}

func TestDefaultPreset(t *testing.T) {
	doc := DefaultPreset()

	require.Len(t, doc.StaticElements, 2)
	assert.Empty(t, doc.DynamicFields)
	assert.Equal(t, models.DefaultCanvas, doc.Canvas)

	title := doc.StaticElements[0]
	assert.Equal(t, "Medical Report Template", title.Content)
	assert.Equal(t, models.Position{X: 50, Y: 30}, title.Position)
	assert.Equal(t, 24, title.Style.FontSize)
	assert.Equal(t, "bold", title.Style.FontWeight)
	assert.Equal(t, "center", title.Style.TextAlign)

	header := doc.StaticElements[1]
	assert.Equal(t, "Patient Information", header.Content)
	assert.Equal(t, 16, header.Style.FontSize)

	// The preset needs a name before it can be saved
	assert.ElementsMatch(t, []string{"missing_name"}, violationCodes(ValidateForSave(doc)))
}

func TestBlankPreset(t *testing.T) {
	doc := BlankPreset()

	assert.Zero(t, doc.ElementCount())
	assert.ElementsMatch(t, []string{"missing_name", "no_elements"}, violationCodes(ValidateForSave(doc)))
}
