package editor

import (
	"testing"

	"MC-REPORT/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedController() (*Controller, *models.TemplateDocument, int) {
	doc := &models.TemplateDocument{TemplateName: "ECG Report", Canvas: models.DefaultCanvas}
	doc.AddStaticElement("ECG Findings", models.Position{X: 50, Y: 30}, models.Size{Width: 300, Height: 40}, models.Style{})
	f := doc.AddDynamicField(models.FieldText, models.Position{X: 50, Y: 100}, models.Size{Width: 200, Height: 30})
	f.FieldName = "heart_rate"
	f.DataMapping = "report.heart_rate"

	c := NewController()
	session := c.LoadDocument(doc)
	return c, doc, session
}

func TestController_InitialState(t *testing.T) {
	c, _, _ := loadedController()

	assert.Equal(t, ModeNoSelection, c.Mode())
	assert.Empty(t, c.SelectedID())
}

func TestController_SelectAndDeselect(t *testing.T) {
	c, doc, _ := loadedController()
	id := doc.StaticElements[0].ID

	require.NoError(t, c.Select(id))
	assert.Equal(t, ModeSelected, c.Mode())
	assert.Equal(t, id, c.SelectedID())

	c.Deselect()
	assert.Equal(t, ModeNoSelection, c.Mode())
	assert.Empty(t, c.SelectedID())
}

func TestController_SelectUnknownElement(t *testing.T) {
	c, _, _ := loadedController()

	assert.ErrorIs(t, c.Select("nope"), ErrUnknownElement)
	assert.Equal(t, ModeNoSelection, c.Mode())
}

func TestController_DropField_OffsetAndClamp(t *testing.T) {
	c, doc, _ := loadedController()

	f, err := c.DropField(models.FieldText, models.Position{X: 150, Y: 150})
	require.NoError(t, err)

	assert.Equal(t, models.Position{X: 100, Y: 135}, f.Position)
	assert.Equal(t, models.Size{Width: 200, Height: 30}, f.Size)
	assert.Equal(t, "field_2", f.FieldName)
	assert.Empty(t, f.DataMapping, "dropped fields start unmapped")

	// The new field is selected and flagged as needing a mapping
	assert.Equal(t, ModeSelected, c.Mode())
	assert.Equal(t, f.ID, c.SelectedID())
	assert.True(t, c.SelectionUnmapped())
	assert.Len(t, doc.DynamicFields, 2)
}

func TestController_DropField_ClampsToOrigin(t *testing.T) {
	c, _, _ := loadedController()

	f, err := c.DropField(models.FieldDate, models.Position{X: 20, Y: 5})
	require.NoError(t, err)

	assert.Equal(t, models.Position{X: 0, Y: 0}, f.Position)
}

func TestController_DragMovesLive(t *testing.T) {
	c, doc, _ := loadedController()
	e := &doc.StaticElements[0]

	// Mouse-down grabs at an interior point of the element
	require.NoError(t, c.BeginDrag(e.ID, models.Position{X: 60, Y: 40}))
	assert.Equal(t, ModeDragging, c.Mode())

	require.NoError(t, c.DragTo(models.Position{X: 160, Y: 90}))
	assert.Equal(t, models.Position{X: 150, Y: 80}, e.Position, "element follows the pointer mid-drag")

	require.NoError(t, c.DragTo(models.Position{X: 5, Y: 5}))
	assert.Equal(t, models.Position{X: 0, Y: 0}, e.Position, "drag clamps at the canvas origin")

	require.NoError(t, c.EndDrag())
	assert.Equal(t, ModeSelected, c.Mode())
	assert.Equal(t, models.Position{X: 0, Y: 0}, e.Position)
}

func TestController_TextEditLifecycle(t *testing.T) {
	c, doc, _ := loadedController()
	e := &doc.StaticElements[0]

	require.NoError(t, c.BeginTextEdit(e.ID))
	assert.Equal(t, ModeEditingText, c.Mode())
	assert.True(t, e.IsEditing)

	require.NoError(t, c.CommitText("Revised Findings"))
	assert.Equal(t, "Revised Findings", e.Content)
	assert.False(t, e.IsEditing)
	assert.Equal(t, ModeSelected, c.Mode())
}

func TestController_TextEditRejectsDynamicField(t *testing.T) {
	c, doc, _ := loadedController()

	assert.ErrorIs(t, c.BeginTextEdit(doc.DynamicFields[0].ID), ErrUnknownElement)
}

func TestController_ConfigureField(t *testing.T) {
	c, doc, _ := loadedController()
	f := &doc.DynamicFields[0]

	require.NoError(t, c.BeginConfigure(f.ID))
	assert.Equal(t, ModeConfiguring, c.Mode())

	mapping := "patient.name"
	required := true
	require.NoError(t, c.ApplyFieldProperties(models.DynamicFieldUpdate{DataMapping: &mapping, Required: &required}))

	assert.Equal(t, "patient.name", f.DataMapping)
	assert.True(t, f.Required)
	assert.Equal(t, ModeSelected, c.Mode())
	assert.False(t, c.SelectionUnmapped())
}

func TestController_InvalidTransitions(t *testing.T) {
	c, doc, _ := loadedController()
	id := doc.StaticElements[0].ID

	assert.ErrorIs(t, c.DragTo(models.Position{X: 1, Y: 1}), ErrInvalidTransition)
	assert.ErrorIs(t, c.EndDrag(), ErrInvalidTransition)
	assert.ErrorIs(t, c.CommitText("x"), ErrInvalidTransition)
	assert.ErrorIs(t, c.DeleteSelected(), ErrInvalidTransition)

	require.NoError(t, c.BeginDrag(id, models.Position{X: 50, Y: 30}))
	assert.ErrorIs(t, c.Select(id), ErrInvalidTransition)
	_, err := c.DropField(models.FieldText, models.Position{X: 100, Y: 100})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, c.BeginTextEdit(id), ErrInvalidTransition)
}

func TestController_NoDocument(t *testing.T) {
	c := NewController()

	assert.ErrorIs(t, c.Select("x"), ErrNoDocument)
	_, err := c.DropField(models.FieldText, models.Position{X: 10, Y: 10})
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestController_DeleteSelected(t *testing.T) {
	c, doc, _ := loadedController()
	id := doc.DynamicFields[0].ID

	require.NoError(t, c.Select(id))
	require.NoError(t, c.DeleteSelected())

	assert.Nil(t, doc.FindElement(id))
	assert.Equal(t, ModeNoSelection, c.Mode())
	assert.Empty(t, c.SelectedID())
}

func TestController_StalePreviewDropped(t *testing.T) {
	c, _, session := loadedController()

	assert.True(t, c.ApplyPreview(session, map[string]string{"heart_rate": "72"}))
	assert.Equal(t, "72", c.PreviewValues()["heart_rate"])

	// A reload invalidates in-flight preview responses
	newDoc := &models.TemplateDocument{TemplateName: "Fresh", Canvas: models.DefaultCanvas}
	c.LoadDocument(newDoc)

	assert.False(t, c.ApplyPreview(session, map[string]string{"heart_rate": "999"}))
	assert.Nil(t, c.PreviewValues())
}
