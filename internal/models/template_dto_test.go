package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocument() *TemplateDocument {
	doc := &TemplateDocument{
		TemplateName: "Blood Test Report",
		Category:     CategoryBloodTest,
		Canvas:       DefaultCanvas,
	}
	doc.AddStaticElement("Blood Test", Position{X: 50, Y: 30}, Size{Width: 700, Height: 40}, Style{FontSize: 24, FontWeight: "bold"})
	f := doc.AddDynamicField(FieldText, Position{X: 50, Y: 100}, Size{Width: 200, Height: 30})
	f.FieldName = "patient_name"
	f.DataMapping = "patient.name"
	return doc
}

func TestTemplateDocument_MappingsDerivedFromFields(t *testing.T) {
	doc := newTestDocument()

	assert.Equal(t, map[string]string{"patient_name": "patient.name"}, doc.Mappings())

	// Mappings track field edits with no separate bookkeeping
	doc.DynamicFields[0].DataMapping = "patient.id"
	assert.Equal(t, map[string]string{"patient_name": "patient.id"}, doc.Mappings())

	doc.DeleteElement(doc.DynamicFields[0].ID)
	assert.Empty(t, doc.Mappings())
}

func TestTemplateDocument_UnmappedFields(t *testing.T) {
	doc := newTestDocument()
	assert.Empty(t, doc.UnmappedFields())

	f := doc.AddDynamicField(FieldDate, Position{X: 50, Y: 150}, Size{Width: 200, Height: 30})
	unmapped := doc.UnmappedFields()
	require.Len(t, unmapped, 1)
	assert.Equal(t, f.ID, unmapped[0])
}

func TestTemplateDocument_UpdateUnknownIDIsNoOp(t *testing.T) {
	doc := newTestDocument()
	before := doc.DynamicFields[0]

	name := "changed"
	assert.False(t, doc.UpdateDynamicField("no-such-id", DynamicFieldUpdate{FieldName: &name}))
	assert.False(t, doc.UpdateStaticElement("no-such-id", StaticElementUpdate{Content: &name}))
	assert.False(t, doc.DeleteElement("no-such-id"))

	assert.Equal(t, before, doc.DynamicFields[0])
	assert.Equal(t, 2, doc.ElementCount())
}

func TestTemplateDocument_DeleteElement(t *testing.T) {
	doc := newTestDocument()
	staticID := doc.StaticElements[0].ID

	assert.True(t, doc.DeleteElement(staticID))
	assert.Nil(t, doc.FindStatic(staticID))
	assert.Equal(t, 1, doc.ElementCount())

	// Deleting again reports unknown
	assert.False(t, doc.DeleteElement(staticID))
}

func TestTemplateDocument_FindElement(t *testing.T) {
	doc := newTestDocument()

	e := doc.FindElement(doc.StaticElements[0].ID)
	require.NotNil(t, e)
	assert.Equal(t, KindStatic, e.Kind())

	f := doc.FindElement(doc.DynamicFields[0].ID)
	require.NotNil(t, f)
	assert.Equal(t, KindDynamic, f.Kind())

	assert.Nil(t, doc.FindElement("missing"))
}

func TestToModel_RoundTrip(t *testing.T) {
	doc := newTestDocument()
	doc.ID = "tpl-1"

	m := doc.ToModel()
	assert.Equal(t, "tpl-1", m.ID)
	assert.Equal(t, "Blood Test Report", m.TemplateName)
	assert.Contains(t, m.Mappings, "patient.name")

	parsed := DocumentFromModel(m)
	assert.Equal(t, doc.TemplateName, parsed.TemplateName)
	assert.Equal(t, doc.Category, parsed.Category)
	require.Len(t, parsed.StaticElements, 1)
	require.Len(t, parsed.DynamicFields, 1)
	assert.Equal(t, doc.DynamicFields[0].FieldName, parsed.DynamicFields[0].FieldName)
	assert.Equal(t, doc.Canvas, parsed.Canvas)
}

func TestDocumentFromModel_MalformedJSONDegrades(t *testing.T) {
	m := &ReportTemplate{
		ID:             "tpl-bad",
		TemplateName:   "Hand-edited",
		StaticElements: `{"not":"a list"`,
		DynamicFields:  `also not json`,
		LayoutConfig:   `[]`,
	}

	doc := DocumentFromModel(m)

	assert.Equal(t, "tpl-bad", doc.ID)
	assert.Empty(t, doc.StaticElements)
	assert.Empty(t, doc.DynamicFields)
	assert.Equal(t, DefaultCanvas, doc.Canvas)
}

func TestDocumentFromModel_BackfillsMissingIDs(t *testing.T) {
	m := &ReportTemplate{
		ID:             "tpl-legacy",
		TemplateName:   "Legacy",
		StaticElements: `[{"type":"text","content":"Header"}]`,
		DynamicFields:  `[{"fieldName":"f","fieldType":"text","dataMapping":"custom"}]`,
	}

	doc := DocumentFromModel(m)

	require.Len(t, doc.StaticElements, 1)
	require.Len(t, doc.DynamicFields, 1)
	assert.NotEmpty(t, doc.StaticElements[0].ID)
	assert.NotEmpty(t, doc.DynamicFields[0].ID)
}

func TestToListItem_CountsElements(t *testing.T) {
	doc := newTestDocument()
	item := doc.ToModel().ToListItem()

	assert.Equal(t, 1, item.StaticCount)
	assert.Equal(t, 1, item.FieldCount)
	assert.Equal(t, "Blood Test Report", item.TemplateName)
}

func TestCategory_Valid(t *testing.T) {
	assert.True(t, Category("").Valid(), "category is optional")
	assert.True(t, CategoryBloodTest.Valid())
	assert.True(t, CategoryGeneralReport.Valid())
	assert.False(t, Category("MRI").Valid())
}
