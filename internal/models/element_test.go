package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyle_WithDefaults(t *testing.T) {
	s := Style{}.WithDefaults()

	assert.Equal(t, 14, s.FontSize)
	assert.Equal(t, "normal", s.FontWeight)
	assert.Equal(t, "left", s.TextAlign)
	assert.Equal(t, "#333333", s.Color)
}

func TestStyle_WithDefaults_KeepsSetValues(t *testing.T) {
	s := Style{FontSize: 24, FontWeight: "bold"}.WithDefaults()

	assert.Equal(t, 24, s.FontSize)
	assert.Equal(t, "bold", s.FontWeight)
	assert.Equal(t, "left", s.TextAlign)
	assert.Equal(t, "#333333", s.Color)
}

func TestNewStaticElement(t *testing.T) {
	e := NewStaticElement("Header", Position{X: 10, Y: 20}, Size{Width: 300, Height: 40}, Style{})

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, StaticText, e.Type)
	assert.Equal(t, "Header", e.Content)
	assert.Equal(t, KindStatic, e.Kind())
	assert.Equal(t, 14, e.Style.FontSize)
	assert.False(t, e.IsEditing)
}

func TestNewDynamicField_GeneratedNameAndLabel(t *testing.T) {
	f := NewDynamicField(FieldText, Position{X: 0, Y: 0}, Size{Width: 200, Height: 30}, 0)

	assert.NotEmpty(t, f.ID)
	assert.Equal(t, "field_1", f.FieldName)
	assert.Equal(t, "Text Field", f.Label)
	assert.Equal(t, "", f.DataMapping)
	assert.Equal(t, KindDynamic, f.Kind())

	f2 := NewDynamicField(FieldDate, Position{}, Size{Width: 200, Height: 30}, 3)
	assert.Equal(t, "field_4", f2.FieldName)
	assert.Equal(t, "Date Field", f2.Label)
}

func TestNewElements_ClampNegativePositions(t *testing.T) {
	e := NewStaticElement("x", Position{X: -5, Y: -10}, Size{Width: 100, Height: 20}, Style{})
	assert.Equal(t, Position{X: 0, Y: 0}, e.Position)

	f := NewDynamicField(FieldText, Position{X: -1, Y: 7}, Size{Width: 200, Height: 30}, 0)
	assert.Equal(t, Position{X: 0, Y: 7}, f.Position)
}

func TestStaticElement_Apply_PartialUpdate(t *testing.T) {
	e := NewStaticElement("old", Position{X: 10, Y: 10}, Size{Width: 100, Height: 20}, Style{})

	content := "new"
	e.Apply(StaticElementUpdate{Content: &content})

	assert.Equal(t, "new", e.Content)
	assert.Equal(t, Position{X: 10, Y: 10}, e.Position, "unset update fields stay unchanged")
}

func TestDynamicField_Apply_PartialUpdate(t *testing.T) {
	f := NewDynamicField(FieldText, Position{X: 10, Y: 10}, Size{Width: 200, Height: 30}, 0)
	require.Equal(t, "field_1", f.FieldName)

	name := "patient_name"
	mapping := "patient.name"
	required := true
	f.Apply(DynamicFieldUpdate{FieldName: &name, DataMapping: &mapping, Required: &required})

	assert.Equal(t, "patient_name", f.FieldName)
	assert.Equal(t, "patient.name", f.DataMapping)
	assert.True(t, f.Required)
	assert.Equal(t, FieldText, f.FieldType, "unset update fields stay unchanged")
	assert.Equal(t, "Text Field", f.Label)
}
