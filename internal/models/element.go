package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// StaticType is the kind of fixed content a static element carries.
type StaticType string

const (
	StaticText  StaticType = "text"
	StaticImage StaticType = "image"
	StaticLine  StaticType = "line"
	StaticTable StaticType = "table"
)

// FieldType is the input type of a dynamic field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
)

// Style holds the renderable text properties of a static element. Zero
// values mean "unset"; the renderer supplies defaults.
type Style struct {
	FontSize   int    `json:"fontSize,omitempty"`
	FontWeight string `json:"fontWeight,omitempty"` // normal | bold
	TextAlign  string `json:"textAlign,omitempty"`  // left | center | right
	Color      string `json:"color,omitempty"`
}

const (
	DefaultFontSize   = 14
	DefaultFontWeight = "normal"
	DefaultTextAlign  = "left"
	DefaultColor      = "#333333"
)

// WithDefaults fills unset style properties with the renderer defaults.
func (s Style) WithDefaults() Style {
	if s.FontSize == 0 {
		s.FontSize = DefaultFontSize
	}
	if s.FontWeight == "" {
		s.FontWeight = DefaultFontWeight
	}
	if s.TextAlign == "" {
		s.TextAlign = DefaultTextAlign
	}
	if s.Color == "" {
		s.Color = DefaultColor
	}
	return s
}

// StaticElement is fixed, non-data-driven content placed on the canvas.
// Content is raw text; it is escaped at render time, never stored escaped.
type StaticElement struct {
	ID       string     `json:"id"`
	Type     StaticType `json:"type"`
	Content  string     `json:"content"`
	Position Position   `json:"position"`
	Size     Size       `json:"size"`
	Style    Style      `json:"style"`

	// Editor-only flag, never persisted.
	IsEditing bool `json:"-"`
}

// DynamicField is a placeholder bound to a data-mapping key and filled in at
// report-generation time. An empty DataMapping means the field is unmapped,
// which blocks saving the template.
type DynamicField struct {
	ID          string    `json:"id"`
	FieldName   string    `json:"fieldName"`
	FieldType   FieldType `json:"fieldType"`
	Label       string    `json:"label"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty"` // select fields only
	Position    Position  `json:"position"`
	Size        Size      `json:"size"`
	DataMapping string    `json:"dataMapping"`
}

// ElementKind discriminates the element union.
type ElementKind string

const (
	KindStatic  ElementKind = "static"
	KindDynamic ElementKind = "dynamic"
)

// Element is the tagged union over static elements and dynamic fields. The
// two variants are disjoint; an element never changes kind after creation.
type Element interface {
	ElementID() string
	Kind() ElementKind
}

func (e *StaticElement) ElementID() string { return e.ID }
func (e *StaticElement) Kind() ElementKind { return KindStatic }

func (f *DynamicField) ElementID() string { return f.ID }
func (f *DynamicField) Kind() ElementKind { return KindDynamic }

// NewStaticElement creates a static text element with a fresh id. Unset
// style properties get the renderer defaults so the stored document renders
// identically everywhere.
func NewStaticElement(content string, pos Position, size Size, style Style) *StaticElement {
	return &StaticElement{
		ID:       uuid.New().String(),
		Type:     StaticText,
		Content:  content,
		Position: pos.Clamp(),
		Size:     size.Clamp(),
		Style:    style.WithDefaults(),
	}
}

// NewDynamicField creates an unmapped dynamic field with a fresh id and a
// generated name/label. n is the current field count of the template; the
// generated name is field_{n+1}.
func NewDynamicField(fieldType FieldType, pos Position, size Size, n int) *DynamicField {
	return &DynamicField{
		ID:          uuid.New().String(),
		FieldName:   fmt.Sprintf("field_%d", n+1),
		FieldType:   fieldType,
		Label:       capitalize(string(fieldType)) + " Field",
		Position:    pos.Clamp(),
		Size:        size.Clamp(),
		DataMapping: "",
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// StaticElementUpdate carries a partial update; nil means "leave unchanged".
// The id and kind of an element can never change.
type StaticElementUpdate struct {
	Content  *string   `json:"content,omitempty"`
	Position *Position `json:"position,omitempty"`
	Size     *Size     `json:"size,omitempty"`
	Style    *Style    `json:"style,omitempty"`
}

// DynamicFieldUpdate carries a partial update for a dynamic field.
type DynamicFieldUpdate struct {
	FieldName   *string    `json:"fieldName,omitempty"`
	FieldType   *FieldType `json:"fieldType,omitempty"`
	Label       *string    `json:"label,omitempty"`
	Required    *bool      `json:"required,omitempty"`
	Options     []string   `json:"options,omitempty"`
	Position    *Position  `json:"position,omitempty"`
	Size        *Size      `json:"size,omitempty"`
	DataMapping *string    `json:"dataMapping,omitempty"`
}

// Apply merges the update into the element.
func (e *StaticElement) Apply(u StaticElementUpdate) {
	if u.Content != nil {
		e.Content = *u.Content
	}
	if u.Position != nil {
		e.Position = u.Position.Clamp()
	}
	if u.Size != nil {
		e.Size = u.Size.Clamp()
	}
	if u.Style != nil {
		e.Style = *u.Style
	}
}

// Apply merges the update into the field.
func (f *DynamicField) Apply(u DynamicFieldUpdate) {
	if u.FieldName != nil {
		f.FieldName = *u.FieldName
	}
	if u.FieldType != nil {
		f.FieldType = *u.FieldType
	}
	if u.Label != nil {
		f.Label = *u.Label
	}
	if u.Required != nil {
		f.Required = *u.Required
	}
	if u.Options != nil {
		f.Options = u.Options
	}
	if u.Position != nil {
		f.Position = u.Position.Clamp()
	}
	if u.Size != nil {
		f.Size = u.Size.Clamp()
	}
	if u.DataMapping != nil {
		f.DataMapping = *u.DataMapping
	}
}
