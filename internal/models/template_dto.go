package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TemplateDocument is the typed, in-memory form of a template: the editor
// mutates it, the validator checks it, the renderer serializes it. It is
// loaded from and stored to the JSON columns of ReportTemplate.
type TemplateDocument struct {
	ID             string          `json:"id,omitempty"`
	TemplateName   string          `json:"template_name"`
	Description    string          `json:"description,omitempty"`
	Category       Category        `json:"category,omitempty"`
	Canvas         Canvas          `json:"canvas"`
	StaticElements []StaticElement `json:"static_elements"`
	DynamicFields  []DynamicField  `json:"dynamic_fields"`
}

// LayoutConfig is the canvas size plus the combined element list, persisted
// alongside the element arrays purely for re-render fidelity.
type LayoutConfig struct {
	Canvas   Canvas          `json:"canvas"`
	Elements []LayoutElement `json:"elements"`
}

type LayoutElement struct {
	ID       string      `json:"id"`
	Kind     ElementKind `json:"kind"`
	Position Position    `json:"position"`
	Size     Size        `json:"size"`
}

// ElementCount is the total number of placed elements of either kind.
func (d *TemplateDocument) ElementCount() int {
	return len(d.StaticElements) + len(d.DynamicFields)
}

// Mappings derives the fieldName -> dataMapping dictionary from the dynamic
// fields. It is computed on demand and never stored as editable state; the
// persisted copy is recomputed from the fields on every save.
func (d *TemplateDocument) Mappings() map[string]string {
	m := make(map[string]string, len(d.DynamicFields))
	for _, f := range d.DynamicFields {
		m[f.FieldName] = f.DataMapping
	}
	return m
}

// UnmappedFields returns the ids of dynamic fields without a data mapping.
func (d *TemplateDocument) UnmappedFields() []string {
	var ids []string
	for _, f := range d.DynamicFields {
		if f.DataMapping == "" {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// Layout builds the combined layout view of the document.
func (d *TemplateDocument) Layout() LayoutConfig {
	cfg := LayoutConfig{Canvas: d.Canvas}
	for _, e := range d.StaticElements {
		cfg.Elements = append(cfg.Elements, LayoutElement{ID: e.ID, Kind: KindStatic, Position: e.Position, Size: e.Size})
	}
	for _, f := range d.DynamicFields {
		cfg.Elements = append(cfg.Elements, LayoutElement{ID: f.ID, Kind: KindDynamic, Position: f.Position, Size: f.Size})
	}
	return cfg
}

// AddStaticElement places a new static text element and returns it.
func (d *TemplateDocument) AddStaticElement(content string, pos Position, size Size, style Style) *StaticElement {
	d.StaticElements = append(d.StaticElements, *NewStaticElement(content, pos, size, style))
	return &d.StaticElements[len(d.StaticElements)-1]
}

// AddDynamicField places a new unmapped dynamic field and returns it.
func (d *TemplateDocument) AddDynamicField(fieldType FieldType, pos Position, size Size) *DynamicField {
	d.DynamicFields = append(d.DynamicFields, *NewDynamicField(fieldType, pos, size, len(d.DynamicFields)))
	return &d.DynamicFields[len(d.DynamicFields)-1]
}

// FindStatic returns the static element with the given id, or nil.
func (d *TemplateDocument) FindStatic(id string) *StaticElement {
	for i := range d.StaticElements {
		if d.StaticElements[i].ID == id {
			return &d.StaticElements[i]
		}
	}
	return nil
}

// FindDynamic returns the dynamic field with the given id, or nil.
func (d *TemplateDocument) FindDynamic(id string) *DynamicField {
	for i := range d.DynamicFields {
		if d.DynamicFields[i].ID == id {
			return &d.DynamicFields[i]
		}
	}
	return nil
}

// FindElement returns the element with the given id from either collection.
func (d *TemplateDocument) FindElement(id string) Element {
	if e := d.FindStatic(id); e != nil {
		return e
	}
	if f := d.FindDynamic(id); f != nil {
		return f
	}
	return nil
}

// UpdateStaticElement merges a partial update into the element. Returns
// false when no element has that id; the update is then a no-op.
func (d *TemplateDocument) UpdateStaticElement(id string, u StaticElementUpdate) bool {
	e := d.FindStatic(id)
	if e == nil {
		return false
	}
	e.Apply(u)
	return true
}

// UpdateDynamicField merges a partial update into the field. Returns false
// when no field has that id.
func (d *TemplateDocument) UpdateDynamicField(id string, u DynamicFieldUpdate) bool {
	f := d.FindDynamic(id)
	if f == nil {
		return false
	}
	f.Apply(u)
	return true
}

// DeleteElement removes the element with the given id from whichever
// collection contains it. Nothing else references elements by id, so there
// is no cascade. Returns false when the id is unknown.
func (d *TemplateDocument) DeleteElement(id string) bool {
	for i := range d.StaticElements {
		if d.StaticElements[i].ID == id {
			d.StaticElements = append(d.StaticElements[:i], d.StaticElements[i+1:]...)
			return true
		}
	}
	for i := range d.DynamicFields {
		if d.DynamicFields[i].ID == id {
			d.DynamicFields = append(d.DynamicFields[:i], d.DynamicFields[i+1:]...)
			return true
		}
	}
	return false
}

// ToModel converts the document into its persistent row form. The derived
// mappings dictionary and layout config are recomputed here; static content
// is rendered by the template service and set on the returned row.
func (d *TemplateDocument) ToModel() *ReportTemplate {
	staticJSON, _ := json.Marshal(d.StaticElements)
	fieldsJSON, _ := json.Marshal(d.DynamicFields)
	layoutJSON, _ := json.Marshal(d.Layout())
	mappingsJSON, _ := json.Marshal(d.Mappings())

	return &ReportTemplate{
		ID:             d.ID,
		TemplateName:   d.TemplateName,
		Description:    d.Description,
		Category:       d.Category,
		StaticElements: string(staticJSON),
		DynamicFields:  string(fieldsJSON),
		LayoutConfig:   string(layoutJSON),
		Mappings:       string(mappingsJSON),
	}
}

// DocumentFromModel parses the JSON columns of a stored template into a
// typed document. Malformed columns (hand-edited library entries, legacy
// rows) degrade to empty lists instead of failing, and elements that arrive
// without ids get generated ones, so a bad library entry can still be opened
// in the editor.
func DocumentFromModel(m *ReportTemplate) *TemplateDocument {
	doc := &TemplateDocument{
		ID:           m.ID,
		TemplateName: m.TemplateName,
		Description:  m.Description,
		Category:     m.Category,
		Canvas:       DefaultCanvas,
	}

	if m.StaticElements != "" {
		var elements []StaticElement
		if err := json.Unmarshal([]byte(m.StaticElements), &elements); err == nil {
			doc.StaticElements = elements
		}
	}
	if m.DynamicFields != "" {
		var fields []DynamicField
		if err := json.Unmarshal([]byte(m.DynamicFields), &fields); err == nil {
			doc.DynamicFields = fields
		}
	}
	if m.LayoutConfig != "" {
		var layout LayoutConfig
		if err := json.Unmarshal([]byte(m.LayoutConfig), &layout); err == nil && layout.Canvas.Width > 0 && layout.Canvas.Height > 0 {
			doc.Canvas = layout.Canvas
		}
	}

	for i := range doc.StaticElements {
		if doc.StaticElements[i].ID == "" {
			doc.StaticElements[i].ID = uuid.New().String()
		}
	}
	for i := range doc.DynamicFields {
		if doc.DynamicFields[i].ID == "" {
			doc.DynamicFields[i].ID = uuid.New().String()
		}
	}

	return doc
}

// TemplateListItem is the public listing view of a template; it hides the
// raw JSON columns and reports element counts instead.
type TemplateListItem struct {
	ID           string    `json:"id"`
	TemplateName string    `json:"template_name"`
	Description  string    `json:"description,omitempty"`
	Category     Category  `json:"category,omitempty"`
	StaticCount  int       `json:"static_count"`
	FieldCount   int       `json:"field_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToListItem converts a stored template to its listing view.
func (m *ReportTemplate) ToListItem() TemplateListItem {
	item := TemplateListItem{
		ID:           m.ID,
		TemplateName: m.TemplateName,
		Description:  m.Description,
		Category:     m.Category,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}

	if m.StaticElements != "" {
		var elements []StaticElement
		if err := json.Unmarshal([]byte(m.StaticElements), &elements); err == nil {
			item.StaticCount = len(elements)
		}
	}
	if m.DynamicFields != "" {
		var fields []DynamicField
		if err := json.Unmarshal([]byte(m.DynamicFields), &fields); err == nil {
			item.FieldCount = len(fields)
		}
	}

	return item
}

// ToListItems converts a slice of stored templates to listing views.
func ToListItems(templates []ReportTemplate) []TemplateListItem {
	items := make([]TemplateListItem, len(templates))
	for i := range templates {
		items[i] = templates[i].ToListItem()
	}
	return items
}
