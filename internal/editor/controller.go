// Package editor drives all mutations of a template document during an
// editing session. Selection, dragging, inline text editing and property
// configuration are one explicit state machine with a single mode value, so
// impossible combinations (dragging while inline-editing) cannot be
// represented at all.
package editor

import (
	"errors"

	"MC-REPORT/internal/models"
)

// Mode is the editor's interaction state.
type Mode int

const (
	ModeNoSelection Mode = iota
	ModeSelected
	ModeDragging
	ModeEditingText
	ModeConfiguring
)

func (m Mode) String() string {
	switch m {
	case ModeNoSelection:
		return "no_selection"
	case ModeSelected:
		return "selected"
	case ModeDragging:
		return "dragging"
	case ModeEditingText:
		return "editing_text"
	case ModeConfiguring:
		return "configuring"
	}
	return "unknown"
}

var (
	ErrNoDocument        = errors.New("no document loaded")
	ErrUnknownElement    = errors.New("unknown element id")
	ErrInvalidTransition = errors.New("operation not allowed in current mode")
)

// Default bounding box for a freshly dropped dynamic field.
const (
	DefaultFieldWidth  = 200
	DefaultFieldHeight = 30
)

// Drop offsets shift a dropped field so the drop point lands near its
// middle instead of its top-left corner.
const (
	dropOffsetX = 50
	dropOffsetY = 15
)

// Controller is the mutation surface of one editing session. It is not safe
// for concurrent use; every operation runs to completion on the caller's
// event loop, matching the single-threaded editor it backs.
type Controller struct {
	doc        *models.TemplateDocument
	mode       Mode
	selectedID string
	grabOffset models.Position
	session    int
	preview    map[string]string
}

func NewController() *Controller {
	return &Controller{}
}

// LoadDocument replaces the session's document and resets the interaction
// state. The returned session token invalidates responses from requests
// issued against the previous document: results carrying an old token are
// discarded by ApplyPreview.
func (c *Controller) LoadDocument(doc *models.TemplateDocument) int {
	c.doc = doc
	c.mode = ModeNoSelection
	c.selectedID = ""
	c.preview = nil
	c.session++
	return c.session
}

func (c *Controller) Document() *models.TemplateDocument { return c.doc }
func (c *Controller) Mode() Mode                         { return c.mode }
func (c *Controller) SelectedID() string                 { return c.selectedID }
func (c *Controller) Session() int                       { return c.session }

// Select moves the selection to the element with the given id. Selecting is
// only possible while idle; a drag or an inline edit has to finish first.
func (c *Controller) Select(id string) error {
	if c.doc == nil {
		return ErrNoDocument
	}
	if c.mode != ModeNoSelection && c.mode != ModeSelected {
		return ErrInvalidTransition
	}
	if c.doc.FindElement(id) == nil {
		return ErrUnknownElement
	}
	c.selectedID = id
	c.mode = ModeSelected
	return nil
}

// Deselect clears the selection.
func (c *Controller) Deselect() {
	if c.mode == ModeSelected {
		c.selectedID = ""
		c.mode = ModeNoSelection
	}
}

// SelectionUnmapped reports whether the selected element is a dynamic field
// still missing its data mapping. This is derived state for the "needs
// mapping" indicator; it is never persisted.
func (c *Controller) SelectionUnmapped() bool {
	if c.doc == nil || c.selectedID == "" {
		return false
	}
	f := c.doc.FindDynamic(c.selectedID)
	return f != nil && f.DataMapping == ""
}

// DropField creates a dynamic field from a palette token dropped onto the
// canvas. The position is shifted so the drop point sits near the field's
// center, clamped to the canvas origin, and the new field becomes the
// selection.
func (c *Controller) DropField(fieldType models.FieldType, at models.Position) (*models.DynamicField, error) {
	if c.doc == nil {
		return nil, ErrNoDocument
	}
	if c.mode != ModeNoSelection && c.mode != ModeSelected {
		return nil, ErrInvalidTransition
	}

	pos := at.Offset(-dropOffsetX, -dropOffsetY).Clamp()
	size := models.Size{Width: DefaultFieldWidth, Height: DefaultFieldHeight}
	f := c.doc.AddDynamicField(fieldType, pos, size)

	c.selectedID = f.ID
	c.mode = ModeSelected
	return f, nil
}

// BeginDrag starts moving an element. Mouse-down both selects and grabs, so
// dragging is reachable from an empty selection too. The grab offset keeps
// the pointer anchored to the same point of the element for the whole drag.
func (c *Controller) BeginDrag(id string, pointer models.Position) error {
	if c.doc == nil {
		return ErrNoDocument
	}
	if c.mode != ModeNoSelection && c.mode != ModeSelected {
		return ErrInvalidTransition
	}
	pos, ok := c.elementPosition(id)
	if !ok {
		return ErrUnknownElement
	}
	c.selectedID = id
	c.grabOffset = models.Position{X: pointer.X - pos.X, Y: pointer.Y - pos.Y}
	c.mode = ModeDragging
	return nil
}

// DragTo moves the dragged element under the pointer. Positions update
// live on every call, not just on release.
func (c *Controller) DragTo(pointer models.Position) error {
	if c.mode != ModeDragging {
		return ErrInvalidTransition
	}
	pos := models.Position{X: pointer.X - c.grabOffset.X, Y: pointer.Y - c.grabOffset.Y}.Clamp()
	c.setElementPosition(c.selectedID, pos)
	return nil
}

// EndDrag keeps the last position and returns to the selected state. There
// is no undo stack.
func (c *Controller) EndDrag() error {
	if c.mode != ModeDragging {
		return ErrInvalidTransition
	}
	c.mode = ModeSelected
	return nil
}

// BeginTextEdit enters inline text editing on a static element
// (double-click in the UI).
func (c *Controller) BeginTextEdit(id string) error {
	if c.doc == nil {
		return ErrNoDocument
	}
	if c.mode != ModeNoSelection && c.mode != ModeSelected {
		return ErrInvalidTransition
	}
	e := c.doc.FindStatic(id)
	if e == nil {
		return ErrUnknownElement
	}
	e.IsEditing = true
	c.selectedID = id
	c.mode = ModeEditingText
	return nil
}

// CommitText stores the edited text and leaves editing mode (blur or Enter
// in the UI).
func (c *Controller) CommitText(text string) error {
	if c.mode != ModeEditingText {
		return ErrInvalidTransition
	}
	if e := c.doc.FindStatic(c.selectedID); e != nil {
		e.Content = text
		e.IsEditing = false
	}
	c.mode = ModeSelected
	return nil
}

// BeginConfigure opens the property panel for the selected element.
func (c *Controller) BeginConfigure(id string) error {
	if c.doc == nil {
		return ErrNoDocument
	}
	if c.mode != ModeNoSelection && c.mode != ModeSelected {
		return ErrInvalidTransition
	}
	if c.doc.FindElement(id) == nil {
		return ErrUnknownElement
	}
	c.selectedID = id
	c.mode = ModeConfiguring
	return nil
}

// ApplyFieldProperties commits property-panel changes to the configured
// dynamic field and returns to the selected state.
func (c *Controller) ApplyFieldProperties(u models.DynamicFieldUpdate) error {
	if c.mode != ModeConfiguring {
		return ErrInvalidTransition
	}
	c.doc.UpdateDynamicField(c.selectedID, u)
	c.mode = ModeSelected
	return nil
}

// ApplyStaticProperties commits property-panel changes to the configured
// static element and returns to the selected state.
func (c *Controller) ApplyStaticProperties(u models.StaticElementUpdate) error {
	if c.mode != ModeConfiguring {
		return ErrInvalidTransition
	}
	c.doc.UpdateStaticElement(c.selectedID, u)
	c.mode = ModeSelected
	return nil
}

// DeleteSelected removes the selected element and clears the selection.
func (c *Controller) DeleteSelected() error {
	if c.mode != ModeSelected {
		return ErrInvalidTransition
	}
	c.doc.DeleteElement(c.selectedID)
	c.selectedID = ""
	c.mode = ModeNoSelection
	return nil
}

// ApplyPreview stores resolved field values for canvas preview. A response
// that raced a document reload carries a stale session token and is dropped;
// the freshly loaded document's state is never touched by it.
func (c *Controller) ApplyPreview(session int, values map[string]string) bool {
	if session != c.session {
		return false
	}
	c.preview = values
	return true
}

// PreviewValues returns the last applied preview values for this session.
func (c *Controller) PreviewValues() map[string]string {
	return c.preview
}

func (c *Controller) elementPosition(id string) (models.Position, bool) {
	if e := c.doc.FindStatic(id); e != nil {
		return e.Position, true
	}
	if f := c.doc.FindDynamic(id); f != nil {
		return f.Position, true
	}
	return models.Position{}, false
}

func (c *Controller) setElementPosition(id string, pos models.Position) {
	if e := c.doc.FindStatic(id); e != nil {
		e.Position = pos
		return
	}
	if f := c.doc.FindDynamic(id); f != nil {
		f.Position = pos
	}
}
