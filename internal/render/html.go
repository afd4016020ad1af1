// Package render serializes a template document into printable HTML. The
// output reproduces the editor canvas pixel-for-pixel: one relatively
// positioned container sized to the canvas, with every element as an
// absolutely positioned div. Rendering the same document twice produces
// byte-identical output; the generated-at timestamp lives in the page
// footer, outside the content container.
package render

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strconv"
	"strings"
	"time"

	"MC-REPORT/internal/models"
)

// placeholderPattern is the wire format for dynamic-field tokens: double
// curly braces, no whitespace padding.
var placeholderPattern = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)

// Body renders the canvas container with all elements in list order, static
// elements first. Static content is escaped here; dynamic fields emit their
// {{fieldName}} token for a later substitution pass. An empty template
// renders a centered placeholder message instead of a bare container.
func Body(doc *models.TemplateDocument) string {
	canvas := doc.Canvas
	if canvas.Width <= 0 || canvas.Height <= 0 {
		canvas = models.DefaultCanvas
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="report-canvas" style="position:relative;width:%s;height:%s;">`,
		px(canvas.Width), px(canvas.Height))

	if doc.ElementCount() == 0 {
		b.WriteString(`<div style="position:absolute;top:50%;left:50%;transform:translate(-50%,-50%);color:#999999;">Template Content</div>`)
		b.WriteString(`</div>`)
		return b.String()
	}

	for i := range doc.StaticElements {
		writeStaticElement(&b, &doc.StaticElements[i])
	}
	for i := range doc.DynamicFields {
		writeDynamicField(&b, &doc.DynamicFields[i])
	}

	b.WriteString(`</div>`)
	return b.String()
}

func writeStaticElement(b *strings.Builder, e *models.StaticElement) {
	style := e.Style.WithDefaults()
	fmt.Fprintf(b,
		`<div style="position:absolute;left:%s;top:%s;width:%s;height:%s;font-size:%dpx;font-weight:%s;text-align:%s;color:%s;overflow:hidden;word-wrap:break-word;">%s</div>`,
		px(e.Position.X), px(e.Position.Y), px(e.Size.Width), px(e.Size.Height),
		style.FontSize, style.FontWeight, style.TextAlign, style.Color,
		html.EscapeString(e.Content))
}

func writeDynamicField(b *strings.Builder, f *models.DynamicField) {
	fmt.Fprintf(b,
		`<div style="position:absolute;left:%s;top:%s;width:%s;height:%s;overflow:hidden;word-wrap:break-word;">{{%s}}</div>`,
		px(f.Position.X), px(f.Position.Y), px(f.Size.Width), px(f.Size.Height),
		f.FieldName)
}

// px formats a pixel length without trailing zeros, so a position of 150
// renders as "150px" rather than "150.000000px".
func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// Substitute replaces every {{fieldName}} token that has a value with the
// escaped value. Tokens without a value are left intact so a half-resolved
// preview still shows which fields are missing.
func Substitute(body string, values map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(body, func(token string) string {
		name := token[2 : len(token)-2]
		if v, ok := values[name]; ok {
			return html.EscapeString(v)
		}
		return token
	})
}

// Placeholders lists the distinct tokens of a rendered body, in order of
// first appearance.
func Placeholders(body string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(body, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

const pageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { size: A4; margin: 2cm }
body { margin: 0; font-family: Arial, Helvetica, sans-serif; }
.report-footer { margin-top: 16px; font-size: 10px; color: #999999; }
</style>
</head>
<body>
{{.Body}}{{if .GeneratedAt}}
<div class="report-footer">Generated at {{.GeneratedAt}}</div>{{end}}
</body>
</html>
`

var pageTemplate = template.Must(template.New("report_page").Parse(pageHTML))

type pageData struct {
	Title       string
	Body        template.HTML
	GeneratedAt string
}

// Page wraps a rendered body in the print document shell. The body has
// already been escaped element by element, so it is inserted verbatim; the
// {{fieldName}} tokens inside it are data to this template, not directives.
// A zero generatedAt omits the footer, keeping the output fully
// deterministic for previews.
func Page(title, body string, generatedAt time.Time) (string, error) {
	data := pageData{Title: title, Body: template.HTML(body)}
	if !generatedAt.IsZero() {
		data.GeneratedAt = generatedAt.UTC().Format(time.RFC3339)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render page shell: %w", err)
	}
	return buf.String(), nil
}
