package render

import (
	"html"
	"html/template"
	"strings"
)

// Widgets are the presentation primitives the pages call into. Templates
// reach them through the tooltip, copy and modal functions.
type Widgets interface {
	// Tooltip shows text while hovering over content.
	Tooltip(text string, content template.HTML) template.HTML
	// Copy renders a control that puts value on the clipboard.
	Copy(value, label string) template.HTML
	// Modal shows body in a dialog until dismissed.
	Modal(id, title string, body template.HTML) template.HTML
}

// HTMLWidgets implements Widgets with plain markup and the page script.
type HTMLWidgets struct{}

func (HTMLWidgets) Tooltip(text string, content template.HTML) template.HTML {
	if text == "" {
		return content
	}
	var b strings.Builder
	b.WriteString(`<span class="tooltip" tabindex="0" title="`)
	b.WriteString(html.EscapeString(text))
	b.WriteString(`">`)
	b.WriteString(string(content))
	b.WriteString(`<span class="tooltip-text" role="tooltip">`)
	b.WriteString(html.EscapeString(text))
	b.WriteString(`</span></span>`)
	return template.HTML(b.String())
}

func (HTMLWidgets) Copy(value, label string) template.HTML {
	var b strings.Builder
	b.WriteString(`<button type="button" class="copy" data-copy="`)
	b.WriteString(html.EscapeString(value))
	b.WriteString(`" title="Copy to clipboard">`)
	b.WriteString(html.EscapeString(label))
	b.WriteString(`</button>`)
	return template.HTML(b.String())
}

func (HTMLWidgets) Modal(id, title string, body template.HTML) template.HTML {
	var b strings.Builder
	b.WriteString(`<dialog class="modal" id="`)
	b.WriteString(html.EscapeString(id))
	b.WriteString(`"><header><h2>`)
	b.WriteString(html.EscapeString(title))
	b.WriteString(`</h2><form method="dialog"><button class="modal-close" aria-label="Close">&times;</button></form></header><div class="modal-body">`)
	b.WriteString(string(body))
	b.WriteString(`</div></dialog>`)
	return template.HTML(b.String())
}

var widgets Widgets = HTMLWidgets{}
