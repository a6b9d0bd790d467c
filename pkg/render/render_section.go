package render

import (
	"bytes"
	"html/template"
	"io"
	"strings"

	"github.com/yumyai/blutable/pkg/model"
	"github.com/yumyai/blutable/pkg/view"
	"github.com/yumyai/blutable/pkg/virtual"
)

var (
	sectionFragmentTemplate *template.Template
	detailTemplate          *template.Template
)

func init() {
	fragmentTmpl := `
	<div class="vsection-spacer" style="position: relative; height: {{px .Slice.TotalHeight}}">
		<div style="position: absolute; left: 0; right: 0; top: {{px .Slice.OffsetY}}">
			{{range .Rows}}{{template "row" .}}{{end}}
		</div>
	</div>`

	detailBody := `
	<p>{{.Row.RuleText}}</p>
	{{with .Row.Result.Taxon}}
		<ol class="lineage">
		{{range $.Row.Lineage}}<li>{{if .Rank}}{{.Rank}}: {{.Name}}{{else}}{{.Raw}}{{end}}</li>{{end}}
		</ol>
		<table class="beans">
			<tr><th>Name</th><th>Rank</th><th>Occurrences</th><th>Accessions</th></tr>
			{{range .ConsensusBeans}}
			<tr>
				<td>{{sciName .Identifier .Rank}}</td>
				<td>{{.Rank}}</td>
				<td>{{.Occurrences}}</td>
				<td>{{len .Accessions}} {{copy (join .Accessions " ") "copy"}}</td>
			</tr>
			{{else}}
			<tr><td colspan="4">No consensus beans.</td></tr>
			{{end}}
		</table>
	{{else}}
		<p>{{$.NoMatch}}</p>
	{{end}}`

	detailPage := `
	<!DOCTYPE html>
	<html>
	<head>
		{{template "head" .}}
		<title>Blutable: {{.Title}}</title>
	</head>
	<body>
		<p><a href="/results">Back to results</a></p>
		{{.Modal}}
		<script>document.querySelector("dialog").showModal();</script>
		{{template "script"}}
	</body>
	</html>`

	sectionFragmentTemplate = newPage("section_fragment", fragmentTmpl)
	detailTemplate = newPage("detail_page", detailPage)
	template.Must(detailTemplate.New("detail_body").Parse(detailBody))
}

// RenderSectionFragment writes the visible rows of one section inside a
// spacer sized for the whole section.
func RenderSectionFragment(w io.Writer, section *virtual.Section[view.Row]) error {
	data := struct {
		Slice virtual.Slice
		Rows  []rowData
	}{
		Slice: section.Slice(),
		Rows:  newRowData(section.Visible(), section.Window().RowHeight),
	}
	return sectionFragmentTemplate.Execute(w, data)
}

// RenderDetail writes the consensus detail of one result as a modal. A
// fragment is just the dialog; otherwise a page that opens it.
func RenderDetail(w io.Writer, row view.Row, fragment bool) error {
	var body bytes.Buffer
	data := struct {
		Row     view.Row
		NoMatch string
	}{Row: row, NoMatch: model.NO_MATCH_LABEL}
	if err := detailTemplate.ExecuteTemplate(&body, "detail_body", data); err != nil {
		return err
	}

	title := row.Result.Query + ": " + row.ProposedName()
	modal := widgets.Modal("detail-"+modalID(row.Result.Query), title, template.HTML(body.String()))
	if fragment {
		_, err := io.WriteString(w, string(modal))
		return err
	}

	return detailTemplate.Execute(w, struct {
		Title string
		Modal template.HTML
	}{Title: title, Modal: modal})
}

func modalID(query string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '-'
	}, query)
}
