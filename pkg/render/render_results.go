package render

import (
	"fmt"
	"html/template"
	"io"
	"net/url"

	"go.uber.org/zap"

	"github.com/yumyai/blutable/logger"
	"github.com/yumyai/blutable/pkg/grouping"
	"github.com/yumyai/blutable/pkg/handler/request"
	"github.com/yumyai/blutable/pkg/view"
)

type ResultsPageData struct {
	Source    string
	Snapshot  *view.Snapshot
	RowHeight float64
	Unmatched int
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type modeLink struct {
	Label  string
	Href   string
	Active bool
}

type groupLink struct {
	Title template.HTML
	Count int
	Href  string
}

type sectionView struct {
	Anchor          string
	Title           template.HTML
	Count           int
	URL             string
	ContainerHeight float64
}

type resultsView struct {
	Source    string
	State     view.ViewState
	Filtered  int
	Total     int
	Unmatched int
	Stats     string

	Modes     []modeLink
	PageSizes []option
	WrapChars []option
	Actions   []option
	Subject   bool

	Table    bool
	Rows     []rowData
	Sections []sectionView
	Sidebar  []groupLink

	Page      int
	PageCount int
	PrevHref  string
	NextHref  string
}

var resultsPageTemplate *template.Template

func init() {
	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
		{{template "head" .}}
		<title>Blutable: {{.Source}}</title>
	</head>
	<body>
		<header class="app-header">
			<h1 class="app-name"><a href="/">Blutable</a></h1>
			<p>{{.Source}}: {{.Total}} queries, {{.Unmatched}} without match</p>
			<form action="/reset" method="POST"><button type="submit">Reset</button></form>
		</header>
		<nav class="modes">
			{{range .Modes}}{{if .Active}}<strong>{{.Label}}</strong>{{else}}<a href="{{.Href}}">{{.Label}}</a>{{end}} {{end}}
		</nav>
		{{template "searchForm" .}}
		<p class="stats">{{.Stats}}</p>
		{{if .Table}}
			{{template "rowHeader"}}
			{{range .Rows}}{{template "row" .}}{{else}}<p>No results.</p>{{end}}
		{{else}}
			<div class="layout">
				<aside class="sidebar">
					<ul>
					{{range .Sidebar}}<li><a href="{{.Href}}">{{.Title}}</a> ({{.Count}})</li>{{end}}
					</ul>
				</aside>
				<main>
				{{range .Sections}}{{template "section" .}}{{else}}<p>No results.</p>{{end}}
				</main>
			</div>
		{{end}}
		{{template "pagination" .}}
		{{template "script"}}
	</body>
	</html>`

	searchForm := `
	{{define "searchForm"}}
	<form id="searchForm" action="/results" method="GET">
		<input type="hidden" name="mode" value="{{.State.Mode}}">
		<input type="hidden" name="page" value="{{.State.Page}}">
		<label>Query <input type="search" name="q" value="{{.State.Filter.QuerySearch}}" placeholder="Search queries"></label>
		<label>Subject <input type="search" name="s" value="{{.State.Filter.SubjectSearch}}" placeholder="Search subjects"></label>
		<label>Unmatched
			<select name="unmatched" onchange="this.form.submit()">
			{{range .Actions}}<option value="{{.Value}}" {{if .Selected}}selected{{end}}>{{.Label}}</option>{{end}}
			</select>
		</label>
		<label>Page size
			<select name="page_size" onchange="this.form.submit()">
			{{range .PageSizes}}<option value="{{.Value}}" {{if .Selected}}selected{{end}}>{{.Label}}</option>{{end}}
			</select>
		</label>
		{{if .Subject}}
		<label>Wrap at
			<select name="wrap" onchange="this.form.submit()">
			{{range .WrapChars}}<option value="{{.Value}}" {{if .Selected}}selected{{end}}>{{.Label}}</option>{{end}}
			</select>
		</label>
		{{end}}
		<input type="submit" value="Search">
	</form>
	{{end}}`

	sectionTmpl := `
	{{define "section"}}
	<section class="vsection" id="{{.Anchor}}" data-url="{{.URL}}">
		<h3>{{.Title}} <small>({{.Count}})</small></h3>
		{{template "rowHeader"}}
		<div class="vsection-viewport" style="height: {{px .ContainerHeight}}">
			<div class="vsection-body"></div>
		</div>
	</section>
	{{end}}`

	paginationTmpl := `{{define "pagination"}}
	<div class="pagination">
		{{if .PrevHref}}<a href="{{.PrevHref}}">&lt;&lt; prev</a>{{else}}<span>&lt;&lt; prev</span>{{end}}
		<span>{{.Page}} / {{.PageCount}}</span>
		{{if .NextHref}}<a href="{{.NextHref}}">next &gt;&gt;</a>{{else}}<span>next &gt;&gt;</span>{{end}}
	</div>{{end}}`

	resultsPageTemplate = newPage("results_page", mainTmpl, searchForm, sectionTmpl, paginationTmpl)
}

func groupTitle(g grouping.Group) template.HTML {
	if g.GroupedBy == grouping.GroupedByTaxonomy && g.Name != grouping.UnidentifiedGroup {
		return sciName(g.Name, g.Rank)
	}
	return template.HTML(template.HTMLEscapeString(g.Name))
}

func groupAnchor(i int) string {
	return fmt.Sprintf("group-%d", i)
}

// SectionURL is where a section fetches its visible rows.
func SectionURL(group string) string {
	return "/results/section?" + url.Values{request.FieldGroup: {group}}.Encode()
}

func newResultsView(data ResultsPageData) (resultsView, error) {
	snap := data.Snapshot
	state := snap.State

	v := resultsView{
		Source:    data.Source,
		State:     state,
		Filtered:  snap.Filtered,
		Total:     snap.TotalResults,
		Unmatched: data.Unmatched,
		Stats:     fmt.Sprintf("%d in %d %s", snap.Filtered, snap.StatsCount(), snap.PageUnit()),
		Subject:   state.Mode == grouping.GroupedBySubject,
		Table:     state.Mode == grouping.Table,
		Page:      snap.Page.Number,
		PageCount: max(snap.Page.Count, 1),
	}

	for _, mode := range []grouping.GroupMode{grouping.Table, grouping.GroupedBySubject, grouping.GroupedByTaxonomy} {
		v.Modes = append(v.Modes, modeLink{
			Label:  modeLabel(mode),
			Href:   "/results?" + url.Values{request.FieldMode: {mode.String()}}.Encode(),
			Active: mode == state.Mode,
		})
	}
	for _, size := range request.PageSizes {
		v.PageSizes = append(v.PageSizes, option{Value: fmt.Sprint(size), Label: fmt.Sprint(size), Selected: size == state.PageSize})
	}
	for _, wrap := range request.WrapChars {
		label := wrap
		if wrap == "" {
			label = "none"
		}
		v.WrapChars = append(v.WrapChars, option{Value: wrap, Label: label, Selected: wrap == state.WrapChar})
	}
	for _, action := range []grouping.UnmatchedAction{grouping.ShowAlso, grouping.ShowOnly, grouping.Omit} {
		v.Actions = append(v.Actions, option{Value: action.String(), Label: actionLabel(action), Selected: action == state.Filter.Unmatched})
	}

	if v.Page > 1 {
		v.PrevHref = request.ResultsURL(state.WithPage(v.Page - 1))
	}
	if v.Page < snap.Page.Count {
		v.NextHref = request.ResultsURL(state.WithPage(v.Page + 1))
	}

	if v.Table {
		var rows []view.Row
		for _, g := range snap.Page.Items {
			for _, r := range g.Chunk {
				rows = append(rows, view.NewRow(r))
			}
		}
		v.Rows = newRowData(rows, data.RowHeight)
		return v, nil
	}

	offset := (snap.Page.Number - 1) * state.PageSize
	for i, g := range snap.Page.Items {
		section, err := view.NewSection(g, state.PageSize, data.RowHeight)
		if err != nil {
			return v, err
		}
		v.Sections = append(v.Sections, sectionView{
			Anchor:          groupAnchor(offset + i),
			Title:           groupTitle(g),
			Count:           len(g.Chunk),
			URL:             SectionURL(g.Name),
			ContainerHeight: section.Window().ContainerHeight,
		})
	}
	for i, g := range snap.Groups {
		page := i/state.PageSize + 1
		v.Sidebar = append(v.Sidebar, groupLink{
			Title: groupTitle(g),
			Count: len(g.Chunk),
			Href:  request.ResultsURL(state.WithPage(page)) + "#" + groupAnchor(i),
		})
	}
	return v, nil
}

func modeLabel(mode grouping.GroupMode) string {
	switch mode {
	case grouping.GroupedBySubject:
		return "Grouped by subject"
	case grouping.GroupedByTaxonomy:
		return "Grouped by taxonomy"
	default:
		return "Table"
	}
}

func actionLabel(action grouping.UnmatchedAction) string {
	switch action {
	case grouping.ShowOnly:
		return "Only unmatched"
	case grouping.Omit:
		return "Hide unmatched"
	default:
		return "Show unmatched"
	}
}

func RenderResultsPage(w io.Writer, data ResultsPageData) error {
	logger.Debug("Rendering results page",
		zap.String("source", data.Source),
		zap.String("mode", data.Snapshot.State.Mode.String()),
		zap.Int("page", data.Snapshot.Page.Number),
	)
	v, err := newResultsView(data)
	if err != nil {
		return fmt.Errorf("failed to build results view: %w", err)
	}
	return resultsPageTemplate.Execute(w, v)
}
