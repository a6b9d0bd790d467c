package render

import (
	"html/template"
	"io"

	"go.uber.org/zap"

	"github.com/yumyai/blutable/logger"
	"github.com/yumyai/blutable/pkg/db"
	"github.com/yumyai/blutable/pkg/model"
)

// LoaderPageData drives the landing page with the three ways to load a
// document.
type LoaderPageData struct {
	Error       string
	URL         string
	ExampleURL  string
	HasDocument bool
	Source      string
	CurrentID   string
	History     []db.DocumentRecord
	GithubURL   string
	// Human-readable page of the example document.
	ExampleSourceURL string
}

var loaderPageTemplate *template.Template

func init() {
	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
		{{template "head" .}}
		<title>Blutable</title>
	</head>
	<body>
		<header class="app-header">
			<h1 class="app-name">Blutable</h1>
			<p class="app-description">Explore <a href="{{.GithubURL}}" target="_blank">Blutils</a> consensus results.</p>
		</header>

		{{if .Error}}<p class="error" role="alert">{{.Error}}</p>{{end}}

		{{if .HasDocument}}
		<p>
			Showing <strong>{{.Source}}</strong>. <a href="/results">Back to results</a>
			<form action="/reset" method="POST" style="display: inline"><button type="submit">Reset</button></form>
		</p>
		{{end}}

		<div class="combined-forms">
			<form action="/load/file" method="POST" enctype="multipart/form-data">
				<h3>From file</h3>
				<input type="file" name="content" accept=".json,application/json" required>
				<input type="submit" value="Load">
			</form>

			<form action="/load/url" method="POST">
				<h3>From URL</h3>
				<input type="url" name="url" placeholder="https://..." value="{{.URL}}" required>
				<input type="submit" value="Load">
			</form>

			<form action="/load/example" method="POST">
				<h3>Example</h3>
				<p><small>{{.ExampleURL}}</small></p>
				{{if .ExampleSourceURL}}<p><small><a href="{{.ExampleSourceURL}}" target="_blank">View on GitHub</a></small></p>{{end}}
				<input type="submit" value="Load example">
			</form>
		</div>

		{{if .History}}
		<h3>Loaded in this session</h3>
		<ul class="history">
			{{range .History}}
			<li>
				{{.Source}} &mdash; {{.QueryCount}} queries, <span title="{{ago .LoadedAt}}">{{.LoadedAt.Format "15:04:05"}}</span>
				{{if eq .ID $.CurrentID}}<em>(current)</em>{{else}}
				<form action="/load/reopen" method="POST" style="display: inline">
					<input type="hidden" name="id" value="{{.ID}}">
					<button type="submit">Reopen</button>
				</form>
				{{end}}
			</li>
			{{end}}
		</ul>
		{{end}}
	</body>
	</html>`

	loaderPageTemplate = newPage("loader_page", mainTmpl)
}

func RenderLoaderPage(w io.Writer, data LoaderPageData) error {
	if data.GithubURL == "" {
		data.GithubURL = model.BLUTILS_GITHUB_URL
	}
	if data.ExampleSourceURL == "" && data.ExampleURL == model.EXAMPLE_RAW_RESULT_URL {
		data.ExampleSourceURL = model.EXAMPLE_DATA_URL
	}
	if data.Error != "" {
		logger.Debug("Rendering loader page with error", zap.String("error", data.Error))
	}
	return loaderPageTemplate.Execute(w, data)
}
