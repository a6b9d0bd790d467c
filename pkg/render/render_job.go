package render

import (
	"html/template"
	"io"

	"go.uber.org/zap"

	"github.com/yumyai/blutable/logger"
)

// LoadJobPageData describes the state of a URL load job for rendering.
type LoadJobPageData struct {
	JobID                  string
	Source                 string
	Status                 string
	ErrorMessage           string
	Superseded             bool
	ShouldRefresh          bool
	RefreshIntervalSeconds int
}

var loadJobPageTemplate *template.Template

func init() {
	mainTmpl := `
	<!DOCTYPE html>
	<html>
	<head>
		{{template "head" .}}
		<title>Blutable: loading</title>
		{{ if .ShouldRefresh }}
		<meta http-equiv="refresh" content="{{ .RefreshIntervalSeconds }}">
		{{ end }}
	</head>
	<body>
		<h1>Blutable</h1>
		<p><strong>Job ID:</strong> {{ .JobID }}</p>
		<p><strong>Source:</strong> {{ .Source }}</p>
		<p><strong>Status:</strong> {{ .Status }}</p>
		{{ if .ErrorMessage }}
			<p class="error">{{ .ErrorMessage }}</p>
			<p><a href="/">Back</a></p>
		{{ else if .Superseded }}
			<p>A newer load replaced this one. <a href="/results">Go to results</a></p>
		{{ else }}
			<p>Fetching the document. This page refreshes every {{ .RefreshIntervalSeconds }} seconds.</p>
		{{ end }}
	</body>
	</html>`

	loadJobPageTemplate = newPage("load_job_page", mainTmpl)
}

func RenderLoadJobPage(w io.Writer, data LoadJobPageData) error {
	logger.Debug("Rendering load job page", zap.String("job_id", data.JobID), zap.String("status", data.Status))
	return loadJobPageTemplate.Execute(w, data)
}
