package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yumyai/blutable/logger"
	"github.com/yumyai/blutable/pkg/db"
	"github.com/yumyai/blutable/pkg/handler/request"
	"github.com/yumyai/blutable/pkg/loader"
	"github.com/yumyai/blutable/pkg/metrics"
	"github.com/yumyai/blutable/pkg/render"
	"github.com/yumyai/blutable/pkg/view"
)

const (
	maxUploadMemory        = 32 << 20
	refreshIntervalSeconds = 2
)

// loadErrorStatus maps a failed load to the status of the page reporting it.
func loadErrorStatus(err error) int {
	var loadErr *loader.LoadError
	if errors.As(err, &loadErr) && loadErr.Op == "fetch" {
		return http.StatusBadGateway
	}
	return http.StatusBadRequest
}

// commit makes the loaded document current and records it in the session
// history, unless a newer load began after ticket was issued. A reopened
// document passes its history id and is not recorded again.
func (app *AppContext) commit(ctx context.Context, sess *Session, ticket loader.Ticket, loaded *loader.Loaded, historyID string) (string, bool) {
	var id string
	committed := sess.Guard.Commit(ticket, func() {
		id = app.record(ctx, sess, loaded, historyID)
		doc := &view.Document{ID: id, Source: loaded.Source, ResultDocument: loaded.Document}
		sess.With(func(e *view.Explorer) { e.SetDocument(doc) })
	})
	if !committed {
		logger.Info("Discarded superseded load", zap.String("session", sess.ID), zap.String("source", loaded.Source))
	}
	return id, committed
}

// record stores the document in the registry and returns its id. Failing to
// record only loses the history entry.
func (app *AppContext) record(ctx context.Context, sess *Session, loaded *loader.Loaded, historyID string) string {
	if historyID != "" {
		if err := app.Registry.Touch(ctx, sess.ID, historyID); err != nil {
			logger.Warn("Failed to touch document", zap.String("session", sess.ID), zap.Error(err))
		}
		return historyID
	}

	id, err := app.Registry.Put(ctx, sess.ID, loaded.Source, len(loaded.Document.Results), loaded.Body)
	if err != nil {
		logger.Warn("Failed to register document", zap.String("session", sess.ID), zap.Error(err))
		return uuid.NewString()
	}
	return id
}

// renderLoader shows the landing page, with err if a load just failed.
func (app *AppContext) renderLoader(w http.ResponseWriter, r *http.Request, sess *Session, status int, loadErr error, rawURL string) {
	data := render.LoaderPageData{ExampleURL: app.ExampleURL, URL: rawURL}
	if loadErr != nil {
		data.Error = loadErr.Error()
	}

	sess.With(func(e *view.Explorer) {
		if doc := e.Document(); doc != nil {
			data.HasDocument = true
			data.Source = doc.Source
			data.CurrentID = doc.ID
		}
	})

	history, err := app.Registry.History(r.Context(), sess.ID)
	if err != nil {
		logger.Warn("Failed to read session history", zap.Error(err))
	}
	data.History = history

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := render.RenderLoaderPage(w, data); err != nil {
		logger.Error("Failed to render loader page", zap.Error(err))
	}
}

// Main page: the loader, or the results when a document is loaded.
func (app *AppContext) MainPage(w http.ResponseWriter, r *http.Request) {
	sess, err := app.Sessions.Get(w, r)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	loaded := false
	sess.With(func(e *view.Explorer) {
		loaded = e.Document() != nil
	})
	if loaded {
		http.Redirect(w, r, "/results", http.StatusFound)
		return
	}

	app.renderLoader(w, r, sess, http.StatusOK, nil, "")
}

// LoadFilePage parses an uploaded document synchronously.
func (app *AppContext) LoadFilePage(w http.ResponseWriter, r *http.Request) {
	sess, err := app.Sessions.Get(w, r)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		app.renderLoader(w, r, sess, http.StatusBadRequest, loader.ErrNoSelection, "")
		return
	}
	file, header, err := r.FormFile(request.FieldContent)
	if err != nil {
		app.renderLoader(w, r, sess, http.StatusBadRequest, loader.ErrNoSelection, "")
		return
	}
	defer file.Close()

	ticket := sess.Guard.Begin()
	loaded, err := app.Loader.FromReader(header.Filename, file)
	if err != nil {
		app.renderLoader(w, r, sess, loadErrorStatus(err), err, "")
		return
	}

	app.commit(r.Context(), sess, ticket, loaded, "")
	http.Redirect(w, r, "/results", http.StatusSeeOther)
}

// ReopenPage makes a document from the session history current again.
func (app *AppContext) ReopenPage(w http.ResponseWriter, r *http.Request) {
	sess, err := app.Sessions.Get(w, r)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	ticket := sess.Guard.Begin()
	rec, err := app.Registry.Get(r.Context(), sess.ID, r.PostForm.Get(request.FieldDocument))
	if errors.Is(err, db.ErrNoDocument) {
		app.renderLoader(w, r, sess, http.StatusNotFound, err, "")
		return
	}
	if err != nil {
		logger.Error("Failed to read document", zap.String("session", sess.ID), zap.Error(err))
		http.Error(w, "Failed to read document", http.StatusInternalServerError)
		return
	}

	loaded, err := app.Loader.FromHistory(rec.Source, rec.Body)
	if err != nil {
		app.renderLoader(w, r, sess, loadErrorStatus(err), err, "")
		return
	}

	app.commit(r.Context(), sess, ticket, loaded, rec.ID)
	http.Redirect(w, r, "/results", http.StatusSeeOther)
}

// LoadURLPage starts a background fetch of the posted URL.
func (app *AppContext) LoadURLPage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}
	app.startURLLoad(w, r, request.NormalizeURL(r.PostForm.Get(request.FieldURL)))
}

// LoadParamPage loads the URL given as ?p=, for shareable links.
func (app *AppContext) LoadParamPage(w http.ResponseWriter, r *http.Request) {
	app.startURLLoad(w, r, request.NormalizeURL(r.URL.Query().Get(request.FieldLoadParam)))
}

func (app *AppContext) LoadExamplePage(w http.ResponseWriter, r *http.Request) {
	app.startURLLoad(w, r, app.ExampleURL)
}

func (app *AppContext) startURLLoad(w http.ResponseWriter, r *http.Request, rawURL string) {
	sess, err := app.Sessions.Get(w, r)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	if !loader.ValidURL(rawURL) {
		app.renderLoader(w, r, sess, http.StatusBadRequest,
			&loader.LoadError{Source: rawURL, Op: "fetch", Err: loader.ErrInvalidURL}, rawURL)
		return
	}

	job := app.Jobs.NewJob(sess.ID, rawURL)
	ticket := sess.Guard.Begin()

	logger.Info("Queued load job",
		zap.String("job_id", job.ID),
		zap.String("session", sess.ID),
		zap.String("url", rawURL),
	)

	go app.runLoadJob(job.ID, sess, ticket, rawURL)

	http.Redirect(w, r, "/load/jobs/"+job.ID, http.StatusSeeOther)
}

func (app *AppContext) runLoadJob(jobID string, sess *Session, ticket loader.Ticket, rawURL string) {
	metrics.LoadJobsInFlight.Inc()
	defer metrics.LoadJobsInFlight.Dec()

	app.Jobs.SetRunning(jobID)

	ctx, cancel := context.WithTimeout(context.Background(), app.FetchTimeout)
	defer cancel()

	loaded, err := app.Loader.FromURL(ctx, rawURL)
	if err != nil {
		app.Jobs.FailJob(jobID, err, loadErrorStatus(err))
		return
	}

	id, committed := app.commit(ctx, sess, ticket, loaded, "")
	if !committed {
		app.Jobs.SupersedeJob(jobID)
		return
	}
	app.Jobs.CompleteJob(jobID, id)
}

// LoadJobPage reports a load job, and moves on to the results once done.
func (app *AppContext) LoadJobPage(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job_id")

	sess, ok := app.Sessions.Lookup(r)
	job, found := app.Jobs.GetJob(jobID)
	if !ok || !found || job.SessionID != sess.ID {
		http.Error(w, "Load job not found", http.StatusNotFound)
		return
	}

	if job.Status == LoadJobCompleted {
		http.Redirect(w, r, "/results", http.StatusSeeOther)
		return
	}

	data := render.LoadJobPageData{
		JobID:                  job.ID,
		Source:                 job.Source,
		Status:                 string(job.Status),
		ErrorMessage:           job.Error,
		Superseded:             job.Status == LoadJobSuperseded,
		ShouldRefresh:          !job.Done(),
		RefreshIntervalSeconds: refreshIntervalSeconds,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if job.Status == LoadJobFailed {
		w.WriteHeader(job.ErrorCode)
	}
	if err := render.RenderLoadJobPage(w, data); err != nil {
		logger.Error("Failed to render load job page", zap.Error(err))
	}
}

// ResetPage drops the document. Loads still in flight are superseded.
func (app *AppContext) ResetPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.Sessions.Lookup(r)
	if ok {
		sess.Guard.Commit(sess.Guard.Begin(), func() {
			sess.With(func(e *view.Explorer) { e.Reset() })
		})
		if err := app.Registry.Forget(r.Context(), sess.ID); err != nil {
			logger.Warn("Failed to forget session documents", zap.Error(err))
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
