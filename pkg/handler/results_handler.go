package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/yumyai/blutable/logger"
	"github.com/yumyai/blutable/pkg/db"
	"github.com/yumyai/blutable/pkg/grouping"
	"github.com/yumyai/blutable/pkg/handler/request"
	"github.com/yumyai/blutable/pkg/render"
	"github.com/yumyai/blutable/pkg/view"
)

var errNoDocument = errors.New("no document loaded")

type ResultsPayload struct {
	Source   string         `json:"source"`
	Snapshot *view.Snapshot `json:"snapshot"`
}

type ResultsResponse struct {
	Success bool            `json:"success"`
	Payload *ResultsPayload `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type DocumentsResponse struct {
	Success bool                `json:"success"`
	Payload []db.DocumentRecord `json:"payload"`
	Error   string              `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// applyView folds the request parameters into the session explorer and
// derives the active snapshot.
func applyView(e *view.Explorer, r *http.Request) (*view.Snapshot, error) {
	if e.Document() == nil {
		return nil, errNoDocument
	}

	req, err := request.ParseViewRequest(r.URL.Query())
	if err != nil {
		return nil, err
	}

	if req.Mode != nil {
		if err := e.SwitchMode(*req.Mode); err != nil {
			return nil, err
		}
	}
	if err := e.Update(req.Apply); err != nil {
		return nil, err
	}
	return e.Snapshot()
}

func viewErrorStatus(err error) int {
	switch {
	case errors.Is(err, errNoDocument):
		return http.StatusNotFound
	case errors.Is(err, grouping.ErrInvalidConfiguration), errors.Is(err, grouping.ErrInvalidPageSize):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ResultsPage renders the active view.
func (app *AppContext) ResultsPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.Sessions.Lookup(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	var data render.ResultsPageData
	err := sess.Try(func(e *view.Explorer) error {
		snap, err := applyView(e, r)
		if err != nil {
			return err
		}
		data = render.ResultsPageData{
			Source:    e.Document().Source,
			Snapshot:  snap,
			RowHeight: e.RowHeight(),
			Unmatched: e.Document().Unmatched(),
		}
		return nil
	})

	if errors.Is(err, errNoDocument) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err != nil {
		logger.Warn("Failed to derive view", zap.String("url", r.URL.String()), zap.Error(err))
		http.Error(w, err.Error(), viewErrorStatus(err))
		return
	}

	logger.Info("Rendering results",
		zap.String("session", sess.ID),
		zap.String("mode", data.Snapshot.State.Mode.String()),
		zap.Int("page", data.Snapshot.Page.Number),
		zap.Int("filtered", data.Snapshot.Filtered),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.RenderResultsPage(w, data); err != nil {
		logger.Error("Failed to render results page", zap.Error(err))
		http.Error(w, "Failed to render results", http.StatusInternalServerError)
	}
}

// SectionFragment renders the visible rows of one group for the section
// script.
func (app *AppContext) SectionFragment(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.Sessions.Lookup(r)
	if !ok {
		http.Error(w, errNoDocument.Error(), http.StatusNotFound)
		return
	}

	req, err := request.ParseSectionRequest(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = sess.Try(func(e *view.Explorer) error {
		if e.Document() == nil {
			return errNoDocument
		}
		section, err := e.Section(req.Group, req.ScrollTop)
		if err != nil {
			return err
		}
		return render.RenderSectionFragment(w, section)
	})
	if err != nil {
		logger.Debug("Section not rendered", zap.String("group", req.Group), zap.Error(err))
		http.Error(w, err.Error(), http.StatusNotFound)
	}
}

// QueryDetail renders the consensus detail of one query.
func (app *AppContext) QueryDetail(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.Sessions.Lookup(r)
	if !ok {
		http.Error(w, errNoDocument.Error(), http.StatusNotFound)
		return
	}

	query := r.URL.Query().Get(request.FieldQueryID)
	fragment := r.URL.Query().Get("fragment") == "1"

	var (
		row   view.Row
		found bool
	)
	sess.With(func(e *view.Explorer) {
		if result, ok := e.Find(query); ok {
			row, found = view.NewRow(result), true
		}
	})
	if !found {
		http.Error(w, "Query not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.RenderDetail(w, row, fragment); err != nil {
		logger.Error("Failed to render detail", zap.Error(err))
	}
}

// ResultsAPI is the JSON form of ResultsPage.
func (app *AppContext) ResultsAPI(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.Sessions.Lookup(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, ResultsResponse{Error: errNoDocument.Error()})
		return
	}

	var payload ResultsPayload
	err := sess.Try(func(e *view.Explorer) error {
		snap, err := applyView(e, r)
		if err != nil {
			return err
		}
		payload = ResultsPayload{Source: e.Document().Source, Snapshot: snap}
		return nil
	})
	if err != nil {
		writeJSON(w, viewErrorStatus(err), ResultsResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, ResultsResponse{Success: true, Payload: &payload})
}

// DocumentsAPI lists what the session has loaded.
func (app *AppContext) DocumentsAPI(w http.ResponseWriter, r *http.Request) {
	sess, ok := app.Sessions.Lookup(r)
	if !ok {
		writeJSON(w, http.StatusOK, DocumentsResponse{Success: true, Payload: []db.DocumentRecord{}})
		return
	}

	history, err := app.Registry.History(r.Context(), sess.ID)
	if err != nil {
		logger.Error("Failed to list documents", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, DocumentsResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, DocumentsResponse{Success: true, Payload: history})
}
