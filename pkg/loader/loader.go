package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/yumyai/blutable/logger"
	"github.com/yumyai/blutable/pkg/metrics"
	"github.com/yumyai/blutable/pkg/model"
)

type SourceKind string

const (
	SourceFile   SourceKind = "file"
	SourceUpload SourceKind = "upload"
	SourceURL    SourceKind = "url"
	// A document reopened from the session history.
	SourceHistory SourceKind = "history"
)

var (
	ErrInvalidURL  = errors.New("not an absolute http(s) URL")
	ErrTooLarge    = errors.New("document exceeds size limit")
	ErrHTTPStatus  = errors.New("unexpected HTTP status")
	ErrNoSelection = errors.New("no file selected")
)

// LoadError is a failed fetch or parse. It is shown to the user; whatever
// document was loaded before stays in place.
type LoadError struct {
	Source string
	Op     string // "read", "fetch" or "parse"
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loaded is a successfully parsed document together with its raw body.
type Loaded struct {
	Source   string
	Kind     SourceKind
	Body     []byte
	Document *model.ResultDocument
}

type Loader struct {
	Client   *http.Client
	MaxBytes int64
}

func New(client *http.Client, maxBytes int64) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Loader{Client: client, MaxBytes: maxBytes}
}

// ValidURL reports whether raw is an absolute http or https URL.
func ValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (l *Loader) FromFile(path string) (*Loaded, error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, l.fail(SourceFile, path, "read", err, start)
	}
	defer f.Close()

	return l.load(SourceFile, filepath.Base(path), f, start)
}

// FromReader loads an uploaded file body.
func (l *Loader) FromReader(name string, r io.Reader) (*Loaded, error) {
	return l.load(SourceUpload, name, r, time.Now())
}

// FromHistory parses a body kept in the session history.
func (l *Loader) FromHistory(name string, body []byte) (*Loaded, error) {
	return l.load(SourceHistory, name, bytes.NewReader(body), time.Now())
}

func (l *Loader) FromURL(ctx context.Context, rawURL string) (*Loaded, error) {
	start := time.Now()

	if !ValidURL(rawURL) {
		return nil, l.fail(SourceURL, rawURL, "fetch", ErrInvalidURL, start)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, l.fail(SourceURL, rawURL, "fetch", err, start)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, l.fail(SourceURL, rawURL, "fetch", err, start)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, l.fail(SourceURL, rawURL, "fetch", fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status), start)
	}

	return l.load(SourceURL, rawURL, resp.Body, start)
}

func (l *Loader) load(kind SourceKind, source string, r io.Reader, start time.Time) (*Loaded, error) {

	body, err := l.readAll(r)
	if err != nil {
		return nil, l.fail(kind, source, "read", err, start)
	}

	doc, err := model.ParseDocument(body)
	if err != nil {
		return nil, l.fail(kind, source, "parse", err, start)
	}

	metrics.DocumentsLoaded.WithLabelValues(string(kind), "ok").Inc()
	metrics.LoadDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	logger.Info("Loaded result document",
		zap.String("source", source),
		zap.String("kind", string(kind)),
		zap.Int("results", len(doc.Results)),
		zap.String("size", humanize.IBytes(uint64(len(body)))),
		zap.Duration("duration", time.Since(start)),
	)

	return &Loaded{Source: source, Kind: kind, Body: body, Document: doc}, nil
}

func (l *Loader) readAll(r io.Reader) ([]byte, error) {
	if l.MaxBytes <= 0 {
		return io.ReadAll(r)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, l.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if n > l.MaxBytes {
		return nil, fmt.Errorf("%w of %s", ErrTooLarge, humanize.IBytes(uint64(l.MaxBytes)))
	}
	return buf.Bytes(), nil
}

func (l *Loader) fail(kind SourceKind, source, op string, err error, start time.Time) error {
	metrics.DocumentsLoaded.WithLabelValues(string(kind), "error").Inc()
	metrics.LoadDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	logger.Warn("Failed to load result document",
		zap.String("source", source),
		zap.String("kind", string(kind)),
		zap.String("op", op),
		zap.Error(err),
	)
	return &LoadError{Source: source, Op: op, Err: err}
}
