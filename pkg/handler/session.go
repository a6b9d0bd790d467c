package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/yumyai/blutable/logger"
	"github.com/yumyai/blutable/pkg/loader"
	"github.com/yumyai/blutable/pkg/view"
)

const SessionCookie = "blutable_session"

// Session is one browser's explorer. The explorer is only touched with mu
// held; Guard decides which load may replace the document.
type Session struct {
	ID    string
	Guard loader.Guard

	mu       sync.Mutex
	explorer *view.Explorer
}

// With runs fn with exclusive access to the session explorer.
func (s *Session) With(fn func(e *view.Explorer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.explorer)
}

// Try is With for callbacks that can fail.
func (s *Session) Try(fn func(e *view.Explorer) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.explorer)
}

// SessionLimits bounds the session store. Zero values fall back to the
// defaults.
type SessionLimits struct {
	MaxSessions int
	IdleTimeout time.Duration
}

const (
	DefaultMaxSessions = 1000
	DefaultIdleTimeout = 2 * time.Hour
)

// SessionStore holds live sessions. The least recently used session is
// evicted past MaxSessions, and a session unused for IdleTimeout expires.
type SessionStore struct {
	sessions *expirable.LRU[string, *Session]
	opts     view.ExplorerOptions
}

// NewSessionStore creates the store. onEvict, if set, runs for every
// dropped session on its own goroutine.
func NewSessionStore(opts view.ExplorerOptions, limits SessionLimits, onEvict func(*Session)) *SessionStore {
	if limits.MaxSessions <= 0 {
		limits.MaxSessions = DefaultMaxSessions
	}
	if limits.IdleTimeout <= 0 {
		limits.IdleTimeout = DefaultIdleTimeout
	}

	// The callback runs under the cache lock.
	evicted := func(id string, sess *Session) {
		logger.Debug("Session evicted", zap.String("session", id))
		if onEvict != nil {
			go onEvict(sess)
		}
	}

	return &SessionStore{
		sessions: expirable.NewLRU[string, *Session](limits.MaxSessions, evicted, limits.IdleTimeout),
		opts:     opts,
	}
}

// Lookup returns the session of the request cookie, if any, and renews its
// idle timeout.
func (st *SessionStore) Lookup(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}
	sess, ok := st.sessions.Get(cookie.Value)
	if !ok {
		return nil, false
	}
	st.sessions.Add(sess.ID, sess)
	return sess, true
}

// Get returns the request session, creating it and setting the cookie if
// the request has none.
func (st *SessionStore) Get(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if sess, ok := st.Lookup(r); ok {
		return sess, nil
	}

	explorer, err := view.NewExplorer(st.opts)
	if err != nil {
		return nil, err
	}
	sess := &Session{ID: uuid.NewString(), explorer: explorer}
	st.sessions.Add(sess.ID, sess)

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	logger.Debug("New session", zap.String("session", sess.ID))
	return sess, nil
}

func (st *SessionStore) Len() int {
	return st.sessions.Len()
}
