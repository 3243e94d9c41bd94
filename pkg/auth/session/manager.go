package session

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/angelmondragon/pawprint/pkg/config"
)

const (
	defaultCookieName = "pawprint_session"
	minSecretLen      = 32

	keyUserID      = "user_id"
	keyAccessToken = "access_token"
	keyVisitorID   = "visitor_id"
)

var ErrSecretTooShort = fmt.Errorf("session secret must be at least %d bytes", minSecretLen)

// Manager loads and persists the signed visitor cookie.
type Manager struct {
	store sessions.Store
	name  string
}

// NewManager constructs a cookie-backed session manager. secure marks cookies
// HTTPS-only and should be set in production.
func NewManager(cfg config.SessionConfig, secure bool) (*Manager, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if len(secret) < minSecretLen {
		return nil, ErrSecretTooShort
	}

	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(cfg.MaxAgeSeconds())

	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = defaultCookieName
	}
	return &Manager{store: store, name: name}, nil
}

// Load returns the visitor session for r. A cookie that fails to decode is
// replaced by a fresh session; the decode error is returned for logging only.
func (m *Manager) Load(r *http.Request) (*State, error) {
	sess, err := m.store.Get(r, m.name)
	if sess == nil {
		sess = sessions.NewSession(m.store, m.name)
		sess.IsNew = true
	}
	state := &State{sess: sess}
	if err != nil {
		return state, fmt.Errorf("decode session cookie: %w", err)
	}
	return state, nil
}

// State is the per-request view of a visitor session.
type State struct {
	sess  *sessions.Session
	dirty bool
}

// IsNew reports whether the visitor arrived without a valid cookie.
func (s *State) IsNew() bool {
	return s.sess.IsNew
}

// Dirty reports whether the state changed since it was loaded.
func (s *State) Dirty() bool {
	return s.dirty
}

// VisitorID returns the stable anonymous id for the visitor, assigning one on first use.
func (s *State) VisitorID() string {
	if id := s.getString(keyVisitorID); id != "" {
		return id
	}
	id := uuid.NewString()
	s.set(keyVisitorID, id)
	return id
}

// AccessToken returns the stored upstream bearer token, or "".
func (s *State) AccessToken() string {
	return s.getString(keyAccessToken)
}

func (s *State) SetAccessToken(token string) {
	s.set(keyAccessToken, strings.TrimSpace(token))
}

// UserID returns the authenticated user id, if the session carries a valid one.
func (s *State) UserID() (uuid.UUID, bool) {
	raw := s.getString(keyUserID)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (s *State) SetUserID(id uuid.UUID) {
	s.set(keyUserID, id.String())
}

// ClearUser drops the authenticated identity but keeps the visitor id and upstream token.
func (s *State) ClearUser() {
	if _, ok := s.sess.Values[keyUserID]; !ok {
		return
	}
	delete(s.sess.Values, keyUserID)
	s.dirty = true
}

// Save writes the cookie when the state changed.
func (s *State) Save(r *http.Request, w http.ResponseWriter) error {
	if !s.dirty {
		return nil
	}
	if err := s.sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.dirty = false
	return nil
}

func (s *State) getString(key string) string {
	if v, ok := s.sess.Values[key].(string); ok {
		return v
	}
	return ""
}

func (s *State) set(key, value string) {
	if current, ok := s.sess.Values[key].(string); ok && current == value {
		return
	}
	s.sess.Values[key] = value
	s.dirty = true
}
