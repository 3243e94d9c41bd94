package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pawprint/pkg/auth/session"
	"github.com/angelmondragon/pawprint/pkg/config"
	"github.com/angelmondragon/pawprint/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pawprint/pkg/errors"
)

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	m, err := session.NewManager(config.SessionConfig{Secret: "0123456789abcdef0123456789abcdef", MaxAge: time.Hour}, false)
	require.NoError(t, err)
	return m
}

type stubUsers struct {
	users map[uuid.UUID]*models.User
}

func (s stubUsers) User(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
}

func TestSessionSavesCookieBeforeHeaders(t *testing.T) {
	m := newManager(t)
	handler := Session(m, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SessionFromContext(r.Context()).SetAccessToken("tok")
		w.WriteHeader(http.StatusSeeOther)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "pawprint_session", cookies[0].Name)
}

func TestSessionKeepsVisitorAcrossRequests(t *testing.T) {
	m := newManager(t)
	var seen []string
	handler := Session(m, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, SessionFromContext(r.Context()).VisitorID())
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/home", nil))
	cookies := first.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(cookies[0])
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)

	require.Len(t, seen, 2)
	assert.Equal(t, seen[0], seen[1])
	assert.Empty(t, second.Result().Cookies(), "unchanged session is not rewritten")
}

func withSessionUser(t *testing.T, m *session.Manager, userID uuid.UUID) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	state, err := m.Load(req)
	require.NoError(t, err)
	state.SetUserID(userID)
	rec := httptest.NewRecorder()
	require.NoError(t, state.Save(req, rec))
	return rec.Result().Cookies()[0]
}

func TestIdentityResolvesUser(t *testing.T) {
	m := newManager(t)
	user := &models.User{ID: uuid.New(), FirstName: "Ada"}
	var got *models.User
	handler := Session(m, nil)(Identity(stubUsers{users: map[uuid.UUID]*models.User{user.ID: user}}, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = UserFromContext(r.Context())
		})))

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(withSessionUser(t, m, user.ID))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "Ada", got.FirstName)
}

func TestIdentityDropsStaleUser(t *testing.T) {
	m := newManager(t)
	var got *models.User
	var stillSet bool
	handler := Session(m, nil)(Identity(stubUsers{}, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = UserFromContext(r.Context())
			_, stillSet = SessionFromContext(r.Context()).UserID()
		})))

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(withSessionUser(t, m, uuid.New()))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Nil(t, got)
	assert.False(t, stillSet)
}

func TestRequireUserRedirectsAnonymous(t *testing.T) {
	m := newManager(t)
	called := false
	handler := Session(m, nil)(RequireUser("Please log in to view your bookmarks!")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookmarks", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Contains(t, rec.Body.String(), "Please log in to view your bookmarks!")
	assert.Len(t, rec.Result().Cookies(), 1, "notice is flashed to the session")
}
