package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pawprint/pkg/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(config.SessionConfig{Secret: testSecret, MaxAge: time.Hour}, false)
	require.NoError(t, err)
	return m
}

func TestNewManagerRejectsShortSecret(t *testing.T) {
	_, err := NewManager(config.SessionConfig{Secret: "short"}, false)
	require.ErrorIs(t, err, ErrSecretTooShort)
}

func TestStateRoundTrip(t *testing.T) {
	m := newTestManager(t)
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	state, err := m.Load(req)
	require.NoError(t, err)
	assert.True(t, state.IsNew())

	visitor := state.VisitorID()
	state.SetAccessToken("tok-1")
	state.SetUserID(userID)
	require.True(t, state.Dirty())

	rec := httptest.NewRecorder()
	require.NoError(t, state.Save(req, rec))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "pawprint_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	next := httptest.NewRequest(http.MethodGet, "/home", nil)
	next.AddCookie(cookies[0])
	loaded, err := m.Load(next)
	require.NoError(t, err)
	assert.False(t, loaded.IsNew())
	assert.Equal(t, visitor, loaded.VisitorID())
	assert.Equal(t, "tok-1", loaded.AccessToken())
	got, ok := loaded.UserID()
	require.True(t, ok)
	assert.Equal(t, userID, got)
	assert.False(t, loaded.Dirty())
}

func TestClearUserKeepsTokenAndVisitor(t *testing.T) {
	m := newTestManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	state, err := m.Load(req)
	require.NoError(t, err)

	visitor := state.VisitorID()
	state.SetAccessToken("tok")
	state.SetUserID(uuid.New())
	state.ClearUser()

	_, ok := state.UserID()
	assert.False(t, ok)
	assert.Equal(t, "tok", state.AccessToken())
	assert.Equal(t, visitor, state.VisitorID())
}

func TestTamperedCookieYieldsFreshSession(t *testing.T) {
	m := newTestManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "pawprint_session", Value: "not-a-signed-value"})

	state, err := m.Load(req)
	require.Error(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "", state.AccessToken())
	_, ok := state.UserID()
	assert.False(t, ok)
}

func TestSaveIsNoopWhenClean(t *testing.T) {
	m := newTestManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	state, err := m.Load(req)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, state.Save(req, rec))
	assert.Empty(t, rec.Result().Cookies())
}
