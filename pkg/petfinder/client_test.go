package petfinder

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/pawprint/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *recordingObserver) ObserveUpstream(endpoint string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, endpoint+":"+http.StatusText(status))
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	base := []Option{
		WithBaseURL(srv.URL + "/v2"),
		WithTokenURL(srv.URL + "/v2/oauth2/token"),
		WithHTTPClient(srv.Client()),
	}
	client, err := NewClient("client-id", "client-secret", append(base, opts...)...)
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(" ", "secret")
	require.Error(t, err)
	_, err = NewClient("id", "")
	require.Error(t, err)
}

func TestIssueTokenUsesClientCredentialsGrant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/oauth2/token", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token_type":"Bearer","expires_in":3600,"access_token":"tok-123"}`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := newTestClient(t, srv, WithObserver(obs))

	tok, err := client.IssueToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-123", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Greater(t, tok.ExpiresIn, int64(3000))
	assert.Equal(t, []string{"token:OK"}, obs.calls)
}

func TestIssueTokenRejectedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client","error_description":"Client authentication failed"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.IssueToken(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUpstream))
}

func TestGetAnimalSendsBearerAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/animals/42", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"animal":{"id":42,"organization_id":"ORG-1","name":"Biscuit","type":"Dog","species":"Dog",
			"breeds":{"primary":"Beagle"},"colors":{"primary":null},"age":"Young","gender":"Male","size":"Small",
			"status":"adoptable","photos":[{"full":"https://img/full.jpg"}]}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	animal, err := client.GetAnimal(context.Background(), "tok", 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), animal.ID)
	assert.Equal(t, "ORG-1", animal.OrganizationID)
	require.NotNil(t, animal.Breeds.Primary)
	assert.Equal(t, "Beagle", *animal.Breeds.Primary)
	assert.Nil(t, animal.Colors.Primary)
	assert.Equal(t, "https://img/full.jpg", FirstPhotoURL(animal.Photos))
}

func TestGetAnimalNotFoundMapsToNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"type":"https://www.petfinder.com/developers/v2/docs/errors/ERR-404/","status":404,"title":"Not Found","detail":"Not Found"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.GetAnimal(context.Background(), "tok", 7)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	httpErr, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, "Not Found", httpErr.Title)
}

func TestExpiredTokenSurfacesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":401,"title":"Unauthorized","detail":"Access token invalid or expired"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.GetOrganization(context.Background(), "stale", "ORG-1")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUpstream, typed.Code())
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Access token invalid or expired", details["detail"])
}

func TestListAnimalsEncodesParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/animals", r.URL.Path)
		assert.Equal(t, "dog", r.URL.Query().Get("type"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"animals":[{"id":1,"name":"A"},{"id":2,"name":"B"}],
			"pagination":{"count_per_page":2,"total_count":10,"current_page":2,"total_pages":5,
			"_links":{"next":{"href":"/v2/animals?page=3"}}}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	page, err := client.ListAnimals(context.Background(), "tok", url.Values{"type": {"dog"}, "page": {"2"}})
	require.NoError(t, err)
	assert.Len(t, page.Animals, 2)
	assert.Equal(t, 5, page.Pagination.TotalPages)
	require.NotNil(t, page.Pagination.Links.Next)
	assert.Nil(t, page.Pagination.Links.Previous)
}

func TestGetOrganizationEscapesID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/organizations/NJ 333", r.URL.Path)
		_, _ = w.Write([]byte(`{"organization":{"id":"NJ 333","name":"Shelter","address":{"city":"Newark","state":"NJ","postcode":"07102","country":"US"}}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	org, err := client.GetOrganization(context.Background(), "tok", "NJ 333")
	require.NoError(t, err)
	assert.Equal(t, "Newark", org.Address.City)
}

func TestTransportFailureIsUpstreamUnavailable(t *testing.T) {
	httpClient := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})}
	client, err := NewClient("id", "secret", WithBaseURL("http://petfinder.test/v2"), WithHTTPClient(httpClient))
	require.NoError(t, err)

	_, err = client.ListOrganizations(context.Background(), "tok", nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUpstream))
}

func TestMissingTokenShortCircuits(t *testing.T) {
	called := false
	httpClient := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		called = true
		return nil, errors.New("unexpected call")
	})}
	client, err := NewClient("id", "secret", WithHTTPClient(httpClient))
	require.NoError(t, err)

	_, err = client.GetAnimal(context.Background(), "", 1)
	require.Error(t, err)
	assert.False(t, called)
}
