package petfinder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	pkgerrors "github.com/angelmondragon/pawprint/pkg/errors"
)

const (
	DefaultBaseURL  = "https://api.petfinder.com/v2"
	DefaultTokenURL = DefaultBaseURL + "/oauth2/token"

	defaultTimeout       = 10 * time.Second
	errorBodyReadLimit   = 4096
	endpointToken        = "token"
	endpointAnimals      = "animals"
	endpointAnimal       = "animal"
	endpointOrgs         = "organizations"
	endpointOrganization = "organization"
)

var errCredentialsRequired = errors.New("petfinder client id and secret are required")

// Observer receives one callback per upstream round trip.
type Observer interface {
	ObserveUpstream(endpoint string, status int, duration time.Duration)
}

// Client talks to the Petfinder v2 REST API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	tokenURL     string
	clientID     string
	clientSecret string
	observer     Observer
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.baseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

// WithTokenURL overrides the OAuth token endpoint.
func WithTokenURL(tokenURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(tokenURL); trimmed != "" {
			c.tokenURL = trimmed
		}
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithObserver reports request outcomes, typically to Prometheus.
func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// NewClient builds a Petfinder client for the given application credentials.
func NewClient(clientID, clientSecret string, opts ...Option) (*Client, error) {
	id := strings.TrimSpace(clientID)
	secret := strings.TrimSpace(clientSecret)
	if id == "" || secret == "" {
		return nil, errCredentialsRequired
	}

	client := &Client{
		clientID:     id,
		clientSecret: secret,
		baseURL:      DefaultBaseURL,
		tokenURL:     DefaultTokenURL,
		httpClient:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// IssueToken exchanges the client id and secret for a bearer token using the
// client-credentials grant.
func (c *Client) IssueToken(ctx context.Context) (*Token, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "petfinder client not configured")
	}

	cfg := clientcredentials.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		TokenURL:     c.tokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	start := time.Now()
	tok, err := cfg.Token(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient))
	if err != nil {
		status := 0
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		c.observe(endpointToken, status, start)
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "issue access token").
			WithDetails(map[string]any{"status": status})
	}
	c.observe(endpointToken, http.StatusOK, start)

	var expiresIn int64
	if !tok.Expiry.IsZero() {
		expiresIn = int64(time.Until(tok.Expiry).Seconds())
	}
	return &Token{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ExpiresIn:   expiresIn,
	}, nil
}

// ListAnimals returns a page of animals matching params.
func (c *Client) ListAnimals(ctx context.Context, token string, params url.Values) (*AnimalsPage, error) {
	var page AnimalsPage
	if err := c.get(ctx, token, endpointAnimals, "/animals", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetAnimal fetches a single animal by its upstream id.
func (c *Client) GetAnimal(ctx context.Context, token string, id int64) (*Animal, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pet id must be positive")
	}
	var body struct {
		Animal *Animal `json:"animal"`
	}
	if err := c.get(ctx, token, endpointAnimal, "/animals/"+strconv.FormatInt(id, 10), nil, &body); err != nil {
		return nil, err
	}
	if body.Animal == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "upstream response missing animal")
	}
	return body.Animal, nil
}

// ListOrganizations returns a page of organizations matching params.
func (c *Client) ListOrganizations(ctx context.Context, token string, params url.Values) (*OrganizationsPage, error) {
	var page OrganizationsPage
	if err := c.get(ctx, token, endpointOrgs, "/organizations", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetOrganization fetches a single organization by its upstream id.
func (c *Client) GetOrganization(ctx context.Context, token string, id string) (*Organization, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "organization id is required")
	}
	var body struct {
		Organization *Organization `json:"organization"`
	}
	if err := c.get(ctx, token, endpointOrganization, "/organizations/"+url.PathEscape(trimmed), nil, &body); err != nil {
		return nil, err
	}
	if body.Organization == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "upstream response missing organization")
	}
	return body.Organization, nil
}

func (c *Client) get(ctx context.Context, token, endpoint, path string, params url.Values, dest any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "petfinder client not configured")
	}
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeUpstream, "missing upstream access token")
	}

	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upstream request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(endpoint, 0, start)
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "upstream request failed")
	}
	defer func() { _ = resp.Body.Close() }()
	c.observe(endpoint, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(endpoint, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode upstream response")
	}
	return nil
}

func (c *Client) observe(endpoint string, status int, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveUpstream(endpoint, status, time.Since(start))
}

// HTTPError captures a non-2xx upstream answer, including the problem+json
// title and detail when upstream supplies them.
type HTTPError struct {
	Endpoint   string
	StatusCode int
	Title      string
	Detail     string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("petfinder status %d: %s", e.StatusCode, e.Title)
	}
	return fmt.Sprintf("petfinder status %d", e.StatusCode)
}

func responseError(endpoint string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	httpErr := &HTTPError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}

	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(raw, &problem) == nil {
		httpErr.Title = problem.Title
		httpErr.Detail = problem.Detail
	}

	details := map[string]any{"status": resp.StatusCode}
	if httpErr.Title != "" {
		details["title"] = httpErr.Title
	}
	if httpErr.Detail != "" {
		details["detail"] = httpErr.Detail
	}

	if resp.StatusCode == http.StatusNotFound && (endpoint == endpointAnimal || endpoint == endpointOrganization) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, httpErr, endpoint+" not found").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeUpstream, httpErr, "upstream request failed").WithDetails(details)
}

// AsHTTPError extracts the upstream status error from err, if any.
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
