// Package searchstate remembers each visitor's last submitted listing filters so
// pagination links never have to carry them.
package searchstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/angelmondragon/pawprint/pkg/errors"
	"github.com/angelmondragon/pawprint/pkg/logger"
)

// Kind selects a listing.
type Kind string

const (
	KindPets          Kind = "pets"
	KindOrganizations Kind = "organizations"
)

var fieldsByKind = map[Kind][]string{
	KindPets:          {"name", "type", "breed", "location"},
	KindOrganizations: {"name", "location", "state", "country"},
}

// Fields lists the filter names accepted for kind.
func Fields(kind Kind) []string {
	return append([]string(nil), fieldsByKind[kind]...)
}

// Filters maps filter names to their submitted values.
type Filters map[string]string

// Query is the canonical upstream query for one listing page.
type Query struct {
	Kind    Kind
	Filters Filters
	Page    int
	Limit   int
}

// Values renders the query as upstream request parameters.
func (q Query) Values() url.Values {
	values := url.Values{}
	for key, value := range q.Filters {
		values.Set(key, value)
	}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("limit", strconv.Itoa(q.Limit))
	return values
}

type store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SearchStateKey(visitorID, kind string) string
}

// Service stores filters per visitor and listing kind.
type Service struct {
	store    store
	ttl      time.Duration
	pageSize int
	logg     *logger.Logger
}

// NewService builds the cache over the shared Redis client.
func NewService(s store, ttl time.Duration, pageSize int, logg *logger.Logger) (*Service, error) {
	if s == nil {
		return nil, fmt.Errorf("search state store is required")
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Service{store: s, ttl: ttl, pageSize: pageSize, logg: logg}, nil
}

// Save replaces the stored filters. An empty set clears the entry.
func (s *Service) Save(ctx context.Context, visitorID string, kind Kind, filters Filters) error {
	if err := checkScope(visitorID, kind); err != nil {
		return err
	}
	key := s.store.SearchStateKey(visitorID, string(kind))
	clean := canonical(kind, filters)
	if len(clean) == 0 {
		if err := s.store.Del(ctx, key); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear search state")
		}
		return nil
	}
	payload, err := json.Marshal(clean)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode search state")
	}
	if err := s.store.Set(ctx, key, string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store search state")
	}
	return nil
}

// Load returns the stored filters and whether any were found.
func (s *Service) Load(ctx context.Context, visitorID string, kind Kind) (Filters, bool, error) {
	if err := checkScope(visitorID, kind); err != nil {
		return nil, false, err
	}
	key := s.store.SearchStateKey(visitorID, string(kind))
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return Filters{}, false, nil
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load search state")
	}
	var stored Filters
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		// Unreadable entries count as absent; the next save overwrites them.
		if s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"key":    key,
				"kind":   string(kind),
				"reason": err.Error(),
			})
			s.logg.Warn(logCtx, "search_state.corrupt")
		}
		return Filters{}, false, nil
	}
	return canonical(kind, stored), true, nil
}

// Resolve picks the filters for a listing request. Submitted filters replace the stored
// ones and reset to page 1; otherwise the stored filters are combined with page.
func (s *Service) Resolve(ctx context.Context, visitorID string, kind Kind, submitted Filters, page int) (Query, error) {
	if submitted != nil {
		if err := s.Save(ctx, visitorID, kind, submitted); err != nil {
			return Query{}, err
		}
		return Query{Kind: kind, Filters: canonical(kind, submitted), Page: 1, Limit: s.pageSize}, nil
	}

	filters, _, err := s.Load(ctx, visitorID, kind)
	if err != nil {
		return Query{}, err
	}
	if page < 1 {
		page = 1
	}
	return Query{Kind: kind, Filters: filters, Page: page, Limit: s.pageSize}, nil
}

// Describe renders filters as a stable "key=value" list for logs and views.
func (f Filters) Describe() string {
	keys := make([]string, 0, len(f))
	for key := range f {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+f[key])
	}
	return strings.Join(parts, ",")
}

func canonical(kind Kind, filters Filters) Filters {
	clean := Filters{}
	for _, field := range fieldsByKind[kind] {
		if value := strings.TrimSpace(filters[field]); value != "" {
			clean[field] = value
		}
	}
	return clean
}

func checkScope(visitorID string, kind Kind) error {
	if strings.TrimSpace(visitorID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "visitor id is required")
	}
	if _, ok := fieldsByKind[kind]; !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown search kind %q", kind))
	}
	return nil
}
