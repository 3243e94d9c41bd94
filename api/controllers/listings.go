package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/pawprint/api/responses"
	"github.com/angelmondragon/pawprint/api/validators"
	"github.com/angelmondragon/pawprint/internal/listings"
	"github.com/angelmondragon/pawprint/internal/searchstate"
	pkgerrors "github.com/angelmondragon/pawprint/pkg/errors"
	"github.com/angelmondragon/pawprint/pkg/logger"
	"github.com/angelmondragon/pawprint/pkg/petfinder"
	"github.com/angelmondragon/pawprint/pkg/types"
)

type searchResolver interface {
	Resolve(ctx context.Context, visitorID string, kind searchstate.Kind, submitted searchstate.Filters, page int) (searchstate.Query, error)
}

type listingService interface {
	SearchPets(ctx context.Context, token string, q searchstate.Query) (*listings.PetPage, error)
	SearchOrganizations(ctx context.Context, token string, q searchstate.Query) (*listings.OrganizationPage, error)
	GetPet(ctx context.Context, token, id string) (*petfinder.Animal, error)
	GetOrganization(ctx context.Context, token, id string) (*petfinder.Organization, error)
}

const (
	maxFilterLen = 100
	maxPage      = 1000
)

var invalidFilters = types.Notice{Level: types.NoticeWarning, Message: "Those filters were not valid; showing your last search."}

// Pets lists animals. A POST replaces the visitor's saved filters; a GET pages through them.
func Pets(tokens tokenSource, search searchResolver, svc listingService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			submitted searchstate.Filters
			notices   []types.Notice
		)
		if r.Method == http.MethodPost {
			var body validators.PetSearchForm
			if err := validators.DecodeBody(r, &body); err != nil {
				notices = append(notices, invalidFilters)
			} else {
				submitted = searchstate.Filters{
					"name":     validators.SanitizeString(body.Name, maxFilterLen),
					"type":     validators.SanitizeString(body.Type, maxFilterLen),
					"breed":    validators.SanitizeString(body.Breed, maxFilterLen),
					"location": validators.SanitizeString(body.Location, maxFilterLen),
				}
			}
		}

		query, token, err := listingQuery(r, tokens, search, searchstate.KindPets, submitted, logg)
		if err != nil {
			fail(w, r, logg, err)
			return
		}
		page, err := svc.SearchPets(r.Context(), token, query)
		if err != nil {
			fail(w, r, logg, err, append(notices, danger("We could not load pets right now. Please try again."))...)
			return
		}
		responses.WriteSuccess(w, page, notices...)
	}
}

func Organizations(tokens tokenSource, search searchResolver, svc listingService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			submitted searchstate.Filters
			notices   []types.Notice
		)
		if r.Method == http.MethodPost {
			var body validators.OrganizationSearchForm
			if err := validators.DecodeBody(r, &body); err != nil {
				notices = append(notices, invalidFilters)
			} else {
				submitted = searchstate.Filters{
					"name":     validators.SanitizeString(body.Name, maxFilterLen),
					"location": validators.SanitizeString(body.Location, maxFilterLen),
					"state":    validators.SanitizeString(body.State, maxFilterLen),
					"country":  validators.SanitizeString(body.Country, maxFilterLen),
				}
			}
		}

		query, token, err := listingQuery(r, tokens, search, searchstate.KindOrganizations, submitted, logg)
		if err != nil {
			fail(w, r, logg, err)
			return
		}
		page, err := svc.SearchOrganizations(r.Context(), token, query)
		if err != nil {
			fail(w, r, logg, err, append(notices, danger("We could not load organizations right now. Please try again."))...)
			return
		}
		responses.WriteSuccess(w, page, notices...)
	}
}

func listingQuery(r *http.Request, tokens tokenSource, search searchResolver, kind searchstate.Kind, submitted searchstate.Filters, logg *logger.Logger) (searchstate.Query, string, error) {
	state, err := sessionState(r)
	if err != nil {
		return searchstate.Query{}, "", err
	}
	page, err := validators.ParseQueryInt(r, "page", 1, 1, maxPage)
	if err != nil {
		return searchstate.Query{}, "", err
	}
	query, err := search.Resolve(r.Context(), state.VisitorID(), kind, submitted, page)
	if err != nil {
		return searchstate.Query{}, "", err
	}
	if submitted != nil && logg != nil {
		ctx := logg.WithFields(r.Context(), map[string]any{
			"kind":    string(kind),
			"filters": query.Filters.Describe(),
		})
		logg.Info(ctx, "search.filters_saved")
	}
	token, err := tokens.Ensure(r.Context(), state)
	if err != nil {
		return searchstate.Query{}, "", err
	}
	return query, token, nil
}

func PetDetail(tokens tokenSource, svc listingService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := upstreamToken(r, tokens)
		if err != nil {
			fail(w, r, logg, err)
			return
		}
		pet, err := svc.GetPet(r.Context(), token, chi.URLParam(r, "id"))
		if err != nil {
			fail(w, r, logg, err, detailNotice(err, "pet"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"pet": pet})
	}
}

func OrganizationDetail(tokens tokenSource, svc listingService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := upstreamToken(r, tokens)
		if err != nil {
			fail(w, r, logg, err)
			return
		}
		org, err := svc.GetOrganization(r.Context(), token, chi.URLParam(r, "id"))
		if err != nil {
			fail(w, r, logg, err, detailNotice(err, "organization"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"organization": org})
	}
}

func detailNotice(err error, noun string) types.Notice {
	switch {
	case pkgerrors.HasCode(err, pkgerrors.CodeNotFound):
		return danger("We could not find that " + noun + ".")
	case pkgerrors.HasCode(err, pkgerrors.CodeValidation):
		return danger("That " + noun + " link is not valid.")
	}
	return danger("We could not load that " + noun + " right now. Please try again.")
}
