package controllers

import (
	"net/http"

	"github.com/angelmondragon/pawprint/api/middleware"
	"github.com/angelmondragon/pawprint/api/responses"
	"github.com/angelmondragon/pawprint/api/validators"
	"github.com/angelmondragon/pawprint/internal/searchstate"
	"github.com/angelmondragon/pawprint/internal/users"
	"github.com/angelmondragon/pawprint/pkg/logger"
)

// Root obtains a fresh upstream token for the visitor and sends them home.
func Root(tokens tokenSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := sessionState(r)
		if err != nil {
			fail(w, r, logg, err)
			return
		}
		token, err := tokens.Issue(r.Context())
		if err != nil {
			fail(w, r, logg, err)
			return
		}
		state.SetAccessToken(token)
		redirect(w, "/home", "", "")
	}
}

type homeView struct {
	User          *users.UserDTO           `json:"user"`
	SearchTargets []string                 `json:"search_targets"`
	SearchForm    []validators.FieldSchema `json:"search_form"`
	Filters       map[string][]string      `json:"filters"`
}

func Home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, homeView{
			User:          users.FromModel(middleware.UserFromContext(r.Context())),
			SearchTargets: []string{string(searchstate.KindPets), string(searchstate.KindOrganizations)},
			SearchForm:    validators.Schema(validators.SearchForm{}),
			Filters: map[string][]string{
				string(searchstate.KindPets):          searchstate.Fields(searchstate.KindPets),
				string(searchstate.KindOrganizations): searchstate.Fields(searchstate.KindOrganizations),
			},
		})
	}
}

// Search sends the home page search form to the chosen listing.
func Search(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body validators.SearchForm
		if err := validators.DecodeBody(r, &body); err != nil {
			fail(w, r, logg, err, danger("Choose pets or organizations to search."))
			return
		}
		redirect(w, "/"+body.SearchTarget, "", "")
	}
}
