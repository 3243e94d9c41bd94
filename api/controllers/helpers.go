package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/pawprint/api/middleware"
	"github.com/angelmondragon/pawprint/api/responses"
	"github.com/angelmondragon/pawprint/internal/credentials"
	"github.com/angelmondragon/pawprint/internal/users"
	"github.com/angelmondragon/pawprint/pkg/auth/session"
	pkgerrors "github.com/angelmondragon/pawprint/pkg/errors"
	"github.com/angelmondragon/pawprint/pkg/logger"
	"github.com/angelmondragon/pawprint/pkg/petfinder"
	"github.com/angelmondragon/pawprint/pkg/types"
)

type tokenSource interface {
	Issue(ctx context.Context) (string, error)
	Ensure(ctx context.Context, holder credentials.TokenHolder) (string, error)
}

func sessionState(r *http.Request) (*session.State, error) {
	state := middleware.SessionFromContext(r.Context())
	if state == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session unavailable")
	}
	return state, nil
}

func redirect(w http.ResponseWriter, location, level, message string) {
	if message == "" {
		responses.WriteRedirect(w, location)
		return
	}
	responses.WriteRedirect(w, location, types.Notice{Level: level, Message: message})
}

func fail(w http.ResponseWriter, r *http.Request, logg *logger.Logger, err error, notices ...types.Notice) {
	ctx := r.Context()
	if httpErr, ok := petfinder.AsHTTPError(err); ok && logg != nil {
		ctx = logg.WithUpstream(ctx, httpErr.Endpoint)
	}
	responses.WriteError(ctx, logg, w, err, notices...)
}

func upstreamToken(r *http.Request, tokens tokenSource) (string, error) {
	state, err := sessionState(r)
	if err != nil {
		return "", err
	}
	return tokens.Ensure(r.Context(), state)
}

func requestUser(r *http.Request) (*users.UserDTO, error) {
	user := users.FromModel(middleware.UserFromContext(r.Context()))
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	return user, nil
}

func danger(message string) types.Notice {
	return types.Notice{Level: types.NoticeDanger, Message: message}
}
