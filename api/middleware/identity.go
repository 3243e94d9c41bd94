package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/pawprint/api/responses"
	"github.com/angelmondragon/pawprint/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pawprint/pkg/errors"
	"github.com/angelmondragon/pawprint/pkg/logger"
	"github.com/angelmondragon/pawprint/pkg/types"
)

type userResolver interface {
	User(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Identity resolves the session's user id to a user. A user id that no longer
// resolves is dropped from the session and the visitor continues anonymously.
func Identity(users userResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			state := SessionFromContext(ctx)
			if state == nil {
				next.ServeHTTP(w, r)
				return
			}
			userID, ok := state.UserID()
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.User(ctx, userID)
			switch {
			case err == nil:
				ctx = WithUser(ctx, user)
				if logg != nil {
					ctx = logg.WithUserID(ctx, user.ID.String())
				}
			case pkgerrors.HasCode(err, pkgerrors.CodeNotFound):
				state.ClearUser()
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "stale_user_id", userID.String()), "identity.stale_user")
				}
			default:
				responses.WriteError(ctx, logg, w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser redirects anonymous visitors to the login page with notice.
func RequireUser(notice string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserFromContext(r.Context()) != nil {
				next.ServeHTTP(w, r)
				return
			}
			responses.WriteRedirect(w, "/login", types.Notice{Level: types.NoticeDanger, Message: notice})
		})
	}
}
