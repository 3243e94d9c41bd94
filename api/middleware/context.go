package middleware

import (
	"context"

	"github.com/angelmondragon/pawprint/pkg/auth/session"
	"github.com/angelmondragon/pawprint/pkg/db/models"
)

type contextKey string

const (
	ctxSession contextKey = "session"
	ctxUser    contextKey = "user"
)

// SessionFromContext returns the visitor session loaded by the Session middleware.
func SessionFromContext(ctx context.Context) *session.State {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxSession).(*session.State); ok {
		return v
	}
	return nil
}

// WithSession injects the visitor session into the context.
func WithSession(ctx context.Context, state *session.State) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, state)
}

// UserFromContext returns the authenticated user, or nil for anonymous visitors.
func UserFromContext(ctx context.Context) *models.User {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxUser).(*models.User); ok {
		return v
	}
	return nil
}

// WithUser injects the authenticated user into the context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUser, user)
}
