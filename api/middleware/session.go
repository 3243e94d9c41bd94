package middleware

import (
	"net/http"

	"github.com/angelmondragon/pawprint/api/responses"
	"github.com/angelmondragon/pawprint/pkg/auth/session"
	pkgerrors "github.com/angelmondragon/pawprint/pkg/errors"
	"github.com/angelmondragon/pawprint/pkg/logger"
)

type sessionLoader interface {
	Load(r *http.Request) (*session.State, error)
}

// Session loads the visitor cookie into the request context and writes it back,
// when changed, just before the response headers go out.
func Session(manager sessionLoader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			state, err := manager.Load(r)
			if err != nil && logg != nil {
				logg.Warn(logg.WithField(ctx, "reason", err.Error()), "session.reset")
			}
			if state == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session unavailable"))
				return
			}

			visitorID := state.VisitorID()
			ctx = WithSession(ctx, state)
			if logg != nil {
				ctx = logg.WithVisitorID(ctx, visitorID)
				if state.IsNew() {
					logg.Info(ctx, "session.started")
				}
			}
			r = r.WithContext(ctx)

			sw := &sessionWriter{ResponseWriter: w, req: r, state: state, logg: logg}
			next.ServeHTTP(sw, r)
			sw.commit()
		})
	}
}

type sessionWriter struct {
	http.ResponseWriter
	req       *http.Request
	state     *session.State
	logg      *logger.Logger
	committed bool
}

func (w *sessionWriter) commit() {
	if w.committed {
		return
	}
	w.committed = true
	if !w.state.Dirty() {
		return
	}
	if err := w.state.Save(w.req, w.ResponseWriter); err != nil && w.logg != nil {
		w.logg.Error(w.req.Context(), "session.save_failed", err)
	}
}

func (w *sessionWriter) WriteHeader(status int) {
	w.commit()
	w.ResponseWriter.WriteHeader(status)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
