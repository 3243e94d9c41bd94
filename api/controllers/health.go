package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/angelmondragon/pawprint/api/responses"
	"github.com/angelmondragon/pawprint/pkg/config"
	pkgerrors "github.com/angelmondragon/pawprint/pkg/errors"
	"github.com/angelmondragon/pawprint/pkg/logger"
)

const readyTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies names the backends checked by the readiness probe.
type Dependencies map[string]pinger

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Pawprint-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every dependency and reports the ones that failed.
func HealthReady(cfg *config.Config, deps Dependencies, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Pawprint-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		names := make([]string, 0, len(deps))
		for name := range deps {
			names = append(names, name)
		}
		sort.Strings(names)

		down := map[string]string{}
		for _, name := range names {
			if err := deps[name].Ping(ctx); err != nil {
				logg.Error(logg.WithField(ctx, "dependency", name), "health.dependency_down", err)
				down[name] = "unreachable"
			}
		}
		if len(down) > 0 {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(down))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
