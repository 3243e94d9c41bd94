package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/pawprint/api/controllers"
	"github.com/angelmondragon/pawprint/api/middleware"
	"github.com/angelmondragon/pawprint/api/responses"
	"github.com/angelmondragon/pawprint/internal/auth"
	"github.com/angelmondragon/pawprint/internal/credentials"
	"github.com/angelmondragon/pawprint/internal/listings"
	"github.com/angelmondragon/pawprint/internal/relationships"
	"github.com/angelmondragon/pawprint/internal/searchstate"
	"github.com/angelmondragon/pawprint/pkg/auth/session"
	"github.com/angelmondragon/pawprint/pkg/config"
	pkgerrors "github.com/angelmondragon/pawprint/pkg/errors"
	"github.com/angelmondragon/pawprint/pkg/logger"
	"github.com/angelmondragon/pawprint/pkg/metrics"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Params carries everything the router wires into controllers.
type Params struct {
	Config        *config.Config
	Logger        *logger.Logger
	Sessions      *session.Manager
	Accounts      auth.Service
	Credentials   *credentials.Service
	Search        *searchstate.Service
	Listings      *listings.Service
	Relationships *relationships.Service
	RateLimiter   rateLimiter
	HTTPMetrics   *metrics.HTTPMetrics
	Gatherer      prometheus.Gatherer
	Readiness     controllers.Dependencies
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginIdentityLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupIdentityLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.Readiness, logg))
	})
	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.Session(p.Sessions, logg),
			middleware.Identity(p.Accounts, logg),
		)

		r.Get("/", controllers.Root(p.Credentials, logg))
		r.Get("/home", controllers.Home())
		r.Post("/search", controllers.Search(logg))

		r.Get("/signup", controllers.SignupForm())
		r.With(middleware.AuthRateLimit(signupPolicy, p.RateLimiter, logg)).Post("/signup", controllers.Signup(p.Accounts, logg))
		r.Get("/login", controllers.LoginForm())
		r.With(middleware.AuthRateLimit(loginPolicy, p.RateLimiter, logg)).Post("/login", controllers.Login(p.Accounts, logg))
		r.Get("/logout", controllers.Logout(logg))

		r.Group(func(r chi.Router) {
			r.Use(browseLimit(cfg.BrowseRateLimit, logg))

			pets := controllers.Pets(p.Credentials, p.Search, p.Listings, logg)
			r.Get("/pets", pets)
			r.Post("/pets", pets)
			r.Get("/pets/{id}", controllers.PetDetail(p.Credentials, p.Listings, logg))

			organizations := controllers.Organizations(p.Credentials, p.Search, p.Listings, logg)
			r.Get("/organizations", organizations)
			r.Post("/organizations", organizations)
			r.Get("/organizations/{id}", controllers.OrganizationDetail(p.Credentials, p.Listings, logg))
		})

		profileGate := middleware.RequireUser("Please log in to view your profile!")
		r.With(profileGate).Get("/profile", controllers.Profile(logg))
		r.With(profileGate).Post("/profile", controllers.UpdateProfile(p.Accounts, logg))

		r.With(middleware.RequireUser("Please log in to view your bookmarks!")).Get("/bookmarks", controllers.Bookmarks(p.Relationships, logg))
		r.With(middleware.RequireUser("Please log in to view the organizations you follow!")).Get("/follows", controllers.Follows(p.Relationships, logg))
		r.With(middleware.RequireUser("Please log in to bookmark a pet!")).Post("/pets/bookmark/new", controllers.BookmarkPet(p.Credentials, p.Relationships, logg))
		r.With(middleware.RequireUser("Please log in to follow an organization!")).Post("/organizations/follow/new", controllers.FollowOrganization(p.Credentials, p.Relationships, logg))
		r.With(middleware.RequireUser("Please log in to manage your bookmarks!")).Post("/bookmarks/remove", controllers.RemoveBookmark(p.Relationships, logg))
		r.With(middleware.RequireUser("Please log in to manage your follows!")).Post("/follows/remove", controllers.RemoveFollow(p.Relationships, logg))
	})

	return r
}

// browseLimit throttles routes that call the upstream API on every request.
func browseLimit(cfg config.BrowseRateLimitConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	if cfg.Requests <= 0 || cfg.Window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests, slow down"))
		}),
	)
}
