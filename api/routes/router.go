package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bakhasuleiman/wesavefood-backend/api/controllers"
	"github.com/bakhasuleiman/wesavefood-backend/api/middleware"
	"github.com/bakhasuleiman/wesavefood-backend/internal/auth"
	"github.com/bakhasuleiman/wesavefood-backend/internal/products"
	"github.com/bakhasuleiman/wesavefood-backend/internal/reservations"
	"github.com/bakhasuleiman/wesavefood-backend/internal/stats"
	"github.com/bakhasuleiman/wesavefood-backend/internal/stores"
	"github.com/bakhasuleiman/wesavefood-backend/internal/users"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/config"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/db"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/enums"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/logger"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/redis"
)

// RouterParams collects everything the HTTP surface depends on.
type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           *db.Client
	Redis        *redis.Client
	Metrics      prometheus.Gatherer
	Users        *users.Repository
	AuthService  auth.Service
	UserService  users.Service
	StoreService stores.Service
	Products     products.Service
	Reservations reservations.Service
	Stats        stats.Service
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Session(middleware.SessionParams{
			CookieName: cfg.Session.CookieName,
			Users:      params.Users,
			Logger:     logg,
		}),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginIdentityLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterIdentityLimit,
	)

	// Rate limiting is optional: without redis the auth surfaces run open.
	rateLimit := func(policy middleware.AuthRateLimitPolicy) func(http.Handler) http.Handler {
		if params.Redis == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return middleware.AuthRateLimit(policy, params.Redis, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, params.DB, logg))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(rateLimit(loginPolicy)).
				Post("/telegram", controllers.AuthTelegramLogin(params.AuthService, cfg.Session, logg))
			r.With(rateLimit(loginPolicy)).
				Post("/login", controllers.AuthLogin(params.AuthService, cfg.Session, logg))
			r.With(rateLimit(registerPolicy)).
				Post("/register", controllers.RegisterCustomer(params.AuthService, cfg.Session, logg))
			r.With(rateLimit(registerPolicy)).
				Post("/register/store", controllers.RegisterStore(params.AuthService, cfg.Session, logg))
			r.Post("/logout", controllers.AuthLogout(cfg.Session))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(logg))
				r.Get("/me", controllers.AuthMe(params.UserService, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.Catalog(params.Products, logg))
			r.Get("/{id}", controllers.CatalogProduct(params.Products, logg))
		})

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", controllers.Stores(params.StoreService, logg))
			r.Get("/nearby", controllers.NearbyStores(params.StoreService, logg))
			r.Get("/{id}", controllers.StoreByID(params.StoreService, logg))
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(middleware.RequireAuth(logg))
			r.Get("/", controllers.AuthMe(params.UserService, logg))
			r.Patch("/", controllers.UpdateProfile(params.UserService, logg))

			r.Route("/store", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleStore, logg))
				r.Get("/", controllers.StoreProfile(params.StoreService, logg))
				r.Patch("/", controllers.UpdateStoreProfile(params.StoreService, logg))
				r.Get("/products", controllers.MyProducts(params.Products, logg))
				r.Post("/products", controllers.CreateProduct(params.Products, logg))
				r.Patch("/products/{id}", controllers.UpdateProduct(params.Products, logg))
				r.Delete("/products/{id}", controllers.DeleteProduct(params.Products, logg))
				r.Get("/reservations", controllers.StoreReservations(params.Reservations, logg))
				r.Get("/stats", controllers.StoreStats(params.Stats, logg))
			})
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Use(middleware.RequireAuth(logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleCustomer, logg))
				r.Get("/", controllers.MyReservations(params.Reservations, logg))
				r.Post("/", controllers.Reserve(params.Reservations, logg))
				r.Post("/{id}/cancel", controllers.CancelReservation(params.Reservations, logg))
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleStore, logg))
				r.Post("/{id}/complete", controllers.CompleteReservation(params.Reservations, logg))
			})
		})
	})

	return r
}
