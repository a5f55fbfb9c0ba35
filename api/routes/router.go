package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vegthaliclub/catering-backend/api/controllers"
	"github.com/vegthaliclub/catering-backend/api/middleware"
	"github.com/vegthaliclub/catering-backend/internal/catalog"
	"github.com/vegthaliclub/catering-backend/internal/configurator"
	"github.com/vegthaliclub/catering-backend/pkg/config"
	"github.com/vegthaliclub/catering-backend/pkg/db"
	"github.com/vegthaliclub/catering-backend/pkg/logger"
	"github.com/vegthaliclub/catering-backend/pkg/redis"
)

// Params carries the router's dependencies. DB, Redis and Gatherer are optional.
type Params struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        *redis.Client
	Gatherer     prometheus.Gatherer
	Catalog      *catalog.Catalog
	Configurator configurator.Service
	Relay        controllers.Relayer
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)

	deps := map[string]controllers.Pinger{}
	if p.DB != nil {
		deps["database"] = p.DB
	}
	if p.Redis != nil {
		deps["redis"] = p.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if p.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/api/data", controllers.SiteContent())

	r.Group(func(r chi.Router) {
		relayPolicy := middleware.NewRateLimitPolicy("relay", cfg.Relay.RateWindow, cfg.Relay.RateLimit, cfg.Relay.RateLimit)
		if p.Redis != nil {
			r.Use(middleware.Idempotency(p.Redis, cfg.Relay.IdempotencyTTL, logg))
			r.Use(middleware.RateLimit(relayPolicy, p.Redis, logg))
		} else {
			r.Use(middleware.Throttle(cfg.Relay.RateLimit, cfg.Relay.RateWindow, logg))
		}
		r.Post("/api/send-catering-email", controllers.SendCateringEmail(p.Relay, logg))
		r.Post("/api/contact", controllers.SendContact(p.Relay, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Throttle(cfg.HTTP.RequestLimit, cfg.HTTP.RequestWindow, logg))
		r.Get("/packages", controllers.ListPackages(p.Catalog))

		r.Route("/order", func(r chi.Router) {
			r.Use(middleware.ClientID(cfg.HTTP.CookieSecure, logg))
			svc := p.Configurator
			r.Get("/", controllers.OrderCurrent(svc, logg))
			r.Post("/", controllers.OrderOpen(svc, logg))
			r.Delete("/", controllers.OrderClose(svc, logg))
			r.Post("/steps/{step}/toggle", controllers.OrderToggle(svc, logg))
			r.Post("/steps/{step}/bread", controllers.OrderSelectBread(svc, logg))
			r.Put("/weight", controllers.OrderSetWeight(svc, logg))
			r.Put("/party-size", controllers.OrderSetPartySize(svc, logg))
			r.Put("/add-on", controllers.OrderSetAddOn(svc, logg))
			r.Put("/contact", controllers.OrderUpdateContact(svc, logg))
			r.Post("/next", controllers.OrderNext(svc, logg))
			r.Post("/back", controllers.OrderBack(svc, logg))
			r.Post("/checkout", controllers.OrderCheckout(svc, logg))
			r.Post("/submit", controllers.OrderSubmit(svc, logg))
		})
	})

	return r
}
