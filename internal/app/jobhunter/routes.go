// Package jobhunter собирает HTTP-приложение сервиса пробного периода.
package jobhunter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/jobhunter/internal/config"
	"github.com/magabrotheeeer/jobhunter/internal/http/handlers/health"
	"github.com/magabrotheeeer/jobhunter/internal/http/handlers/home"
	"github.com/magabrotheeeer/jobhunter/internal/http/handlers/run"
	"github.com/magabrotheeeer/jobhunter/internal/http/handlers/signup"
	"github.com/magabrotheeeer/jobhunter/internal/http/handlers/stats"
	"github.com/magabrotheeeer/jobhunter/internal/http/handlers/status"
	"github.com/magabrotheeeer/jobhunter/internal/http/handlers/upgrade"
	"github.com/magabrotheeeer/jobhunter/internal/http/middlewarectx"
	"github.com/magabrotheeeer/jobhunter/internal/http/response"
	"github.com/magabrotheeeer/jobhunter/internal/lib/metrics"
)

// APIPrefix задаёт префикс всех маршрутов API.
const APIPrefix = "/api/v1"

// TrialService объединяет операции, которые нужны обработчикам.
type TrialService interface {
	signup.Service
	run.Service
	upgrade.Service
	status.Service
	stats.Service
}

// Deps собирает зависимости маршрутов.
type Deps struct {
	Trials   TrialService
	Store    health.Pinger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg config.HTTPServer, deps Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.CORS(cfg.AllowedOrigins),
		middlewarectx.Metrics(deps.Metrics),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("Endpoint not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
		render.JSON(w, r, response.Error("Method not allowed"))
	})

	r.Get("/", home.Handler(APIPrefix))

	r.Route(APIPrefix, func(r chi.Router) {
		r.Get("/health", health.New(logger, deps.Store).ServeHTTP)

		r.Group(func(r chi.Router) {
			if cfg.RateLimit > 0 {
				r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RateLimit, cfg.RateBurst))
			}
			r.Post("/signup", signup.New(logger, deps.Trials).ServeHTTP)
			r.Get("/run", run.New(logger, deps.Trials).ServeHTTP)
			r.Get("/upgrade", upgrade.New(logger, deps.Trials).ServeHTTP)
			r.Get("/status", status.New(logger, deps.Trials).ServeHTTP)
			r.Get("/stats", stats.New(logger, deps.Trials).ServeHTTP)
		})
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
