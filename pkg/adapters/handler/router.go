package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/config"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/ports"
)

const requestTimeout = 60 * time.Second

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, logger zerolog.Logger, collections ports.CollectionService, settings ports.SettingsService) http.Handler {
	lh := NewLiveHandler(collections, cfg.FrontendURL)
	ch := NewCollectionHandler(collections, lh)
	sh := NewSettingsHandler(settings)
	authHandler := NewAuthHandler(cfg, logger)
	mw := NewMiddleware(cfg)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.RemoteAddrHandler("ip"))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)

	// Public Routes
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"message": "ok"})
	})
	r.Get("/auth/google/login", authHandler.Login)
	r.Get("/auth/google/callback", authHandler.Callback)
	r.Get("/auth/logout", authHandler.Logout)

	// Protected Routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.AuthMiddleware)
		r.Use(timeoutUnlessUpgrade(requestTimeout))

		r.Get("/me", authHandler.Me)
		r.Get("/content-types", ch.ContentTypes)
		r.Mount("/content", ch.Routes())
		r.Mount("/settings", sh.Routes())
	})

	return r
}

// timeoutUnlessUpgrade applies middleware.Timeout to everything but websocket
// handshakes, whose connections stay open.
func timeoutUnlessUpgrade(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		timed := middleware.Timeout(d)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if websocket.IsWebSocketUpgrade(r) {
				next.ServeHTTP(w, r)
				return
			}
			timed.ServeHTTP(w, r)
		})
	}
}
