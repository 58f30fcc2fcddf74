/*
Package handler provides the HTTP handlers and routing setup for the Khebrah API server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (API and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/SADD1990/kkhebrah/internal/pkg/auth/jwt"
	"github.com/SADD1990/kkhebrah/internal/pkg/limiter"
	"github.com/SADD1990/kkhebrah/internal/pkg/logx"
	"github.com/SADD1990/kkhebrah/internal/pkg/resp"
)

// Rate limits for the routes that reach the generative model. Each model call
// costs real money and latency, so these are tighter than the rest of the API.
const (
	ModelRate  = 0.5
	ModelBurst = 5
	WsRate     = 0.2
	WsBurst    = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	modelLimiter := limiter.NewIPRateLimiter(rate.Limit(ModelRate), ModelBurst)
	wsLimiter := limiter.NewIPRateLimiter(rate.Limit(WsRate), WsBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		logx.Info("Health check endpoint hit")

		data := map[string]string{
			"status":  "ok",
			"service": "Khebrah API",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", HandleLogin(deps))
			auth.Post("/signup", HandleSignup(deps))
			auth.Post("/logout", HandleLogout(deps))
		})

		api.Route("/profile", func(profile chi.Router) {
			profile.Get("/", HandleGetProfile(deps))
			profile.Post("/skills", HandleAddSkill(deps))
			profile.With(modelLimiter.Middleware).Get("/suggestions", HandleProfileSuggestions(deps))
		})

		api.With(modelLimiter.Middleware).Get("/recommendations", HandleRecommendations(deps))
		api.With(modelLimiter.Middleware).Get("/search/{query}", HandleSearch(deps))
		api.Get("/experts/{id}", HandleGetExpert(deps))

		api.Route("/messages", func(messages chi.Router) {
			messages.Get("/", HandleListMessages(deps))
			messages.With(modelLimiter.Middleware).Post("/", HandleSendMessage(deps))
		})

		api.With(modelLimiter.Middleware).Post("/assistant/chat", HandleAssistantChat(deps))
	})

	r.Get("/ws/messages", HandleWebSocket(wsUpgrader, wsLimiter, deps))

	return r
}
