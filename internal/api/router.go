package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/eventloom/server/internal/api/handlers"
	"github.com/eventloom/server/internal/api/middleware"
	"github.com/eventloom/server/internal/audit"
	"github.com/eventloom/server/internal/auth"
	"github.com/eventloom/server/internal/clerk"
	"github.com/eventloom/server/internal/config"
	"github.com/eventloom/server/internal/domain/events"
	"github.com/eventloom/server/internal/domain/orders"
	"github.com/eventloom/server/internal/domain/users"
	"github.com/eventloom/server/internal/email"
	"github.com/eventloom/server/internal/metrics"
	"github.com/eventloom/server/internal/storage"
	"github.com/eventloom/server/internal/webhook"
)

// BuildInfo identifies the running binary on health endpoints.
type BuildInfo struct {
	Version   string
	GitCommit string
}

// NewRouter wires storage, domain services, and handlers into the HTTP
// surface. The session verifier may be nil, in which case every request is
// treated as anonymous and only public routes are reachable.
func NewRouter(cfg config.Config, logger zerolog.Logger, store storage.Repository, verifier auth.SessionVerifier, build BuildInfo) http.Handler {
	var linker users.MetadataLinker
	if cfg.Clerk.SecretKey != "" {
		linker = clerk.NewClient(cfg.Clerk.SecretKey)
	} else {
		logger.Warn().Msg("clerk secret key not set, metadata linking disabled")
	}

	mailer := email.NewService(cfg.Email.ResendAPIKey, cfg.Email.From, logger)

	usersService := users.NewService(store.Users(), linker, mailer, logger)
	eventsService := events.NewService(store.Events())
	ordersService := orders.NewService(store.Orders(), eventsService)

	var webhookVerifier *webhook.Verifier
	if cfg.Clerk.WebhookSecret != "" {
		v, err := webhook.NewVerifier(cfg.Clerk.WebhookSecret)
		if err != nil {
			logger.Error().Err(err).Msg("invalid webhook secret, deliveries will fail closed")
		} else {
			webhookVerifier = v
		}
	} else {
		logger.Warn().Msg("webhook secret not set, deliveries will fail closed")
	}

	env := cfg.Environment
	webhookHandler := handlers.NewWebhookHandler(webhookVerifier, usersService, audit.NewTrail(logger))
	eventsHandler := handlers.NewEventsHandler(eventsService, usersService, env)
	ordersHandler := handlers.NewOrdersHandler(ordersService, usersService, env)
	usersHandler := handlers.NewUsersHandler(usersService, ordersService, env)
	health := handlers.NewHealthChecker(store, build.Version, build.GitCommit)

	mux := http.NewServeMux()
	mux.Handle("/healthz", http.HandlerFunc(health.Liveness))
	mux.Handle("/readyz", http.HandlerFunc(health.Readiness))
	mux.Handle("/metrics", metrics.Handler())

	mux.Handle("/api/webhook/clerk", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(webhookHandler.HandleClerk),
	}))

	mux.Handle("/api/events", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(eventsHandler.List),
		http.MethodPost: http.HandlerFunc(eventsHandler.Create),
	}))
	mux.Handle("/api/events/{id}", methodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(eventsHandler.Get),
		http.MethodDelete: http.HandlerFunc(eventsHandler.Delete),
	}))
	mux.Handle("/api/orders", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(ordersHandler.ListByEvent),
		http.MethodPost: http.HandlerFunc(ordersHandler.Create),
	}))

	mux.Handle("/api/users/me", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(usersHandler.Me),
	}))
	mux.Handle("/api/users/me/orders", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(usersHandler.MyOrders),
	}))

	policy := middleware.NewAccessPolicy(verifier, env)

	var handler http.Handler = mux
	handler = policy.Handler(handler)
	handler = middleware.RateLimit(cfg.RateLimit)(handler)
	handler = middleware.RequestSize(middleware.DefaultMaxBodySize)(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
