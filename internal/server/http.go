package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/studyprep/prep-platform/internal/auth"
	"github.com/studyprep/prep-platform/internal/config"
	"github.com/studyprep/prep-platform/internal/logging"
	"github.com/studyprep/prep-platform/internal/question"
	"github.com/studyprep/prep-platform/internal/tag"
)

// NewHTTPServer wires all routes for the API service. Question-bank and tag
// reads require authentication; writes require the admin flag.
func NewHTTPServer(
	cfg *config.App,
	logger zerolog.Logger,
	pool *pgxpool.Pool,
	redisClient *redis.Client,
	authSvc *auth.Service,
	authHandlers *auth.HTTPHandlers,
	questionHandlers *question.HTTPHandlers,
	tagHandlers *tag.HTTPHandlers,
) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.IntoContext(r.Context(), logger)
		if err := pingDependencies(ctx, pool, redisClient); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	// Auth endpoints
	mux.HandleFunc("/v1/auth/register", authHandlers.Register)
	mux.HandleFunc("/v1/auth/login", authHandlers.Login)
	mux.HandleFunc("/v1/auth/refresh", authHandlers.RefreshToken)
	mux.HandleFunc("/v1/oauth/{provider}/start", authHandlers.OAuthStart)
	mux.HandleFunc("/v1/oauth/{provider}/callback", authHandlers.OAuthCallback)

	authMW := auth.Middleware(authSvc, logger)
	authed := func(h http.HandlerFunc) http.Handler {
		return authMW(auth.RequireAuth(h))
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return authMW(auth.RequireAdmin(h))
	}
	// Reads for any authenticated user, writes for admins.
	adminWrites := func(h http.HandlerFunc) http.Handler {
		return authMW(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				auth.RequireAuth(h).ServeHTTP(w, r)
				return
			}
			auth.RequireAdmin(h).ServeHTTP(w, r)
		}))
	}

	mux.Handle("/v1/users/me", authed(authHandlers.GetMe))

	// Question bank
	mux.Handle("/v1/questions", adminWrites(questionHandlers.Collection))
	mux.Handle("/v1/questions/types", authed(questionHandlers.Types))
	mux.Handle("/v1/questions/template", admin(questionHandlers.Template))
	mux.Handle("/v1/questions/export", admin(questionHandlers.Export))
	mux.Handle("/v1/questions/validate", admin(questionHandlers.Validate))
	mux.Handle("/v1/questions/import", admin(questionHandlers.Import))
	mux.Handle("/v1/questions/{id}", adminWrites(questionHandlers.Item))
	mux.Handle("/v1/questions/{id}/toggle", admin(questionHandlers.Toggle))

	// Topic tags
	mux.Handle("/v1/tags", adminWrites(tagHandlers.Collection))
	mux.Handle("/v1/tags/{id}", admin(tagHandlers.Item))

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: corsMiddleware(cfg.CORS, mux),
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redisClient *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return err
	}
	return nil
}

func corsMiddleware(cfg config.CORS, next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowed[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
			w.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))
			w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
			if cfg.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
