package api

import (
	"io"
	"net/http"
	"time"

	"brawl/internal/config"
	"brawl/internal/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// EngineInterface defines the engine methods used by the API.
// This interface enables mocking for tests without spinning up the game loop.
type EngineInterface interface {
	// GetSnapshot returns a copy of the latest snapshot; ok is false before
	// the first match starts
	GetSnapshot() (game.MatchSnapshot, bool)
	// StartMatch replaces the current match
	StartMatch(p1, p2 game.Archetype) error
	// Restart starts a new match with the same archetypes
	Restart() error
	// SubmitInput replaces the held input of a fighter slot
	SubmitInput(slot int, in game.Input) error
	// Roster returns base stats keyed by archetype
	Roster() map[string]config.FighterStats
	// EventLogStats returns combat journal counters
	EventLogStats() game.EventLogStats
}

// FrameRenderer rasterizes snapshots for GET /api/match/frame.png.
type FrameRenderer interface {
	EncodePNG(w io.Writer, snap *game.MatchSnapshot) error
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Engine: mockEngine,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Engine is the combat engine (required)
	Engine EngineInterface

	// Renderer draws frames. If nil, the frame endpoint returns 501.
	Renderer FrameRenderer

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is only used if RateLimiter is nil.
	// If both are nil, uses DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// Inputs throttles input posts per slot. If nil, DefaultInputLimit
	// buckets are created.
	Inputs *InputLimiter

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, localhost on any port is allowed.
	CORSOrigins []string

	// AdminToken guards match start and restart when set.
	AdminToken string

	// DisableLogging disables the request logger middleware (useful for benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler dependencies.
type routerHandlers struct {
	engine   EngineInterface
	renderer FrameRenderer
	inputs   *InputLimiter
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// It has no side effects beyond creating the rate limiter: no listeners
// are opened, so it is safe to use with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - Order matters!
	r.Use(middleware.RealIP)
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins(cfg.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	inputs := cfg.Inputs
	if inputs == nil {
		inputs = NewInputLimiter(DefaultInputLimit)
	}
	h := &routerHandlers{
		engine:   cfg.Engine,
		renderer: cfg.Renderer,
		inputs:   inputs,
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/roster", h.handleGetRoster)
		r.Get("/stats", h.handleGetStats)

		r.Route("/match", func(r chi.Router) {
			r.Get("/", h.handleGetMatch)
			r.Get("/frame.png", h.handleGetFrame)
			r.Post("/input/{slot}", h.handleSubmitInput)

			// Match control
			r.Group(func(r chi.Router) {
				r.Use(RequireToken(cfg.AdminToken))
				r.Post("/start", h.handleStartMatch)
				r.Post("/restart", h.handleRestart)
			})
		})
	})

	return r
}

// metricsMiddleware records latency per route pattern, never per raw path.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				endpoint = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		RecordRequest(r.Method, endpoint, status, time.Since(start))
	})
}

func corsOrigins(origins []string) []string {
	if len(origins) > 0 {
		return origins
	}
	return []string{
		"http://localhost:*",
		"http://127.0.0.1:*",
	}
}
