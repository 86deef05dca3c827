package api

import (
	"log"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"sync"
	"time"

	"brawl/internal/game"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics with bounded cardinality (labels are archetypes, slots and route
// patterns, never raw input)
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "brawl_tick_duration_seconds",
		Help:    "Time spent in one simulation tick",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.0167},
	})

	ticksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brawl_ticks_total",
		Help: "Simulation ticks executed",
	})

	hitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brawl_hits_total",
		Help: "Connected hits by attacker archetype and outcome",
	}, []string{"archetype", "outcome"}) // outcome: "clean", "blocked", "absorbed"

	damageTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brawl_damage_total",
		Help: "HP removed by attacker archetype",
	}, []string{"archetype"})

	defeatsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brawl_defeats_total",
		Help: "Matches won by archetype",
	}, []string{"archetype"})

	particleCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "brawl_snapshot_particles",
		Help: "Particles in the latest snapshot",
	})

	// Event log metrics
	eventLogTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brawl_event_log_total",
		Help: "Total combat events logged",
	})

	eventLogDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brawl_event_log_dropped_total",
		Help: "Events dropped due to rate limiting or buffer full",
	})

	// DoS detection metrics - use ONLY bounded label values
	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brawl_connection_rejected_total",
		Help: "Requests rejected by rate limiter, origin or token check",
	}, []string{"reason"})

	// HTTP metrics with bounded labels
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "brawl_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"}) // endpoint is the route pattern

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brawl_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	// WebSocket metrics
	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "brawl_websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brawl_websocket_messages_total",
		Help: "Total WebSocket broadcasts",
	})
)

// ObservabilityConfig configures the debug server
type ObservabilityConfig struct {
	Enabled       bool
	ListenAddr    string // Loopback only unless ALLOW_DEBUG_EXTERNAL=true
	BasicAuthUser string // Optional basic auth
	BasicAuthPass string
}

// DefaultObservabilityConfig returns safe defaults
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060",
	}
}

// StartDebugServer starts the pprof and /metrics listener in the background.
func StartDebugServer(cfg ObservabilityConfig) error {
	if !cfg.Enabled {
		log.Println("📊 Debug server disabled")
		return nil
	}

	if !isLoopback(cfg.ListenAddr) && os.Getenv("ALLOW_DEBUG_EXTERNAL") != "true" {
		log.Printf("⚠️ Debug server forced to localhost (requested %s)", cfg.ListenAddr)
		cfg.ListenAddr = DefaultObservabilityConfig().ListenAddr
	}

	mux := http.NewServeMux()

	// pprof endpoints for profiling
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	var handler http.Handler = mux
	if cfg.BasicAuthUser != "" {
		handler = basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass, mux)
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return err
	}

	go func() {
		log.Printf("📊 Debug server starting on %s", ln.Addr())
		log.Printf("   - pprof:   http://%s/debug/pprof/", ln.Addr())
		log.Printf("   - metrics: http://%s/metrics", ln.Addr())

		if err := http.Serve(ln, handler); err != nil {
			log.Printf("⚠️ Debug server error: %v", err)
		}
	}()

	return nil
}

func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// basicAuthMiddleware adds basic authentication to the handler
func basicAuthMiddleware(user, pass string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RecordTick records tick timing for metrics
func RecordTick(duration time.Duration) {
	tickDuration.Observe(duration.Seconds())
	ticksTotal.Inc()
}

// RecordHit records a connected hit under the attacker's archetype.
func RecordHit(ev game.CombatEvent) {
	archetype := ev.Archetype.String()
	outcome := "clean"
	switch {
	case ev.Blocked:
		outcome = "blocked"
	case ev.Absorbed > 0:
		outcome = "absorbed"
	}
	hitsTotal.WithLabelValues(archetype, outcome).Inc()
	damageTotal.WithLabelValues(archetype).Add(ev.FinalDamage)
}

// RecordDefeat counts a match won by archetype.
func RecordDefeat(archetype string) {
	defeatsTotal.WithLabelValues(archetype).Inc()
}

// UpdateParticleCount updates the particle gauge
func UpdateParticleCount(count int) {
	particleCount.Set(float64(count))
}

// eventLogSeen remembers the last absolute counters so the Prometheus
// counters only ever receive deltas.
var eventLogSeen struct {
	sync.Mutex
	total, dropped uint64
}

// UpdateEventLogStats feeds absolute journal counters into the metrics.
func UpdateEventLogStats(stats game.EventLogStats) {
	eventLogSeen.Lock()
	defer eventLogSeen.Unlock()

	if stats.Total > eventLogSeen.total {
		eventLogTotal.Add(float64(stats.Total - eventLogSeen.total))
	}
	if stats.Dropped > eventLogSeen.dropped {
		eventLogDropped.Add(float64(stats.Dropped - eventLogSeen.dropped))
	}
	eventLogSeen.total = stats.Total
	eventLogSeen.dropped = stats.Dropped
}

// RecordConnectionRejected increments the rejection counter
// reason must be one of: "rate_limit", "origin", "invalid", "auth",
// "ws_total_limit", "ws_ip_limit"
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// RecordRequest records HTTP request metrics
func RecordRequest(method, endpoint string, status int, duration time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	requestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// UpdateWSConnections updates WebSocket connection count
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// IncrementWSMessages increments WebSocket message counter
func IncrementWSMessages() {
	wsMessagesTotal.Inc()
}
