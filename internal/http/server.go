package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	applog "planner/internal/log"
	"planner/internal/services"
)

type Server struct {
	http.Server
	planner     *services.PlannerService
	importer    *services.ImportService
	scenarios   *services.ScenarioService
	rateLimiter *rateLimiter
	metrics     *securityMetrics
	logger      *applog.Logger
	requestLog  *applog.StructuredLogger

	// Summaries and projections recompute from full state on every
	// request, so both are cached until the next write.
	summaryCache    *lruCache[services.Summary]
	projectionCache *lruCache[services.ProjectionSeries]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and caches, returning a ready-to-run http.Server.
func NewServer(addr string, planner *services.PlannerService, importer *services.ImportService, scenarios *services.ScenarioService, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()
	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)

	s := &Server{
		Server: http.Server{
			Addr: addr,
			// Every request context carries the server logger as a floor;
			// withMiddleware overrides it with a request-scoped one.
			Handler: applog.Middleware(logger)(mux),
		},
		logger:           logger,
		requestLog:       applog.NewStructuredLogger(logger),
		planner:          planner,
		importer:         importer,
		scenarios:        scenarios,
		rateLimiter:      newRateLimiter(),
		metrics:          &securityMetrics{},
		summaryCache:     newLRUCache[services.Summary](10, cacheTTL),
		projectionCache:  newLRUCache[services.ProjectionSeries](50, cacheTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /health", handleHealth)

	mux.HandleFunc("GET /api/state", s.withMiddleware(s.handleGetState))
	mux.HandleFunc("GET /api/summary", s.withMiddleware(s.handleGetSummary))

	mux.HandleFunc("PUT /api/income", s.withMiddleware(s.handleSaveIncome))
	mux.HandleFunc("DELETE /api/income/{id}", s.withMiddleware(s.handleDeleteIncome))
	mux.HandleFunc("PUT /api/bills", s.withMiddleware(s.handleSaveBill))
	mux.HandleFunc("DELETE /api/bills/{id}", s.withMiddleware(s.handleDeleteBill))
	mux.HandleFunc("PUT /api/assets", s.withMiddleware(s.handleSaveAsset))
	mux.HandleFunc("DELETE /api/assets/{id}", s.withMiddleware(s.handleDeleteAsset))
	mux.HandleFunc("PUT /api/liabilities", s.withMiddleware(s.handleSaveLiability))
	mux.HandleFunc("DELETE /api/liabilities/{id}", s.withMiddleware(s.handleDeleteLiability))
	mux.HandleFunc("PUT /api/goals", s.withMiddleware(s.handleSaveGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.withMiddleware(s.handleDeleteGoal))

	mux.HandleFunc("PUT /api/settings", s.withMiddleware(s.handleSaveSettings))
	mux.HandleFunc("GET /api/costofliving", s.withMiddleware(s.handleGetCostOfLiving))
	mux.HandleFunc("PUT /api/costofliving", s.withMiddleware(s.handleSaveCostOfLiving))

	mux.HandleFunc("GET /api/projection/networth", s.withMiddleware(s.handleProjectNetWorth))
	mux.HandleFunc("GET /api/projection/mortgage/{id}", s.withMiddleware(s.handleProjectMortgage))
	mux.HandleFunc("GET /api/projection/investments", s.withMiddleware(s.handleProjectInvestments))
	mux.HandleFunc("POST /api/scenario", s.withMiddleware(s.handleRunScenario))
	mux.HandleFunc("POST /api/budget/check", s.withMiddleware(s.handleBudgetCheck))

	mux.HandleFunc("POST /api/import/preview", s.withMiddleware(s.handleImportPreview))
	mux.HandleFunc("POST /api/import/recategorize", s.withMiddleware(s.handleImportRecategorize))
	mux.HandleFunc("POST /api/import/commit", s.withMiddleware(s.handleImportCommit))

	mux.HandleFunc("GET /api/transactions", s.withMiddleware(s.handleListTransactions))
	mux.HandleFunc("PATCH /api/transactions/{id}", s.withMiddleware(s.handleRecategorizeTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withMiddleware(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/state/export", s.withMiddleware(s.handleExportState))
	mux.HandleFunc("POST /api/state/import", s.withMiddleware(s.handleImportState))

	mux.HandleFunc("GET /api/snapshots", s.withMiddleware(s.handleListSnapshots))
	mux.HandleFunc("POST /api/snapshots", s.withMiddleware(s.handleRecordSnapshot))

	return s
}

// invalidateComputed drops cached summaries and projections after a write.
func (s *Server) invalidateComputed() {
	s.summaryCache.Clear()
	s.projectionCache.Clear()
}

// startCacheCleanup runs periodic cleanup for both caches
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			summariesCleaned := s.summaryCache.CleanExpired()
			projectionsCleaned := s.projectionCache.CleanExpired()
			if summariesCleaned > 0 || projectionsCleaned > 0 {
				s.logger.Debug("Cache cleanup completed",
					"summary_entries_removed", summariesCleaned,
					"projection_entries_removed", projectionsCleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}

		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}

		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withMiddleware adds security headers, rate limiting, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r, s.metrics)
		requestID := generateRequestID()

		reqLogger := s.logger.With(applog.FieldRequestID, requestID)
		ctx := context.WithValue(r.Context(), applog.LoggerContextKey, reqLogger)
		r = r.WithContext(ctx)

		s.requestLog.LogHTTPStart(ctx, r, clientIP)

		if detectSuspiciousRequest(r, s.metrics) {
			reqLogger.WarnContext(ctx, "Suspicious request detected",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
		}

		// Rate limit mutating requests only; reads are cheap and cached.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP, s.metrics) {
			reqLogger.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		s.requestLog.LogHTTPEnd(ctx, r, rw.statusCode, duration.Milliseconds(), clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
