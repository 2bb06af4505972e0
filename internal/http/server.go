package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/cache"
	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/core"
	"github.com/Lauren-Wilson/mylanai-RobloxTracker/internal/services"
	appweb "github.com/Lauren-Wilson/mylanai-RobloxTracker/web"
)

const (
	balanceCacheKey   = "balance"
	dashboardCacheKey = "dashboard"
)

type Server struct {
	http.Server
	templates *template.Template
	balance   *services.BalanceService
	dashboard *services.DashboardService

	rateLimiter *rateLimiter

	// Read caches. The balance TTL is short so a purchase logged from
	// another device shows up within a minute.
	balanceCache   *cache.LRUCache[core.Money]
	dashboardCache *cache.LRUCache[*services.Dashboard]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, balance *services.BalanceService, dashboard *services.DashboardService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		balance:        balance,
		dashboard:      dashboard,
		rateLimiter:    newRateLimiter(),
		balanceCache:   cache.NewLRUCache[core.Money](4, 30*time.Second),
		dashboardCache: cache.NewLRUCache[*services.Dashboard](4, 2*time.Minute),
		cacheManager:   cache.NewManager(),
	}

	s.cacheManager.Register(s.balanceCache)
	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/purchases", s.withSecurityHeaders(s.handleCreatePurchase))
	mux.HandleFunc("/dashboard", s.withSecurityHeaders(s.handleDashboard))
	// UI partials
	mux.HandleFunc("/ui/jar-balance", s.withSecurityHeaders(s.handleJarBalance))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limit writes only
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

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
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) invalidateCaches() {
	s.balanceCache.Delete(balanceCacheKey)
	s.dashboardCache.Delete(dashboardCacheKey)
}

// getBalance returns the current jar balance, creating the month's ledger row
// on first call after a roll-over.
func (s *Server) getBalance(ctx context.Context) (core.Money, error) {
	if remaining, found := s.balanceCache.Get(balanceCacheKey); found {
		return remaining, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	remaining, err := s.balance.CurrentBalance(cctx)
	if err != nil {
		return core.Money{}, fmt.Errorf("current balance: %w", err)
	}

	s.balanceCache.Set(balanceCacheKey, remaining)
	return remaining, nil
}

func (s *Server) getDashboard(ctx context.Context) (*services.Dashboard, error) {
	if d, found := s.dashboardCache.Get(dashboardCacheKey); found {
		slog.DebugContext(ctx, "Dashboard cache hit")
		return d, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	d, err := s.dashboard.Report(cctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard report: %w", err)
	}

	s.dashboardCache.Set(dashboardCacheKey, d)
	slog.DebugContext(ctx, "Dashboard cached", "months", len(d.Summary))
	return d, nil
}
