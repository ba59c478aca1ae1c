// Package http exposes the dashboard as a JSON API. Mutating responses carry
// an HX-Trigger header naming the changed collection so HTMX frontends can
// re-fetch without polling.
package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"bkcopilot/internal/log"
	"bkcopilot/internal/middleware/ratelimit"
	"bkcopilot/internal/middleware/security"
	"bkcopilot/internal/middleware/trace"
	"bkcopilot/internal/services"
)

type Server struct {
	http.Server

	services *services.Services
	validate *validator.Validate

	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once
}

// Options tunes the HTTP layer.
type Options struct {
	RateLimitPerMinute int
	Logger             *log.Logger
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svcs *services.Services, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		services: svcs,
		validate: validator.New(),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)

	mux.HandleFunc("GET /api/clients", s.handleListClients)
	mux.HandleFunc("POST /api/clients", s.handleCreateClient)
	mux.HandleFunc("GET /api/clients/{id}", s.handleGetClient)
	mux.HandleFunc("PUT /api/clients/{id}", s.handleUpdateClient)
	mux.HandleFunc("DELETE /api/clients/{id}", s.handleDeleteClient)
	mux.HandleFunc("GET /api/clients/stats", s.handleClientStats)

	mux.HandleFunc("GET /api/factures", s.handleListInvoices)
	mux.HandleFunc("POST /api/factures", s.handleCreateInvoice)
	mux.HandleFunc("GET /api/factures/{id}", s.handleGetInvoice)
	mux.HandleFunc("PUT /api/factures/{id}", s.handleUpdateInvoice)
	mux.HandleFunc("DELETE /api/factures/{id}", s.handleDeleteInvoice)
	mux.HandleFunc("GET /api/factures/stats", s.handleFinanceStats)

	mux.HandleFunc("GET /api/projets", s.handleListProjects)
	mux.HandleFunc("POST /api/projets", s.handleCreateProject)
	mux.HandleFunc("GET /api/projets/{id}", s.handleGetProject)
	mux.HandleFunc("PUT /api/projets/{id}", s.handleUpdateProject)
	mux.HandleFunc("DELETE /api/projets/{id}", s.handleDeleteProject)
	mux.HandleFunc("GET /api/projets/stats", s.handleProjectStats)

	mux.HandleFunc("GET /api/objectifs", s.handleListGoals)
	mux.HandleFunc("POST /api/objectifs", s.handleCreateGoal)
	mux.HandleFunc("GET /api/objectifs/{id}", s.handleGetGoal)
	mux.HandleFunc("PUT /api/objectifs/{id}", s.handleUpdateGoal)
	mux.HandleFunc("DELETE /api/objectifs/{id}", s.handleDeleteGoal)
	mux.HandleFunc("GET /api/objectifs/stats", s.handleGoalsOverview)

	var handler http.Handler = mux
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.limiter.Middleware(extractClientIP)(handler)
	handler = trace.NewMiddleware(extractClientIP).Middleware(handler)
	if opts.Logger != nil {
		handler = log.Middleware(opts.Logger.WithComponent(log.ComponentHTTP))(handler)
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter cleanup goroutine, then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// extractClientIP resolves the caller address, honoring proxy headers.
func extractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if comma := strings.IndexByte(ip, ','); comma >= 0 {
			ip = ip[:comma]
		}
		return strings.TrimSpace(ip)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
