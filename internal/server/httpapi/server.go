// Package httpapi exposes the KrishiRakshak services over HTTP/JSON.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/krishirakshak/krishirakshak/internal/logging"
	"github.com/krishirakshak/krishirakshak/internal/server/services"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Deps are the services the API delegates to.
type Deps struct {
	Users    *services.UserService
	Profiles *services.ProfileService
	Advisory *services.AdvisoryService
	Reports  *services.ReportService
	Metrics  *Metrics
	Logger   logging.Logger
}

type Server struct {
	users    *services.UserService
	profiles *services.ProfileService
	advisory *services.AdvisoryService
	reports  *services.ReportService
	metrics  *Metrics
	logger   logging.Logger
	now      func() time.Time
}

// NewServer builds a Server from d.
func NewServer(d Deps) *Server {
	if d.Metrics == nil {
		d.Metrics = NewMetrics()
	}
	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	return &Server{
		users:    d.Users,
		profiles: d.Profiles,
		advisory: d.Advisory,
		reports:  d.Reports,
		metrics:  d.Metrics,
		logger:   d.Logger.With("module", "http"),
		now:      time.Now,
	}
}

// Handler returns the routed API with CORS and request ids applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern string, h http.Handler) {
		mux.Handle(pattern, s.instrument(pattern, h))
	}

	handle("GET /health", http.HandlerFunc(s.health))
	handle("POST /auth/register", http.HandlerFunc(s.register))
	handle("POST /auth/login", http.HandlerFunc(s.login))
	handle("GET /me", s.authed(s.me))
	handle("POST /profile/location", s.authed(s.saveLocation))
	handle("POST /profile/soil-farm", s.authed(s.saveSoilFarm))
	handle("GET /profile", s.authed(s.getProfile))
	handle("GET /ai/recommendation", s.authed(s.recommendation))
	handle("GET /ai/risk", s.authed(s.risk))
	handle("GET /insights/market-prices", s.authed(s.marketPrices))
	handle("GET /insights/schemes", s.authed(s.schemes))
	handle("POST /chat", s.authed(s.chat))
	handle("GET /report/download", s.authed(s.downloadReport))
	mux.Handle("GET /metrics", s.metrics.Handler())

	return withCORS(withRequestID(mux))
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
