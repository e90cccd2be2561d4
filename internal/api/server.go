// Package api serves the advisory output as read-only JSON.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"CapitalSentinel/internal/advisor"
	"CapitalSentinel/internal/metrics"
	"CapitalSentinel/internal/options"
	"CapitalSentinel/internal/portfolio"
)

// Server wraps the gin router and its http.Server.
type Server struct {
	router *gin.Engine
	srv    *http.Server
}

// NewServer builds the router. m may be nil to disable /metrics.
func NewServer(addr, env string, adv *advisor.Advisor, pm *portfolio.Manager, criteria options.Criteria, m *metrics.Metrics) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	h := &Handlers{
		Health:    &HealthHandler{env: env, started: time.Now()},
		Advisory:  &AdvisoryHandler{advisor: adv, portfolio: pm},
		Options:   &OptionsHandler{advisor: adv, criteria: criteria},
		Portfolio: &PortfolioHandler{advisor: adv, portfolio: pm},
	}

	router.GET("/health", h.Health.CheckHealth)
	v1 := router.Group("/api/v1")
	{
		v1.GET("/signals", h.Advisory.GetSignals)
		v1.GET("/tickets", h.Advisory.GetTickets)
		v1.GET("/portfolio", h.Portfolio.GetPortfolio)
		v1.GET("/options/:ticker", h.Options.GetOptions)
	}
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	return &Server{
		router: router,
		srv: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.srv.Addr).Msg("api server listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info().Msg("api server shutting down")
	return s.srv.Shutdown(shutdownCtx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("api request")
	}
}
