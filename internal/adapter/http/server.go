// Package http serves the REST API consumed by the dashboard, plus the
// operational health, readiness and metrics routes.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/observability"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/pipeline"
	"github.com/Shubhupadhyay23/RAKSHAK-AI/internal/service"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ingester triggers and reports FIRMS ingestion runs.
type Ingester interface {
	Ingest(ctx context.Context) (int, error)
	LastRun() (pipeline.RunResult, bool)
}

// Deps are the collaborators behind the routes. Ingester may be nil when
// the feed is not configured.
type Deps struct {
	Service      *service.Service
	Ingester     Ingester
	Ready        sharedobs.ReadinessChecker
	Integrations map[string]bool
	Metrics      *observability.Metrics
	Logger       *slog.Logger
}

// Server exposes the API and operational endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer builds the gin engine and wraps it in an http.Server.
func NewServer(addr string, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		recovery(deps.Logger),
		cors(),
		requestLogger(deps.Logger, deps.Metrics),
	)
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	r.GET("/healthz", gin.WrapF(sharedobs.LivenessHandler()))
	r.GET("/readyz", gin.WrapF(sharedobs.ReadinessHandler(deps.Ready)))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := &handlers{
		svc:          deps.Service,
		ingester:     deps.Ingester,
		integrations: deps.Integrations,
		validate:     newValidator(),
		logger:       deps.Logger,
	}

	api := r.Group("/api")
	{
		api.GET("/events", h.listEvents)
		api.POST("/events", h.createEvent)
		api.GET("/events/:id", h.getEvent)
		api.POST("/events/:id/evidence", h.addEvidence)
		api.GET("/events/type/:type", h.listEventsByType)
		api.GET("/events/severity/:severity", h.listEventsBySeverity)

		api.GET("/alerts", h.listAlerts)
		api.GET("/alerts/:id", h.getAlert)
		api.PATCH("/alerts/:id", h.updateAlert)
		api.POST("/alerts/:id/generate", h.generatePlan)
		api.POST("/alerts/:id/acknowledge", h.acknowledgeAlert)
		api.POST("/alerts/:id/resolve", h.resolveAlert)

		api.POST("/ingestion/firms", h.triggerIngestion)
		api.GET("/ingestion/status", h.ingestionStatus)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: deps.Logger,
	}
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
