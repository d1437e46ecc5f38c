package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/studytrace/backend/internal/api/http"
	"github.com/studytrace/backend/internal/api/middleware"
	"github.com/studytrace/backend/internal/api/ws"
	"github.com/studytrace/backend/internal/domain/goals"
	"github.com/studytrace/backend/internal/domain/session"
	"github.com/studytrace/backend/internal/events"
	"github.com/studytrace/backend/internal/infrastructure/config"
	"github.com/studytrace/backend/internal/infrastructure/logging"
	"github.com/studytrace/backend/internal/infrastructure/monitoring"
	"github.com/studytrace/backend/internal/storage"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	manager *session.Manager
	goals   *goals.Tracker
	bus     *events.Bus
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	logger.Info("Initializing StudyTrace Engine",
		zap.String("port", cfg.Server.Port),
		zap.String("storage_dir", cfg.Storage.Dir),
	)

	metrics := monitoring.NewMetrics()
	bus := events.NewBus()

	store, err := storage.NewFileStore(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	records := storage.NewRecords(store)

	goalTracker := goals.NewTracker(records)
	manager := session.NewManager(engineConfig(cfg.Engine), records, bus, logger).
		WithMetrics(metrics).
		WithGoals(goalTracker)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := http.NewHandlers(manager, records, goalTracker)
	exporter := http.NewExporter(handlers, bus, metrics)
	wsHandler := ws.NewHandler(manager, bus, logger).WithMetrics(metrics)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Session lifecycle
	router.POST("/api/session/start", handlers.StartSession)
	router.POST("/api/session/stop", handlers.StopSession)
	router.POST("/api/session/discard", handlers.DiscardSession)
	router.POST("/api/session/break/skip", handlers.SkipBreak)
	router.GET("/api/session/snapshot", handlers.GetSnapshot)

	// Signal ingestion
	router.POST("/api/signals", handlers.IngestSignals)

	// Session history
	router.GET("/api/logs", handlers.GetLogs)
	router.GET("/api/logs/stats", handlers.GetLogStats)

	// Dataset export
	router.GET("/api/export/csv", exporter.ExportCSV)

	// Goals
	router.GET("/api/goals", handlers.GetGoals)
	router.PUT("/api/goals", handlers.PutGoals)

	// WebSocket
	router.GET("/ws", wsHandler.HandleConnection)

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		manager: manager,
		goals:   goalTracker,
		bus:     bus,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// engineConfig maps configured thresholds into the session manager's config
func engineConfig(cfg config.EngineConfig) session.Config {
	sc := session.DefaultConfig()
	if cfg.MinSessionSeconds > 0 {
		sc.MinSessionSeconds = cfg.MinSessionSeconds
	}
	if cfg.MinDistractionSeconds > 0 {
		sc.Activity.MinTabAway = time.Duration(cfg.MinDistractionSeconds) * time.Second
	}
	if cfg.InactivitySeconds > 0 {
		sc.Activity.InactivityThreshold = time.Duration(cfg.InactivitySeconds) * time.Second
	}
	if cfg.SampleSeconds > 0 {
		sc.Activity.SampleInterval = time.Duration(cfg.SampleSeconds) * time.Second
	}
	if cfg.StudyDurationMinutes > 0 {
		sc.Breaks.StudyDurationMinutes = cfg.StudyDurationMinutes
	}
	if cfg.ShortBreakMinutes > 0 {
		sc.Breaks.ShortBreakMinutes = cfg.ShortBreakMinutes
	}
	if cfg.LongBreakMinutes > 0 {
		sc.Breaks.LongBreakMinutes = cfg.LongBreakMinutes
	}
	if cfg.SessionsBeforeLongBreak > 0 {
		sc.Breaks.SessionsBeforeLongBreak = cfg.SessionsBeforeLongBreak
	}
	return sc
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close gracefully shuts down the server, persisting any session
// still in progress
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	if _, err := s.manager.Stop(nil); err != nil && !errors.Is(err, session.ErrNotActive) {
		s.logger.Error("Failed to close active session", zap.Error(err))
	}

	_ = s.logger.Sync()
	return nil
}
