// Package api wires the HTTP server: infrastructure clients, services,
// handlers and routes.
package api

import (
	"context"
	"fmt"
	"net/http"

	"jpo/internal/cache"
	"jpo/internal/config"
	"jpo/internal/database"
	"jpo/internal/handlers"
	"jpo/internal/logger"
	"jpo/internal/messaging"
	"jpo/internal/metrics"
	"jpo/internal/middleware"
	"jpo/internal/repository"
	"jpo/internal/search"
	"jpo/internal/service"

	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg    *config.Config
	db     *database.DB
	nats   *messaging.NATSClient
	valkey *cache.ValkeyClient
	http   *http.Server
}

// NewServer builds the full dependency graph. The database is mandatory;
// NATS, Valkey and Elasticsearch are optional and their absence only
// degrades behavior (no events, no caching, SQL search).
func NewServer(cfg *config.Config) (*Server, error) {
	log := logger.Get()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	var publisher service.EventPublisher
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Warn("NATS unavailable, continuing without events", "error", err)
	} else {
		publisher = natsClient
	}

	valkeyClient, err := cache.NewValkeyClient(cfg.Valkey)
	if err != nil {
		log.Warn("Valkey unavailable, continuing without cache", "error", err)
		valkeyClient = nil
	}

	var esClient *search.ElasticsearchClient
	if cfg.Elasticsearch.Enabled {
		esClient, err = search.NewElasticsearchClient(cfg.Elasticsearch)
		if err != nil {
			log.Warn("Elasticsearch unavailable, search falls back to SQL", "error", err)
			esClient = nil
		}
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, publisher, valkeyClient, esClient)
	h := handlers.NewHandlers(services, valkeyClient, db, cfg.AppDebug)

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.CORS(),
		middleware.RequestID(),
		middleware.Logger(),
		metrics.HTTP(),
	)

	registerRoutes(router, h)

	return &Server{
		cfg:    cfg,
		db:     db,
		nats:   natsClient,
		valkey: valkeyClient,
		http: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  cfg.RequestTimeout,
			WriteTimeout: cfg.RequestTimeout,
		},
	}, nil
}

func registerRoutes(router *gin.Engine, h *handlers.Handlers) {
	router.GET("/health", h.Health)
	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api")
	{
		api.GET("/ping", h.Ping)

		api.GET("/registrations", h.ListRegistrations)
		api.POST("/registrations", h.CreateRegistration)
		api.GET("/registrations/:id", h.GetRegistration)
		api.PUT("/registrations/:id", h.UpdateRegistration)
		api.DELETE("/registrations/:id", h.DeleteRegistration)

		api.GET("/jpo", h.ListOpenDays)
		api.POST("/jpo", h.CreateOpenDay)
		api.GET("/jpo/:id", h.GetOpenDay)
		api.PUT("/jpo/:id", h.UpdateOpenDay)
		api.DELETE("/jpo/:id", h.DeleteOpenDay)
		api.GET("/jpo/:id/registrations", h.OpenDayRegistrations)
		api.GET("/jpo/:id/comments", h.OpenDayComments)

		api.GET("/campus", h.ListCampuses)
		api.GET("/campus/:id", h.GetCampus)
		api.GET("/campus/:id/jpo", h.CampusOpenDays)

		api.GET("/users", h.ListUsers)
		api.GET("/users/:id", h.GetUser)
		api.GET("/users/:id/registrations", h.UserRegistrations)
		api.GET("/users/:id/comments", h.UserComments)

		api.GET("/comments", h.ListComments)
		api.POST("/comments", h.CreateComment)
		api.GET("/comments/:id", h.GetComment)
		api.PUT("/comments/:id", h.UpdateComment)
		api.DELETE("/comments/:id", h.DeleteComment)
		api.POST("/comments/:id/reply", h.ReplyComment)

		api.GET("/roles", h.ListRoles)
		api.POST("/roles", h.CreateRole)
		api.GET("/roles/:id", h.GetRole)
		api.PUT("/roles/:id", h.UpdateRole)
		api.DELETE("/roles/:id", h.DeleteRole)
		api.GET("/roles/:id/users", h.RoleUsers)

		api.GET("/stats/registrations", h.RegistrationStats)
		api.GET("/stats/jpo", h.OpenDayStats)
	}
}

// Run starts the HTTP listener and blocks until shutdown.
func (s *Server) Run() error {
	logger.Get().Info("Starting API server", "port", s.cfg.Port)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests, then closes every client.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)

	if s.nats != nil {
		if cerr := s.nats.Close(); cerr != nil {
			logger.Get().Error("Failed to close NATS connection", "error", cerr)
		}
	}
	if s.valkey != nil {
		if cerr := s.valkey.Close(); cerr != nil {
			logger.Get().Error("Failed to close Valkey connection", "error", cerr)
		}
	}
	if cerr := s.db.Close(); cerr != nil {
		logger.Get().Error("Failed to close database", "error", cerr)
	}

	return err
}
