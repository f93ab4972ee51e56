package server

import (
	"context"
	"net/http"
	"time"

	"campus-attendance-svc/src/clients"
	"campus-attendance-svc/src/internal/config"
	"campus-attendance-svc/src/internal/dependency"
	"campus-attendance-svc/src/internal/roster"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

type Server struct {
	cfg  *config.Configuration
	deps *dependency.Manager
}

func New(cfg *config.Configuration) *Server {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	mongodb, err := clients.NewMongoDB(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatalf("Failed to connect to MongoDB: %v", err)
	}

	redisClient, err := clients.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.WithError(err).Fatalf("Failed to connect to Redis: %v", err)
	}

	var rabbitMQ *clients.RabbitMQ
	if cfg.Queue.RabbitMQ.Enabled {
		rabbitMQ, err = clients.NewRabbitMQ(&cfg.Queue)
		if err != nil {
			log.WithError(err).Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		if err := rabbitMQ.SetupExchange(); err != nil {
			log.WithError(err).Fatalf("Failed to declare exchange: %v", err)
		}
	}

	deps := dependency.NewDependencyManager(router, mongodb, redisClient, rabbitMQ, cfg)
	SetupRoutes(deps)

	return &Server{cfg: cfg, deps: deps}
}

func (s *Server) Start() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.Database.Timeout)*time.Second)
	defer cancel()

	if err := s.deps.EnsureIndexes(ctx); err != nil {
		return err
	}

	if s.cfg.Seed.Enabled {
		if err := roster.Seed(ctx, s.deps.RosterRepo); err != nil {
			return err
		}
	}

	httpServer := &http.Server{
		Addr:         ":" + s.cfg.Server.Port,
		Handler:      s.deps.Router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeout) * time.Second,
	}

	log.Infof("Server listening on %s", httpServer.Addr)
	return httpServer.ListenAndServe()
}
