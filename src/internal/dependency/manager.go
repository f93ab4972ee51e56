package dependency

import (
	"context"

	"campus-attendance-svc/src/clients"
	"campus-attendance-svc/src/internal/attendance"
	"campus-attendance-svc/src/internal/auth"
	"campus-attendance-svc/src/internal/cache"
	"campus-attendance-svc/src/internal/config"
	"campus-attendance-svc/src/internal/events"
	"campus-attendance-svc/src/internal/report"
	"campus-attendance-svc/src/internal/roster"
	"campus-attendance-svc/src/internal/session"

	"github.com/gin-gonic/gin"
)

type Manager struct {
	Router            *gin.Engine
	Config            *config.Configuration
	Mongodb           *clients.MongoDB
	Redis             *clients.RedisClient
	RabbitMQ          *clients.RabbitMQ
	Publisher         events.Publisher
	CacheService      cache.Service
	RosterRepo        roster.Repository
	SessionRepo       session.Repository
	AttendanceRepo    attendance.Repository
	SessionService    session.Service
	AttendanceService attendance.Service
	ReportService     report.Service
	AuthHandler       auth.Handler
	SessionHandler    session.Handler
	AttendanceHandler attendance.Handler
	ReportHandler     report.Handler
}

func NewDependencyManager(router *gin.Engine,
	mongodb *clients.MongoDB,
	redisClient *clients.RedisClient,
	rabbitMQ *clients.RabbitMQ,
	cfg *config.Configuration) *Manager {

	var publisher events.Publisher
	if rabbitMQ != nil {
		publisher = events.NewPublisher(rabbitMQ.Channel, cfg)
	} else {
		publisher = events.NewNoopPublisher()
	}

	cacheService := cache.NewCacheService(redisClient.Client, cfg)

	rosterRepo := roster.NewRepository(mongodb, &cfg.Database)
	sessionRepo := session.NewRepository(mongodb, &cfg.Database)
	attendanceRepo := attendance.NewRepository(mongodb, cfg)

	sessionService := session.NewService(sessionRepo, publisher, cfg)
	attendanceService := attendance.NewService(attendanceRepo, sessionService, cacheService, publisher, cfg)
	reportService := report.NewService(sessionService, rosterRepo, attendanceRepo)
	authService := auth.NewService(rosterRepo, cfg)

	return &Manager{
		Router:            router,
		Config:            cfg,
		Mongodb:           mongodb,
		Redis:             redisClient,
		RabbitMQ:          rabbitMQ,
		Publisher:         publisher,
		CacheService:      cacheService,
		RosterRepo:        rosterRepo,
		SessionRepo:       sessionRepo,
		AttendanceRepo:    attendanceRepo,
		SessionService:    sessionService,
		AttendanceService: attendanceService,
		ReportService:     reportService,
		AuthHandler:       auth.NewHandler(cfg, authService),
		SessionHandler:    session.NewHandler(cfg, sessionService, cacheService),
		AttendanceHandler: attendance.NewHandler(cfg, attendanceService),
		ReportHandler:     report.NewHandler(cfg, reportService),
	}
}

// EnsureIndexes creates the unique indexes the uniqueness invariants rely on.
func (m *Manager) EnsureIndexes(ctx context.Context) error {
	if err := m.RosterRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := m.SessionRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	return m.AttendanceRepo.EnsureIndexes(ctx)
}
