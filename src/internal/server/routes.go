package server

import (
	"time"

	"campus-attendance-svc/src/clients"
	"campus-attendance-svc/src/internal/dependency"
	"campus-attendance-svc/src/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func SetupRoutes(deps *dependency.Manager) {
	router := deps.Router
	router.Use(enableCORS)

	setupHealthEndpoint(deps)
	setupPublicRoutes(router, deps)
	setupTeacherRoutes(router, deps)
	setupStudentRoutes(router, deps)
}

func setupHealthEndpoint(deps *dependency.Manager) {
	router := deps.Router
	mongodb := deps.Mongodb
	redisClient := deps.Redis
	cfg := deps.Config

	router.GET("/health", func(c *gin.Context) {
		log.Info("Health check endpoint requested")

		mongoStatus := "ok"
		if err := mongodb.Client.Ping(c.Request.Context(), nil); err != nil {
			mongoStatus = "error: " + err.Error()
		}

		redisStatus := "ok"
		if err := redisClient.Client.Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "error: " + err.Error()
		}

		c.JSON(200, gin.H{
			"status":    "ok",
			"service":   cfg.App.Name,
			"version":   cfg.App.Version,
			"mongodb":   mongoStatus,
			"redis":     redisStatus,
			"timestamp": time.Now().UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	})

	router.GET("/health/detailed", func(c *gin.Context) {
		log.Info("Detailed health check endpoint requested")

		c.JSON(200, gin.H{
			"status":  "operational",
			"service": cfg.App.Name,
			"version": cfg.App.Version,
			"components": gin.H{
				"database": gin.H{
					"mongodb": getStatus(isMongoConnected(mongodb, c)),
					"redis":   getStatus(isRedisConnected(redisClient.Client, c)),
				},
				"services": gin.H{
					"sessions":   "operational",
					"attendance": "operational",
					"reports":    "operational",
				},
			},
		})
	})
}

func setupPublicRoutes(router *gin.Engine, deps *dependency.Manager) {
	authHandler := deps.AuthHandler

	api := router.Group("/api")
	{
		api.POST("/teacher-login",
			setRouteName("teacherLogin"),
			authHandler.TeacherLogin)

		api.POST("/student-login",
			setRouteName("studentLogin"),
			authHandler.StudentLogin)
	}
}

func setupTeacherRoutes(router *gin.Engine, deps *dependency.Manager) {
	authMiddleware := middleware.NewAuthMiddleware(deps.Config.Security.JwtKey)

	api := router.Group("/api")
	{
		api.POST("/create-session",
			setRouteName("createSession"),
			authMiddleware.RequireAuth(),
			authMiddleware.RequireRole(middleware.RoleTeacher),
			deps.SessionHandler.CreateSession)

		api.POST("/end-session",
			setRouteName("endSession"),
			authMiddleware.RequireAuth(),
			authMiddleware.RequireRole(middleware.RoleTeacher),
			deps.SessionHandler.EndSession)

		api.GET("/session/:sessionId",
			setRouteName("getSession"),
			authMiddleware.RequireAuth(),
			authMiddleware.RequireRole(middleware.RoleTeacher),
			deps.ReportHandler.GetSession)

		api.POST("/teacher/report",
			setRouteName("teacherReport"),
			authMiddleware.RequireAuth(),
			authMiddleware.RequireRole(middleware.RoleTeacher),
			deps.ReportHandler.TeacherReport)
	}
}

func setupStudentRoutes(router *gin.Engine, deps *dependency.Manager) {
	authMiddleware := middleware.NewAuthMiddleware(deps.Config.Security.JwtKey)

	api := router.Group("/api")
	{
		api.POST("/mark-attendance",
			setRouteName("markAttendance"),
			authMiddleware.RequireAuth(),
			authMiddleware.RequireRole(middleware.RoleStudent),
			deps.AttendanceHandler.MarkAttendance)

		api.GET("/student-history/:studentId",
			setRouteName("studentHistory"),
			authMiddleware.RequireAuth(),
			authMiddleware.RequireRole(middleware.RoleStudent),
			deps.AttendanceHandler.StudentHistory)
	}
}

func setRouteName(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("route_name", name)
		c.Next()
	}
}

func isMongoConnected(mongodb *clients.MongoDB, c *gin.Context) bool {
	if err := mongodb.Client.Ping(c.Request.Context(), nil); err != nil {
		return false
	}
	return true
}

func isRedisConnected(redisClient *redis.Client, c *gin.Context) bool {
	if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
		return false
	}
	return true
}

func enableCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if c.Request.Method == "OPTIONS" {
		c.AbortWithStatus(204)
		return
	}

	c.Next()
}

func getStatus(b bool) string {
	if b {
		return "connected"
	}
	return "disconnected"
}
