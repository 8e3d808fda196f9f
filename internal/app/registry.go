package app

import (
	"net/http"
	"os"

	"timekeep/internal/attendance"
	"timekeep/internal/auth"
	"timekeep/internal/employee"
	"timekeep/internal/face"
	"timekeep/internal/messaging/kafka"
	"timekeep/internal/middleware"
	"timekeep/internal/shared/apperror"
	"timekeep/internal/shared/counter"
	"timekeep/internal/shared/response"
	"timekeep/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
	blobs storage.BlobStore,
	bucket string,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	faceRepo := face.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	// --- Services ---
	authService := auth.NewService(authRepo)
	employeeService := employee.NewServiceWithOutbox(gormDB, employeeRepo, counterRepo, outboxRepo)
	attendanceService := attendance.NewServiceWithOutbox(gormDB, attendanceRepo, employeeService, outboxRepo)
	faceService := face.NewService(gormDB, faceRepo, employeeRepo, employeeService, counterRepo, blobs, bucket, rdb)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	attendanceHandler := attendance.NewHandlerWithRedis(attendanceService, rdb)
	employeeHandler := employee.NewHandler(employeeService)
	faceHandler := face.NewHandler(faceService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.RequestID())
	api.Use(middleware.ContextLogger(zap.L()))
	api.Use(middleware.RateLimitByIP(rate.Limit(20), 60))
	{
		auth.RegisterRoutes(api, authHandler)
		attendance.RegisterRoutes(api, attendanceHandler, rdb)
		employee.RegisterRoutes(api, employeeHandler)
		face.RegisterRoutes(api, faceHandler)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "env": os.Getenv("APP_ENV")})
	})

	router.NoRoute(func(c *gin.Context) {
		httpErr := apperror.ToHTTP(apperror.ErrNotFound)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
	})

	return nil
}
