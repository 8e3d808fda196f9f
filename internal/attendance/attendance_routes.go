package attendance

import (
	"timekeep/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client) {
	ingest := r.Group("")
	ingest.Use(middleware.DeviceAuth())
	if rdb != nil {
		ingest.Use(middleware.Idempotency(rdb))
	}
	{
		ingest.POST("/events", h.RecordEvent)
		ingest.POST("/attendance/sync", h.SyncBatch)
	}

	admin := r.Group("/attendance")
	admin.Use(middleware.AuthMiddleware())
	{
		admin.GET("", middleware.RoleMiddleware("ADMIN", "HR"), h.GetHistory)
	}
}
