package face

import (
	"timekeep/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	// Enrollment endpoints face the kiosk devices
	ingest := r.Group("")
	ingest.Use(middleware.DeviceAuth())
	{
		ingest.POST("/enroll-face", h.Enroll)
		ingest.POST("/register-face", h.Register)
		ingest.GET("/faces", h.GetAll)
	}

	admin := r.Group("")
	admin.Use(middleware.AuthMiddleware())
	{
		admin.GET("/employee/:number", middleware.RoleMiddleware("ADMIN", "HR"), h.GetByEmployee)
		admin.DELETE("/faces/:entryId", middleware.RoleMiddleware("ADMIN", "HR"), h.Delete)
	}
}
