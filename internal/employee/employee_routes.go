package employee

import (
	"timekeep/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.POST("", middleware.RoleMiddleware("ADMIN", "HR"), h.Create)
		employees.GET("", middleware.RoleMiddleware("ADMIN", "HR"), h.GetAll)
	}
}
