package allocation

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	allocations := r.Group("/allocations")
	allocations.Use(middleware.AuthMiddleware())
	{
		allocations.GET("/mine", middleware.RBACAuthorize(rbacService, "allocation", "read_own"), handler.GetMine)
		allocations.POST("/seed",
			middleware.RateLimitByEmployee(0.5, 2),
			middleware.RBACAuthorize(rbacService, "allocation", "seed"),
			handler.Seed,
		)
	}
}
