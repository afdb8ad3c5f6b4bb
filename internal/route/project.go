package route

import (
	"github.com/gespro/gespro-api/internal/controller"
	"github.com/gespro/gespro-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Projects(r *gin.RouterGroup, pc *controller.ProjectController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/projects/:projectId")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.GET("/users", pc.GetProjectUsers)
		v1.GET("/master-list", pc.GetMasterList)
	}
}
