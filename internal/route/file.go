package route

import (
	"github.com/gespro/gespro-api/internal/controller"
	"github.com/gespro/gespro-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Files(r *gin.RouterGroup, fc *controller.FileController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/projects/:projectId/documents/:documentId/versions/:versionId")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.GET("/file", fc.GetVersionFile)
	}
}
