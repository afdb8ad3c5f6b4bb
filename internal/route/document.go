package route

import (
	"github.com/gespro/gespro-api/internal/controller"
	"github.com/gespro/gespro-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Documents(r *gin.RouterGroup, dc *controller.DocumentController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/projects/:projectId/documents")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.POST("", dc.UploadDocument)
		v1.GET("", dc.GetDocumentsByProject)
		v1.POST("/:documentId/versions", dc.UploadNewVersion)
		v1.GET("/:documentId/versions", dc.GetVersionHistory)
		v1.GET("/:documentId/versions/:versionId/signers", dc.GetSignersByVersion)
		v1.POST("/:documentId/versions/:versionId/sign", dc.SignDocument)
		v1.POST("/:documentId/versions/:versionId/reject", dc.RejectDocument)
	}
}
