package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gespro/gespro-api/internal/constant"
	"github.com/gespro/gespro-api/internal/repository"
	"github.com/gespro/gespro-api/internal/util"
	"github.com/gin-gonic/gin"
)

type FileController struct {
	*baseController
}

const PRESIGNED_URL_EXPIRY = 15 * time.Minute

// GetVersionFile returns a short-lived download URL for the version's
// current stored PDF.
func (fc FileController) GetVersionFile(ctx *gin.Context) {
	projectId := ctx.Params.ByName("projectId")
	versionId := ctx.Params.ByName("versionId")
	if projectId == "" || versionId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Version id is required", util.GenerateErrorMessages(errors.New(ErrVersionIdRequired), "versionId"), nil)
		return
	}

	_, role, project, err := fc.getProjectRole(ctx, projectId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			util.ResponseFailed(ctx, http.StatusNotFound, "Project not found", util.GenerateErrorMessages(errors.New("project not found"), "projectId"), nil)
			return
		}

		fc.app.Logger.Errorf("Failed to get project role: %v", err)
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you are not a member of this project")), nil)
		return
	}

	if !util.HasPermission(role, []constant.ProjectPermission{constant.DocumentRead}) {
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you do not have permission to view documents")), nil)
		return
	}

	version, err := fc.app.Repository.Document.GetVersionById(ctx, nil, versionId)
	if err != nil || version.Document.ProjectID != project.ID {
		util.ResponseFailed(ctx, http.StatusNotFound, "Version not found", util.GenerateErrorMessages(errors.New("version not found"), "versionId"), nil)
		return
	}

	url, err := fc.app.S3.PresignedGetObject(ctx, fc.app.Config.Minio.BUCKET, version.FilePath, PRESIGNED_URL_EXPIRY, nil)
	if err != nil {
		fc.app.Logger.Errorf("Failed to presign file %s: %v", version.FilePath, err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to get file URL", util.GenerateErrorMessages(err), nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"file": gin.H{
			"url":      url.String(),
			"mimeType": version.MimeType,
		},
	})
}
