package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gespro/gespro-api/internal/constant"
	"github.com/gespro/gespro-api/internal/repository"
	"github.com/gespro/gespro-api/internal/util"
	"github.com/gin-gonic/gin"
)

type ProjectController struct {
	*baseController
}

const (
	ErrProjectIdRequired = "project id is required"
)

// GetProjectUsers lists the project members eligible as signer candidates
// and notification recipients.
func (pc ProjectController) GetProjectUsers(ctx *gin.Context) {
	projectId := ctx.Params.ByName("projectId")
	if projectId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Project id is required", util.GenerateErrorMessages(errors.New(ErrProjectIdRequired), "projectId"), nil)
		return
	}

	_, _, _, err := pc.getProjectRole(ctx, projectId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			util.ResponseFailed(ctx, http.StatusNotFound, "Project not found", util.GenerateErrorMessages(errors.New("project not found"), "projectId"), nil)
			return
		}

		pc.app.Logger.Errorf("Failed to get project role: %v", err)
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you are not a member of this project")), nil)
		return
	}

	members, err := pc.app.Repository.Project.GetMembers(ctx, nil, projectId)
	if err != nil {
		pc.app.Logger.Errorf("Failed to get project members: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to get project members", util.GenerateErrorMessages(err), nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"users": members,
	})
}

// GetMasterList returns one page of the project's fully signed documents.
func (pc ProjectController) GetMasterList(ctx *gin.Context) {
	projectId := ctx.Params.ByName("projectId")
	if projectId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Project id is required", util.GenerateErrorMessages(errors.New(ErrProjectIdRequired), "projectId"), nil)
		return
	}

	_, role, _, err := pc.getProjectRole(ctx, projectId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			util.ResponseFailed(ctx, http.StatusNotFound, "Project not found", util.GenerateErrorMessages(errors.New("project not found"), "projectId"), nil)
			return
		}

		pc.app.Logger.Errorf("Failed to get project role: %v", err)
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you are not a member of this project")), nil)
		return
	}

	if !util.HasPermission(role, []constant.ProjectPermission{constant.MasterListRead}) {
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you do not have permission to view the master list")), nil)
		return
	}

	page := parsePositiveUint(ctx.Query("page"), 1)
	pageSize := parsePositiveUint(ctx.Query("pageSize"), constant.DefaultPageSize)

	rows, total, err := pc.app.Repository.Document.GetMasterList(ctx, nil, projectId, page, pageSize)
	if err != nil {
		pc.app.Logger.Errorf("Failed to get master list: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to get master list", util.GenerateErrorMessages(err), nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"entries":   rows,
		"total":     total,
		"page":      page,
		"pageSize":  pageSize,
		"totalPage": util.CalculateTotalPage(total, pageSize),
	})
}

func parsePositiveUint(raw string, fallback uint) uint {
	if raw == "" {
		return fallback
	}

	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || n == 0 {
		return fallback
	}

	return uint(n)
}
