package controller

import (
	"encoding/json"
	"errors"
	"fmt"

	appcontext "github.com/gespro/gespro-api/internal/app_context"
	"github.com/gespro/gespro-api/internal/auth"
	"github.com/gespro/gespro-api/internal/constant"
	"github.com/gespro/gespro-api/internal/model"
	"github.com/gespro/gespro-api/internal/util"
	"github.com/gin-gonic/gin"
)

type baseController struct {
	app *appcontext.Application
}

type Controller struct {
	Index    *IndexController
	Project  *ProjectController
	Document *DocumentController
	File     *FileController
}

func newBaseController(app *appcontext.Application) *baseController {
	return &baseController{app: app}
}

func NewController(app *appcontext.Application) *Controller {
	bc := newBaseController(app)

	return &Controller{
		Index:    &IndexController{baseController: bc},
		Project:  &ProjectController{baseController: bc},
		Document: &DocumentController{baseController: bc, stampLocks: util.NewKeyedMutex()},
		File:     &FileController{baseController: bc},
	}
}

func (b *baseController) getAuthUser(ctx *gin.Context) (*auth.JWTPayload, error) {
	user, exists := ctx.Get("user")
	if !exists {
		return nil, errors.New("user not found in context")
	}

	jsonUser, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}

	var authUser *auth.JWTPayload
	err = json.Unmarshal(jsonUser, &authUser)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return authUser, nil
}

func (b *baseController) getProjectRole(ctx *gin.Context, projectId string) (*auth.JWTPayload, constant.ProjectRole, *model.Project, error) {
	user, err := b.getAuthUser(ctx)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to get auth user: %w", err)
	}

	project, err := b.app.Repository.Project.GetById(ctx, nil, projectId)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to get project: %w", err)
	}

	role, err := b.app.Repository.Project.GetRoleOfProject(ctx, nil, projectId, user.ID)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to get project role: %w", err)
	}

	return user, role, project, nil
}
