package repository

import (
	"context"
	"errors"

	constant "github.com/gespro/gespro-api/internal/constant"
	"github.com/gespro/gespro-api/internal/model"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	*baseRepository
}

// ProjectMember is a member of a project eligible for notification fan-out
// and signer assignment.
type ProjectMember struct {
	UserID   string               `json:"userId"`
	FullName string               `json:"fullName"`
	Email    string               `json:"email"`
	Role     constant.ProjectRole `json:"role"`
}

func (pr ProjectRepository) GetById(ctx context.Context, tx *gorm.DB, projectId string) (*model.Project, error) {
	pr.logger.Debugf("Get project by id: %s \n", projectId)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var project *model.Project
	if err := db.WithContext(ctx).Model(&model.Project{}).Where(&model.Project{BaseModel: model.BaseModel{ID: projectId}}).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return project, nil
}

// GetMembers returns the distinct project members holding one of the roles
// that participate in the document workflow, ordered by name.
func (pr ProjectRepository) GetMembers(ctx context.Context, tx *gorm.DB, projectId string) ([]ProjectMember, error) {
	pr.logger.Debugf("Get members of project: %s \n", projectId)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var members []ProjectMember
	if err := db.WithContext(ctx).Model(&model.ProjectUser{}).
		Select("users.id AS user_id, users.first_name || ' ' || users.last_name AS full_name, users.email, project_users.role").
		Joins("JOIN users ON users.id = project_users.user_id").
		Where("project_users.project_id = ?", projectId).
		Where("project_users.role IN ?", []constant.ProjectRole{
			constant.ProjectRoleAdministrator,
			constant.ProjectRoleClient,
			constant.ProjectRoleCollaborator,
		}).
		Order("users.first_name, users.last_name").
		Scan(&members).Error; err != nil {
		return nil, err
	}

	return members, nil
}

// GetRoleOfProject returns the role the user holds in the project, or
// ErrNotFound when the user is not a member.
func (pr ProjectRepository) GetRoleOfProject(ctx context.Context, tx *gorm.DB, projectId string, userId string) (constant.ProjectRole, error) {
	pr.logger.Debugf("Get role of project with projectId: %s and userId: %s \n", projectId, userId)

	db := pr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var projectUser model.ProjectUser
	if err := db.WithContext(ctx).Model(&model.ProjectUser{}).Where(&model.ProjectUser{
		ProjectID: projectId,
		UserID:    userId,
	}).First(&projectUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	return projectUser.Role, nil
}
