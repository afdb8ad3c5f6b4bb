package model

import "github.com/gespro/gespro-api/internal/constant"

type Project struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null;" json:"name" form:"name" binding:"required"`
}

func (p Project) TableName() string {
	return "projects"
}

// ProjectUser links a user to a project with the role they hold in it.
type ProjectUser struct {
	BaseModel
	ProjectID string               `gorm:"type:text;not null;uniqueIndex:idx_project_user" json:"projectId"`
	UserID    string               `gorm:"type:text;not null;uniqueIndex:idx_project_user" json:"userId"`
	Role      constant.ProjectRole `gorm:"type:varchar(30);not null" json:"role"`

	Project Project `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	User    User    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (pu ProjectUser) TableName() string {
	return "project_users"
}
