package model

type Document struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null" json:"name" form:"name" binding:"required"`
	ProjectID   string `gorm:"type:text;not null;index" json:"projectId" form:"projectId" binding:"required"`
	CreatedByID string `gorm:"type:text;not null" json:"createdById"`

	Project   Project `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedBy User    `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (d Document) TableName() string {
	return "documents"
}
