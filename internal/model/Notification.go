package model

import "github.com/gespro/gespro-api/internal/constant"

type Notification struct {
	BaseModel
	UserID     string                    `gorm:"type:text;not null;index" json:"userId"`
	Type       constant.NotificationType `gorm:"type:varchar(50);not null" json:"type"`
	Message    string                    `gorm:"type:text;not null" json:"message"`
	ActionLink string                    `gorm:"type:text" json:"actionLink"`
	Read       bool                      `gorm:"not null;default:false" json:"read"`

	User User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (n Notification) TableName() string {
	return "notifications"
}
