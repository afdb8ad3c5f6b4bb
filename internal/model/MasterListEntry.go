package model

import "time"

// MasterListEntry is the append-only promotion record of a fully signed
// document version. At most one entry exists per version; duplicate
// promotions are no-ops.
type MasterListEntry struct {
	BaseModel
	DocumentVersionID string     `gorm:"type:text;not null;uniqueIndex" json:"documentVersionId"`
	ProjectID         string     `gorm:"type:text;not null;index" json:"projectId"`
	IncludedAt        *time.Time `gorm:"type:timestamptz;default:CURRENT_TIMESTAMP;not null" json:"includedAt"`

	DocumentVersion DocumentVersion `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Project         Project         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (mle MasterListEntry) TableName() string {
	return "master_list_entries"
}
