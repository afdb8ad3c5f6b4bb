package model

import "github.com/gespro/gespro-api/internal/constant"

// DocumentVersion is immutable after creation except for the stored file
// pointer, which is reassigned each time a signature is stamped onto the PDF,
// and the status, which only moves Pending -> Signed or Pending -> Rejected.
type DocumentVersion struct {
	BaseModel
	DocumentID        string                         `gorm:"type:text;not null;uniqueIndex:idx_document_version_number" json:"documentId"`
	VersionNumber     int                            `gorm:"not null;uniqueIndex:idx_document_version_number" json:"versionNumber"`
	FilePath          string                         `gorm:"type:text;not null" json:"filePath"`
	MimeType          string                         `gorm:"type:varchar(100);not null" json:"mimeType"`
	Status            constant.DocumentVersionStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ChangeDescription string                         `gorm:"type:text" json:"changeDescription"`
	UploadedByID      string                         `gorm:"type:text;not null" json:"uploadedById"`
	RejectionComment  *string                        `gorm:"type:text" json:"rejectionComment"`

	Document   Document `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UploadedBy User     `gorm:"foreignKey:UploadedByID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (dv DocumentVersion) TableName() string {
	return "document_versions"
}

func (dv DocumentVersion) IsPending() bool {
	return dv.Status == constant.VersionStatusPending
}
