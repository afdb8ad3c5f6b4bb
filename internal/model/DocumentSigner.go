package model

import "time"

// DocumentSigner is one required signer of a document version. A signer is in
// exactly one of three states: pending (signed=false, rejected=false),
// signed (signed=true) or rejected (rejected=true). Rows are created in bulk
// when the version is created and only mutated in place afterwards.
type DocumentSigner struct {
	BaseModel
	DocumentVersionID string     `gorm:"type:text;not null;uniqueIndex:idx_version_signer" json:"documentVersionId"`
	UserID            string     `gorm:"type:text;not null;uniqueIndex:idx_version_signer" json:"userId"`
	Signed            bool       `gorm:"not null;default:false" json:"signed"`
	SignedAt          *time.Time `gorm:"type:timestamptz" json:"signedAt"`
	Rejected          bool       `gorm:"not null;default:false" json:"rejected"`
	RejectionComment  *string    `gorm:"type:text" json:"rejectionComment"`

	DocumentVersion DocumentVersion `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	User            User            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (ds DocumentSigner) TableName() string {
	return "document_signers"
}

func (ds DocumentSigner) IsPending() bool {
	return !ds.Signed && !ds.Rejected
}

// AllSigned reports whether every non-rejected signer has signed. A roster
// with no remaining non-rejected signers never completes, which also covers
// versions created without signers.
func AllSigned(signers []DocumentSigner) bool {
	remaining := 0
	for _, s := range signers {
		if s.Rejected {
			continue
		}
		remaining++
		if !s.Signed {
			return false
		}
	}
	return remaining > 0
}

// CanSign reports whether userId may still sign the version: the version
// itself must be pending and the user must hold a pending signer row. This is
// the in-memory twin of DocumentRepository.CanUserSign, used to re-evaluate
// authorization against freshly loaded state.
func CanSign(version DocumentVersion, signers []DocumentSigner, userId string) bool {
	if !version.IsPending() {
		return false
	}
	for _, s := range signers {
		if s.UserID == userId {
			return s.IsPending()
		}
	}
	return false
}

// PendingSignerIds returns the user ids of signers that have neither signed
// nor rejected, used for the signature-pending notification fan-out.
func PendingSignerIds(signers []DocumentSigner) []string {
	var ids []string
	for _, s := range signers {
		if s.IsPending() {
			ids = append(ids, s.UserID)
		}
	}
	return ids
}
