package repository

import (
	"context"
	"errors"
	"time"

	constant "github.com/gespro/gespro-api/internal/constant"
	"github.com/gespro/gespro-api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentRepository struct {
	*baseRepository
}

func (dr DocumentRepository) Create(ctx context.Context, tx *gorm.DB, document *model.Document) (*model.Document, error) {
	dr.logger.Debugf("Create document with data: %v \n", document)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.Document{}).Create(document).Error; err != nil {
		return document, err
	}

	return document, nil
}

func (dr DocumentRepository) GetById(ctx context.Context, tx *gorm.DB, documentId string) (*model.Document, error) {
	dr.logger.Debugf("Get document by id: %s \n", documentId)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var document *model.Document
	if err := db.WithContext(ctx).Model(&model.Document{}).Preload("Project").Where(&model.Document{
		BaseModel: model.BaseModel{ID: documentId},
	}).First(&document).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return document, nil
}

// NextVersionNumber returns max(version_number)+1 for the document, or 1 when
// no versions exist yet. Only meaningful inside the same transaction as the
// subsequent insert; CreateNextVersion wraps both.
func (dr DocumentRepository) NextVersionNumber(ctx context.Context, tx *gorm.DB, documentId string) (int, error) {
	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var next int
	if err := db.WithContext(ctx).Model(&model.DocumentVersion{}).
		Select("COALESCE(MAX(version_number), 0) + 1").
		Where("document_id = ?", documentId).
		Scan(&next).Error; err != nil {
		return 0, err
	}

	return next, nil
}

// CreateNextVersion computes the next version number and inserts the version
// in one transaction. Concurrent uploads to the same document can still
// compute the same number; the unique index on (document_id, version_number)
// rejects the loser and we retry once before giving up with
// ErrVersionConflict.
func (dr DocumentRepository) CreateNextVersion(ctx context.Context, tx *gorm.DB, version *model.DocumentVersion) (*model.DocumentVersion, error) {
	dr.logger.Debugf("Create next version for document: %s \n", version.DocumentID)

	db := dr.getDB(tx)

	attempt := func() error {
		return dr.withTx(db, func(tx *gorm.DB) error {
			next, err := dr.NextVersionNumber(ctx, tx, version.DocumentID)
			if err != nil {
				return err
			}

			version.VersionNumber = next
			version.Status = constant.VersionStatusPending
			return tx.WithContext(ctx).Model(&model.DocumentVersion{}).Create(version).Error
		})
	}

	err := attempt()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the version-number race, recompute once.
		version.ID = ""
		err = attempt()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrVersionConflict
		}
	}
	if err != nil {
		return nil, err
	}

	return version, nil
}

// AssignSigners bulk-inserts one pending signer row per user id. Callers must
// not call this twice for one version; duplicates in the input or rows that
// already exist fail with ErrDuplicateSigner.
func (dr DocumentRepository) AssignSigners(ctx context.Context, tx *gorm.DB, versionId string, userIds []string) error {
	dr.logger.Debugf("Assign signers to version %s: %v \n", versionId, userIds)

	if len(userIds) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(userIds))
	signers := make([]*model.DocumentSigner, 0, len(userIds))
	for _, userId := range userIds {
		if _, dup := seen[userId]; dup {
			return ErrDuplicateSigner
		}
		seen[userId] = struct{}{}
		signers = append(signers, &model.DocumentSigner{
			DocumentVersionID: versionId,
			UserID:            userId,
		})
	}

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.DocumentSigner{}).Create(signers).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSigner
		}
		return err
	}

	return nil
}

func (dr DocumentRepository) GetVersionById(ctx context.Context, tx *gorm.DB, versionId string) (*model.DocumentVersion, error) {
	dr.logger.Debugf("Get document version by id: %s \n", versionId)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var version *model.DocumentVersion
	if err := db.WithContext(ctx).Model(&model.DocumentVersion{}).
		Preload("Document").Preload("Document.Project").
		Where(&model.DocumentVersion{BaseModel: model.BaseModel{ID: versionId}}).
		First(&version).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return version, nil
}

func (dr DocumentRepository) GetSignersForVersion(ctx context.Context, tx *gorm.DB, versionId string) ([]model.DocumentSigner, error) {
	dr.logger.Debugf("Get signers for version: %s \n", versionId)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var signers []model.DocumentSigner
	if err := db.WithContext(ctx).Model(&model.DocumentSigner{}).
		Preload("User").
		Where("document_version_id = ?", versionId).
		Find(&signers).Error; err != nil {
		return nil, err
	}

	return signers, nil
}

// CanUserSign is the single authorization gate for both signing and
// rejecting: the user must hold a pending signer row AND the version itself
// must still be pending. Checking the version status means one signer's
// rejection blocks everyone else's remaining signatures.
func (dr DocumentRepository) CanUserSign(ctx context.Context, tx *gorm.DB, versionId string, userId string) (bool, error) {
	dr.logger.Debugf("Check can sign for version %s and user %s \n", versionId, userId)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var count int64
	if err := db.WithContext(ctx).Model(&model.DocumentSigner{}).
		Joins("JOIN document_versions ON document_versions.id = document_signers.document_version_id").
		Where("document_signers.document_version_id = ? AND document_signers.user_id = ?", versionId, userId).
		Where("document_signers.signed = false AND document_signers.rejected = false").
		Where("document_versions.status = ?", constant.VersionStatusPending).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// UpdateVersionFile swaps the stored file pointer, conditioned on the
// previous path so a concurrent re-stamp cannot silently discard another
// signer's stamp. Zero rows affected means the pointer moved underneath us.
func (dr DocumentRepository) UpdateVersionFile(ctx context.Context, tx *gorm.DB, versionId string, oldPath, newPath string) error {
	dr.logger.Debugf("Update version %s file path to %s \n", versionId, newPath)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Model(&model.DocumentVersion{}).
		Where("id = ? AND file_path = ?", versionId, oldPath).
		Update("file_path", newPath)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}

	return nil
}

// RecordSignature marks the signer row signed, conditioned on it still being
// pending. Zero rows affected means the user already signed, already
// rejected, or was never on the roster.
func (dr DocumentRepository) RecordSignature(ctx context.Context, tx *gorm.DB, versionId string, userId string) error {
	dr.logger.Debugf("Record signature for version %s by user %s \n", versionId, userId)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	now := time.Now()
	result := db.WithContext(ctx).Model(&model.DocumentSigner{}).
		Where("document_version_id = ? AND user_id = ? AND signed = false AND rejected = false", versionId, userId).
		Updates(map[string]any{"signed": true, "signed_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNothingUpdated
	}

	return nil
}

// RecordRejection flips the version to Rejected and marks the signer row, in
// one transaction. The version update is conditioned on Pending so a second
// rejection or a rejection racing a promotion observes ErrNothingUpdated.
func (dr DocumentRepository) RecordRejection(ctx context.Context, tx *gorm.DB, versionId string, userId string, comment string) error {
	dr.logger.Debugf("Record rejection for version %s by user %s \n", versionId, userId)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return dr.withTx(db, func(tx *gorm.DB) error {
		result := tx.WithContext(ctx).Model(&model.DocumentVersion{}).
			Where("id = ? AND status = ?", versionId, constant.VersionStatusPending).
			Updates(map[string]any{"status": constant.VersionStatusRejected, "rejection_comment": comment})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNothingUpdated
		}

		result = tx.WithContext(ctx).Model(&model.DocumentSigner{}).
			Where("document_version_id = ? AND user_id = ? AND signed = false AND rejected = false", versionId, userId).
			Updates(map[string]any{"rejected": true, "rejection_comment": comment})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNothingUpdated
		}

		return nil
	})
}

// AllSigned reports whether every non-rejected signer of the version has
// signed. A version with no signers never completes.
func (dr DocumentRepository) AllSigned(ctx context.Context, tx *gorm.DB, versionId string) (bool, error) {
	signers, err := dr.GetSignersForVersion(ctx, tx, versionId)
	if err != nil {
		return false, err
	}

	return model.AllSigned(signers), nil
}

// PromoteToMasterList flips the version to Signed and appends the master
// list entry. The insert is insert-if-absent on the version id, so two
// signers racing on completion detection both succeed and exactly one entry
// exists afterwards.
func (dr DocumentRepository) PromoteToMasterList(ctx context.Context, tx *gorm.DB, versionId string, projectId string) error {
	dr.logger.Debugf("Promote version %s to master list of project %s \n", versionId, projectId)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return dr.withTx(db, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Model(&model.DocumentVersion{}).
			Where("id = ?", versionId).
			Update("status", constant.VersionStatusSigned).Error; err != nil {
			return err
		}

		entry := model.MasterListEntry{
			DocumentVersionID: versionId,
			ProjectID:         projectId,
		}
		if err := tx.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "document_version_id"}},
				DoNothing: true,
			}).
			Create(&entry).Error; err != nil {
			return err
		}

		return nil
	})
}
