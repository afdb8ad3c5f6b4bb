package repository

import (
	"context"
	"time"

	constant "github.com/gespro/gespro-api/internal/constant"
	"github.com/gespro/gespro-api/internal/model"
	"gorm.io/gorm"
)

// DocumentListRow is one document with its latest version, as shown on the
// project document listing.
type DocumentListRow struct {
	DocumentID        string                         `json:"documentId"`
	Name              string                         `json:"name"`
	VersionID         string                         `json:"versionId"`
	VersionNumber     int                            `json:"versionNumber"`
	Status            constant.DocumentVersionStatus `json:"status"`
	ChangeDescription string                         `json:"changeDescription"`
	UploadedByID      string                         `json:"uploadedById"`
	UploadedByName    string                         `json:"uploadedByName"`
	SignerTotal       int                            `json:"signerTotal"`
	SignerSigned      int                            `json:"signerSigned"`
	CanSign           bool                           `json:"canSign"`
	CreatedAt         *time.Time                     `json:"createdAt"`
}

// VersionHistoryRow is one row of a document's full version history, newest
// first.
type VersionHistoryRow struct {
	VersionID         string                         `json:"versionId"`
	VersionNumber     int                            `json:"versionNumber"`
	Status            constant.DocumentVersionStatus `json:"status"`
	ChangeDescription string                         `json:"changeDescription"`
	RejectionComment  *string                        `json:"rejectionComment"`
	UploadedByID      string                         `json:"uploadedById"`
	UploadedByName    string                         `json:"uploadedByName"`
	CreatedAt         *time.Time                     `json:"createdAt"`
}

// MasterListRow is one fully signed version on the project master list.
type MasterListRow struct {
	EntryID       string     `json:"entryId"`
	DocumentID    string     `json:"documentId"`
	DocumentName  string     `json:"documentName"`
	VersionID     string     `json:"versionId"`
	VersionNumber int        `json:"versionNumber"`
	FilePath      string     `json:"filePath"`
	IncludedAt    *time.Time `json:"includedAt"`
}

// GetDocumentsByProject lists each document of the project with its latest
// version, the signer progress and whether the requesting user can sign it.
// Collaborators only see documents they uploaded or are asked to sign.
func (dr DocumentRepository) GetDocumentsByProject(ctx context.Context, tx *gorm.DB, projectId string, userId string, role constant.ProjectRole) ([]DocumentListRow, error) {
	dr.logger.Debugf("Get documents of project %s for user %s \n", projectId, userId)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	query := db.WithContext(ctx).Model(&model.Document{}).
		Select(`documents.id AS document_id,
			documents.name,
			dv.id AS version_id,
			dv.version_number,
			dv.status,
			dv.change_description,
			dv.uploaded_by_id,
			u.first_name || ' ' || u.last_name AS uploaded_by_name,
			(SELECT COUNT(*) FROM document_signers ds WHERE ds.document_version_id = dv.id) AS signer_total,
			(SELECT COUNT(*) FROM document_signers ds WHERE ds.document_version_id = dv.id AND ds.signed = true) AS signer_signed,
			CASE WHEN dv.status = 'pending' AND EXISTS (
				SELECT 1 FROM document_signers ds
				WHERE ds.document_version_id = dv.id AND ds.user_id = ? AND ds.signed = false AND ds.rejected = false
			) THEN true ELSE false END AS can_sign,
			dv.created_at`, userId).
		Joins(`JOIN document_versions dv ON dv.document_id = documents.id
			AND dv.version_number = (SELECT MAX(v.version_number) FROM document_versions v WHERE v.document_id = documents.id)`).
		Joins("JOIN users u ON u.id = dv.uploaded_by_id").
		Where("documents.project_id = ?", projectId)

	if role == constant.ProjectRoleCollaborator {
		query = query.Where(`dv.uploaded_by_id = ? OR EXISTS (
			SELECT 1 FROM document_signers ds WHERE ds.document_version_id = dv.id AND ds.user_id = ?
		)`, userId, userId)
	}

	var rows []DocumentListRow
	if err := query.Order("documents.name, documents.id").Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// GetVersionHistory returns every version of the document, newest first.
func (dr DocumentRepository) GetVersionHistory(ctx context.Context, tx *gorm.DB, documentId string) ([]VersionHistoryRow, error) {
	dr.logger.Debugf("Get version history of document: %s \n", documentId)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var rows []VersionHistoryRow
	if err := db.WithContext(ctx).Model(&model.DocumentVersion{}).
		Select(`document_versions.id AS version_id,
			document_versions.version_number,
			document_versions.status,
			document_versions.change_description,
			document_versions.rejection_comment,
			document_versions.uploaded_by_id,
			u.first_name || ' ' || u.last_name AS uploaded_by_name,
			document_versions.created_at`).
		Joins("JOIN users u ON u.id = document_versions.uploaded_by_id").
		Where("document_versions.document_id = ?", documentId).
		Order("document_versions.version_number DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// GetMasterList returns one page of the project's master list, newest
// promotion first, along with the total entry count for pagination.
func (dr DocumentRepository) GetMasterList(ctx context.Context, tx *gorm.DB, projectId string, page uint, pageSize uint) ([]MasterListRow, int64, error) {
	dr.logger.Debugf("Get master list of project %s page %d \n", projectId, page)

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = constant.DefaultPageSize
	}

	var total int64
	if err := db.WithContext(ctx).Model(&model.MasterListEntry{}).
		Where("project_id = ?", projectId).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []MasterListRow
	if err := db.WithContext(ctx).Model(&model.MasterListEntry{}).
		Select(`master_list_entries.id AS entry_id,
			d.id AS document_id,
			d.name AS document_name,
			dv.id AS version_id,
			dv.version_number,
			dv.file_path,
			master_list_entries.included_at`).
		Joins("JOIN document_versions dv ON dv.id = master_list_entries.document_version_id").
		Joins("JOIN documents d ON d.id = dv.document_id").
		Where("master_list_entries.project_id = ?", projectId).
		Order("master_list_entries.included_at DESC, master_list_entries.id").
		Offset(int((page - 1) * pageSize)).
		Limit(int(pageSize)).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}
