package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gespro/gespro-api/internal/constant"
	"github.com/gespro/gespro-api/internal/model"
	"github.com/gespro/gespro-api/internal/notification"
	"github.com/gespro/gespro-api/internal/repository"
	"github.com/gespro/gespro-api/internal/util"
	"github.com/gespro/gespro-api/pkg/docstamp"
	"github.com/gin-gonic/gin"
)

type DocumentController struct {
	*baseController
	// stampLocks serializes the stamp-then-update-pointer sequence per
	// version so two signers cannot overwrite each other's visual stamp.
	stampLocks *util.KeyedMutex
}

var ALLOWED_DOCUMENT_FILE_TYPE = []string{".pdf"}
var ALLOWED_SIGNATURE_FILE_TYPE = []string{".png"}

const (
	ErrDocumentIdRequired = "document id is required"
	ErrVersionIdRequired  = "version id is required"

	DefaultChangeDescription = "Initial version"
)

// UploadDocument creates a document with its first version. The signer
// roster may be empty on a first upload; such a version can never complete.
func (dc DocumentController) UploadDocument(ctx *gin.Context) {
	type Request struct {
		DocumentName      string   `form:"documentName" binding:"required,strNotEmpty,cmax=200"`
		ChangeDescription string   `form:"changeDescription" binding:"omitempty,cmax=1000"`
		SignerUserIds     []string `form:"signerUserIds"`
	}
	var body Request

	projectId := ctx.Params.ByName("projectId")
	if projectId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Project id is required", util.GenerateErrorMessages(errors.New(ErrProjectIdRequired), "projectId"), nil)
		return
	}

	user, role, project, err := dc.getProjectRole(ctx, projectId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			util.ResponseFailed(ctx, http.StatusNotFound, "Project not found", util.GenerateErrorMessages(errors.New("project not found"), "projectId"), nil)
			return
		}

		dc.app.Logger.Errorf("Failed to get project role: %v", err)
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you are not a member of this project")), nil)
		return
	}

	if !util.HasPermission(role, []constant.ProjectPermission{constant.DocumentUpload}) {
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you do not have permission to upload documents")), nil)
		return
	}

	if err := ctx.ShouldBind(&body); err != nil {
		dc.app.Logger.Errorf("Failed to bind request: %v", err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	docFile, err := ctx.FormFile("file")
	if err != nil {
		dc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "No document file uploaded", util.GenerateErrorMessages(errors.New("document file is required"), "file"), nil)
		return
	}

	ext := strings.ToLower(filepath.Ext(docFile.Filename))
	if !slices.Contains(ALLOWED_DOCUMENT_FILE_TYPE, ext) {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid file type", util.GenerateErrorMessages(errors.New("only pdf documents are supported"), "file"), nil)
		return
	}

	if !dc.validateSignerUserIds(ctx, body.SignerUserIds) {
		return
	}

	fileName, err := util.ToDocumentFileName(body.DocumentName)
	if err != nil {
		dc.app.Logger.Errorf("Failed to build document file name: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to upload file", util.GenerateErrorMessages(err), nil)
		return
	}

	info, err := util.UploadFileToS3ByFileHeader(docFile, &util.FileUploadOptions{
		DirectoryPath: util.GetProjectDocumentDirectoryPath(project.ID, project.Name),
		FileName:      fileName,
		Bucket:        dc.app.Config.Minio.BUCKET,
		S3:            dc.app.S3,
	})
	if err != nil {
		dc.app.Logger.Errorf("Failed to upload document file: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to upload file", util.GenerateErrorMessages(err), nil)
		return
	}

	changeDescription := strings.TrimSpace(body.ChangeDescription)
	if changeDescription == "" {
		changeDescription = DefaultChangeDescription
	}

	tx := dc.app.Repository.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to upload document", util.GenerateErrorMessages(errors.New("failed to upload document")), nil)
		}
	}()

	doc := model.Document{
		Name:        strings.TrimSpace(body.DocumentName),
		ProjectID:   project.ID,
		CreatedByID: user.ID,
	}
	if _, err := dc.app.Repository.Document.Create(ctx, tx, &doc); err != nil {
		tx.Rollback()
		dc.app.Logger.Errorf("Failed to create document: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to create document", util.GenerateErrorMessages(err), nil)
		return
	}

	version := model.DocumentVersion{
		DocumentID:        doc.ID,
		FilePath:          info.Key,
		MimeType:          "application/pdf",
		ChangeDescription: changeDescription,
		UploadedByID:      user.ID,
	}
	if _, err := dc.app.Repository.Document.CreateNextVersion(ctx, tx, &version); err != nil {
		tx.Rollback()
		dc.app.Logger.Errorf("Failed to create document version: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to create document version", util.GenerateErrorMessages(err), nil)
		return
	}

	if err := dc.app.Repository.Document.AssignSigners(ctx, tx, version.ID, body.SignerUserIds); err != nil {
		tx.Rollback()
		if errors.Is(err, repository.ErrDuplicateSigner) {
			util.ResponseFailed(ctx, http.StatusConflict, "Duplicate signer", util.GenerateErrorMessages(err, "signerUserIds"), nil)
			return
		}

		dc.app.Logger.Errorf("Failed to assign signers: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to assign signers", util.GenerateErrorMessages(err), nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to upload document", util.GenerateErrorMessages(err), nil)
		return
	}

	dc.notifyUpload(ctx, constant.NotificationDocumentUploaded, project, &doc, user.ID, body.SignerUserIds)

	util.ResponseCreated(ctx, gin.H{
		"documentId":    doc.ID,
		"versionId":     version.ID,
		"versionNumber": version.VersionNumber,
	})
}

// UploadNewVersion appends a version to an existing document. Unlike the
// first upload, the signer roster must not be empty.
func (dc DocumentController) UploadNewVersion(ctx *gin.Context) {
	type Request struct {
		ChangeDescription string   `form:"changeDescription" binding:"required,strNotEmpty,cmax=1000"`
		SignerUserIds     []string `form:"signerUserIds" binding:"required,min=1"`
	}
	var body Request

	projectId := ctx.Params.ByName("projectId")
	documentId := ctx.Params.ByName("documentId")
	if projectId == "" || documentId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Document id is required", util.GenerateErrorMessages(errors.New(ErrDocumentIdRequired), "documentId"), nil)
		return
	}

	user, role, project, err := dc.getProjectRole(ctx, projectId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			util.ResponseFailed(ctx, http.StatusNotFound, "Project not found", util.GenerateErrorMessages(errors.New("project not found"), "projectId"), nil)
			return
		}

		dc.app.Logger.Errorf("Failed to get project role: %v", err)
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you are not a member of this project")), nil)
		return
	}

	if !util.HasPermission(role, []constant.ProjectPermission{constant.DocumentNewVersion}) {
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you do not have permission to upload new versions")), nil)
		return
	}

	doc, err := dc.app.Repository.Document.GetById(ctx, nil, documentId)
	if err != nil || doc.ProjectID != project.ID {
		util.ResponseFailed(ctx, http.StatusNotFound, "Document not found", util.GenerateErrorMessages(errors.New("document not found"), "documentId"), nil)
		return
	}

	if err := ctx.ShouldBind(&body); err != nil {
		dc.app.Logger.Errorf("Failed to bind request: %v", err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	docFile, err := ctx.FormFile("file")
	if err != nil {
		dc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "No document file uploaded", util.GenerateErrorMessages(errors.New("document file is required"), "file"), nil)
		return
	}

	ext := strings.ToLower(filepath.Ext(docFile.Filename))
	if !slices.Contains(ALLOWED_DOCUMENT_FILE_TYPE, ext) {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid file type", util.GenerateErrorMessages(errors.New("only pdf documents are supported"), "file"), nil)
		return
	}

	if !dc.validateSignerUserIds(ctx, body.SignerUserIds) {
		return
	}

	fileName, err := util.ToDocumentFileName(doc.Name)
	if err != nil {
		dc.app.Logger.Errorf("Failed to build document file name: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to upload file", util.GenerateErrorMessages(err), nil)
		return
	}

	info, err := util.UploadFileToS3ByFileHeader(docFile, &util.FileUploadOptions{
		DirectoryPath: util.GetProjectDocumentDirectoryPath(project.ID, project.Name),
		FileName:      fileName,
		Bucket:        dc.app.Config.Minio.BUCKET,
		S3:            dc.app.S3,
	})
	if err != nil {
		dc.app.Logger.Errorf("Failed to upload document file: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to upload file", util.GenerateErrorMessages(err), nil)
		return
	}

	tx := dc.app.Repository.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to upload new version", util.GenerateErrorMessages(errors.New("failed to upload new version")), nil)
		}
	}()

	version := model.DocumentVersion{
		DocumentID:        doc.ID,
		FilePath:          info.Key,
		MimeType:          "application/pdf",
		ChangeDescription: strings.TrimSpace(body.ChangeDescription),
		UploadedByID:      user.ID,
	}
	if _, err := dc.app.Repository.Document.CreateNextVersion(ctx, tx, &version); err != nil {
		tx.Rollback()
		if errors.Is(err, repository.ErrVersionConflict) {
			util.ResponseFailed(ctx, http.StatusConflict, "Version conflict", util.GenerateErrorMessages(err), nil)
			return
		}

		dc.app.Logger.Errorf("Failed to create document version: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to create document version", util.GenerateErrorMessages(err), nil)
		return
	}

	if err := dc.app.Repository.Document.AssignSigners(ctx, tx, version.ID, body.SignerUserIds); err != nil {
		tx.Rollback()
		if errors.Is(err, repository.ErrDuplicateSigner) {
			util.ResponseFailed(ctx, http.StatusConflict, "Duplicate signer", util.GenerateErrorMessages(err, "signerUserIds"), nil)
			return
		}

		dc.app.Logger.Errorf("Failed to assign signers: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to assign signers", util.GenerateErrorMessages(err), nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to upload new version", util.GenerateErrorMessages(err), nil)
		return
	}

	dc.notifyUpload(ctx, constant.NotificationDocumentNewVersion, project, doc, user.ID, body.SignerUserIds)

	util.ResponseCreated(ctx, gin.H{
		"documentId":    doc.ID,
		"versionId":     version.ID,
		"versionNumber": version.VersionNumber,
	})
}

// SignDocument stamps the caller's signature image onto the version's stored
// PDF and records the signature. When the last required signer signs, the
// version is promoted to the project master list.
func (dc DocumentController) SignDocument(ctx *gin.Context) {
	type Request struct {
		XRatio float64 `form:"xRatio" binding:"min=0,max=1"`
		YRatio float64 `form:"yRatio" binding:"min=0,max=1"`
	}
	var body Request

	projectId := ctx.Params.ByName("projectId")
	versionId := ctx.Params.ByName("versionId")
	if projectId == "" || versionId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Version id is required", util.GenerateErrorMessages(errors.New(ErrVersionIdRequired), "versionId"), nil)
		return
	}

	user, role, project, err := dc.getProjectRole(ctx, projectId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			util.ResponseFailed(ctx, http.StatusNotFound, "Project not found", util.GenerateErrorMessages(errors.New("project not found"), "projectId"), nil)
			return
		}

		dc.app.Logger.Errorf("Failed to get project role: %v", err)
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you are not a member of this project")), nil)
		return
	}

	if !util.HasPermission(role, []constant.ProjectPermission{constant.DocumentSign}) {
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you do not have permission to sign documents")), nil)
		return
	}

	if err := ctx.ShouldBind(&body); err != nil {
		dc.app.Logger.Errorf("Failed to bind request: %v", err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	sigFile, err := ctx.FormFile("signatureFile")
	if err != nil {
		dc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "No signature file uploaded", util.GenerateErrorMessages(errors.New("signature file is required"), "signatureFile"), nil)
		return
	}

	ext := strings.ToLower(filepath.Ext(sigFile.Filename))
	if !slices.Contains(ALLOWED_SIGNATURE_FILE_TYPE, ext) {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid file type", util.GenerateErrorMessages(errors.New("only png signatures are supported"), "signatureFile"), nil)
		return
	}

	canSign, err := dc.app.Repository.Document.CanUserSign(ctx, nil, versionId, user.ID)
	if err != nil {
		dc.app.Logger.Errorf("Failed to check signing permission: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to check signing permission", util.GenerateErrorMessages(err), nil)
		return
	}
	if !canSign {
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you are not a pending signer of this version")), nil)
		return
	}

	sig, err := sigFile.Open()
	if err != nil {
		dc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to read signature file", util.GenerateErrorMessages(err), nil)
		return
	}
	sigBytes, err := io.ReadAll(sig)
	sig.Close()
	if err != nil {
		dc.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to read signature file", util.GenerateErrorMessages(err), nil)
		return
	}

	// The stamp-then-update-pointer sequence must not interleave between two
	// signers of the same version, or the second write would discard the
	// first signer's visual stamp.
	dc.stampLocks.Lock(versionId)
	defer dc.stampLocks.Unlock(versionId)

	version, err := dc.app.Repository.Document.GetVersionById(ctx, nil, versionId)
	if err != nil || version.Document.ProjectID != project.ID {
		util.ResponseFailed(ctx, http.StatusNotFound, "Version not found", util.GenerateErrorMessages(errors.New("version not found"), "versionId"), nil)
		return
	}

	// Authorization is re-evaluated inside the critical section: a signature
	// or rejection that completed while this request waited on the lock must
	// be refused here, before a duplicate stamp is drawn onto the PDF.
	signers, err := dc.app.Repository.Document.GetSignersForVersion(ctx, nil, versionId)
	if err != nil {
		dc.app.Logger.Errorf("Failed to load signers for version %s: %v", versionId, err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to check signing permission", util.GenerateErrorMessages(err), nil)
		return
	}
	if !model.CanSign(*version, signers, user.ID) {
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you are not a pending signer of this version")), nil)
		return
	}

	pdfBytes, err := util.DownloadBytesFromS3(ctx, dc.app.S3, dc.app.Config.Minio.BUCKET, version.FilePath)
	if err != nil {
		dc.app.Logger.Errorf("Failed to download document file %s: %v", version.FilePath, err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to read document file", util.GenerateErrorMessages(err), nil)
		return
	}

	stamped, err := docstamp.Stamp(pdfBytes, sigBytes, body.XRatio, body.YRatio)
	if err != nil {
		if errors.Is(err, docstamp.ErrInvalidImage) {
			util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid signature image", util.GenerateErrorMessages(err, "signatureFile"), nil)
			return
		}

		dc.app.Logger.Errorf("Failed to stamp document version %s: %v", versionId, err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to stamp document", util.GenerateErrorMessages(err), nil)
		return
	}

	signedFileName, err := util.ToSignedDocumentFileName(version.Document.Name)
	if err != nil {
		dc.app.Logger.Errorf("Failed to build signed file name: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to save signed document", util.GenerateErrorMessages(err), nil)
		return
	}

	info, err := util.UploadBytesToS3(stamped, "application/pdf", &util.FileUploadOptions{
		DirectoryPath: util.GetProjectDocumentDirectoryPath(project.ID, project.Name),
		FileName:      signedFileName,
		Bucket:        dc.app.Config.Minio.BUCKET,
		S3:            dc.app.S3,
	})
	if err != nil {
		dc.app.Logger.Errorf("Failed to upload signed document: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to save signed document", util.GenerateErrorMessages(err), nil)
		return
	}

	if err := dc.app.Repository.Document.UpdateVersionFile(ctx, nil, versionId, version.FilePath, info.Key); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			util.ResponseFailed(ctx, http.StatusConflict, "Document was modified concurrently", util.GenerateErrorMessages(err), nil)
			return
		}

		dc.app.Logger.Errorf("Failed to update version file pointer: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to update document", util.GenerateErrorMessages(err), nil)
		return
	}

	if err := dc.app.Repository.Document.RecordSignature(ctx, nil, versionId, user.ID); err != nil {
		if errors.Is(err, repository.ErrNothingUpdated) {
			util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you are not a pending signer of this version")), nil)
			return
		}

		dc.app.Logger.Errorf("Failed to record signature: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to record signature", util.GenerateErrorMessages(err), nil)
		return
	}

	signers, err = dc.app.Repository.Document.GetSignersForVersion(ctx, nil, versionId)
	if err != nil {
		// The signature itself is durable at this point, degrade to a
		// success response without completion handling.
		dc.app.Logger.Errorf("Failed to load signers after signature: %v", err)
		util.ResponseSuccess(ctx, gin.H{"status": constant.VersionStatusPending})
		return
	}

	allSigned := model.AllSigned(signers)
	status := constant.VersionStatusPending
	if allSigned {
		if err := dc.app.Repository.Document.PromoteToMasterList(ctx, nil, versionId, project.ID); err != nil {
			dc.app.Logger.Errorf("Failed to promote version %s to master list: %v", versionId, err)
			util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to promote document", util.GenerateErrorMessages(err), nil)
			return
		}
		status = constant.VersionStatusSigned
	}

	dc.notifySignature(ctx, project, version, user.ID, signers, allSigned)

	util.ResponseSuccess(ctx, gin.H{
		"status":    status,
		"allSigned": allSigned,
	})
}

// RejectDocument records a rejection with a mandatory comment and flips the
// version to its terminal Rejected state, blocking all remaining signers.
func (dc DocumentController) RejectDocument(ctx *gin.Context) {
	type Request struct {
		Comment string `json:"comment" binding:"required,strNotEmpty,cmax=1000"`
	}
	var body Request

	projectId := ctx.Params.ByName("projectId")
	versionId := ctx.Params.ByName("versionId")
	if projectId == "" || versionId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Version id is required", util.GenerateErrorMessages(errors.New(ErrVersionIdRequired), "versionId"), nil)
		return
	}

	user, role, project, err := dc.getProjectRole(ctx, projectId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			util.ResponseFailed(ctx, http.StatusNotFound, "Project not found", util.GenerateErrorMessages(errors.New("project not found"), "projectId"), nil)
			return
		}

		dc.app.Logger.Errorf("Failed to get project role: %v", err)
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you are not a member of this project")), nil)
		return
	}

	if !util.HasPermission(role, []constant.ProjectPermission{constant.DocumentReject}) {
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you do not have permission to reject documents")), nil)
		return
	}

	version, err := dc.app.Repository.Document.GetVersionById(ctx, nil, versionId)
	if err != nil || version.Document.ProjectID != project.ID {
		util.ResponseFailed(ctx, http.StatusNotFound, "Version not found", util.GenerateErrorMessages(errors.New("version not found"), "versionId"), nil)
		return
	}

	if err := ctx.ShouldBind(&body); err != nil {
		dc.app.Logger.Errorf("Failed to bind request: %v", err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	canSign, err := dc.app.Repository.Document.CanUserSign(ctx, nil, versionId, user.ID)
	if err != nil {
		dc.app.Logger.Errorf("Failed to check signing permission: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to check signing permission", util.GenerateErrorMessages(err), nil)
		return
	}
	if !canSign {
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you are not a pending signer of this version")), nil)
		return
	}

	comment := strings.TrimSpace(body.Comment)
	if err := dc.app.Repository.Document.RecordRejection(ctx, nil, versionId, user.ID, comment); err != nil {
		if errors.Is(err, repository.ErrNothingUpdated) {
			util.ResponseFailed(ctx, http.StatusConflict, "Version is no longer pending", util.GenerateErrorMessages(err), nil)
			return
		}

		dc.app.Logger.Errorf("Failed to record rejection: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to record rejection", util.GenerateErrorMessages(err), nil)
		return
	}

	dc.notifyRejection(ctx, project, version)

	util.ResponseSuccess(ctx, gin.H{
		"status": constant.VersionStatusRejected,
	})
}

// GetDocumentsByProject lists the project's documents with their latest
// version. Collaborators only see documents they uploaded or must sign.
func (dc DocumentController) GetDocumentsByProject(ctx *gin.Context) {
	projectId := ctx.Params.ByName("projectId")
	if projectId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Project id is required", util.GenerateErrorMessages(errors.New(ErrProjectIdRequired), "projectId"), nil)
		return
	}

	user, role, _, err := dc.getProjectRole(ctx, projectId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			util.ResponseFailed(ctx, http.StatusNotFound, "Project not found", util.GenerateErrorMessages(errors.New("project not found"), "projectId"), nil)
			return
		}

		dc.app.Logger.Errorf("Failed to get project role: %v", err)
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you are not a member of this project")), nil)
		return
	}

	if !util.HasPermission(role, []constant.ProjectPermission{constant.DocumentRead}) {
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you do not have permission to view documents")), nil)
		return
	}

	rows, err := dc.app.Repository.Document.GetDocumentsByProject(ctx, nil, projectId, user.ID, role)
	if err != nil {
		dc.app.Logger.Errorf("Failed to get documents: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to get documents", util.GenerateErrorMessages(err), nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"documents": rows,
	})
}

// GetVersionHistory lists every version of a document, newest first.
func (dc DocumentController) GetVersionHistory(ctx *gin.Context) {
	projectId := ctx.Params.ByName("projectId")
	documentId := ctx.Params.ByName("documentId")
	if projectId == "" || documentId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Document id is required", util.GenerateErrorMessages(errors.New(ErrDocumentIdRequired), "documentId"), nil)
		return
	}

	_, role, project, err := dc.getProjectRole(ctx, projectId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			util.ResponseFailed(ctx, http.StatusNotFound, "Project not found", util.GenerateErrorMessages(errors.New("project not found"), "projectId"), nil)
			return
		}

		dc.app.Logger.Errorf("Failed to get project role: %v", err)
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you are not a member of this project")), nil)
		return
	}

	if !util.HasPermission(role, []constant.ProjectPermission{constant.DocumentRead}) {
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you do not have permission to view documents")), nil)
		return
	}

	doc, err := dc.app.Repository.Document.GetById(ctx, nil, documentId)
	if err != nil || doc.ProjectID != project.ID {
		util.ResponseFailed(ctx, http.StatusNotFound, "Document not found", util.GenerateErrorMessages(errors.New("document not found"), "documentId"), nil)
		return
	}

	rows, err := dc.app.Repository.Document.GetVersionHistory(ctx, nil, documentId)
	if err != nil {
		dc.app.Logger.Errorf("Failed to get version history: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to get version history", util.GenerateErrorMessages(err), nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"document": gin.H{
			"id":   doc.ID,
			"name": doc.Name,
		},
		"versions": rows,
	})
}

// GetSignersByVersion lists the signer roster of a version with each
// signer's tri-state.
func (dc DocumentController) GetSignersByVersion(ctx *gin.Context) {
	projectId := ctx.Params.ByName("projectId")
	versionId := ctx.Params.ByName("versionId")
	if projectId == "" || versionId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Version id is required", util.GenerateErrorMessages(errors.New(ErrVersionIdRequired), "versionId"), nil)
		return
	}

	_, role, project, err := dc.getProjectRole(ctx, projectId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			util.ResponseFailed(ctx, http.StatusNotFound, "Project not found", util.GenerateErrorMessages(errors.New("project not found"), "projectId"), nil)
			return
		}

		dc.app.Logger.Errorf("Failed to get project role: %v", err)
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you are not a member of this project")), nil)
		return
	}

	if !util.HasPermission(role, []constant.ProjectPermission{constant.DocumentRead}) {
		util.ResponseFailed(ctx, http.StatusForbidden, "Forbidden", util.GenerateErrorMessages(errors.New("you do not have permission to view documents")), nil)
		return
	}

	version, err := dc.app.Repository.Document.GetVersionById(ctx, nil, versionId)
	if err != nil || version.Document.ProjectID != project.ID {
		util.ResponseFailed(ctx, http.StatusNotFound, "Version not found", util.GenerateErrorMessages(errors.New("version not found"), "versionId"), nil)
		return
	}

	signers, err := dc.app.Repository.Document.GetSignersForVersion(ctx, nil, versionId)
	if err != nil {
		dc.app.Logger.Errorf("Failed to get signers: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to get signers", util.GenerateErrorMessages(err), nil)
		return
	}

	rows := make([]gin.H, 0, len(signers))
	for _, s := range signers {
		rows = append(rows, gin.H{
			"userId":           s.UserID,
			"fullName":         s.User.FullName(),
			"email":            s.User.Email,
			"signed":           s.Signed,
			"signedAt":         s.SignedAt,
			"rejected":         s.Rejected,
			"rejectionComment": s.RejectionComment,
		})
	}

	util.ResponseSuccess(ctx, gin.H{
		"version": gin.H{
			"id":     version.ID,
			"status": version.Status,
		},
		"signers": rows,
	})
}

// notifyUpload fans an upload event out to the project and tells the
// assigned signers their signature is requested. First uploads go to every
// member; new versions only to the privileged roles. Best effort only.
// validateSignerUserIds rejects the request when a requested signer id has no
// user row, so a typo cannot create a roster entry that blocks completion
// forever. Writes the failure response and returns false on rejection.
func (dc DocumentController) validateSignerUserIds(ctx *gin.Context, signerUserIds []string) bool {
	if len(signerUserIds) == 0 {
		return true
	}

	users, err := dc.app.Repository.User.GetManyByIds(ctx, nil, signerUserIds)
	if err != nil {
		dc.app.Logger.Errorf("Failed to load signer users: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to validate signers", util.GenerateErrorMessages(err), nil)
		return false
	}

	if missing := missingSignerIds(signerUserIds, users); len(missing) > 0 {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Unknown signer", util.GenerateErrorMessages(fmt.Errorf("unknown signer user ids: %s", strings.Join(missing, ", ")), "signerUserIds"), nil)
		return false
	}

	return true
}

// missingSignerIds returns the requested ids without a matching user row,
// deduplicated, in input order.
func missingSignerIds(requested []string, users []model.User) []string {
	found := make(map[string]struct{}, len(users))
	for _, u := range users {
		found[u.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(requested))
	var missing []string
	for _, id := range requested {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}

	return missing
}

func (dc DocumentController) notifyUpload(ctx *gin.Context, eventType constant.NotificationType, project *model.Project, doc *model.Document, uploaderId string, signerIds []string) {
	if dc.app.Notifier == nil {
		return
	}

	members, err := dc.app.Repository.Project.GetMembers(ctx, nil, project.ID)
	if err != nil {
		dc.app.Logger.Errorf("Failed to load members for notification fan-out: %v", err)
		return
	}

	recipients := recipientsExcept(members, uploaderId)
	if eventType == constant.NotificationDocumentNewVersion {
		privileged := recipientsWithRoles(members, []constant.ProjectRole{
			constant.ProjectRoleAdministrator,
			constant.ProjectRoleClient,
		})
		recipients = recipientsExceptFrom(privileged, uploaderId)
	}

	dc.app.Notifier.Notify(ctx, notification.Event{
		Type:         eventType,
		ProjectID:    project.ID,
		ProjectName:  project.Name,
		DocumentID:   doc.ID,
		DocumentName: doc.Name,
		Recipients:   recipients,
	})

	if len(signerIds) > 0 {
		dc.app.Notifier.Notify(ctx, notification.Event{
			Type:         constant.NotificationSignaturePending,
			ProjectID:    project.ID,
			ProjectName:  project.Name,
			DocumentID:   doc.ID,
			DocumentName: doc.Name,
			Recipients:   recipientsWithIds(members, signerIds),
		})
	}
}

// notifySignature reminds remaining pending signers, and on completion tells
// the project's privileged roles the document is fully executed.
func (dc DocumentController) notifySignature(ctx *gin.Context, project *model.Project, version *model.DocumentVersion, signerId string, signers []model.DocumentSigner, allSigned bool) {
	if dc.app.Notifier == nil {
		return
	}

	members, err := dc.app.Repository.Project.GetMembers(ctx, nil, project.ID)
	if err != nil {
		dc.app.Logger.Errorf("Failed to load members for notification fan-out: %v", err)
		return
	}

	if pendingIds := model.PendingSignerIds(signers); len(pendingIds) > 0 {
		dc.app.Notifier.Notify(ctx, notification.Event{
			Type:         constant.NotificationSignaturePending,
			ProjectID:    project.ID,
			ProjectName:  project.Name,
			DocumentID:   version.DocumentID,
			DocumentName: version.Document.Name,
			Recipients:   recipientsWithIds(members, pendingIds),
		})
	}

	if allSigned {
		dc.app.Notifier.Notify(ctx, notification.Event{
			Type:         constant.NotificationDocumentFullySigned,
			ProjectID:    project.ID,
			ProjectName:  project.Name,
			DocumentID:   version.DocumentID,
			DocumentName: version.Document.Name,
			Recipients: recipientsWithRoles(members, []constant.ProjectRole{
				constant.ProjectRoleAdministrator,
				constant.ProjectRoleClient,
			}),
		})
	}
}

// notifyRejection tells the version's uploader about the rejection.
func (dc DocumentController) notifyRejection(ctx *gin.Context, project *model.Project, version *model.DocumentVersion) {
	if dc.app.Notifier == nil {
		return
	}

	uploader, err := dc.app.Repository.User.GetById(ctx, nil, version.UploadedByID)
	if err != nil {
		dc.app.Logger.Errorf("Failed to load uploader for rejection notification: %v", err)
		return
	}

	dc.app.Notifier.Notify(ctx, notification.Event{
		Type:         constant.NotificationDocumentRejected,
		ProjectID:    project.ID,
		ProjectName:  project.Name,
		DocumentID:   version.DocumentID,
		DocumentName: version.Document.Name,
		Recipients: []notification.Recipient{
			{UserID: uploader.ID, FullName: uploader.FullName(), Email: uploader.Email},
		},
	})
}

func recipientsExcept(members []repository.ProjectMember, excludeUserId string) []notification.Recipient {
	recipients := make([]notification.Recipient, 0, len(members))
	for _, m := range members {
		if m.UserID == excludeUserId {
			continue
		}
		recipients = append(recipients, notification.Recipient{UserID: m.UserID, FullName: m.FullName, Email: m.Email})
	}
	return recipients
}

func recipientsExceptFrom(recipients []notification.Recipient, excludeUserId string) []notification.Recipient {
	out := make([]notification.Recipient, 0, len(recipients))
	for _, r := range recipients {
		if r.UserID == excludeUserId {
			continue
		}
		out = append(out, r)
	}
	return out
}

func recipientsWithIds(members []repository.ProjectMember, userIds []string) []notification.Recipient {
	var recipients []notification.Recipient
	for _, m := range members {
		if slices.Contains(userIds, m.UserID) {
			recipients = append(recipients, notification.Recipient{UserID: m.UserID, FullName: m.FullName, Email: m.Email})
		}
	}
	return recipients
}

func recipientsWithRoles(members []repository.ProjectMember, roles []constant.ProjectRole) []notification.Recipient {
	var recipients []notification.Recipient
	for _, m := range members {
		if util.HasRole(m.Role, roles) {
			recipients = append(recipients, notification.Recipient{UserID: m.UserID, FullName: m.FullName, Email: m.Email})
		}
	}
	return recipients
}
