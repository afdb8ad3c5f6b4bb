package constant

// DocumentVersionStatus is the lifecycle state of a single document version.
// Pending is the initial state; Signed and Rejected are terminal.
type DocumentVersionStatus string

const (
	VersionStatusPending  DocumentVersionStatus = "pending"
	VersionStatusSigned   DocumentVersionStatus = "signed"
	VersionStatusRejected DocumentVersionStatus = "rejected"
)

type NotificationType string

const (
	NotificationDocumentUploaded    NotificationType = "document_uploaded"
	NotificationDocumentNewVersion  NotificationType = "document_new_version"
	NotificationSignaturePending    NotificationType = "signature_pending"
	NotificationDocumentFullySigned NotificationType = "document_fully_signed"
	NotificationDocumentRejected    NotificationType = "document_rejected"
)
