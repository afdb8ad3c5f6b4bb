package constant

// ProjectRole mirrors the role a user holds within a project.
type ProjectRole string

const (
	ProjectRoleAdministrator ProjectRole = "Administrator"
	ProjectRoleClient        ProjectRole = "Client"
	ProjectRoleCollaborator  ProjectRole = "Collaborator"
)

type ProjectPermission string

const (
	DocumentUpload     ProjectPermission = "document:upload"
	DocumentNewVersion ProjectPermission = "document:version:upload"
	DocumentSign       ProjectPermission = "document:sign"
	DocumentReject     ProjectPermission = "document:reject"
	DocumentRead       ProjectPermission = "document:read"
	MasterListRead     ProjectPermission = "document:masterlist:read"
)
