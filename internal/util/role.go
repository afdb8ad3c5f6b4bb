package util

import (
	"slices"

	"github.com/gespro/gespro-api/internal/constant"
)

var rolePermissions = map[constant.ProjectRole][]constant.ProjectPermission{
	constant.ProjectRoleAdministrator: {
		constant.DocumentUpload,
		constant.DocumentNewVersion,
		constant.DocumentSign,
		constant.DocumentReject,
		constant.DocumentRead,
		constant.MasterListRead,
	},
	constant.ProjectRoleClient: {
		constant.DocumentSign,
		constant.DocumentReject,
		constant.DocumentRead,
		constant.MasterListRead,
	},
	constant.ProjectRoleCollaborator: {
		constant.DocumentUpload,
		constant.DocumentNewVersion,
		constant.DocumentSign,
		constant.DocumentReject,
		constant.DocumentRead,
	},
}

// HasPermission checks if all permissions are granted by the given role.
func HasPermission(role constant.ProjectRole, permissions []constant.ProjectPermission) bool {
	for _, permission := range permissions {
		if !slices.Contains(rolePermissions[role], permission) {
			return false
		}
	}
	return true
}

func HasRole(role constant.ProjectRole, requiredRoles []constant.ProjectRole) bool {
	return slices.Contains(requiredRoles, role)
}
