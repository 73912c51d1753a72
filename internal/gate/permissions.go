package gate

import "github.com/MedVetSolutions/vet-scheduler/internal/models"

// RolePermissions is the default PermissionChecker: a static role ->
// permission table. Owners hold every permission.
type RolePermissions struct{}

var rolePermissions = map[string][]string{
	"vet": {
		"appointments.create",
		"pets.create",
	},
	"staff": {
		"appointments.create",
		"pets.create",
		"users.create",
		"data.export",
	},
	"admin": {
		"appointments.create",
		"pets.create",
		"users.create",
		"data.export",
		"features.advanced",
		"api.access",
		"branding.manage",
		"support.priority",
	},
}

// KnownRole reports whether role is one the permission table understands.
func KnownRole(role string) bool {
	if role == "owner" {
		return true
	}
	_, ok := rolePermissions[role]
	return ok
}

func (RolePermissions) Can(user *models.User, permission string) bool {
	if user == nil {
		return false
	}
	if user.Role == "owner" {
		return true
	}
	for _, p := range rolePermissions[user.Role] {
		if p == permission {
			return true
		}
	}
	return false
}
