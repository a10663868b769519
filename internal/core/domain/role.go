package domain

import "errors"

// Role is the privilege tier of a bot user, strictly ordered
// USER < ADMIN < SUPER_ADMIN.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

var ErrUnknownRole = errors.New("unknown role")

// PermissionSet is the fixed record of capabilities derived from a role.
// Sets are monotone: every flag granted to USER is granted to ADMIN, and
// every flag granted to ADMIN is granted to SUPER_ADMIN.
type PermissionSet struct {
	ViewRates          bool
	SubmitApplications bool
	ViewApplications   bool
	ReplyApplications  bool
	CheckReceipts      bool
	ManageUsers        bool
	ManageRoles        bool
	ViewAllData        bool
}

// Permissions is the pure Role → PermissionSet function. Unknown roles get
// the USER set.
func (r Role) Permissions() PermissionSet {
	switch r {
	case RoleSuperAdmin:
		return PermissionSet{
			ViewRates:          true,
			SubmitApplications: true,
			ViewApplications:   true,
			ReplyApplications:  true,
			CheckReceipts:      true,
			ManageUsers:        true,
			ManageRoles:        true,
			ViewAllData:        true,
		}
	case RoleAdmin:
		return PermissionSet{
			ViewRates:          true,
			SubmitApplications: true,
			ViewApplications:   true,
			ReplyApplications:  true,
			CheckReceipts:      true,
		}
	default:
		return PermissionSet{
			ViewRates:          true,
			SubmitApplications: true,
		}
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Staff reports whether the role may review applications.
func (r Role) Staff() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// RoleLabel returns a display name, with an unknown fallback.
func (r Role) RoleLabel() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAdmin:
		return "Administrator"
	case RoleSuperAdmin:
		return "Super administrator"
	default:
		return "Unknown role"
	}
}
