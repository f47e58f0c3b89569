package domain

import "strings"

// Permission is a capability label attached to a user
type Permission string

// Known permission labels
const (
	PermissionAdmin            Permission = "ADMIN"
	PermissionUser             Permission = "USER"
	PermissionItemCreate       Permission = "ITEMCREATE"
	PermissionItemUpdate       Permission = "ITEMUPDATE"
	PermissionItemDelete       Permission = "ITEMDELETE"
	PermissionPermissionUpdate Permission = "PERMISSIONUPDATE"
)

// AllPermissions lists every label in the order they are presented to clients
var AllPermissions = []Permission{
	PermissionAdmin,
	PermissionUser,
	PermissionItemCreate,
	PermissionItemUpdate,
	PermissionItemDelete,
	PermissionPermissionUpdate,
}

// Permissions is an unordered set of labels, stored as a JSON array
type Permissions []Permission

// ParsePermission maps a label to a known Permission
func ParsePermission(s string) (Permission, bool) {
	for _, p := range AllPermissions {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// String joins the labels with commas
func (ps Permissions) String() string {
	labels := make([]string, len(ps))
	for i, p := range ps {
		labels[i] = string(p)
	}
	return strings.Join(labels, ", ")
}

// HasPermission allows the call when the user holds at least one of the required
// permissions and fails with a forbidden error otherwise.
func HasPermission(user *User, required ...Permission) error {
	if user == nil {
		return Errorf(EUNAUTHENTICATED, "permission.check", "You must be logged in to do that!")
	}
	if user.Can(required...) {
		return nil
	}
	return Errorf(EFORBIDDEN, "permission.check",
		"You do not have sufficient permissions: %s. You have: %s",
		Permissions(required), user.Permissions)
}

// OwnerOr allows the call when ownerID is the user's own id, falling back to HasPermission
func OwnerOr(user *User, ownerID string, required ...Permission) error {
	if user != nil && user.ID == ownerID {
		return nil
	}
	return HasPermission(user, required...)
}
