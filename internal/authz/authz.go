// Package authz provides the static role-based authorization matrix gating
// every dispatcher operation.
//
// The matrix is a pure lookup with no I/O. Roles form a closed set; an
// unrecognized label resolves to RoleUnknown, which holds no permissions
// (deny-by-default). ADMIN is granted everything through a short-circuit
// rather than explicit enumeration, so operations added later are admin-
// accessible without touching the table.
package authz

// Role is the closed set of caller roles.
type Role int

// Caller roles, resolved from a transport-supplied label before dispatch.
const (
	// RoleUnknown is the zero role: no label, or a label outside the known
	// set. It carries no permissions.
	RoleUnknown Role = iota

	// RoleJurist attaches document versions and views tasks/documents.
	RoleJurist

	// RoleExpert confirms tasks and views tasks/documents.
	RoleExpert

	// RoleModerator updates task statuses and views tasks/documents.
	RoleModerator

	// RoleAdmin holds every permission, present and future.
	RoleAdmin
)

// String returns the canonical ASCII label for the role.
func (r Role) String() string {
	switch r {
	case RoleJurist:
		return "jurist"
	case RoleExpert:
		return "expert"
	case RoleModerator:
		return "moderator"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Permission names a gated operation category.
type Permission string

// Permissions gating the dispatcher operations.
const (
	// PermCreateTask allows creating new tasks.
	PermCreateTask Permission = "create_task"

	// PermUpdateTaskStatus allows overwriting a task's status.
	PermUpdateTaskStatus Permission = "update_task_status"

	// PermAddDocumentVersion allows attaching document versions.
	PermAddDocumentVersion Permission = "add_document_version"

	// PermConfirmTask allows the confirm alias (status -> CONFIRMED).
	PermConfirmTask Permission = "confirm_task"

	// PermViewTask allows reading tasks, task lists and task history.
	PermViewTask Permission = "view_task"

	// PermViewDocuments allows reading document versions.
	PermViewDocuments Permission = "view_documents"
)

// AllPermissions returns every defined permission in declaration order.
// The returned slice is a copy and safe to modify.
func AllPermissions() []Permission {
	return []Permission{
		PermCreateTask,
		PermUpdateTaskStatus,
		PermAddDocumentVersion,
		PermConfirmTask,
		PermViewTask,
		PermViewDocuments,
	}
}

// rolePermissions maps each non-admin role to its granted permissions.
// RoleAdmin is deliberately absent: HasPermission short-circuits it.
var rolePermissions = map[Role][]Permission{
	RoleJurist: {
		PermAddDocumentVersion,
		PermViewTask,
		PermViewDocuments,
	},
	RoleExpert: {
		PermConfirmTask,
		PermViewTask,
		PermViewDocuments,
	},
	RoleModerator: {
		PermUpdateTaskStatus,
		PermViewTask,
		PermViewDocuments,
	},
}

// HasPermission reports whether role holds the given permission.
// It is total: every (role, permission) pair yields a boolean, never a fault.
func HasPermission(role Role, permission Permission) bool {
	if role == RoleAdmin {
		return true
	}
	for _, granted := range rolePermissions[role] {
		if granted == permission {
			return true
		}
	}
	return false
}

// Permissions returns the permissions granted to role, in a stable order.
// The returned slice is a copy and safe to modify.
func Permissions(role Role) []Permission {
	if role == RoleAdmin {
		return AllPermissions()
	}
	granted := rolePermissions[role]
	out := make([]Permission, len(granted))
	copy(out, granted)
	return out
}
