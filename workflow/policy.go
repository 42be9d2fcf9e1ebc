package workflow

import (
	"bitbucket.org/mmdatafocus/garage_backend/models"
)

type Action string

const (
	ActionReadRecord   Action = "read"
	ActionCreateRecord Action = "create"
	ActionMutateLedger Action = "mutate-ledger"
	ActionTransition   Action = "transition"
	ActionReassign     Action = "reassign"
)

// rolePermissions is a pure (role, action) -> allowed mapping. Only STAFF and
// ADMIN may change records; GARAGE, DEALER and WAREHOUSE get read-only access;
// CUSTOMER reads are further restricted to their own record (see CanReadRecord).
// The policy never mutates state, it only authorizes.
var rolePermissions = map[models.Role]map[Action]bool{
	models.RoleCustomer: {
		ActionReadRecord: true,
	},
	models.RoleGarage: {
		ActionReadRecord: true,
	},
	models.RoleDealer: {
		ActionReadRecord: true,
	},
	models.RoleWarehouse: {
		ActionReadRecord: true,
	},
	models.RoleStaff: {
		ActionReadRecord:   true,
		ActionCreateRecord: true,
		ActionMutateLedger: true,
		ActionTransition:   true,
		ActionReassign:     true,
	},
	models.RoleAdmin: {
		ActionReadRecord:   true,
		ActionCreateRecord: true,
		ActionMutateLedger: true,
		ActionTransition:   true,
		ActionReassign:     true,
	},
}

func Allowed(role models.Role, action Action) bool {
	return rolePermissions[role][action]
}

// CanReadRecord applies the per-record restriction on top of Allowed:
// a CUSTOMER may only read the record they are linked to.
func CanReadRecord(role models.Role, userId int, record *models.ServiceRecord) bool {
	if !Allowed(role, ActionReadRecord) {
		return false
	}
	if role == models.RoleCustomer {
		return record.AssignedUserId == userId
	}
	return true
}
