package workflow

import (
	"testing"

	"bitbucket.org/mmdatafocus/garage_backend/models"
)

func TestAllowed_Grid(t *testing.T) {
	mutatingActions := []Action{ActionCreateRecord, ActionMutateLedger, ActionTransition, ActionReassign}

	for _, role := range []models.Role{models.RoleStaff, models.RoleAdmin} {
		for _, action := range mutatingActions {
			if !Allowed(role, action) {
				t.Errorf("%s must be allowed %s", role, action)
			}
		}
		if !Allowed(role, ActionReadRecord) {
			t.Errorf("%s must be allowed read", role)
		}
	}

	for _, role := range []models.Role{models.RoleCustomer, models.RoleGarage, models.RoleDealer, models.RoleWarehouse} {
		for _, action := range mutatingActions {
			if Allowed(role, action) {
				t.Errorf("%s must not be allowed %s", role, action)
			}
		}
		if !Allowed(role, ActionReadRecord) {
			t.Errorf("%s must be allowed read", role)
		}
	}
}

func TestAllowed_UnknownRole(t *testing.T) {
	if Allowed(models.Role("INTRUDER"), ActionReadRecord) {
		t.Fatal("unknown role must not be allowed anything")
	}
}

func TestCanReadRecord_CustomerOwnership(t *testing.T) {
	record := &models.ServiceRecord{ID: 1, AssignedUserId: 3}

	if !CanReadRecord(models.RoleCustomer, 3, record) {
		t.Error("customer must read their own record")
	}
	if CanReadRecord(models.RoleCustomer, 4, record) {
		t.Error("customer must not read someone else's record")
	}
	if !CanReadRecord(models.RoleGarage, 99, record) {
		t.Error("garage read is not ownership-restricted")
	}
	if !CanReadRecord(models.RoleAdmin, 99, record) {
		t.Error("admin read is not ownership-restricted")
	}
}
