package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

type ServiceRecordStatus string

const (
	ServiceRecordStatusPending         ServiceRecordStatus = "Pending"
	ServiceRecordStatusInProgress      ServiceRecordStatus = "InProgress"
	ServiceRecordStatusAwaitingPayment ServiceRecordStatus = "AwaitingPayment"
	ServiceRecordStatusCompleted       ServiceRecordStatus = "Completed"
	ServiceRecordStatusCancelled       ServiceRecordStatus = "Cancelled"
)

// IsTerminal reports whether no further transition is allowed from the status.
func (s ServiceRecordStatus) IsTerminal() bool {
	return s == ServiceRecordStatusCompleted || s == ServiceRecordStatusCancelled
}

func (s ServiceRecordStatus) Valid() bool {
	switch s {
	case ServiceRecordStatusPending, ServiceRecordStatusInProgress,
		ServiceRecordStatusAwaitingPayment, ServiceRecordStatusCompleted,
		ServiceRecordStatusCancelled:
		return true
	}
	return false
}

// Value implements the driver.Valuer interface
func (s ServiceRecordStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, errors.New("invalid service record status")
	}
	return string(s), nil
}

// Scan implements the sql.Scanner interface
func (s *ServiceRecordStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*s = ServiceRecordStatus(v)
	case []byte:
		*s = ServiceRecordStatus(v)
	default:
		return fmt.Errorf("cannot convert %T to ServiceRecordStatus", value)
	}
	if !s.Valid() {
		return fmt.Errorf("invalid service record status %q", string(*s))
	}
	return nil
}

type Role string

const (
	RoleCustomer  Role = "CUSTOMER"
	RoleGarage    Role = "GARAGE"
	RoleDealer    Role = "DEALER"
	RoleWarehouse Role = "WAREHOUSE"
	RoleStaff     Role = "STAFF"
	RoleAdmin     Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleGarage, RoleDealer, RoleWarehouse, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, errors.New("invalid role")
	}
	return string(r), nil
}

// Scan implements the sql.Scanner interface
func (r *Role) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("cannot convert %T to Role", value)
	}
	if !r.Valid() {
		return fmt.Errorf("invalid role %q", string(*r))
	}
	return nil
}
