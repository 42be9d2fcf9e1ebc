package models

import (
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/garage_backend/utils"
	"github.com/shopspring/decimal"
)

// ServiceRecord tracks one vehicle undergoing service end-to-end: its line
// items, the derived total, the lifecycle status and the open/close window.
// TotalCost is never hand-edited; the workflow recomputes it from Details
// after every committed mutation.
type ServiceRecord struct {
	ID             int                   `gorm:"primary_key" json:"id"`
	VehicleId      int                   `gorm:"index;not null" json:"vehicle_id"`
	AssignedUserId int                   `gorm:"index;not null" json:"assigned_user_id"`
	CurrentStatus  ServiceRecordStatus   `gorm:"type:enum('Pending', 'InProgress', 'AwaitingPayment', 'Completed', 'Cancelled');not null" json:"current_status"`
	Details        []ServiceRecordDetail `gorm:"foreignKey:ServiceRecordId" json:"details"`
	TotalCost      decimal.Decimal       `gorm:"type:decimal(20,4);default:0" json:"total_cost"`
	StartTime      *time.Time            `json:"start_time"`
	EndTime        *time.Time            `json:"end_time"`
	Version        int                   `gorm:"not null;default:0" json:"version"`
	CreatedAt      time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
}

// ServiceRecordDetail is one catalog service applied to a record. PriceSnapshot
// is frozen at the moment of addition and must not track later catalog price
// changes; insertion order of details is the audit trail.
type ServiceRecordDetail struct {
	ID              int             `gorm:"primary_key" json:"id"`
	ServiceRecordId int             `gorm:"index;not null" json:"service_record_id"`
	ServiceItemId   int             `gorm:"index;not null" json:"service_item_id"`
	Name            string          `gorm:"size:100" json:"name"`
	PriceSnapshot   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price_snapshot"`
	Quantity        int             `gorm:"not null;default:1" json:"quantity"`
	Position        int             `gorm:"not null;default:0" json:"position"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewServiceRecord struct {
	VehicleId      int `json:"vehicle_id" validate:"required,gt=0"`
	AssignedUserId int `json:"assigned_user_id" validate:"required,gt=0"`
}

type NewServiceRecordDetail struct {
	ServiceItemId int `json:"service_item_id" validate:"required,gt=0"`
	Quantity      int `json:"quantity" validate:"required,gte=1"`
}

// SumDetails returns the exact decimal sum of PriceSnapshot * Quantity over
// the given details. It is the single source of truth for a record's total.
func SumDetails(details []ServiceRecordDetail) decimal.Decimal {
	total := decimal.Zero
	for _, d := range details {
		total = total.Add(d.PriceSnapshot.Mul(decimal.NewFromInt(int64(d.Quantity))))
	}
	return total
}

// CheckInvariants re-validates every structural invariant of the record.
// The workflow calls it before committing any mutation; a failure here means
// a defect upstream, so all errors wrap utils.ErrorInvariantViolation.
func (record *ServiceRecord) CheckInvariants() error {
	if !record.CurrentStatus.Valid() {
		return fmt.Errorf("%w: unknown status %q", utils.ErrorInvariantViolation, record.CurrentStatus)
	}
	for i, d := range record.Details {
		if d.Quantity < 1 {
			return fmt.Errorf("%w: detail %d has quantity %d", utils.ErrorInvariantViolation, i, d.Quantity)
		}
		if d.PriceSnapshot.IsNegative() {
			return fmt.Errorf("%w: detail %d has negative price snapshot", utils.ErrorInvariantViolation, i)
		}
	}
	if !record.TotalCost.Equal(SumDetails(record.Details)) {
		return fmt.Errorf("%w: total_cost %s does not match details sum %s",
			utils.ErrorInvariantViolation, record.TotalCost, SumDetails(record.Details))
	}
	// An empty ledger is tolerated in Pending, InProgress and Cancelled; billing
	// statuses require at least one line item.
	if (record.CurrentStatus == ServiceRecordStatusAwaitingPayment || record.CurrentStatus == ServiceRecordStatusCompleted) && len(record.Details) == 0 {
		return fmt.Errorf("%w: status %s with empty ledger", utils.ErrorInvariantViolation, record.CurrentStatus)
	}
	if record.CurrentStatus.IsTerminal() != (record.EndTime != nil) {
		return fmt.Errorf("%w: end_time set=%t but status %s", utils.ErrorInvariantViolation,
			record.EndTime != nil, record.CurrentStatus)
	}
	if record.StartTime != nil && record.EndTime != nil && record.EndTime.Before(*record.StartTime) {
		return fmt.Errorf("%w: end_time before start_time", utils.ErrorInvariantViolation)
	}
	return nil
}

// Clone returns a deep copy so readers observe a stable snapshot while the
// workflow mutates its own working copy.
func (record *ServiceRecord) Clone() *ServiceRecord {
	if record == nil {
		return nil
	}
	cloned := *record
	if record.StartTime != nil {
		start := *record.StartTime
		cloned.StartTime = &start
	}
	if record.EndTime != nil {
		end := *record.EndTime
		cloned.EndTime = &end
	}
	cloned.Details = make([]ServiceRecordDetail, len(record.Details))
	copy(cloned.Details, record.Details)
	return &cloned
}
