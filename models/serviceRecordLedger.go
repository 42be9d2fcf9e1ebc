package models

import (
	"bitbucket.org/mmdatafocus/garage_backend/utils"
)

// Ledger mutations. Line items may change only while the record is Pending or
// InProgress; from AwaitingPayment onward the ledger backs the billed total
// and is frozen. All mutations recompute TotalCost before returning.

func (record *ServiceRecord) ledgerMutable() bool {
	return record.CurrentStatus == ServiceRecordStatusPending ||
		record.CurrentStatus == ServiceRecordStatusInProgress
}

// RecomputeTotal derives TotalCost from the current details. Decimal math
// keeps the recomputation deterministic and idempotent; repeated calls on the
// same ledger state yield the identical total.
func (record *ServiceRecord) RecomputeTotal() {
	record.TotalCost = SumDetails(record.Details)
}

// AddDetail appends a line item with the given catalog snapshot.
func (record *ServiceRecord) AddDetail(info ServiceItemInfo, quantity int) error {
	if !record.ledgerMutable() {
		return utils.ErrorRecordClosed
	}
	if quantity < 1 {
		return utils.ErrorInvalidQuantity
	}
	record.Details = append(record.Details, ServiceRecordDetail{
		ServiceRecordId: record.ID,
		ServiceItemId:   info.ID,
		Name:            info.Name,
		PriceSnapshot:   info.Price,
		Quantity:        quantity,
		Position:        len(record.Details),
	})
	record.RecomputeTotal()
	return nil
}

// RemoveDetail removes the line item at the given ledger index.
func (record *ServiceRecord) RemoveDetail(index int) error {
	if !record.ledgerMutable() {
		return utils.ErrorRecordClosed
	}
	if index < 0 || index >= len(record.Details) {
		return utils.ErrorIndexOutOfRange
	}
	record.Details = append(record.Details[:index], record.Details[index+1:]...)
	for i := range record.Details {
		record.Details[i].Position = i
	}
	record.RecomputeTotal()
	return nil
}

// UpdateDetailQuantity changes the quantity of the line item at the given
// index; the price snapshot stays frozen.
func (record *ServiceRecord) UpdateDetailQuantity(index int, quantity int) error {
	if !record.ledgerMutable() {
		return utils.ErrorRecordClosed
	}
	if index < 0 || index >= len(record.Details) {
		return utils.ErrorIndexOutOfRange
	}
	if quantity < 1 {
		return utils.ErrorInvalidQuantity
	}
	record.Details[index].Quantity = quantity
	record.RecomputeTotal()
	return nil
}
