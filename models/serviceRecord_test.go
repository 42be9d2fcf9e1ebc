package models

import (
	"errors"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/garage_backend/utils"
	"github.com/shopspring/decimal"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func itemInfo(t *testing.T, id int, name string, price string) ServiceItemInfo {
	t.Helper()
	return ServiceItemInfo{ID: id, Name: name, Price: mustDecimal(t, price)}
}

func pendingRecord() *ServiceRecord {
	return &ServiceRecord{
		ID:             1,
		VehicleId:      10,
		AssignedUserId: 3,
		CurrentStatus:  ServiceRecordStatusPending,
		TotalCost:      decimal.Zero,
	}
}

func TestSumDetails_NoFloatDrift(t *testing.T) {
	// 0.10 added ten times must be exactly 1.00; float accumulation would drift.
	details := make([]ServiceRecordDetail, 10)
	for i := range details {
		details[i] = ServiceRecordDetail{PriceSnapshot: mustDecimal(t, "0.10"), Quantity: 1}
	}
	if got := SumDetails(details); !got.Equal(mustDecimal(t, "1.00")) {
		t.Fatalf("expected exactly 1.00, got %s", got)
	}
}

func TestSumDetails_Idempotent(t *testing.T) {
	details := []ServiceRecordDetail{
		{PriceSnapshot: mustDecimal(t, "19.99"), Quantity: 3},
		{PriceSnapshot: mustDecimal(t, "45.00"), Quantity: 1},
	}
	first := SumDetails(details)
	second := SumDetails(details)
	if !first.Equal(second) {
		t.Fatalf("recompute not idempotent: %s vs %s", first, second)
	}
	if !first.Equal(mustDecimal(t, "104.97")) {
		t.Fatalf("expected 104.97, got %s", first)
	}
}

func TestAddDetail_SnapshotsPriceAndRecomputes(t *testing.T) {
	record := pendingRecord()
	if err := record.AddDetail(itemInfo(t, 5, "Oil Change", "20.00"), 2); err != nil {
		t.Fatalf("add detail: %v", err)
	}
	if !record.TotalCost.Equal(mustDecimal(t, "40.00")) {
		t.Fatalf("expected total 40.00, got %s", record.TotalCost)
	}
	if record.Details[0].Name != "Oil Change" || record.Details[0].ServiceItemId != 5 {
		t.Fatalf("detail snapshot wrong: %+v", record.Details[0])
	}
}

func TestAddDetail_InvalidQuantity(t *testing.T) {
	record := pendingRecord()
	for _, quantity := range []int{0, -1} {
		if err := record.AddDetail(itemInfo(t, 1, "x", "10.00"), quantity); !errors.Is(err, utils.ErrorInvalidQuantity) {
			t.Fatalf("quantity=%d expected ErrorInvalidQuantity, got %v", quantity, err)
		}
	}
	if len(record.Details) != 0 {
		t.Fatalf("failed add must not modify the ledger")
	}
}

func TestLedgerFrozenOutsidePendingAndInProgress(t *testing.T) {
	for _, status := range []ServiceRecordStatus{
		ServiceRecordStatusAwaitingPayment,
		ServiceRecordStatusCompleted,
		ServiceRecordStatusCancelled,
	} {
		record := pendingRecord()
		if err := record.AddDetail(itemInfo(t, 1, "x", "10.00"), 1); err != nil {
			t.Fatalf("setup add: %v", err)
		}
		record.CurrentStatus = status

		if err := record.AddDetail(itemInfo(t, 2, "y", "5.00"), 1); !errors.Is(err, utils.ErrorRecordClosed) {
			t.Fatalf("status=%s add expected ErrorRecordClosed, got %v", status, err)
		}
		if err := record.RemoveDetail(0); !errors.Is(err, utils.ErrorRecordClosed) {
			t.Fatalf("status=%s remove expected ErrorRecordClosed, got %v", status, err)
		}
		if err := record.UpdateDetailQuantity(0, 2); !errors.Is(err, utils.ErrorRecordClosed) {
			t.Fatalf("status=%s update expected ErrorRecordClosed, got %v", status, err)
		}
	}
}

func TestRemoveDetail_IndexAndReorder(t *testing.T) {
	record := pendingRecord()
	for i, price := range []string{"10.00", "20.00", "30.00"} {
		if err := record.AddDetail(itemInfo(t, i+1, "svc", price), 1); err != nil {
			t.Fatalf("setup add: %v", err)
		}
	}

	if err := record.RemoveDetail(3); !errors.Is(err, utils.ErrorIndexOutOfRange) {
		t.Fatalf("expected ErrorIndexOutOfRange, got %v", err)
	}
	if err := record.RemoveDetail(-1); !errors.Is(err, utils.ErrorIndexOutOfRange) {
		t.Fatalf("expected ErrorIndexOutOfRange, got %v", err)
	}

	if err := record.RemoveDetail(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !record.TotalCost.Equal(mustDecimal(t, "40.00")) {
		t.Fatalf("expected total 40.00 after removal, got %s", record.TotalCost)
	}
	for i, d := range record.Details {
		if d.Position != i {
			t.Fatalf("positions not compacted: %+v", record.Details)
		}
	}
}

func TestUpdateDetailQuantity(t *testing.T) {
	record := pendingRecord()
	if err := record.AddDetail(itemInfo(t, 1, "svc", "15.50"), 1); err != nil {
		t.Fatalf("setup add: %v", err)
	}

	if err := record.UpdateDetailQuantity(0, 0); !errors.Is(err, utils.ErrorInvalidQuantity) {
		t.Fatalf("expected ErrorInvalidQuantity, got %v", err)
	}
	if err := record.UpdateDetailQuantity(5, 2); !errors.Is(err, utils.ErrorIndexOutOfRange) {
		t.Fatalf("expected ErrorIndexOutOfRange, got %v", err)
	}
	if err := record.UpdateDetailQuantity(0, 4); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !record.TotalCost.Equal(mustDecimal(t, "62.00")) {
		t.Fatalf("expected total 62.00, got %s", record.TotalCost)
	}
}

func TestCheckInvariants(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Hour)

	cases := []struct {
		name   string
		mutate func(record *ServiceRecord)
		wantOk bool
	}{
		{"fresh pending record", func(record *ServiceRecord) {}, true},
		{"total drifted from details", func(record *ServiceRecord) {
			record.TotalCost = decimal.NewFromInt(999)
		}, false},
		{"awaiting payment with empty ledger", func(record *ServiceRecord) {
			record.CurrentStatus = ServiceRecordStatusAwaitingPayment
		}, false},
		{"cancelled with empty ledger", func(record *ServiceRecord) {
			record.CurrentStatus = ServiceRecordStatusCancelled
			record.EndTime = &now
		}, true},
		{"terminal without end time", func(record *ServiceRecord) {
			record.CurrentStatus = ServiceRecordStatusCancelled
		}, false},
		{"end time on open record", func(record *ServiceRecord) {
			record.CurrentStatus = ServiceRecordStatusInProgress
			record.StartTime = &earlier
			record.EndTime = &now
		}, false},
		{"end before start", func(record *ServiceRecord) {
			record.CurrentStatus = ServiceRecordStatusCancelled
			record.StartTime = &now
			record.EndTime = &earlier
		}, false},
		{"unknown status", func(record *ServiceRecord) {
			record.CurrentStatus = ServiceRecordStatus("Bogus")
		}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := pendingRecord()
			tc.mutate(record)
			err := record.CheckInvariants()
			if tc.wantOk && err != nil {
				t.Fatalf("expected invariants to hold, got %v", err)
			}
			if !tc.wantOk {
				if !errors.Is(err, utils.ErrorInvariantViolation) {
					t.Fatalf("expected ErrorInvariantViolation, got %v", err)
				}
			}
		})
	}
}

func TestClone_IsolatesDetails(t *testing.T) {
	record := pendingRecord()
	if err := record.AddDetail(itemInfo(t, 1, "svc", "10.00"), 1); err != nil {
		t.Fatalf("setup add: %v", err)
	}
	cloned := record.Clone()
	cloned.Details[0].Quantity = 99
	cloned.RecomputeTotal()
	if record.Details[0].Quantity != 1 {
		t.Fatalf("clone shares detail backing array")
	}
	if !record.TotalCost.Equal(mustDecimal(t, "10.00")) {
		t.Fatalf("clone mutation leaked into original total")
	}
}
