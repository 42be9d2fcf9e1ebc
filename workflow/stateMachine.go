package workflow

import (
	"slices"
	"time"

	"bitbucket.org/mmdatafocus/garage_backend/models"
	"bitbucket.org/mmdatafocus/garage_backend/utils"
)

// recordTransitions is the full lifecycle table. AwaitingPayment -> InProgress
// is the rework path; Completed and Cancelled are terminal.
var recordTransitions = map[models.ServiceRecordStatus][]models.ServiceRecordStatus{
	models.ServiceRecordStatusPending: {
		models.ServiceRecordStatusInProgress,
		models.ServiceRecordStatusCancelled,
	},
	models.ServiceRecordStatusInProgress: {
		models.ServiceRecordStatusAwaitingPayment,
		models.ServiceRecordStatusCancelled,
	},
	models.ServiceRecordStatusAwaitingPayment: {
		models.ServiceRecordStatusCompleted,
		models.ServiceRecordStatusInProgress,
	},
	models.ServiceRecordStatusCompleted: {},
	models.ServiceRecordStatusCancelled: {},
}

func CanTransition(from models.ServiceRecordStatus, to models.ServiceRecordStatus) bool {
	return slices.Contains(recordTransitions[from], to)
}

// ApplyTransition moves the record to the target status, enforcing the table
// and the entry conditions:
//   - AwaitingPayment needs a non-empty ledger and commits a fresh recompute
//     of the total (never trusting the cached value),
//   - first leave of Pending into InProgress stamps StartTime,
//   - terminal entry stamps EndTime; the ledger is frozen from then on.
//
// Repeating an already-applied terminal transition fails with
// ErrorInvalidTransition, it never silently succeeds.
func ApplyTransition(record *models.ServiceRecord, to models.ServiceRecordStatus, now time.Time) error {
	if !to.Valid() || !CanTransition(record.CurrentStatus, to) {
		return utils.ErrorInvalidTransition
	}
	if to == models.ServiceRecordStatusAwaitingPayment {
		if len(record.Details) == 0 {
			return utils.ErrorEmptyLedger
		}
		record.RecomputeTotal()
	}
	if record.CurrentStatus == models.ServiceRecordStatusPending &&
		to == models.ServiceRecordStatusInProgress && record.StartTime == nil {
		start := now
		record.StartTime = &start
	}
	if to.IsTerminal() {
		end := now
		record.EndTime = &end
	}
	record.CurrentStatus = to
	return nil
}
