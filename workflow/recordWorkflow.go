package workflow

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/garage_backend/config"
	"bitbucket.org/mmdatafocus/garage_backend/models"
	"bitbucket.org/mmdatafocus/garage_backend/utils"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const defaultLockWait = 5 * time.Second

// RecordService is the façade over the record lifecycle: every mutation runs
// authorization -> per-record lock -> load -> legality -> mutation ->
// recompute -> invariant re-validation -> save, in that order. A failure at
// any step leaves the stored record untouched (the mutation only ever happens
// on the loaded working copy), so no partial write is observable.
type RecordService struct {
	Store    models.RecordStore
	Catalog  models.CatalogLookup
	Locks    RecordLocker
	Logger   *logrus.Logger
	Validate *validator.Validate
	LockWait time.Duration
}

func NewRecordService(store models.RecordStore, catalog models.CatalogLookup, locks RecordLocker, logger *logrus.Logger) *RecordService {
	return &RecordService{
		Store:    store,
		Catalog:  catalog,
		Locks:    locks,
		Logger:   logger,
		Validate: validator.New(),
		LockWait: defaultLockWait,
	}
}

func roleFromContext(ctx context.Context) (models.Role, error) {
	raw, ok := utils.GetRoleFromContext(ctx)
	if !ok {
		return "", utils.ErrorForbidden
	}
	role := models.Role(raw)
	if !role.Valid() {
		return "", utils.ErrorForbidden
	}
	return role, nil
}

func (s *RecordService) authorize(ctx context.Context, action Action) (models.Role, error) {
	role, err := roleFromContext(ctx)
	if err != nil {
		return "", err
	}
	if !Allowed(role, action) {
		return "", utils.ErrorForbidden
	}
	return role, nil
}

// Create opens a new record in Pending with an empty ledger and a zero total.
func (s *RecordService) Create(ctx context.Context, input *models.NewServiceRecord) (*models.ServiceRecord, error) {
	if _, err := s.authorize(ctx, ActionCreateRecord); err != nil {
		return nil, err
	}
	if err := s.Validate.Struct(input); err != nil {
		return nil, err
	}

	record := &models.ServiceRecord{
		VehicleId:      input.VehicleId,
		AssignedUserId: input.AssignedUserId,
		CurrentStatus:  models.ServiceRecordStatusPending,
		TotalCost:      decimal.Zero,
	}
	if err := record.CheckInvariants(); err != nil {
		config.LogError(s.Logger, "recordWorkflow.go", "Create", "CheckInvariants", input, err)
		return nil, err
	}
	if err := s.Store.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Get returns a snapshot of the record. Reads do not take the record lock;
// stores hand out isolated copies, so a reader observes either the pre- or
// post-state of a concurrent mutation, never an intermediate one.
func (s *RecordService) Get(ctx context.Context, recordId int) (*models.ServiceRecord, error) {
	role, err := roleFromContext(ctx)
	if err != nil {
		return nil, err
	}
	record, err := s.Store.Load(ctx, recordId)
	if err != nil {
		return nil, err
	}
	userId, _ := utils.GetUserIdFromContext(ctx)
	if !CanReadRecord(role, userId, record) {
		return nil, utils.ErrorForbidden
	}
	return record, nil
}

// mutate is the single commit path for everything that changes a record.
func (s *RecordService) mutate(ctx context.Context, recordId int, action Action, funcName string, fn func(record *models.ServiceRecord) error) (*models.ServiceRecord, error) {
	if _, err := s.authorize(ctx, action); err != nil {
		return nil, err
	}

	wait := s.LockWait
	if wait <= 0 {
		wait = defaultLockWait
	}
	release, err := s.Locks.Obtain(ctx, recordId, wait)
	if err != nil {
		return nil, err
	}
	defer release()

	record, err := s.Store.Load(ctx, recordId)
	if err != nil {
		return nil, err
	}
	if err := fn(record); err != nil {
		return nil, err
	}
	if err := record.CheckInvariants(); err != nil {
		// Should be unreachable; log as a defect and roll back by not saving.
		config.LogError(s.Logger, "recordWorkflow.go", funcName, "CheckInvariants", recordId, err)
		return nil, err
	}
	if err := s.Store.Save(ctx, record); err != nil {
		if errors.Is(err, utils.ErrorStaleRecord) {
			return nil, utils.ErrorBusy
		}
		return nil, err
	}
	if record.CurrentStatus.IsTerminal() {
		s.Locks.Evict(recordId)
	}
	return record, nil
}

// AddItem appends a line item, snapshotting the catalog price at this moment.
// Input checks live inside the mutate callback so authorization always runs
// first; a non-positive ServiceItemId falls through catalog resolution and
// surfaces as ErrorUnknownServiceItem like any other unresolvable id.
func (s *RecordService) AddItem(ctx context.Context, recordId int, input *models.NewServiceRecordDetail) (*models.ServiceRecord, error) {
	return s.mutate(ctx, recordId, ActionMutateLedger, "AddItem", func(record *models.ServiceRecord) error {
		if input.Quantity < 1 {
			return utils.ErrorInvalidQuantity
		}
		info, err := s.Catalog.Resolve(ctx, input.ServiceItemId)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				return utils.ErrorUnknownServiceItem
			}
			return err
		}
		return record.AddDetail(*info, input.Quantity)
	})
}

func (s *RecordService) RemoveItem(ctx context.Context, recordId int, index int) (*models.ServiceRecord, error) {
	return s.mutate(ctx, recordId, ActionMutateLedger, "RemoveItem", func(record *models.ServiceRecord) error {
		return record.RemoveDetail(index)
	})
}

func (s *RecordService) UpdateQuantity(ctx context.Context, recordId int, index int, quantity int) (*models.ServiceRecord, error) {
	return s.mutate(ctx, recordId, ActionMutateLedger, "UpdateQuantity", func(record *models.ServiceRecord) error {
		return record.UpdateDetailQuantity(index, quantity)
	})
}

// Reassign changes the assigned user; allowed only while the record is still
// Pending.
func (s *RecordService) Reassign(ctx context.Context, recordId int, newUserId int) (*models.ServiceRecord, error) {
	return s.mutate(ctx, recordId, ActionReassign, "Reassign", func(record *models.ServiceRecord) error {
		if record.CurrentStatus != models.ServiceRecordStatusPending {
			return utils.ErrorInvalidTransition
		}
		record.AssignedUserId = newUserId
		return nil
	})
}

func (s *RecordService) Transition(ctx context.Context, recordId int, newStatus models.ServiceRecordStatus) (*models.ServiceRecord, error) {
	return s.mutate(ctx, recordId, ActionTransition, "Transition", func(record *models.ServiceRecord) error {
		return ApplyTransition(record, newStatus, time.Now())
	})
}
