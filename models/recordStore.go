package models

import (
	"context"
	"sync"

	"bitbucket.org/mmdatafocus/garage_backend/utils"
	"gorm.io/gorm"
)

// RecordStore is the persistence collaborator for service records. Save uses
// optimistic concurrency: the record carries the version it was loaded at, a
// successful save bumps it, and a stale version fails with
// utils.ErrorStaleRecord (surfaced to callers as ErrorBusy by the workflow).
type RecordStore interface {
	Create(ctx context.Context, record *ServiceRecord) error
	Load(ctx context.Context, id int) (*ServiceRecord, error)
	Save(ctx context.Context, record *ServiceRecord) error
}

type GormRecordStore struct {
	DB *gorm.DB
}

func (s *GormRecordStore) Create(ctx context.Context, record *ServiceRecord) error {
	record.Version = 1
	return s.DB.WithContext(ctx).Create(record).Error
}

func (s *GormRecordStore) Load(ctx context.Context, id int) (*ServiceRecord, error) {
	var record ServiceRecord
	err := s.DB.WithContext(ctx).
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (s *GormRecordStore) Save(ctx context.Context, record *ServiceRecord) error {
	loadedVersion := record.Version
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ServiceRecord{}).
			Where("id = ? AND version = ?", record.ID, loadedVersion).
			Updates(map[string]interface{}{
				"assigned_user_id": record.AssignedUserId,
				"current_status":   record.CurrentStatus,
				"total_cost":       record.TotalCost,
				"start_time":       record.StartTime,
				"end_time":         record.EndTime,
				"version":          loadedVersion + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrorStaleRecord
		}

		// Replace the ledger wholesale; details carry their position so load
		// order stays the insertion order.
		if err := tx.Where("service_record_id = ?", record.ID).
			Delete(&ServiceRecordDetail{}).Error; err != nil {
			return err
		}
		for i := range record.Details {
			record.Details[i].ID = 0
			record.Details[i].ServiceRecordId = record.ID
			record.Details[i].Position = i
		}
		if len(record.Details) > 0 {
			if err := tx.Create(&record.Details).Error; err != nil {
				return err
			}
		}
		record.Version = loadedVersion + 1
		return nil
	})
}

// MemoryRecordStore keeps records in process memory with the same
// stale-version semantics as the gorm store. Tests and the harness use it;
// loads return deep copies so callers never share the stored state.
type MemoryRecordStore struct {
	mu      sync.RWMutex
	nextId  int
	records map[int]*ServiceRecord
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: map[int]*ServiceRecord{}}
}

func (s *MemoryRecordStore) Create(ctx context.Context, record *ServiceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId++
	record.ID = s.nextId
	record.Version = 1
	s.records[record.ID] = record.Clone()
	return nil
}

func (s *MemoryRecordStore) Load(ctx context.Context, id int) (*ServiceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return nil, utils.ErrorRecordNotFound
	}
	return record.Clone(), nil
}

func (s *MemoryRecordStore) Save(ctx context.Context, record *ServiceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.records[record.ID]
	if !ok {
		return utils.ErrorRecordNotFound
	}
	if stored.Version != record.Version {
		return utils.ErrorStaleRecord
	}
	record.Version++
	for i := range record.Details {
		record.Details[i].ServiceRecordId = record.ID
		record.Details[i].Position = i
	}
	s.records[record.ID] = record.Clone()
	return nil
}
