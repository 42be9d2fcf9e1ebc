package models

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/garage_backend/config"
	"bitbucket.org/mmdatafocus/garage_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ServiceItemInfo is the projection the record workflow needs when snapshotting
// a catalog price onto a line item.
type ServiceItemInfo struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// CatalogLookup resolves a catalog id to name and current price. Resolution
// failures are reported as utils.ErrorRecordNotFound; the workflow maps that
// to utils.ErrorUnknownServiceItem when adding line items.
type CatalogLookup interface {
	Resolve(ctx context.Context, serviceItemId int) (*ServiceItemInfo, error)
}

// GormCatalog reads the service_items table. Inactive items resolve as not
// found so they can no longer be added to records.
type GormCatalog struct {
	DB *gorm.DB
}

func (c *GormCatalog) Resolve(ctx context.Context, serviceItemId int) (*ServiceItemInfo, error) {
	var item ServiceItem
	if err := c.DB.WithContext(ctx).
		Where("id = ? AND is_active = true", serviceItemId).
		First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &ServiceItemInfo{ID: item.ID, Name: item.Name, Price: item.Price}, nil
}

// CachedCatalog is a redis read-through cache over another CatalogLookup.
// Misses (including redis being down) fall through to the inner lookup;
// negative results are not cached.
type CachedCatalog struct {
	Inner CatalogLookup
	Redis *config.RedisHandles
	TTL   time.Duration
}

func catalogCacheKey(serviceItemId int) string {
	return fmt.Sprintf("ServiceItem:%d", serviceItemId)
}

func (c *CachedCatalog) Resolve(ctx context.Context, serviceItemId int) (*ServiceItemInfo, error) {
	var cached ServiceItemInfo
	found, err := c.Redis.GetRedisObject(catalogCacheKey(serviceItemId), &cached)
	if err == nil && found {
		return &cached, nil
	}

	info, err := c.Inner.Resolve(ctx, serviceItemId)
	if err != nil {
		return nil, err
	}
	_ = c.Redis.SetRedisObject(catalogCacheKey(serviceItemId), info, c.TTL)
	return info, nil
}

// InvalidateItem must be called whenever a catalog price changes, otherwise
// resolves keep serving the stale cached price for up to TTL.
func (c *CachedCatalog) InvalidateItem(serviceItemId int) error {
	return c.Redis.RemoveRedisKey(catalogCacheKey(serviceItemId))
}

// MemoryCatalog is an in-process catalog used by tests and the harness.
type MemoryCatalog struct {
	mu    sync.RWMutex
	items map[int]ServiceItemInfo
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{items: map[int]ServiceItemInfo{}}
}

func (c *MemoryCatalog) Put(info ServiceItemInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[info.ID] = info
}

func (c *MemoryCatalog) Resolve(ctx context.Context, serviceItemId int) (*ServiceItemInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.items[serviceItemId]
	if !ok {
		return nil, utils.ErrorRecordNotFound
	}
	return &info, nil
}
