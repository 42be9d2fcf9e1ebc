package models

import (
	"context"
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/garage_backend/utils"
	"github.com/shopspring/decimal"
)

func TestMemoryCatalog_Resolve(t *testing.T) {
	catalog := NewMemoryCatalog()
	catalog.Put(ServiceItemInfo{ID: 5, Name: "Oil Change", Price: decimal.NewFromInt(20)})

	info, err := catalog.Resolve(context.Background(), 5)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if info.Name != "Oil Change" || !info.Price.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected info: %+v", info)
	}

	if _, err := catalog.Resolve(context.Background(), 404); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected ErrorRecordNotFound, got %v", err)
	}
}

func TestCachedCatalog_NilRedisFallsThrough(t *testing.T) {
	inner := NewMemoryCatalog()
	inner.Put(ServiceItemInfo{ID: 1, Name: "svc", Price: decimal.NewFromInt(5)})
	cached := &CachedCatalog{Inner: inner, Redis: nil}

	info, err := cached.Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if info.ID != 1 {
		t.Fatalf("unexpected info: %+v", info)
	}

	if err := cached.InvalidateItem(1); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if info, err = cached.Resolve(context.Background(), 1); err != nil || info.ID != 1 {
		t.Fatalf("resolve after invalidate: %+v %v", info, err)
	}
}
