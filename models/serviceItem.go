package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceItem is one entry of the garage's service catalog. The catalog is
// read-only from the record workflow's perspective; price changes here never
// touch already-added line items (those keep their snapshot).
type ServiceItem struct {
	ID                int             `gorm:"primary_key" json:"id"`
	ServiceCategoryId int             `gorm:"index;not null" json:"service_category_id" validate:"required,gt=0"`
	Name              string          `gorm:"index;size:100;not null" json:"name" validate:"required"`
	Description       string          `gorm:"size:255;default:null" json:"description"`
	Price             decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price"`
	IsActive          *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
