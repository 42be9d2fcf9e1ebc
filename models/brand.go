package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/garage_backend/utils"
	"gorm.io/gorm"
)

type Brand struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"index;size:100;not null" json:"name" validate:"required"`
	Country   string    `gorm:"size:100" json:"country"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetBrandById(ctx context.Context, db *gorm.DB, id int) (*Brand, error) {
	var brand Brand
	if err := db.WithContext(ctx).Where("id = ?", id).First(&brand).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &brand, nil
}
