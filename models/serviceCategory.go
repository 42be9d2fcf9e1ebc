package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/garage_backend/utils"
	"gorm.io/gorm"
)

type ServiceCategory struct {
	ID               int       `gorm:"primary_key" json:"id"`
	Name             string    `gorm:"index;size:100;not null" json:"name" validate:"required"`
	ParentCategoryId int       `gorm:"index;default:null" json:"parent_category_id"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetServiceCategoryById(ctx context.Context, db *gorm.DB, id int) (*ServiceCategory, error) {
	var category ServiceCategory
	if err := db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &category, nil
}
