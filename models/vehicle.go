package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/garage_backend/utils"
	"gorm.io/gorm"
)

type Vehicle struct {
	ID          int       `gorm:"primary_key" json:"id"`
	BrandId     int       `gorm:"index;not null" json:"brand_id" validate:"required,gt=0"`
	OwnerUserId int       `gorm:"index;not null" json:"owner_user_id" validate:"required,gt=0"`
	Model       string    `gorm:"size:100;not null" json:"model" validate:"required"`
	Year        int       `gorm:"default:null" json:"year"`
	PlateNumber string    `gorm:"index;size:50;not null" json:"plate_number" validate:"required"`
	Vin         string    `gorm:"size:100;default:null" json:"vin"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetVehicleById(ctx context.Context, db *gorm.DB, id int) (*Vehicle, error) {
	var vehicle Vehicle
	if err := db.WithContext(ctx).Where("id = ?", id).First(&vehicle).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}
