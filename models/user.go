package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/garage_backend/utils"
	"gorm.io/gorm"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"index;size:100;not null" json:"username" validate:"required"`
	Name      string    `gorm:"size:100" json:"name"`
	Role      Role      `gorm:"type:enum('CUSTOMER', 'GARAGE', 'DEALER', 'WAREHOUSE', 'STAFF', 'ADMIN');not null" json:"role" validate:"required"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetUserById(ctx context.Context, db *gorm.DB, id int) (*User, error) {
	var user User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}
