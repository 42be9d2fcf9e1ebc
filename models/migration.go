package models

import (
	"log"

	"gorm.io/gorm"
)

func MigrateTable(db *gorm.DB) {
	err := db.AutoMigrate(
		&Brand{},
		&ServiceCategory{}, &ServiceItem{},
		&ServiceRecord{}, &ServiceRecordDetail{},
		&User{},
		&Vehicle{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
