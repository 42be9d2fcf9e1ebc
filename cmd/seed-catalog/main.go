// seed-catalog migrates the schema and loads a starter catalog: brands,
// service categories, catalog items, a staff user and a demo vehicle.
// It is idempotent on name lookups, so rerunning it is safe.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-catalog
package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/garage_backend/config"
	"bitbucket.org/mmdatafocus/garage_backend/models"
	"bitbucket.org/mmdatafocus/garage_backend/utils"
	"gorm.io/gorm"
)

type seedItem struct {
	category string
	name     string
	price    string
}

var seedItems = []seedItem{
	{"Maintenance", "Oil Change", "45.00"},
	{"Maintenance", "Tire Rotation", "30.00"},
	{"Maintenance", "Brake Inspection", "25.00"},
	{"Repair", "Brake Pad Replacement", "180.00"},
	{"Repair", "Battery Replacement", "150.00"},
	{"Inspection", "Annual Inspection", "60.00"},
}

func main() {
	ctx := context.Background()
	db := config.ConnectDatabaseWithRetry()
	models.MigrateTable(db)

	active := true

	for _, brandName := range []string{"Toyota", "Ford", "Hyundai"} {
		if err := firstOrCreate(ctx, db, &models.Brand{}, "name = ?", brandName,
			&models.Brand{Name: brandName, IsActive: &active}); err != nil {
			fail("seed brand %q: %v", brandName, err)
		}
	}

	categoryIds := map[string]int{}
	for _, categoryName := range []string{"Maintenance", "Repair", "Inspection"} {
		var category models.ServiceCategory
		err := db.WithContext(ctx).Where("name = ?", categoryName).First(&category).Error
		if err == gorm.ErrRecordNotFound {
			category = models.ServiceCategory{Name: categoryName}
			err = db.WithContext(ctx).Create(&category).Error
		}
		if err != nil {
			fail("seed category %q: %v", categoryName, err)
		}
		categoryIds[categoryName] = category.ID
	}

	for _, item := range seedItems {
		price, err := utils.ConvertToDecimal(item.price)
		if err != nil {
			fail("bad seed price %q: %v", item.price, err)
		}
		if err := firstOrCreate(ctx, db, &models.ServiceItem{}, "name = ?", item.name,
			&models.ServiceItem{
				ServiceCategoryId: categoryIds[item.category],
				Name:              item.name,
				Price:             price,
				IsActive:          &active,
			}); err != nil {
			fail("seed item %q: %v", item.name, err)
		}
	}

	var staff models.User
	err := db.WithContext(ctx).Where("username = ?", "garageStaff").First(&staff).Error
	if err == gorm.ErrRecordNotFound {
		staff = models.User{Username: "garageStaff", Name: "Garage Staff", Role: models.RoleStaff, IsActive: &active}
		err = db.WithContext(ctx).Create(&staff).Error
	}
	if err != nil {
		fail("seed staff user: %v", err)
	}

	var brand models.Brand
	if err := db.WithContext(ctx).Where("name = ?", "Toyota").First(&brand).Error; err != nil {
		fail("lookup brand: %v", err)
	}
	var vehicle models.Vehicle
	err = db.WithContext(ctx).Where("plate_number = ?", "DEMO-001").First(&vehicle).Error
	if err == gorm.ErrRecordNotFound {
		vehicle = models.Vehicle{
			BrandId:     brand.ID,
			OwnerUserId: staff.ID,
			Model:       "Corolla",
			Year:        2021,
			PlateNumber: "DEMO-001",
		}
		err = db.WithContext(ctx).Create(&vehicle).Error
	}
	if err != nil {
		fail("seed vehicle: %v", err)
	}

	// Read everything back by id so a rerun catches schema drift early.
	if _, err := models.GetBrandById(ctx, db, brand.ID); err != nil {
		fail("verify brand %d: %v", brand.ID, err)
	}
	if _, err := models.GetServiceCategoryById(ctx, db, categoryIds["Maintenance"]); err != nil {
		fail("verify category %d: %v", categoryIds["Maintenance"], err)
	}
	if _, err := models.GetUserById(ctx, db, staff.ID); err != nil {
		fail("verify staff user %d: %v", staff.ID, err)
	}
	if _, err := models.GetVehicleById(ctx, db, vehicle.ID); err != nil {
		fail("verify vehicle %d: %v", vehicle.ID, err)
	}

	fmt.Println("catalog seeded")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func firstOrCreate[T any](ctx context.Context, db *gorm.DB, probe *T, cond string, arg any, create *T) error {
	err := db.WithContext(ctx).Where(cond, arg).First(probe).Error
	if err == gorm.ErrRecordNotFound {
		return db.WithContext(ctx).Create(create).Error
	}
	return err
}
