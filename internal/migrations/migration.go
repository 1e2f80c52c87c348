package migrations

import (
	"fmt"
	"log"

	"taller_manager/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RunMigrations migrates the schema and seeds default data
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Order{},
		&models.Garment{},
		&models.AdjustmentLineItem{},
		&models.Adjustment{},
		&models.AdjustmentAction{},
		&models.Combination{},
		&models.Drawer{},
		&models.Code{},
		&models.AbonoRecord{},
		&models.CashMovement{},
		&models.StorageAudit{},
	)
	if err != nil {
		return err
	}

	if err := seedAdmin(db); err != nil {
		log.Printf("Warning: failed to seed admin user: %v", err)
	}
	if err := seedCatalog(db); err != nil {
		log.Printf("Warning: failed to seed catalog: %v", err)
	}
	if err := seedStorage(db); err != nil {
		log.Printf("Warning: failed to seed storage: %v", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

// seedAdmin creates the default admin account on an empty database.
func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Creating default admin user...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:     "admin",
		Name:         "Administrator",
		Email:        "admin@localhost",
		PasswordHash: string(hashedPassword),
		Role:         string(models.RoleAdmin),
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("Default admin user created (username: admin)")
	return nil
}

// seedCatalog creates a starter reference catalog on an empty database.
func seedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Adjustment{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding reference catalog...")

	adjustments := []models.Adjustment{
		{Name: "Hem", Price: 12000},
		{Name: "Waist", Price: 18000},
		{Name: "Sleeves", Price: 15000},
		{Name: "Zipper replacement", Price: 20000},
	}
	if err := db.Create(&adjustments).Error; err != nil {
		return err
	}

	actions := []models.AdjustmentAction{
		{Name: "Shorten", Price: 10000},
		{Name: "Lengthen", Price: 12000},
		{Name: "Take in", Price: 14000},
		{Name: "Let out", Price: 14000},
	}
	if err := db.Create(&actions).Error; err != nil {
		return err
	}

	combinations := []models.Combination{
		{AdjustmentID: adjustments[0].ID, ActionID: actions[0].ID, Price: 18000},
		{AdjustmentID: adjustments[1].ID, ActionID: actions[2].ID, Price: 25000},
		{AdjustmentID: adjustments[2].ID, ActionID: actions[0].ID, Price: 22000},
	}
	return db.Create(&combinations).Error
}

// seedStorage creates the physical drawers and codes on an empty database.
func seedStorage(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Drawer{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding drawers and codes...")

	for _, label := range []string{"A", "B", "C"} {
		drawer := models.Drawer{Label: label, State: models.DrawerAvailable}
		if err := db.Create(&drawer).Error; err != nil {
			return err
		}
		for i := 1; i <= 4; i++ {
			code := models.Code{
				DrawerID: drawer.ID,
				Label:    fmt.Sprintf("%s-%d", label, i),
				State:    models.CodeAvailable,
			}
			if err := db.Create(&code).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
