// Package database opens and migrates the relational store.
package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"storefront/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database selected by driver.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if driver == "sqlite" {
		// one writer at a time; a shared connection also keeps in-memory databases alive
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	if err := backfillCategoryKeys(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// backfillCategoryKeys adds the sibling key columns to a categories table
// created before they existed, so the unique index can be built over real
// values instead of empty strings.
func backfillCategoryKeys(db *gorm.DB) error {
	m := db.Migrator()
	if !m.HasTable(&models.Category{}) || m.HasColumn(&models.Category{}, "NameKey") {
		return nil
	}
	for _, field := range []string{"NameKey", "ParentKey"} {
		if err := m.AddColumn(&models.Category{}, field); err != nil {
			return err
		}
	}

	var categories []models.Category
	if err := db.Select("id", "name", "parent_id").Find(&categories).Error; err != nil {
		return err
	}
	for i := range categories {
		c := &categories[i]
		c.SetKeys()
		err := db.Model(&models.Category{}).Where("id = ?", c.ID).
			Updates(map[string]interface{}{"name_key": c.NameKey, "parent_key": c.ParentKey}).Error
		if err != nil {
			return err
		}
	}
	log.Printf("Backfilled sibling keys for %d categories", len(categories))
	return nil
}
