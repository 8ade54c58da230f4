// Package store holds the gorm repositories backing the registry: the
// court and record directories the scan pipeline reconciles against, plus
// the gazette, scan-log and user stores.
package store

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/KeithOmondi/principle-registry/pkg/models"
)

var log = logrus.StandardLogger().WithField("package", "store")

// Open connects to Postgres, configures the pool and migrates the schema.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = db.AutoMigrate(
		&models.Court{},
		&models.Record{},
		&models.Gazette{},
		&models.GazetteCase{},
		&models.ScanLog{},
		&models.User{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	log.Debugf("database ready")
	return db, nil
}
