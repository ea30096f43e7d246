package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"talkinghead/internal/domain/avatar"
	"talkinghead/internal/domain/job"
)

// Open connects to the configured database and migrates the schema.
// Supported drivers: "sqlite" (default, file or :memory: DSN) and
// "postgres".
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := conn.AutoMigrate(&job.Job{}, &avatar.Model{}, &avatar.Voice{}); err != nil {
		return nil, err
	}
	return conn, nil
}
