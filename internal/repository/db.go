package repository

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"task-manager/internal/model"
)

// NewDB opens a SQLite database, runs migrations and seeds the default categories.
func NewDB(dsn string, debug bool) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "task_manager.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	level := logger.Warn
	if debug {
		level = logger.Info
	}
	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(withForeignKeys(dsn)), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(&model.Category{}, &model.Task{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	if err := seedCategories(db); err != nil {
		return nil, err
	}

	return db, nil
}

// seedCategories inserts the default categories into an empty table, in order,
// so they receive ids 1..4.
func seedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, def := range model.DefaultCategories {
		category := model.Category{Name: def.Name, Color: def.Color}
		if err := db.Create(&category).Error; err != nil {
			return fmt.Errorf("seed category %q: %w", def.Name, err)
		}
	}
	return nil
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	// Ignore DSNs with explicit mode=memory or network.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	// Strip file: prefix if present.
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

// withForeignKeys turns on SQLite foreign key enforcement unless the DSN already sets it.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

func notFound(entity string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", entity, id, model.ErrNotFound)
	}
	return fmt.Errorf("find %s: %w", entity, err)
}
