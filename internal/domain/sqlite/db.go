package sqlite

import (
	"os"
	"path/filepath"
	"time"

	"tenantnotes/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func Init() (*gorm.DB, error) {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(".", "database.db")
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&entity.Tenant{}, &entity.User{}, &entity.Note{})
	if err != nil {
		return nil, err
	}

	// Single connection: SQLite serializes writers anyway, and this
	// keeps concurrent read-modify-write sequences from interleaving.
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
