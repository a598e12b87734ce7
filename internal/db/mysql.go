package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// gormConfig enables driver error translation so unique index violations
// surface as gorm.ErrDuplicatedKey regardless of the backing store.
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}
