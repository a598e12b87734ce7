package db

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"loanflow/internal/model"
)

// mysqlTableOptions makes string comparison exact. Emails and loan purposes
// are matched case-sensitively, which MySQL's default collations do not do.
const mysqlTableOptions = "CHARSET=utf8mb4 COLLATE=utf8mb4_bin"

// tableOptions returns the CREATE TABLE options for a dialect.
func tableOptions(dialect string) string {
	if dialect == "mysql" {
		return mysqlTableOptions
	}
	return ""
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	if opts := tableOptions(db.Dialector.Name()); opts != "" {
		db = db.Set("gorm:table_options", opts)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Loan{}, &model.LoanReview{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every table, dependents first so foreign keys do not block it.
func Reset(db *gorm.DB) {
	tables := []interface{}{
		&model.LoanReview{},
		&model.Loan{},
		&model.User{},
	}
	for _, table := range tables {
		if err := db.Migrator().DropTable(table); err != nil {
			log.Printf("Warning: Failed to drop table (may not exist): %v", err)
		}
	}
}
