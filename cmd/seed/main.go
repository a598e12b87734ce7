package main

import (
	"context"
	"flag"
	"log"

	"loanflow/internal/cache"
	"loanflow/internal/config"
	"loanflow/internal/db"
	"loanflow/internal/repository"
	"loanflow/internal/service"
)

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	email := flag.String("email", cfg.AdminEmail, "admin email")
	password := flag.String("password", cfg.AdminPassword, "admin password, ignored when the account exists")
	name := flag.String("name", cfg.AdminName, "admin display name")
	flag.Parse()

	if *email == "" {
		log.Fatal("admin email is required: set ADMIN_EMAIL or pass -email")
	}

	// Connect to database
	gormDB, err := db.Open(cfg.DBDriver, cfg.MySQLDSN, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// A promoted user may be cached as a non-admin.
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	userService := service.NewUserService(repository.NewUserRepository(gormDB), cacheClient)

	user, created, err := userService.EnsureAdmin(context.Background(), *email, *password, *name)
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	log.Printf("Seed completed successfully!")
	if created {
		log.Printf("  - Admin account created: %s (id %d)", user.Email, user.ID)
	} else {
		log.Printf("  - Existing account promoted to admin: %s (id %d)", user.Email, user.ID)
	}
}
