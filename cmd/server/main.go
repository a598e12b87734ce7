package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "loanflow/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"loanflow/internal/auth"
	"loanflow/internal/cache"
	"loanflow/internal/config"
	"loanflow/internal/db"
	"loanflow/internal/handler"
	"loanflow/internal/repository"
	"loanflow/internal/router"
	"loanflow/internal/service"
)

// @title Loan Application API
// @version 1.0
// @description Loan application service: registration, login, loan submission and admin review.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())

	gormDB, err := db.Open(cfg.DBDriver, cfg.MySQLDSN, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if cfg.ResetDB {
		log.Println("RESET_DB=true detected, dropping all tables...")
		db.Reset(gormDB)
		log.Println("Tables dropped")
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.Printf("Warning: redis unavailable at %s, tokens cannot be revoked: %v", cfg.RedisAddr, err)
	}
	cancelPing()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	loanRepo := repository.NewLoanRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, cacheClient)
	loanService := service.NewLoanService(loanRepo)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if _, created, err := userService.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
			log.Fatalf("bootstrap admin: %v", err)
		} else if created {
			log.Printf("Admin account %s created", cfg.AdminEmail)
		}
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	loanHandler := handler.NewLoanHandler(loanService)
	adminHandler := handler.NewAdminHandler(loanService, userService)

	// Register routes
	router.Register(
		e,
		cfg,
		authService,
		userService,
		authHandler,
		loanHandler,
		adminHandler,
	)

	log.Printf("Swagger documentation available at: %s", swaggerURL(cfg.SwaggerHost))

	serverErr := make(chan error, 1)
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalf("server start: %v", err)
	case <-quit:
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server exited")
}

// swaggerURL builds the UI address. SwaggerHost may already include a scheme.
func swaggerURL(host string) string {
	if host == "" {
		// docker-compose maps container port 8080 to 5000
		return "http://localhost:5000/swagger/index.html"
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimSuffix(host, "/") + "/swagger/index.html"
}
