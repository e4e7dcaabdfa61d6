package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"dayzone/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"dayzone/internal/auth"
	"dayzone/internal/cache"
	"dayzone/internal/config"
	"dayzone/internal/db"
	"dayzone/internal/handler"
	"dayzone/internal/queue"
	"dayzone/internal/repository"
	"dayzone/internal/router"
	"dayzone/internal/service"
)

// @title Dayzone API
// @version 1.0
// @description Faction dossiers, wanted list and per-user finances with JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.Open(cfg.DBDriver, cfg.MySQLDSN, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		if err := db.Reset(gormDB); err != nil {
			log.Fatalf("reset: %v", err)
		}
		log.Println("Tables dropped")
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	if cfg.SeedOnStart {
		res, err := db.Seed(context.Background(), gormDB, db.SeedOptions{
			AdminUsername: cfg.AdminUsername,
			AdminPassword: cfg.AdminPassword,
			BcryptCost:    cfg.BcryptCost,
		})
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		log.Printf("Seeded %d users, %d stalkers, %d wanted records", res.Users, res.Stalkers, res.Wanted)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.Printf("Warning: redis unavailable, logout revocation is disabled: %v", err)
	}
	cancel()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	stalkerRepo := repository.NewStalkerRepository(gormDB)
	wantedRepo := repository.NewWantedRepository(gormDB)
	ledgerRepo := repository.NewLedgerRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiresIn)
	tokenStore := auth.NewTokenStore(cacheClient)

	var releaser service.PhotoReleaser
	publisher, err := queue.NewPublisher(cfg.AMQPURL, cfg.PhotoQueue)
	if err != nil {
		log.Printf("Photo release events disabled: %v", err)
	} else {
		releaser = publisher
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, cfg.BcryptCost)
	userService := service.NewUserService(userRepo)
	stalkerService := service.NewStalkerService(stalkerRepo, releaser)
	wantedService := service.NewWantedService(wantedRepo, releaser)
	ledgerService := service.NewLedgerService(ledgerRepo, time.Now)

	// Register routes
	router.Register(e, authService, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(userService),
		Stalker: handler.NewStalkerHandler(stalkerService),
		Wanted:  handler.NewWantedHandler(wantedService),
		Ledger:  handler.NewLedgerHandler(ledgerService),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL(cfg.SwaggerHost, cfg.ServerPort))

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

func swaggerURL(host, port string) string {
	switch {
	case host == "":
		return "http://localhost:" + port + "/swagger/index.html"
	case strings.HasPrefix(host, "http://"), strings.HasPrefix(host, "https://"):
		return host + "/swagger/index.html"
	default:
		return "http://" + host + "/swagger/index.html"
	}
}
