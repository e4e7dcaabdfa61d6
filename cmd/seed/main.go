package main

import (
	"context"
	"flag"
	"log"

	"dayzone/internal/config"
	"dayzone/internal/db"
)

func main() {
	reset := flag.Bool("reset", false, "drop all tables before migrating")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.Open(cfg.DBDriver, cfg.MySQLDSN, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if *reset {
		if err := db.Reset(gormDB); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	res, err := db.Seed(context.Background(), gormDB, db.SeedOptions{
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
		BcryptCost:    cfg.BcryptCost,
	})
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	log.Printf("Seed completed: %d users, %d stalkers, %d wanted records created", res.Users, res.Stalkers, res.Wanted)
	if res.Users > 0 && cfg.AdminPassword == "admin" {
		log.Println("Warning: default admin password in use, set ADMIN_PASSWORD")
	}
}
