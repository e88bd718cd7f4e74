package main

import (
	"context"
	"fmt"
	"log"
	"order_queue/internal/config"
	"order_queue/internal/database"
	"order_queue/internal/migrations"
)

func main() {
	fmt.Println("Initializing database...")

	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL, cfg.DBLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	err = migrations.RunMigrations(context.Background(), db, migrations.Owner{
		Email:    cfg.OwnerEmail,
		Password: cfg.OwnerPassword,
		Name:     cfg.OwnerName,
	})
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("Database initialization completed successfully!")
}
