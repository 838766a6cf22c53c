package main

import (
	"log"
	"net/http"

	"github.com/dariovidovic/NWP-LV7/db"
	"github.com/dariovidovic/NWP-LV7/internal/auth"
	"github.com/dariovidovic/NWP-LV7/internal/config"
	"github.com/dariovidovic/NWP-LV7/internal/router"
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	if err = db.ConnectDatabase(cfg.DatabaseDSN); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err = db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err = auth.Init(cfg.JWTSecret); err != nil {
		log.Fatalf("Failed to initialize token signing: %v", err)
	}

	handler := router.New(cfg.SessionSecret, cfg.TemplatesGlob)

	log.Printf("Listening on :%s", cfg.Port)

	if err = http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
