package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/MHYAnate/rootafapi/internal/app"
	"github.com/MHYAnate/rootafapi/internal/config"
	"github.com/MHYAnate/rootafapi/internal/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	r, err := app.Build(db, cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
