package main

import (
	"context"
	"log"

	"github.com/Seizuree/atm-system/config"
	"github.com/Seizuree/atm-system/db"
	"github.com/Seizuree/atm-system/internal/atm/domain"
	"github.com/Seizuree/atm-system/internal/atm/handler"
	"github.com/Seizuree/atm-system/internal/atm/repository/jsonfile"
	"github.com/Seizuree/atm-system/internal/atm/repository/postgres"
	"github.com/Seizuree/atm-system/internal/atm/service"
	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	var repo domain.AccountRepository
	switch cfg.StoreDriver {
	case "postgres":
		if err := db.Migrate(ctx, cfg.DBURL); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		pool, err := db.NewPostgresPool(ctx, cfg.DBURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer pool.Close()
		repo = postgres.NewPostgresAccountRepository(pool)
	case "jsonfile":
		repo = jsonfile.NewStore(cfg.LedgerFile)
	default:
		log.Fatalf("unknown store driver %q", cfg.StoreDriver)
	}

	guard := service.NewBcryptPinGuard(cfg.BcryptCost)
	tokens := service.NewTokenService(cfg.SessionTokenSecret, cfg.SessionExpiryMin)
	accounts := service.NewAccountService(repo, guard)
	atm := service.NewATMService(repo, accounts, tokens)
	atmHandler := handler.NewATMHandler(atm, tokens)

	app := fiber.New()
	handler.RegisterRoutes(app, atmHandler)

	log.Fatal(app.Listen(":" + cfg.Port))
}
