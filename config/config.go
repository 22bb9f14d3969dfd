package config

import (
	"log"
	"os"
	"strconv"

	"github.com/Seizuree/atm-system/pkg/constant"
)

type Config struct {
	Env                string
	Port               string
	StoreDriver        string
	DBURL              string
	LedgerFile         string
	SessionTokenSecret string
	SessionExpiryMin   int
	BcryptCost         int
}

func Load() *Config {
	cfg := &Config{
		Env:                getEnv("ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		StoreDriver:        getEnv("STORE_DRIVER", "jsonfile"),
		LedgerFile:         getEnv("LEDGER_FILE", "ledger.json"),
		SessionTokenSecret: mustGetEnv("SESSION_TOKEN_SECRET"),
		SessionExpiryMin:   getEnvAsInt("SESSION_TOKEN_EXPIRY", 30),
		BcryptCost:         getEnvAsInt("BCRYPT_COST", constant.DefaultBcryptCost),
	}

	// DB_URL is only required when the Postgres ledger is selected.
	if cfg.StoreDriver == "postgres" {
		cfg.DBURL = mustGetEnv("DB_URL")
	}

	return cfg
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
