package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env            string
	Port           string
	DatabaseURL    string
	RedisURL       string
	OwnerAccountID string // bootstrap ledger owner (UUID); required on first run against an empty database
	StorageURL     string // object store base URL for content-addressed evidence files
	StorageKey     string // object store service key
	HealthAdminKey string
	AuditChannel   string // Redis pub/sub channel for committed audit events
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}

	channel := viper.GetString("AUDIT_CHANNEL")
	if channel == "" {
		channel = "ledger:audit"
	}

	return &Config{
		Env:            env,
		Port:           port,
		DatabaseURL:    dbURL,
		RedisURL:       viper.GetString("REDIS_URL"),
		OwnerAccountID: viper.GetString("OWNER_ACCOUNT_ID"),
		StorageURL:     viper.GetString("STORAGE_URL"),
		StorageKey:     viper.GetString("STORAGE_SECRET_KEY"),
		HealthAdminKey: viper.GetString("HEALTH_ADMIN_KEY"),
		AuditChannel:   channel,
	}, nil
}
