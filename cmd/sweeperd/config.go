package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/lendkit/circulation-go/core"
)

// Config holds the sweeper daemon configuration, loaded from the environment
// with an optional .env file for development setups.
type Config struct {
	DatabaseURL  string
	TablePrefix  string
	EnsureSchema bool

	SweepInterval  time.Duration
	SweepBatchSize int

	CatalogURL         string
	PatronDirectoryURL string
	NotifierURL        string
	AuditURL           string
	PolicyURL          string

	StaticPolicy core.Policy
}

// LoadConfig reads the daemon configuration from the environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		TablePrefix:        envString("TABLE_PREFIX", "circulation"),
		EnsureSchema:       envBool("ENSURE_SCHEMA", false),
		SweepInterval:      envDuration("SWEEP_INTERVAL", time.Minute),
		SweepBatchSize:     envInt("SWEEP_BATCH_SIZE", 100),
		CatalogURL:         os.Getenv("CATALOG_URL"),
		PatronDirectoryURL: os.Getenv("PATRON_DIRECTORY_URL"),
		NotifierURL:        os.Getenv("NOTIFIER_URL"),
		AuditURL:           os.Getenv("AUDIT_URL"),
		PolicyURL:          os.Getenv("POLICY_URL"),
		StaticPolicy:       staticPolicyFromEnv(),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}

	if cfg.PatronDirectoryURL == "" {
		return Config{}, fmt.Errorf("PATRON_DIRECTORY_URL must be set")
	}

	return cfg, nil
}

// staticPolicyFromEnv builds the fallback policy used when no policy service
// is configured. Fees are in cents.
func staticPolicyFromEnv() core.Policy {
	return core.Policy{
		LateFeePerDay:          core.Cents(envInt("POLICY_LATE_FEE_PER_DAY", 25)),
		DamagedFee:             core.Cents(envInt("POLICY_DAMAGED_FEE", 500)),
		LostFee:                core.Cents(envInt("POLICY_LOST_FEE", 2500)),
		RequestExpiryDays:      envInt("POLICY_REQUEST_EXPIRY_DAYS", 3),
		ReservationExpiryDays:  envInt("POLICY_RESERVATION_EXPIRY_DAYS", 2),
		MinReputationRequired:  envInt("POLICY_MIN_REPUTATION", 5),
		MaxBorrowItems:         envInt("POLICY_MAX_BORROW_ITEMS", 5),
		ReputationLossOnCancel: envInt("POLICY_REPUTATION_LOSS_ON_CANCEL", 1),
		ReputationLossOnExpire: envInt("POLICY_REPUTATION_LOSS_ON_EXPIRE", 2),
	}
}

func envString(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid value %q for %s, using default %d", value, key, fallback)

		return fallback
	}

	return parsed
}

func envBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("invalid value %q for %s, using default %t", value, key, fallback)

		return fallback
	}

	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("invalid value %q for %s, using default %s", value, key, fallback)

		return fallback
	}

	return parsed
}
