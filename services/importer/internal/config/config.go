package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultStateCode = "IN-PB"

// Config holds runtime configuration for the importer.
type Config struct {
	DatabaseURL string
	SeedFile    string
	CSVFile     string
	StateCode   string
	RandomSeed  uint64
	LogLevel    string
	DryRun      bool
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{}

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" && !cfg.DryRun {
		return cfg, errors.New("DATABASE_URL is required")
	}

	cfg.SeedFile = strings.TrimSpace(os.Getenv("SEED_FILE"))
	cfg.CSVFile = strings.TrimSpace(os.Getenv("IMPORT_CSV"))
	if cfg.SeedFile == "" && cfg.CSVFile == "" {
		return cfg, errors.New("nothing to import: set SEED_FILE and/or IMPORT_CSV")
	}

	cfg.StateCode = strings.ToUpper(strings.TrimSpace(os.Getenv("IMPORT_STATE")))
	if cfg.StateCode == "" {
		cfg.StateCode = defaultStateCode
	}

	cfg.RandomSeed = uint64(time.Now().UnixNano())
	if v := strings.TrimSpace(os.Getenv("IMPORT_SEED")); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid IMPORT_SEED: %w", err)
		}
		cfg.RandomSeed = seed
	}

	cfg.LogLevel = strings.TrimSpace(os.Getenv("LOG_LEVEL"))

	return cfg, nil
}
