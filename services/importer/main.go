package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	apidb "github.com/harshraj001/AquaVision/services/api/db"
	"github.com/harshraj001/AquaVision/services/api/observability"
	"github.com/harshraj001/AquaVision/services/api/simulation"
	"github.com/harshraj001/AquaVision/services/importer/internal/config"
	"github.com/harshraj001/AquaVision/services/importer/internal/db"
	"github.com/harshraj001/AquaVision/services/importer/internal/models"
	"github.com/harshraj001/AquaVision/services/importer/internal/seed"
	"github.com/harshraj001/AquaVision/services/importer/internal/utils"
)

func main() {
	if err := run(); err != nil {
		slog.Error("import failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.NewLogger("aquavision-importer", cfg.LogLevel, "text")
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var dataset models.Dataset
	if cfg.SeedFile != "" {
		dataset, err = seed.LoadFile(cfg.SeedFile)
		if err != nil {
			return err
		}
		logger.Info("seed file loaded", "path", cfg.SeedFile, "states", len(dataset.States), "wells", len(dataset.Wells))
	}

	var csvWells []simulation.Well
	if cfg.CSVFile != "" {
		csvWells, err = loadCSV(cfg, logger)
		if err != nil {
			return err
		}
		if !hasState(dataset.States, cfg.StateCode) {
			st, ok := utils.KnownState(cfg.StateCode)
			if !ok {
				return fmt.Errorf("no configuration for state %s: add it to the seed file", cfg.StateCode)
			}
			dataset.States = append(dataset.States, st)
		}
	}

	if cfg.DryRun {
		report(logger, dataset, csvWells)
		return nil
	}

	store, err := apidb.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	pool := store.Pool()

	if err := db.UpsertStates(ctx, pool, dataset.States); err != nil {
		return err
	}
	logger.Info("states upserted", "count", len(dataset.States))

	if err := db.UpsertWells(ctx, pool, dataset.Wells); err != nil {
		return err
	}
	if len(dataset.Wells) > 0 {
		logger.Info("seed wells upserted", "wells", len(dataset.Wells), "readings", utils.ReadingCount(dataset.Wells))
	}

	if cfg.CSVFile != "" {
		removed, err := db.ReplaceStateWells(ctx, pool, cfg.StateCode, csvWells)
		if err != nil {
			return err
		}
		logger.Info("state wells replaced",
			"state", cfg.StateCode,
			"removed", removed,
			"inserted", len(csvWells),
			"readings", utils.ReadingCount(csvWells),
		)
	}

	logger.Info("import completed")
	return nil
}

func loadCSV(cfg config.Config, logger *slog.Logger) ([]simulation.Well, error) {
	f, err := os.Open(cfg.CSVFile)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	records, err := utils.ReadCGWB(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.CSVFile, err)
	}

	rng := rand.New(rand.NewPCG(cfg.RandomSeed, cfg.RandomSeed))
	wells, skipped := utils.BuildWells(records, cfg.StateCode, rng)
	for _, name := range skipped {
		logger.Warn("skipping well without valid readings", "well", name)
	}
	logger.Info("csv parsed",
		"path", cfg.CSVFile,
		"records", len(records),
		"wells", len(wells),
		"districts", utils.Districts(wells),
	)
	return wells, nil
}

func hasState(states []models.State, code string) bool {
	for _, st := range states {
		if st.StateCode == code {
			return true
		}
	}
	return false
}

func report(logger *slog.Logger, dataset models.Dataset, csvWells []simulation.Well) {
	for _, st := range dataset.States {
		logger.Info("dry-run: would upsert state", "state", st.StateCode, "name", st.Name)
	}
	for _, w := range append(dataset.Wells, csvWells...) {
		logger.Info("dry-run: would write well",
			"well", w.ID,
			"district", w.District,
			"block", w.Block,
			"critical_depth", w.CriticalDepth,
			"readings", len(w.Readings),
		)
	}
}
