// Package seed loads state and well datasets from YAML or JSON files.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/harshraj001/AquaVision/services/api/simulation"
	"github.com/harshraj001/AquaVision/services/importer/internal/models"
	"github.com/harshraj001/AquaVision/services/importer/internal/utils"
)

// LoadFile reads and validates a dataset from path. JSON files parse as YAML.
func LoadFile(path string) (models.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	ds, err := Load(f)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Load decodes a dataset, fills defaults and validates it.
func Load(r io.Reader) (models.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Dataset{}, err
	}

	var ds models.Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return models.Dataset{}, fmt.Errorf("decode seed: %w", err)
	}

	if err := validate(&ds); err != nil {
		return models.Dataset{}, err
	}
	return ds, nil
}

func validate(ds *models.Dataset) error {
	if len(ds.States) == 0 && len(ds.Wells) == 0 {
		return errors.New("seed contains no states and no wells")
	}

	var errs []error
	for i, st := range ds.States {
		if st.StateCode == "" || st.Name == "" {
			errs = append(errs, fmt.Errorf("states[%d]: stateCode and name are required", i))
		}
		if st.ZoomLevel == 0 {
			ds.States[i].ZoomLevel = 8
		}
	}

	seen := make(map[string]bool, len(ds.Wells))
	for i := range ds.Wells {
		w := &ds.Wells[i]
		if w.ID == "" || w.StateCode == "" || w.District == "" {
			errs = append(errs, fmt.Errorf("wells[%d]: wellId, stateCode and district are required", i))
			continue
		}
		if seen[w.ID] {
			errs = append(errs, fmt.Errorf("wells[%d]: duplicate wellId %s", i, w.ID))
		}
		seen[w.ID] = true

		if w.CriticalDepth <= 0 {
			w.CriticalDepth = simulation.DefaultCriticalDepth
		}
		if len(w.SoilProfile) == 0 {
			w.SoilProfile = utils.SoilProfile(w.District)
		}
		for j, r := range w.Readings {
			if r.Depth < 0 {
				errs = append(errs, fmt.Errorf("wells[%d].readings[%d]: negative depth %v", i, j, r.Depth))
			}
		}
	}
	return errors.Join(errs...)
}
