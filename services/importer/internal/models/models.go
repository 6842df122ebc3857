package models

import "github.com/harshraj001/AquaVision/services/api/simulation"

// Dataset is the content of a seed file: state configurations and wells.
type Dataset struct {
	States []State           `yaml:"states"`
	Wells  []simulation.Well `yaml:"wells"`
}

// State is the importable configuration of one state.
type State struct {
	StateCode string                 `yaml:"stateCode"`
	Name      string                 `yaml:"name"`
	MapCenter simulation.Coordinates `yaml:"mapCenter"`
	ZoomLevel int                    `yaml:"zoomLevel"`
	Geology   *Geology               `yaml:"geology"`
}

// Geology is optional descriptive metadata of a state.
type Geology struct {
	DominantSoil string `yaml:"dominantSoil"`
	Description  string `yaml:"description"`
}

// CSVRecord is one row of a CGWB water-level yearbook export.
type CSVRecord struct {
	Row      int
	District string
	WellName string
	Readings []simulation.Observation
}
