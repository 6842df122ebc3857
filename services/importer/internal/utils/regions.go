package utils

import (
	"strings"

	"github.com/harshraj001/AquaVision/services/api/simulation"
	"github.com/harshraj001/AquaVision/services/importer/internal/models"
)

// Approximate district centres, keyed by upper-case yearbook name.
var districtCenters = map[string]simulation.Coordinates{
	"AMRITSAR":        {Lat: 31.6340, Lng: 74.8723},
	"BARNALA":         {Lat: 30.3819, Lng: 75.5479},
	"BATHINDA":        {Lat: 30.2110, Lng: 74.9455},
	"FARIDKOT":        {Lat: 30.6768, Lng: 74.7583},
	"FATEHGARH SAHIB": {Lat: 30.6454, Lng: 76.3919},
	"FAZILKA":         {Lat: 30.4036, Lng: 74.0278},
	"FIROZPUR":        {Lat: 30.9214, Lng: 74.6135},
	"GURDASPUR":       {Lat: 32.0408, Lng: 75.4022},
	"HOSHIARPUR":      {Lat: 31.5143, Lng: 75.9115},
	"JALANDHAR":       {Lat: 31.3260, Lng: 75.5762},
	"KAPURTHALA":      {Lat: 31.3808, Lng: 75.3818},
	"LUDHIANA":        {Lat: 30.9010, Lng: 75.8573},
	"MANSA":           {Lat: 29.9985, Lng: 75.3948},
	"MOGA":            {Lat: 30.8164, Lng: 75.1722},
	"MUKTSAR":         {Lat: 30.4723, Lng: 74.5160},
	"PATHANKOT":       {Lat: 32.2643, Lng: 75.6421},
	"PATIALA":         {Lat: 30.3398, Lng: 76.3869},
	"RUPNAGAR":        {Lat: 30.9660, Lng: 76.5260},
	"SANGRUR":         {Lat: 30.2458, Lng: 75.8421},
	"SAS NAGAR":       {Lat: 30.7046, Lng: 76.7179},
	"SBS NAGAR":       {Lat: 31.1248, Lng: 76.1190},
	"TARAN TARAN":     {Lat: 31.4509, Lng: 74.9316},
}

var fallbackCenter = simulation.Coordinates{Lat: 30.9, Lng: 75.8}

var soilProfiles = map[string][]string{
	"GURDASPUR":  {"Topsoil", "Sandy Loam", "Gravel", "Clay"},
	"PATHANKOT":  {"Topsoil", "Boulders", "Gravel", "Sand"},
	"HOSHIARPUR": {"Topsoil", "Sandy Loam", "Fine Sand", "Clay"},
	"RUPNAGAR":   {"Topsoil", "Gravel", "Coarse Sand", "Clay"},
	"SAS NAGAR":  {"Topsoil", "Sandy Loam", "Fine Sand", "Clay"},
	"SANGRUR":    {"Topsoil", "Fine Sand", "Silt", "Clay"},
	"BARNALA":    {"Topsoil", "Fine Sand", "Clay"},
	"BATHINDA":   {"Topsoil", "Fine Sand", "Coarse Sand", "Clay"},
	"MANSA":      {"Topsoil", "Fine Sand", "Sandy Clay"},
	"FAZILKA":    {"Topsoil", "Sand", "Silt"},
}

var defaultSoilProfile = []string{"Topsoil", "Fine Sand", "Silt", "Clay"}

// knownStates are configurations used when a CSV import has no seed entry.
var knownStates = map[string]models.State{
	"IN-PB": {
		StateCode: "IN-PB",
		Name:      "Punjab",
		MapCenter: simulation.Coordinates{Lat: 31.1471, Lng: 75.3412},
		ZoomLevel: 8,
		Geology: &models.Geology{
			DominantSoil: "Alluvial",
			Description:  "Indo-Gangetic plains with fertile alluvial deposits. Major aquifer systems include the Quaternary alluvium with high groundwater potential.",
		},
	},
}

func districtKey(district string) string {
	return strings.ToUpper(strings.Join(strings.Fields(district), " "))
}

// DistrictCenter returns the approximate centre of district.
func DistrictCenter(district string) simulation.Coordinates {
	if c, ok := districtCenters[districtKey(district)]; ok {
		return c
	}
	return fallbackCenter
}

// SoilProfile returns the typical layering of district, top to bottom.
func SoilProfile(district string) []string {
	p, ok := soilProfiles[districtKey(district)]
	if !ok {
		p = defaultSoilProfile
	}
	return append([]string(nil), p...)
}

// KnownState returns the built-in configuration of stateCode, if any.
func KnownState(stateCode string) (models.State, bool) {
	st, ok := knownStates[stateCode]
	return st, ok
}
