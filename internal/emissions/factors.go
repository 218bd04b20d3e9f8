package emissions

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"
)

//go:embed factors.csv
var defaultFactorsCSV []byte

// DefaultVehicleType is used when a driving request names no known vehicle.
const DefaultVehicleType = "midsize"

// Factor is one row of the emission factor table.
type Factor struct {
	Mode        string  `csv:"mode"`
	VehicleType string  `csv:"vehicle_type"`
	KgPerKm     float64 `csv:"kg_per_km"`
}

// FactorTable resolves kg CO2 per km by travel mode and vehicle type.
type FactorTable struct {
	byMode    map[string]float64
	byVehicle map[string]map[string]float64
}

// ParseFactors reads a factor table from CSV with a mode,vehicle_type,kg_per_km header.
func ParseFactors(r io.Reader) (*FactorTable, error) {
	decoder, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder for emission factors: %w", err)
	}

	var rows []Factor
	if err := decoder.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode emission factors: %w", err)
	}

	table := &FactorTable{
		byMode:    make(map[string]float64),
		byVehicle: make(map[string]map[string]float64),
	}
	for _, row := range rows {
		if row.Mode == "" {
			return nil, fmt.Errorf("emission factor row without mode: %+v", row)
		}
		if row.VehicleType == "" {
			table.byMode[row.Mode] = row.KgPerKm
			continue
		}
		if table.byVehicle[row.Mode] == nil {
			table.byVehicle[row.Mode] = make(map[string]float64)
		}
		table.byVehicle[row.Mode][row.VehicleType] = row.KgPerKm
	}
	return table, nil
}

// DefaultFactors returns the built-in factor table.
func DefaultFactors() *FactorTable {
	table, err := ParseFactors(bytes.NewReader(defaultFactorsCSV))
	if err != nil {
		panic(fmt.Sprintf("embedded factors.csv is invalid: %v", err))
	}
	return table
}

// KgPerKm returns the factor for a mode. Driving looks up the vehicle type
// and falls back to the midsize car; unknown modes emit nothing.
func (t *FactorTable) KgPerKm(mode, vehicleType string) float64 {
	if vehicles, ok := t.byVehicle[mode]; ok {
		if f, ok := vehicles[vehicleType]; ok {
			return f
		}
		if f, ok := vehicles[DefaultVehicleType]; ok {
			return f
		}
	}
	return t.byMode[mode]
}

// Estimate returns the kg of CO2 for travelling meters with the given mode.
func (t *FactorTable) Estimate(mode string, meters int, vehicleType string) float64 {
	return t.KgPerKm(mode, vehicleType) * float64(meters) / 1000
}
