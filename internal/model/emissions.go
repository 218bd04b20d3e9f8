package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EmissionsDetailsRequest is the body of POST /api/emissions-details.
type EmissionsDetailsRequest struct {
	Route       Route  `json:"route"`
	VehicleType string `json:"vehicle_type"`
	Mode        string `json:"mode"`
}

// DetailedEmissionsReport is the expanded emissions breakdown for one route.
type DetailedEmissionsReport struct {
	TotalEmissionsKg     float64           `json:"total_emissions_kg"`
	EmissionsPerPersonKg float64           `json:"emissions_per_person_kg"`
	DistanceKm           float64           `json:"distance_km"`
	Breakdown            EmissionBreakdown `json:"breakdown"`
	Factors              EmissionFactors   `json:"factors"`
	Equivalents          Equivalents       `json:"equivalents"`
	PotentialSavings     Savings           `json:"potential_savings"`
	AnnualImpact         AnnualImpact      `json:"annual_impact"`
}

// EmissionBreakdown splits the total into its components.
type EmissionBreakdown struct {
	BaseEmissionsKg   float64 `json:"base_emissions_kg"`
	TrafficImpactKg   float64 `json:"traffic_impact_kg"`
	ElevationImpactKg float64 `json:"elevation_impact_kg"`
	WeatherImpactKg   float64 `json:"weather_impact_kg"`
}

// EmissionFactors are the multipliers the emissions function applied.
type EmissionFactors struct {
	BaseEmissionFactor float64 `json:"base_emission_factor"`
	TrafficFactor      float64 `json:"traffic_factor"`
	ElevationFactor    float64 `json:"elevation_factor"`
	WeatherFactor      float64 `json:"weather_factor"`
}

// Equivalents expresses the total in everyday terms.
type Equivalents struct {
	TreeDays          float64 `json:"tree_days"`
	LightBulbHours    float64 `json:"light_bulb_hours"`
	SmartphoneCharges float64 `json:"smartphone_charges"`
}

// AnnualImpact projects the route as a daily commute over a year.
type AnnualImpact struct {
	CommuteEmissions float64 `json:"commute_emissions"`
	TreesNeeded      float64 `json:"trees_needed"`
}

// Saving is the amount of CO2 saved by switching to another vehicle type.
type Saving struct {
	VehicleType string
	Kg          float64
}

// Savings is the potential_savings object. It keeps the key order of the
// JSON document it was decoded from.
type Savings []Saving

// UnmarshalJSON decodes a JSON object into an ordered list of savings.
func (s *Savings) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("potential_savings: expected object, got %v", tok)
	}

	out := Savings{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("potential_savings: unexpected key %v", keyTok)
		}
		var kg float64
		if err := dec.Decode(&kg); err != nil {
			return fmt.Errorf("potential_savings[%s]: %w", key, err)
		}
		out = append(out, Saving{VehicleType: key, Kg: kg})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}

// MarshalJSON encodes the savings back into a JSON object in order.
func (s Savings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, saving := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(saving.VehicleType)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(saving.Kg)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
