package emissions

import (
	"math"
	"strings"
	"testing"
)

func TestBandsClassify(t *testing.T) {
	tests := []struct {
		name  string
		bands Bands
		kg    float64
		want  string
	}{
		{"map green", MapStroke, 0.99, "#38b000"},
		{"map blue at 1", MapStroke, 1, "#3a86ff"},
		{"map yellow", MapStroke, 9.99, "#ffbe0b"},
		{"map red at 10", MapStroke, 10, "#ff5a5f"},
		{"card eco", ListCard, 4.99, ClassEcoFriendly},
		{"card moderate at 5", ListCard, 5, ClassModerate},
		{"card high", ListCard, 10, ClassHigh},
		{"summary eco", Summary, 0.49, ClassEcoFriendly},
		{"summary moderate", Summary, 0.5, ClassModerate},
		{"summary high at 2", Summary, 2, ClassHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bands.Classify(tt.kg); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.kg, got, tt.want)
			}
		})
	}
}

func TestTablesStayIndependent(t *testing.T) {
	// 1.5 kg is blue on the map, eco on the card and moderate in the summary.
	if MapStroke.Classify(1.5) != "#3a86ff" || ListCard.Classify(1.5) != ClassEcoFriendly || Summary.Classify(1.5) != ClassModerate {
		t.Error("threshold tables were unified")
	}
}

func TestDefaultFactors(t *testing.T) {
	table := DefaultFactors()

	tests := []struct {
		mode, vehicle string
		want          float64
	}{
		{"driving", "suv", 0.26},
		{"driving", "electric", 0.05},
		{"driving", "spaceship", 0.19},
		{"driving", "", 0.19},
		{"transit", "bus", 0.041},
		{"bicycling", "", 0},
		{"walking", "", 0},
		{"teleport", "", 0},
	}

	for _, tt := range tests {
		if got := table.KgPerKm(tt.mode, tt.vehicle); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("KgPerKm(%q, %q) = %v, want %v", tt.mode, tt.vehicle, got, tt.want)
		}
	}

	if got := table.Estimate("driving", 10000, "midsize"); math.Abs(got-1.9) > 1e-9 {
		t.Errorf("Estimate = %v, want 1.9", got)
	}
}

func TestParseFactorsRejectsMissingMode(t *testing.T) {
	_, err := ParseFactors(strings.NewReader("mode,vehicle_type,kg_per_km\n,suv,0.3\n"))
	if err == nil {
		t.Fatal("expected error for row without mode")
	}
}
