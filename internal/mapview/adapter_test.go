package mapview

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"eco-route-go/internal/model"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"googlemaps.github.io/maps"
)

func sampleRoute(emissions float64) model.Route {
	return model.Route{
		Legs: []model.Leg{
			{
				StartAddress:  "Start St, Springfield",
				EndAddress:    "Middle Ave, Springfield",
				StartLocation: model.LatLng{Lat: 40.70, Lng: -74.02},
				EndLocation:   model.LatLng{Lat: 40.75, Lng: -73.98},
			},
			{
				StartAddress:  "Middle Ave, Springfield",
				EndAddress:    "End Rd, Springfield",
				StartLocation: model.LatLng{Lat: 40.75, Lng: -73.98},
				EndLocation:   model.LatLng{Lat: 40.80, Lng: -73.95},
			},
		},
		Bounds: &model.Bounds{
			SouthWest: &model.LatLng{Lat: 40.69, Lng: -74.03},
			NorthEast: &model.LatLng{Lat: 40.81, Lng: -73.94},
		},
		CarbonEmissions: emissions,
	}
}

func TestNewWithoutKeyFailsSoft(t *testing.T) {
	logger, hook := test.NewNullLogger()

	a := New("", logger)
	if !a.Failed() {
		t.Fatal("expected adapter to be in failed state")
	}
	if hook.LastEntry() == nil || hook.LastEntry().Level != logrus.ErrorLevel {
		t.Error("expected the failure cause to be logged")
	}

	a.ShowRoute(sampleRoute(1))
	if a.State().Overlay != nil {
		t.Error("failed adapter must not draw routes")
	}
}

func TestFailHook(t *testing.T) {
	logger, _ := test.NewNullLogger()
	a := New("key", logger)
	a.ShowRoute(sampleRoute(1))

	a.Fail(errors.New("auth failure"))
	st := a.State()
	if !st.Failed || st.Overlay != nil || st.View != nil {
		t.Errorf("unexpected state after failure: %+v", st)
	}
}

func TestShowRouteColoursByEmissions(t *testing.T) {
	logger, _ := test.NewNullLogger()
	a := New("key", logger)

	tests := []struct {
		kg   float64
		want string
	}{
		{0.2, "#38b000"},
		{3, "#3a86ff"},
		{7, "#ffbe0b"},
		{12, "#ff5a5f"},
	}
	for _, tt := range tests {
		a.ShowRoute(sampleRoute(tt.kg))
		if got := a.State().Stroke.Color; got != tt.want {
			t.Errorf("emissions %v: stroke %q, want %q", tt.kg, got, tt.want)
		}
	}
}

func TestShowRouteUsesBounds(t *testing.T) {
	logger, _ := test.NewNullLogger()
	a := New("key", logger)

	a.ShowRoute(sampleRoute(1))
	v := a.State().View
	if v == nil {
		t.Fatal("expected a viewport")
	}
	if v.SouthWest.Lat != 40.69 || v.NorthEast.Lng != -73.94 {
		t.Errorf("viewport = %+v, want route bounds", v)
	}
}

func TestShowRouteFallsBackToFirstLeg(t *testing.T) {
	logger, _ := test.NewNullLogger()

	cases := map[string]*model.Bounds{
		"absent":         nil,
		"missing corner": {SouthWest: &model.LatLng{Lat: 1, Lng: 1}},
		"invalid":        {SouthWest: &model.LatLng{Lat: math.NaN(), Lng: 0}, NorthEast: &model.LatLng{Lat: 1, Lng: 1}},
		"inverted":       {SouthWest: &model.LatLng{Lat: 50, Lng: 0}, NorthEast: &model.LatLng{Lat: 10, Lng: 1}},
	}

	for name, bounds := range cases {
		t.Run(name, func(t *testing.T) {
			a := New("key", logger)
			route := sampleRoute(1)
			route.Bounds = bounds

			a.ShowRoute(route)
			v := a.State().View
			if v == nil {
				t.Fatal("expected fallback viewport")
			}
			want := Viewport{
				SouthWest: model.LatLng{Lat: 40.70, Lng: -74.02},
				NorthEast: model.LatLng{Lat: 40.75, Lng: -73.98},
			}
			if *v != want {
				t.Errorf("viewport = %+v, want %+v", *v, want)
			}
		})
	}
}

func TestOverlayFromPolyline(t *testing.T) {
	logger, _ := test.NewNullLogger()
	a := New("key", logger)

	route := sampleRoute(1)
	route.OverviewPolyline = &model.Polyline{Points: maps.Encode([]maps.LatLng{
		{Lat: 40.70, Lng: -74.02},
		{Lat: 40.72, Lng: -74.00},
		{Lat: 40.80, Lng: -73.95},
	})}

	a.ShowRoute(route)
	fc := a.State().Overlay
	if fc == nil || len(fc.Features) != 3 {
		t.Fatalf("expected route line plus two markers, got %+v", fc)
	}
	line, ok := fc.Features[0].Geometry.(orb.LineString)
	if !ok {
		t.Fatalf("first feature geometry = %T, want orb.LineString", fc.Features[0].Geometry)
	}
	if len(line) != 3 {
		t.Errorf("line has %d points, want 3", len(line))
	}
	if got := line[1]; math.Abs(got.Lat()-40.72) > 1e-5 || math.Abs(got.Lon()+74.00) > 1e-5 {
		t.Errorf("second point = %v", got)
	}
	if fc.Features[1].Properties["kind"] != "start" || fc.Features[2].Properties["kind"] != "end" {
		t.Error("expected start and end markers after the line")
	}
}

func TestOverlayFallsBackToLegs(t *testing.T) {
	logger, _ := test.NewNullLogger()
	a := New("key", logger)

	route := sampleRoute(1)
	route.OverviewPolyline = &model.Polyline{Points: ""}
	a.ShowRoute(route)

	data, err := json.Marshal(a.State())
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	var decoded struct {
		Overlay struct {
			Features []struct {
				Geometry struct {
					Type        string          `json:"type"`
					Coordinates json.RawMessage `json:"coordinates"`
				} `json:"geometry"`
				Properties map[string]any `json:"properties"`
			} `json:"features"`
		} `json:"overlay"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}

	first := decoded.Overlay.Features[0]
	if first.Geometry.Type != "LineString" {
		t.Fatalf("first feature = %s, want LineString", first.Geometry.Type)
	}
	var coords [][]float64
	if err := json.Unmarshal(first.Geometry.Coordinates, &coords); err != nil {
		t.Fatalf("coordinates: %v", err)
	}
	if len(coords) != 3 {
		t.Errorf("line has %d points, want start plus two leg ends", len(coords))
	}
	if first.Properties["strokeColor"] != "#3a86ff" {
		t.Errorf("strokeColor = %v", first.Properties["strokeColor"])
	}
}

func TestToggleTraffic(t *testing.T) {
	logger, _ := test.NewNullLogger()
	a := New("key", logger)

	if a.TrafficLabel() != TrafficShowLabel {
		t.Fatalf("initial label = %q", a.TrafficLabel())
	}
	if got := a.ToggleTraffic(); got != TrafficHideLabel || !a.State().Traffic {
		t.Errorf("after first toggle label=%q traffic=%v", got, a.State().Traffic)
	}
	if got := a.ToggleTraffic(); got != TrafficShowLabel || a.State().Traffic {
		t.Errorf("after second toggle label=%q traffic=%v", got, a.State().Traffic)
	}
}
