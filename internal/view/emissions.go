package view

import (
	"strings"

	"eco-route-go/internal/emissions"
	"eco-route-go/internal/format"
	"eco-route-go/internal/model"
	"eco-route-go/internal/ui"

	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

type referenceFactor struct {
	Label   string
	KgPerKm string
}

// referenceFactors is the fixed comparison table shown under the summary.
var referenceFactors = []referenceFactor{
	{"Driving", "0.192"},
	{"Public Transport", "0.041"},
	{"Cycling", "0"},
	{"Walking", "0"},
}

type vehicle struct {
	Name  string
	Icons []string
}

var vehicles = map[string]vehicle{
	"economy":    {"Economy Car", []string{"car-side"}},
	"midsize":    {"Midsize Car", []string{"car"}},
	"suv":        {"SUV", []string{"truck-monster"}},
	"truck":      {"Truck", []string{"truck"}},
	"hybrid":     {"Hybrid Car", []string{"gas-pump", "bolt"}},
	"electric":   {"Electric Car", []string{"charging-station"}},
	"motorcycle": {"Motorcycle", []string{"motorcycle"}},
}

// EmissionsSummary renders the headline emissions panel for the selected route.
func EmissionsSummary(route model.Route, mode string) g.Node {
	kg := route.CarbonEmissions
	class := emissions.Summary.Classify(kg)

	rows := make([]g.Node, 0, len(referenceFactors))
	for _, f := range referenceFactors {
		rows = append(rows, P(g.Text(f.Label+": "+f.KgPerKm+" kg CO2/km")))
	}

	return Div(ID("emissions-data"),
		Div(Class("d-flex justify-content-between align-items-center mb-3"),
			Div(Class("font-weight-medium"), g.Text("Your selected route will emit:")),
			Div(Class("emissions-total font-weight-bold "+class), g.Attr("style", "font-size: 1.2rem;"),
				summaryIcon(class),
				g.Text(" "+format.Fixed2(kg)+" kg of CO2"),
			),
		),
		alternatives(mode),
		Div(Class("emissions-chart mb-3"),
			Div(Class("chart-bar"), g.Attr("style", "width: "+barWidth(kg, 20)+";")),
		),
		Div(Class("emissions-comparison mt-4"),
			H3(g.Text("Emissions Comparison")),
			g.Group(rows),
		),
	)
}

// EmptyEmissionsSummary is shown before the first search.
func EmptyEmissionsSummary() g.Node {
	return Div(ID("emissions-data"),
		P(Class("text-muted"), g.Text("Search for a route to see its carbon footprint.")),
	)
}

func summaryIcon(class string) g.Node {
	switch class {
	case emissions.ClassEcoFriendly:
		return icon("leaf")
	case emissions.ClassModerate:
		return icon("exclamation-triangle")
	default:
		return icon("radiation")
	}
}

func alternatives(mode string) g.Node {
	var names []string
	var icons []g.Node
	if mode != model.ModeWalking {
		names = append(names, "walking")
		icons = append(icons, icon("walking"), g.Text(" "))
	}
	if mode != model.ModeBicycling {
		names = append(names, "bicycling")
		icons = append(icons, icon("bicycle"), g.Text(" "))
	}
	if mode != model.ModeTransit {
		names = append(names, "public transport")
		icons = append(icons, icon("bus"), g.Text(" "))
	}
	if len(names) == 0 {
		return nil
	}

	return Div(Class("mt-3 mb-3 alternatives"),
		P(icon("info-circle"),
			g.Text(" Alternative travel modes like "),
			g.Group(icons),
			g.Text(" "+strings.Join(names, " or ")+" could reduce your carbon footprint."),
		),
	)
}

// DetailButton renders the "detailed environmental impact" control. A failed
// button asks for its idle replacement once the failure label has expired.
func DetailButton(state ui.ButtonState) g.Node {
	if state == ui.ButtonHidden {
		return Div(ID("detail-button-slot"))
	}

	return Div(ID("detail-button-slot"),
		g.If(state == ui.ButtonFailed, g.Attr("hx-get", "/ui/emissions-details/button")),
		g.If(state == ui.ButtonFailed, g.Attr("hx-trigger", "load delay:3s")),
		g.If(state == ui.ButtonFailed, g.Attr("hx-swap", "outerHTML")),
		Button(ID("show-detailed-emissions"), Class("btn btn-success detail-button"), Type("button"),
			hxPost("/ui/emissions-details"),
			g.Attr("hx-include", "#vehicle-type"),
			g.Attr("hx-disabled-elt", "this"),
			g.If(state.Disabled(), g.Attr("disabled")),
			Span(Class("label-idle"), g.Text(state.Label())),
			Span(Class("label-loading"), g.Text(ui.ButtonLoading.Label())),
		),
	)
}

// DetailedReport renders the detailed emissions report. It is hidden until
// a report has been fetched for the current route list.
func DetailedReport(report *model.DetailedEmissionsReport, visible bool) g.Node {
	if !visible || report == nil {
		return Div(ID("detailed-emissions-container"), g.Attr("style", "display: none;"))
	}

	return Div(ID("detailed-emissions-container"), g.Attr("data-scroll-into-view", "true"),
		Div(ID("detailed-emissions-content"),
			reportSummary(report),
			reportBreakdown(report),
			reportEquivalents(report.Equivalents),
			g.If(len(report.PotentialSavings) > 0, reportSavings(report.PotentialSavings)),
		),
	)
}

func reportSummary(r *model.DetailedEmissionsReport) g.Node {
	return section("chart-pie", "Emissions Summary",
		Div(Class("emissions-summary"),
			Div(Class("emissions-summary-card"),
				H3(icon("leaf"), g.Text(" Total CO2 Emissions")),
				kgValue(r.TotalEmissionsKg),
				Div(Class("emissions-bar"),
					Div(Class("emissions-bar-fill"), g.Attr("style", "width: "+barWidth(r.TotalEmissionsKg, 10)+";")),
				),
			),
			Div(Class("emissions-summary-card"),
				H3(icon("user"), g.Text(" Per Person")),
				kgValue(r.EmissionsPerPersonKg),
			),
			Div(Class("emissions-summary-card"),
				H3(icon("calendar-alt"), g.Text(" Annual Impact")),
				kgValue(r.AnnualImpact.CommuteEmissions),
				Div(icon("tree"), g.Text(" Requires "+format.Number(r.AnnualImpact.TreesNeeded)+" trees to offset")),
			),
		),
	)
}

func reportBreakdown(r *model.DetailedEmissionsReport) g.Node {
	item := func(iconName, label string, kg float64) g.Node {
		return Div(Class("breakdown-item"),
			Span(Class("breakdown-label"), icon(iconName), g.Text(" "+label+":")),
			Span(Class("breakdown-value"), g.Text(format.Number(kg)+" kg")),
		)
	}

	return section("chart-bar", "Emissions Breakdown",
		Div(Class("emissions-breakdown"),
			item("car", "Base Emissions", r.Breakdown.BaseEmissionsKg),
			item("traffic-light", "Traffic Impact", r.Breakdown.TrafficImpactKg),
			item("mountain", "Elevation Impact", r.Breakdown.ElevationImpactKg),
			item("cloud-sun-rain", "Weather Impact", r.Breakdown.WeatherImpactKg),
			item("calculator", "Total", r.TotalEmissionsKg),
		),
	)
}

func reportEquivalents(e model.Equivalents) g.Node {
	card := func(iconName, title string, value float64, unit string) g.Node {
		return Div(Class("emissions-equivalent-card"),
			H4(icon(iconName), g.Text(" "+title)),
			Div(Class("equivalent-value"), g.Text(format.Number(value))),
			Div(Class("equivalent-unit"), g.Text(unit)),
		)
	}

	return section("exchange-alt", "Emissions Equivalents",
		Div(Class("emissions-equivalents"),
			card("tree", "Tree Absorption", e.TreeDays, "days for one tree to absorb"),
			card("lightbulb", "Light Bulb Usage", e.LightBulbHours, "hours of 60W light bulb"),
			card("mobile-alt", "Smartphone Charges", e.SmartphoneCharges, "smartphone charges"),
		),
	)
}

func reportSavings(savings model.Savings) g.Node {
	items := make([]g.Node, 0, len(savings))
	for _, s := range savings {
		v, ok := vehicles[s.VehicleType]
		if !ok {
			v = vehicle{Name: s.VehicleType, Icons: []string{"car"}}
		}
		icons := make([]g.Node, 0, len(v.Icons))
		for _, name := range v.Icons {
			icons = append(icons, icon(name))
		}

		items = append(items, Div(Class("savings-item"),
			Div(Class("savings-vehicle"), g.Group(icons), g.Text(" Switch to a "+v.Name)),
			Div(Class("savings-amount"), g.Text("Save "+format.Number(s.Kg)+" kg CO2")),
		))
	}

	return section("hand-holding-usd", "Potential Savings",
		Div(Class("potential-savings"), g.Group(items)),
	)
}

func section(iconName, title string, body g.Node) g.Node {
	return Div(Class("emissions-section"),
		H3(icon(iconName), g.Text(" "+title)),
		body,
	)
}

func kgValue(kg float64) g.Node {
	return Div(Class("emissions-value"),
		g.Text(format.Number(kg)+" "),
		Span(Class("emissions-unit"), g.Text("kg")),
	)
}
