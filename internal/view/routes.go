package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"eco-route-go/internal/emissions"
	"eco-route-go/internal/format"
	"eco-route-go/internal/model"

	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

// Labels of the per-stop toggle.
const (
	LegsShowLabel = "Show stops details"
	LegsHideLabel = "Hide stops details"
)

// RouteList renders one card per route. Exactly the card at selected
// carries the selected class; expanded holds the cards whose stop list is open.
func RouteList(routes []model.Route, selected int, mode string, expanded map[int]bool) g.Node {
	cards := make([]g.Node, 0, len(routes))
	for i, route := range routes {
		cards = append(cards, routeCard(i, route, i == selected, mode, expanded[i]))
	}
	return Div(ID("route-list"), g.Group(cards))
}

func routeCard(i int, route model.Route, selected bool, mode string, open bool) g.Node {
	duration, distance := route.Totals()

	// Class and bar follow the figure as displayed, not the raw value.
	shown := format.Fixed2(route.CarbonEmissions)
	rounded, _ := strconv.ParseFloat(shown, 64)

	class := "route-option"
	if selected {
		class += " selected"
	}

	return Div(Class(class), g.Attr("data-route-index", strconv.Itoa(i)),
		hxPost(fmt.Sprintf("/ui/routes/%d/select", i)),
		H3(modeIcon(mode), g.Textf(" Route %d", i+1)),
		Div(Class("d-flex justify-content-between align-items-center mb-2"),
			Div(Class("route-duration"), icon("clock"), g.Text(" "), Strong(g.Text(format.Duration(duration)))),
			Div(Class("route-distance"), icon("road"), g.Text(" "), Strong(g.Text(format.Distance(distance)))),
		),
		Div(Class("mb-2"),
			Div(Class("d-flex justify-content-between align-items-center"),
				Div(icon("leaf"), g.Text(" Carbon Emissions:")),
				Div(Class("route-emissions "+emissions.ListCard.Classify(rounded)), g.Text(shown+" kg CO2")),
			),
			Div(Class("emissions-chart"),
				Div(Class("chart-bar"), g.Attr("style", "width: "+barWidth(rounded, 5)+";")),
			),
		),
		g.If(len(route.Legs) > 1, legDetails(i, route.Legs, open)),
	)
}

func legDetails(i int, legs []model.Leg, open bool) g.Node {
	label, toggleClass, display := LegsShowLabel, "route-legs-toggle", "none"
	if open {
		label, toggleClass, display = LegsHideLabel, "route-legs-toggle expanded", "block"
	}

	rows := make([]g.Node, 0, len(legs))
	for k, leg := range legs {
		rows = append(rows, Div(Class("route-leg"),
			P(Class("mb-1"),
				Strong(icon("map-marker-alt"), g.Textf(" Stop %d:", k+1)),
				g.Text(" "+placeName(leg.StartAddress)+" to "+placeName(leg.EndAddress)),
			),
			Div(Class("d-flex justify-content-between"),
				Span(icon("clock"), g.Text(" "+leg.Duration.Text)),
				Span(icon("road"), g.Text(" "+leg.Distance.Text)),
			),
		))
	}

	return g.Group([]g.Node{
		Div(Class(toggleClass),
			hxPost(fmt.Sprintf("/ui/routes/%d/legs", i)),
			g.Attr("hx-trigger", "click consume"),
			g.Text(label),
		),
		Div(Class("route-legs"), g.Attr("style", "display: "+display+";"), g.Group(rows)),
	})
}

// placeName is the part of an address before the first comma.
func placeName(address string) string {
	name, _, _ := strings.Cut(address, ",")
	return name
}

func modeIcon(mode string) g.Node {
	switch mode {
	case model.ModeWalking:
		return icon("walking")
	case model.ModeBicycling:
		return icon("bicycle")
	case model.ModeTransit:
		return icon("bus")
	default:
		return icon("car")
	}
}

func icon(name string) g.Node {
	return I(Class("fas fa-" + name))
}

// barWidth is a CSS percentage, value*scale capped at 100.
func barWidth(value, scale float64) string {
	return format.Number(math.Min(value*scale, 100)) + "%"
}

// hxPost posts to path and swaps the response in place of the results block.
func hxPost(path string) g.Node {
	return g.Group([]g.Node{
		g.Attr("hx-post", path),
		g.Attr("hx-target", "#results"),
		g.Attr("hx-swap", "outerHTML"),
	})
}
