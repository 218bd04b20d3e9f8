package view

import (
	"encoding/json"
	"net/url"

	"eco-route-go/internal/emissions"
	"eco-route-go/internal/mapview"
	"eco-route-go/internal/model"
	"eco-route-go/internal/ui"
	"eco-route-go/internal/waypoint"

	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

const (
	bootstrapCSS   = "https://cdn.jsdelivr.net/npm/bootstrap@4.6.2/dist/css/bootstrap.min.css"
	fontAwesomeCSS = "https://cdnjs.cloudflare.com/ajax/libs/font-awesome/5.15.4/css/all.min.css"
	htmxScript     = "https://unpkg.com/htmx.org@1.9.12"
	mapsScriptBase = "https://maps.googleapis.com/maps/api/js"
)

type option struct {
	Value string
	Label string
}

var modeOptions = []option{
	{model.ModeDriving, "Driving"},
	{model.ModeWalking, "Walking"},
	{model.ModeBicycling, "Bicycling"},
	{model.ModeTransit, "Public Transport"},
}

var vehicleOptions = []option{
	{"economy", "Economy Car"},
	{"midsize", "Midsize Car"},
	{"suv", "SUV"},
	{"truck", "Truck"},
	{"hybrid", "Hybrid Car"},
	{"electric", "Electric Car"},
	{"motorcycle", "Motorcycle"},
}

// Page renders the whole planner document.
func Page(snap ui.Snapshot, alerts []string) g.Node {
	return Doctype(
		HTML(g.Attr("lang", "en"),
			Head(
				Meta(g.Attr("charset", "utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				g.El("title", g.Text("Eco Route Planner")),
				Link(Rel("stylesheet"), Href(bootstrapCSS)),
				Link(Rel("stylesheet"), Href(fontAwesomeCSS)),
				Link(Rel("stylesheet"), Href("/static/css/style.css")),
				Script(Src(htmxScript)),
				Script(Src("/static/js/map.js")),
				g.If(!snap.Map.Failed, Script(Src(mapsScriptURL(snap.MapAPIKey)), g.Attr("async"), g.Attr("defer"))),
			),
			Body(
				Div(Class("container py-4"),
					Div(Class("header mb-4"),
						H1(icon("leaf"), g.Text(" Eco Route Planner")),
						P(Class("lead"), g.Text("Find the route with the lowest carbon footprint.")),
					),
					Div(Class("row"),
						Div(Class("col-md-4"), searchForm(snap)),
						Div(Class("col-md-8"),
							Div(Class("map-container"),
								MapArea(snap.Map),
								TrafficButton(snap.TrafficLabel),
							),
							MapState(snap.Map, false),
						),
					),
					Results(snap, alerts),
				),
			),
		),
	)
}

// Results renders the block every route interaction swaps: the route list,
// the emissions panels, and the alert queue.
func Results(snap ui.Snapshot, alerts []string) g.Node {
	var list, summary g.Node
	if len(snap.Routes) == 0 {
		list = Div(ID("route-list"), P(Class("text-muted"), g.Text("No routes yet.")))
		summary = EmptyEmissionsSummary()
	} else {
		list = RouteList(snap.Routes, snap.Selected, snap.Mode, snap.Expanded)
		selected, _ := snap.SelectedRoute()
		summary = EmissionsSummary(selected, snap.Mode)
	}

	return Div(ID("results"), Class("row mt-4"),
		Div(Class("col-md-6"),
			Div(Class("card mb-3"),
				Div(Class("card-body"),
					H2(Class("card-title"), icon("route"), g.Text(" Available Routes")),
					list,
					g.If(len(snap.Routes) > 0,
						A(Class("btn btn-link export-csv"), Href("/ui/routes.csv"), icon("file-csv"), g.Text(" Export CSV")),
					),
				),
			),
		),
		Div(Class("col-md-6"),
			Div(Class("card mb-3"),
				Div(Class("card-body"),
					H2(Class("card-title"), icon("leaf"), g.Text(" Environmental Impact")),
					summary,
					DetailButton(snap.Button),
				),
			),
		),
		Div(Class("col-12"), DetailedReport(snap.Report, snap.DetailsVisible)),
		Alerts(alerts),
	)
}

// MapArea renders the map container, or the static error panel once the
// widget has failed.
func MapArea(state mapview.State) g.Node {
	if state.Failed {
		return Div(ID("map"), Class("map map-error"),
			Div(g.Attr("style", "text-align:center; padding:20px;"), g.Text(mapview.ErrorMessage)),
		)
	}
	return Div(ID("map"), Class("map"))
}

// MapState embeds the serialised map state for the page script. Fragment
// responses send it out of band.
func MapState(state mapview.State, oob bool) g.Node {
	data, err := json.Marshal(state)
	if err != nil {
		data = []byte("{}")
	}
	return Script(Type("application/json"), ID("map-state"),
		g.If(oob, g.Attr("hx-swap-oob", "true")),
		g.Raw(string(data)),
	)
}

// TrafficButton is the traffic layer control.
func TrafficButton(label string) g.Node {
	return Button(ID("traffic-toggle"), Class("btn btn-light traffic-toggle"), Type("button"),
		g.Attr("hx-post", "/ui/traffic"),
		g.Attr("hx-target", "this"),
		g.Attr("hx-swap", "outerHTML"),
		g.Text(label),
	)
}

// WaypointField renders one intermediate-stop input row.
func WaypointField(f waypoint.Field) g.Node {
	class := "waypoint-row input-group mb-2"
	if f.Fading {
		class += " fading"
	}
	inputClass := "form-control waypoint-input"
	if f.Autocomplete {
		inputClass += " location-input"
	}

	return Div(Class(class), g.Attr("data-waypoint-id", f.ID),
		Input(Type("text"), ID(f.ID), Name(f.ID), Class(inputClass),
			Placeholder(f.Placeholder), Value(f.Value)),
		Div(Class("input-group-append"),
			Button(Type("button"), Class("btn btn-outline-danger remove-waypoint"),
				g.Attr("hx-delete", "/ui/waypoints/"+url.PathEscape(f.ID)),
				g.Attr("hx-target", "closest .waypoint-row"),
				g.Attr("hx-swap", "outerHTML swap:300ms"),
				icon("times"),
			),
		),
	)
}

// Alerts carries queued messages; the page script shows each one.
func Alerts(messages []string) g.Node {
	if len(messages) == 0 {
		return nil
	}
	data, err := json.Marshal(messages)
	if err != nil {
		return nil
	}
	return Div(ID("alerts"), Class("d-none"), g.Attr("data-alerts", string(data)))
}

func searchForm(snap ui.Snapshot) g.Node {
	form := snap.Form
	fields := make([]g.Node, 0, len(snap.Waypoints))
	for _, f := range snap.Waypoints {
		fields = append(fields, WaypointField(f))
	}

	return g.El("form", ID("route-form"), Class("card card-body"),
		g.Attr("hx-post", "/ui/routes"),
		g.Attr("hx-target", "#results"),
		g.Attr("hx-swap", "outerHTML"),
		g.Attr("hx-indicator", "#loading"),
		textInput("origin", "Origin", "Enter starting point", form.Origin),
		textInput("destination", "Destination", "Enter destination", form.Destination),
		Div(Class("form-group"),
			g.El("label", g.Text("Stops")),
			Div(ID("waypoints-container"), g.Group(fields)),
			Button(ID("add-waypoint"), Type("button"), Class("btn btn-outline-secondary btn-sm"),
				g.Attr("hx-post", "/ui/waypoints"),
				g.Attr("hx-target", "#waypoints-container"),
				g.Attr("hx-swap", "beforeend"),
				icon("plus"), g.Text(" Add Stop"),
			),
		),
		Div(Class("form-check mb-3"),
			Input(Type("checkbox"), ID("optimize-waypoints"), Name("optimize-waypoints"), Class("form-check-input"),
				Value("true"), g.If(form.OptimizeWaypoints, g.Attr("checked"))),
			g.El("label", Class("form-check-label"), g.Attr("for", "optimize-waypoints"), g.Text("Optimize stop order")),
		),
		selectInput("mode", "Travel Mode", modeOptions, form.Mode),
		Div(ID("vehicle-type-group"),
			g.If(form.Mode != "" && form.Mode != model.ModeDriving, g.Attr("style", "display: none;")),
			selectInput("vehicle-type", "Vehicle Type", vehicleOptions, vehicleOrDefault(form.VehicleType)),
		),
		Button(Type("submit"), Class("btn btn-primary btn-block"), icon("search"), g.Text(" Find Routes")),
		Div(ID("loading"), Class(loadingClass(snap.Loading)),
			Span(Class("spinner-border spinner-border-sm")), g.Text(" Finding routes..."),
		),
	)
}

// loadingClass keeps the indicator visible in a page rendered while a
// search from the same session is still running.
func loadingClass(loading bool) string {
	if loading {
		return "htmx-indicator htmx-request loading mt-2"
	}
	return "htmx-indicator loading mt-2"
}

func textInput(id, label, placeholder, value string) g.Node {
	return Div(Class("form-group"),
		g.El("label", g.Attr("for", id), g.Text(label)),
		Input(Type("text"), ID(id), Name(id), Class("form-control location-input"),
			Placeholder(placeholder), Value(value)),
	)
}

func selectInput(id, label string, options []option, selected string) g.Node {
	opts := make([]g.Node, 0, len(options))
	for _, o := range options {
		opts = append(opts, Option(Value(o.Value), g.If(o.Value == selected, g.Attr("selected")), g.Text(o.Label)))
	}
	return Div(Class("form-group"),
		g.El("label", g.Attr("for", id), g.Text(label)),
		Select(ID(id), Name(id), Class("form-control"), g.Group(opts)),
	)
}

func vehicleOrDefault(v string) string {
	if v == "" {
		return emissions.DefaultVehicleType
	}
	return v
}

func mapsScriptURL(apiKey string) string {
	q := url.Values{}
	q.Set("key", apiKey)
	q.Set("libraries", "places")
	q.Set("callback", "initMap")
	return mapsScriptBase + "?" + q.Encode()
}
