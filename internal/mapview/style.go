package mapview

// StyleRule is one entry of the map widget's styles option.
type StyleRule struct {
	FeatureType string           `json:"featureType"`
	ElementType string           `json:"elementType"`
	Stylers     []map[string]any `json:"stylers"`
}

func rule(featureType, elementType string, stylers ...map[string]any) StyleRule {
	return StyleRule{FeatureType: featureType, ElementType: elementType, Stylers: stylers}
}

// CustomStyle is the fixed light theme applied to the map: muted roads,
// hidden points of interest and transit, pale water.
var CustomStyle = []StyleRule{
	rule("all", "geometry.fill", map[string]any{"weight": "2.00"}),
	rule("all", "geometry.stroke", map[string]any{"color": "#9c9c9c"}),
	rule("all", "labels.text", map[string]any{"visibility": "on"}),
	rule("landscape", "all", map[string]any{"color": "#f2f2f2"}),
	rule("landscape", "geometry.fill", map[string]any{"color": "#ffffff"}),
	rule("landscape.man_made", "geometry.fill", map[string]any{"color": "#ffffff"}),
	rule("poi", "all", map[string]any{"visibility": "off"}),
	rule("road", "all", map[string]any{"saturation": -100}, map[string]any{"lightness": 45}),
	rule("road", "geometry.fill", map[string]any{"color": "#eeeeee"}),
	rule("road", "labels.text.fill", map[string]any{"color": "#7b7b7b"}),
	rule("road", "labels.text.stroke", map[string]any{"color": "#ffffff"}),
	rule("road.highway", "all", map[string]any{"visibility": "simplified"}),
	rule("road.arterial", "labels.icon", map[string]any{"visibility": "off"}),
	rule("transit", "all", map[string]any{"visibility": "off"}),
	rule("water", "all", map[string]any{"color": "#46bcec"}, map[string]any{"visibility": "on"}),
	rule("water", "geometry.fill", map[string]any{"color": "#c8d7d4"}),
	rule("water", "labels.text.fill", map[string]any{"color": "#070707"}),
	rule("water", "labels.text.stroke", map[string]any{"color": "#ffffff"}),
}
