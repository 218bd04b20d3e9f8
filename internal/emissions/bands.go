package emissions

// Band is one step of a threshold table: values strictly below Below map to Value.
type Band struct {
	Below float64
	Value string
}

// Bands is an ordered threshold table with a fallback for values above
// every step.
type Bands struct {
	Steps []Band
	Else  string
}

// Classify returns the value of the first step whose threshold exceeds kg.
func (b Bands) Classify(kg float64) string {
	for _, step := range b.Steps {
		if kg < step.Below {
			return step.Value
		}
	}
	return b.Else
}

// CSS classes shared by the list and summary tables.
const (
	ClassEcoFriendly = "eco-friendly"
	ClassModerate    = "moderate"
	ClassHigh        = "high-emission"
)

// The three tables below differ on purpose. Each screen element has always
// used its own cut-offs and they are kept separate rather than merged.
var (
	// MapStroke colours the route line drawn on the map.
	MapStroke = Bands{
		Steps: []Band{
			{Below: 1, Value: "#38b000"},
			{Below: 5, Value: "#3a86ff"},
			{Below: 10, Value: "#ffbe0b"},
		},
		Else: "#ff5a5f",
	}

	// ListCard styles the emissions figure on each route card.
	ListCard = Bands{
		Steps: []Band{
			{Below: 5, Value: ClassEcoFriendly},
			{Below: 10, Value: ClassModerate},
		},
		Else: ClassHigh,
	}

	// Summary styles the headline figure of the emissions panel.
	Summary = Bands{
		Steps: []Band{
			{Below: 0.5, Value: ClassEcoFriendly},
			{Below: 2, Value: ClassModerate},
		},
		Else: ClassHigh,
	}
)
