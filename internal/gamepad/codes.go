package gamepad

// Code tables are closed at build time; there is no dynamic registration.
// Order is the stable order used by introspection output and the simulator
// views. Membership is always checked per-type: button "A" and keyboard "A"
// are distinct entries.

var buttonCodes = []string{
	"A", "B", "X", "Y",
	"LB", "RB", "LS", "RS",
	"START", "BACK", "GUIDE",
	"DPAD_UP", "DPAD_DOWN", "DPAD_LEFT", "DPAD_RIGHT",
}

var axisCodes = []string{"leftX", "leftY", "rightX", "rightY"}

var triggerCodes = []string{"leftTrigger", "rightTrigger"}

var mouseButtonCodes = []string{"left", "right", "middle"}

var keyboardCodes = []string{
	"W", "A", "S", "D",
	"UP", "DOWN", "LEFT", "RIGHT",
	"SPACE", "ENTER", "ESC", "TAB",
	"SHIFT", "CTRL", "ALT",
}

var codesByType = map[EventType][]string{
	Button:      buttonCodes,
	Axis:        axisCodes,
	Trigger:     triggerCodes,
	MouseButton: mouseButtonCodes,
	Keyboard:    keyboardCodes,
}

var codeSets map[EventType]map[string]struct{}

func init() {
	codeSets = make(map[EventType]map[string]struct{}, len(codesByType))
	for t, codes := range codesByType {
		set := make(map[string]struct{}, len(codes))
		for _, c := range codes {
			set[c] = struct{}{}
		}
		codeSets[t] = set
	}
}

// Codes returns the ordered code table for a type. The caller gets a copy.
func Codes(t EventType) []string {
	src := codesByType[t]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// ValidCode reports whether code belongs to the closed set for type t.
func ValidCode(t EventType, code string) bool {
	set, ok := codeSets[t]
	if !ok {
		return false
	}
	_, ok = set[code]
	return ok
}

// Interval is the closed value domain of a continuous event type.
type Interval struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Axes cover the full signed deflection of a stick; triggers are unipolar
// pulls, so their domain starts at rest (0) rather than at -1.
var intervals = map[EventType]Interval{
	Axis:    {Min: -1, Max: 1},
	Trigger: {Min: 0, Max: 1},
}

// ValueInterval returns the value domain for a continuous type. The second
// return is false for discrete types.
func ValueInterval(t EventType) (Interval, bool) {
	iv, ok := intervals[t]
	return iv, ok
}

// DiscreteCodes describes one discrete type's code table for introspection.
type DiscreteCodes struct {
	Type  EventType `json:"type"`
	Codes []string  `json:"codes"`
}

// ContinuousCodes describes one continuous type's code table and value
// domain for introspection.
type ContinuousCodes struct {
	Type  EventType `json:"type"`
	Codes []string  `json:"codes"`
	Min   float64   `json:"min"`
	Max   float64   `json:"max"`
}

// Taxonomy is the full static event taxonomy: buttonEvents lists the
// discrete tables, sliderEvents the continuous ones.
type Taxonomy struct {
	ButtonEvents []DiscreteCodes   `json:"buttonEvents"`
	SliderEvents []ContinuousCodes `json:"sliderEvents"`
}

// BuildTaxonomy renders the code tables into the introspection document.
func BuildTaxonomy() Taxonomy {
	tax := Taxonomy{}
	for _, t := range []EventType{Button, MouseButton, Keyboard} {
		tax.ButtonEvents = append(tax.ButtonEvents, DiscreteCodes{Type: t, Codes: Codes(t)})
	}
	for _, t := range []EventType{Axis, Trigger} {
		iv := intervals[t]
		tax.SliderEvents = append(tax.SliderEvents, ContinuousCodes{
			Type:  t,
			Codes: Codes(t),
			Min:   iv.Min,
			Max:   iv.Max,
		})
	}
	return tax
}
