package gamepad

import (
	"encoding/json"
	"testing"
)

func TestValidCode(t *testing.T) {
	tests := []struct {
		eventType EventType
		code      string
		valid     bool
	}{
		{Button, "A", true},
		{Button, "DPAD_LEFT", true},
		{Button, "leftX", false},
		{Axis, "leftX", true},
		{Axis, "leftTrigger", false},
		{Trigger, "leftTrigger", true},
		{Trigger, "LT", false},
		{MouseButton, "middle", true},
		{MouseButton, "MIDDLE", false},
		{Keyboard, "ESC", true},
		{Keyboard, "F1", false},
	}

	for _, tt := range tests {
		if got := ValidCode(tt.eventType, tt.code); got != tt.valid {
			t.Errorf("ValidCode(%v, %q) = %v, want %v", tt.eventType, tt.code, got, tt.valid)
		}
	}
}

func TestCodesReturnsCopy(t *testing.T) {
	codes := Codes(Axis)
	if len(codes) == 0 {
		t.Fatal("Codes(Axis) returned empty table")
	}
	codes[0] = "mutated"

	again := Codes(Axis)
	if again[0] == "mutated" {
		t.Error("Codes did not return a copy; mutation leaked into the table")
	}
}

func TestValueInterval(t *testing.T) {
	iv, ok := ValueInterval(Axis)
	if !ok || iv.Min != -1 || iv.Max != 1 {
		t.Errorf("ValueInterval(Axis) = %+v, %v, want [-1, 1]", iv, ok)
	}

	iv, ok = ValueInterval(Trigger)
	if !ok || iv.Min != 0 || iv.Max != 1 {
		t.Errorf("ValueInterval(Trigger) = %+v, %v, want [0, 1]", iv, ok)
	}

	if _, ok := ValueInterval(Button); ok {
		t.Error("ValueInterval(Button) should report no interval for a discrete type")
	}
}

func TestBuildTaxonomy(t *testing.T) {
	tax := BuildTaxonomy()

	wantButton := []EventType{Button, MouseButton, Keyboard}
	if len(tax.ButtonEvents) != len(wantButton) {
		t.Fatalf("ButtonEvents has %d entries, want %d", len(tax.ButtonEvents), len(wantButton))
	}
	for i, entry := range tax.ButtonEvents {
		if entry.Type != wantButton[i] {
			t.Errorf("ButtonEvents[%d].Type = %v, want %v", i, entry.Type, wantButton[i])
		}
		if len(entry.Codes) == 0 {
			t.Errorf("ButtonEvents[%d] (%v) has empty code table", i, entry.Type)
		}
	}

	wantSlider := []EventType{Axis, Trigger}
	if len(tax.SliderEvents) != len(wantSlider) {
		t.Fatalf("SliderEvents has %d entries, want %d", len(tax.SliderEvents), len(wantSlider))
	}
	if tax.SliderEvents[0].Min != -1 || tax.SliderEvents[0].Max != 1 {
		t.Errorf("axis interval = [%v, %v], want [-1, 1]", tax.SliderEvents[0].Min, tax.SliderEvents[0].Max)
	}
	if tax.SliderEvents[1].Min != 0 || tax.SliderEvents[1].Max != 1 {
		t.Errorf("trigger interval = [%v, %v], want [0, 1]", tax.SliderEvents[1].Min, tax.SliderEvents[1].Max)
	}
}

func TestTaxonomyJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(BuildTaxonomy())
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal to map error: %v", err)
	}
	if _, ok := raw["buttonEvents"]; !ok {
		t.Error("JSON should contain 'buttonEvents' field")
	}
	if _, ok := raw["sliderEvents"]; !ok {
		t.Error("JSON should contain 'sliderEvents' field")
	}
}

func TestEveryCodeValidates(t *testing.T) {
	// Each entry in the published taxonomy must pass its own validator.
	for _, entry := range BuildTaxonomy().ButtonEvents {
		for _, code := range entry.Codes {
			raw, _ := json.Marshal(map[string]interface{}{
				"type": entry.Type.String(), "code": code, "value": true,
			})
			if _, err := ValidateRaw(raw); err != nil {
				t.Errorf("published %v code %q fails validation: %v", entry.Type, code, err)
			}
		}
	}
	for _, entry := range BuildTaxonomy().SliderEvents {
		for _, code := range entry.Codes {
			raw, _ := json.Marshal(map[string]interface{}{
				"type": entry.Type.String(), "code": code, "value": entry.Max,
			})
			if _, err := ValidateRaw(raw); err != nil {
				t.Errorf("published %v code %q fails validation: %v", entry.Type, code, err)
			}
		}
	}
}
