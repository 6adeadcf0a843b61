package gamepad

import (
	"encoding/json"
	"testing"
)

func TestEventTypeMarshalJSON(t *testing.T) {
	tests := []struct {
		eventType EventType
		expected  string
	}{
		{Button, `"button"`},
		{Axis, `"axis"`},
		{Trigger, `"trigger"`},
		{MouseButton, `"mouseButton"`},
		{Keyboard, `"keyboard"`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.eventType)
		if err != nil {
			t.Errorf("Marshal(%v) error: %v", tt.eventType, err)
			continue
		}
		if string(data) != tt.expected {
			t.Errorf("Marshal(%v) = %s, want %s", tt.eventType, data, tt.expected)
		}
	}
}

func TestEventTypeUnmarshalJSON(t *testing.T) {
	var et EventType
	if err := json.Unmarshal([]byte(`"mouseButton"`), &et); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if et != MouseButton {
		t.Errorf("Unmarshal = %v, want %v", et, MouseButton)
	}

	if err := json.Unmarshal([]byte(`"gamepad"`), &et); err == nil {
		t.Error("Unmarshal of unknown type name should fail")
	}
	if err := json.Unmarshal([]byte(`3`), &et); err == nil {
		t.Error("Unmarshal of numeric type should fail")
	}
}

func TestEventTypeDiscrete(t *testing.T) {
	tests := []struct {
		eventType EventType
		discrete  bool
	}{
		{Button, true},
		{MouseButton, true},
		{Keyboard, true},
		{Axis, false},
		{Trigger, false},
	}

	for _, tt := range tests {
		if got := tt.eventType.Discrete(); got != tt.discrete {
			t.Errorf("%v.Discrete() = %v, want %v", tt.eventType, got, tt.discrete)
		}
	}
}

func TestValueJSON(t *testing.T) {
	data, err := json.Marshal(BoolValue(true))
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != "true" {
		t.Errorf("Marshal(BoolValue(true)) = %s, want true", data)
	}

	data, err = json.Marshal(NumberValue(-0.5))
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != "-0.5" {
		t.Errorf("Marshal(NumberValue(-0.5)) = %s, want -0.5", data)
	}

	var v Value
	if err := json.Unmarshal([]byte(`false`), &v); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !v.IsBool() || v.Bool() {
		t.Errorf("Unmarshal(false) = %s, want bool false", v)
	}

	if err := json.Unmarshal([]byte(`"half"`), &v); err == nil {
		t.Error("Unmarshal of string value should fail")
	}
}

func TestEventMarshalShape(t *testing.T) {
	ev := Event{Type: Keyboard, Code: "SPACE", Value: BoolValue(true)}
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	want := `{"type":"keyboard","code":"SPACE","value":true}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}
