// Package gamepad defines the input event taxonomy: the closed set of event
// types, the per-type code tables, per-event and batch validation, and the
// store holding the most recent accepted batch.
package gamepad

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type EventType int

const (
	Button EventType = iota
	Axis
	Trigger
	MouseButton
	Keyboard
)

var typeNames = map[EventType]string{
	Button:      "button",
	Axis:        "axis",
	Trigger:     "trigger",
	MouseButton: "mouseButton",
	Keyboard:    "keyboard",
}

var typeFromName = map[string]EventType{
	"button":      Button,
	"axis":        Axis,
	"trigger":     Trigger,
	"mouseButton": MouseButton,
	"keyboard":    Keyboard,
}

func (t EventType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

func (t EventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *EventType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, ok := typeFromName[s]
	if !ok {
		return errf(UnknownEventType, "unknown event type %q", s)
	}
	*t = v
	return nil
}

// Discrete reports whether events of this type carry boolean values.
// Continuous types (Axis, Trigger) carry numbers inside a closed interval.
func (t EventType) Discrete() bool {
	switch t {
	case Button, MouseButton, Keyboard:
		return true
	}
	return false
}

// Value is the payload of an event: a boolean for discrete types, a number
// for continuous ones. It marshals back to the exact JSON shape it was
// validated from; no normalization or clamping happens anywhere.
type Value struct {
	num    float64
	isBool bool
	b      bool
}

func BoolValue(b bool) Value      { return Value{isBool: true, b: b} }
func NumberValue(f float64) Value { return Value{num: f} }

func (v Value) IsBool() bool    { return v.isBool }
func (v Value) Bool() bool      { return v.b }
func (v Value) Number() float64 { return v.num }

func (v Value) String() string {
	if v.isBool {
		return strconv.FormatBool(v.b)
	}
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.isBool {
		return json.Marshal(v.b)
	}
	return json.Marshal(v.num)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		*v = BoolValue(true)
		return nil
	case "false":
		*v = BoolValue(false)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return errf(InvalidValueType, "value must be a boolean or a number")
	}
	*v = NumberValue(f)
	return nil
}

// Event is one validated input event. Construct through ValidateRaw; a
// hand-built Event bypasses the taxonomy checks.
type Event struct {
	Type  EventType `json:"type"`
	Code  string    `json:"code"`
	Value Value     `json:"value"`
}

// Batch is an ordered sequence of validated events, submitted and
// transmitted as one unit.
type Batch []Event
