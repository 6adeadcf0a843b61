package gamepad

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies a validation failure. The order matches check precedence:
// structural problems are reported before taxonomy problems, taxonomy
// problems before value problems.
type Kind int

const (
	MalformedEvent Kind = iota
	UnknownEventType
	UnknownEventCode
	InvalidValueType
	InvalidValueRange
)

var kindNames = map[Kind]string{
	MalformedEvent:    "malformed_event",
	UnknownEventType:  "unknown_event_type",
	UnknownEventCode:  "unknown_event_code",
	InvalidValueType:  "invalid_value_type",
	InvalidValueRange: "invalid_value_range",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ValidationError reports why an event or batch was rejected. Message names
// the offending field and value so the caller can fix the input without
// reading logs.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string {
	return "gamepad: " + e.Message
}

func errf(k Kind, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Kind: k, Message: fmt.Sprintf(format, args...)}
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

// ValidateRaw checks one raw event against the taxonomy and returns it
// typed. The value is passed through untouched; nothing is clamped or
// normalized. Checks run in precedence order: structure, type, code, value
// shape, value range.
func ValidateRaw(data json.RawMessage) (Event, error) {
	var raw struct {
		Type  json.RawMessage `json:"type"`
		Code  json.RawMessage `json:"code"`
		Value json.RawMessage `json:"value"`
	}
	if isNull(data) || json.Unmarshal(data, &raw) != nil {
		return Event{}, errf(MalformedEvent, "event must be a non-null object")
	}

	var typeName string
	if isNull(raw.Type) || json.Unmarshal(raw.Type, &typeName) != nil {
		return Event{}, errf(MalformedEvent, "event field \"type\" must be a string")
	}
	var code string
	if isNull(raw.Code) || json.Unmarshal(raw.Code, &code) != nil {
		return Event{}, errf(MalformedEvent, "event field \"code\" must be a string")
	}

	t, ok := typeFromName[typeName]
	if !ok {
		return Event{}, errf(UnknownEventType, "unknown event type %q", typeName)
	}
	if !ValidCode(t, code) {
		return Event{}, errf(UnknownEventCode, "unknown %s code %q", t, code)
	}

	if t.Discrete() {
		var b bool
		if isNull(raw.Value) || json.Unmarshal(raw.Value, &b) != nil {
			return Event{}, errf(InvalidValueType, "%s %q value must be a boolean", t, code)
		}
		return Event{Type: t, Code: code, Value: BoolValue(b)}, nil
	}

	var f float64
	if isNull(raw.Value) || json.Unmarshal(raw.Value, &f) != nil {
		return Event{}, errf(InvalidValueType, "%s %q value must be a number", t, code)
	}
	iv := intervals[t]
	if f < iv.Min || f > iv.Max {
		return Event{}, errf(InvalidValueRange, "%s %q value %v outside [%v, %v]", t, code, f, iv.Min, iv.Max)
	}
	return Event{Type: t, Code: code, Value: NumberValue(f)}, nil
}

// ValidateBatch validates events in order and rejects the whole batch on the
// first failure; a batch is never partially accepted. The failing index is
// prefixed into the message.
func ValidateBatch(raws []json.RawMessage) (Batch, error) {
	batch := make(Batch, 0, len(raws))
	for i, raw := range raws {
		ev, err := ValidateRaw(raw)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				return nil, &ValidationError{
					Kind:    verr.Kind,
					Message: fmt.Sprintf("events[%d]: %s", i, verr.Message),
				}
			}
			return nil, err
		}
		batch = append(batch, ev)
	}
	return batch, nil
}
