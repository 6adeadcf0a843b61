package sim

import (
	"testing"

	"github.com/padbridge/padbridge/internal/gamepad"
)

func TestPadStateStartsAtRest(t *testing.T) {
	snap := NewPadState().Snapshot()

	for _, code := range gamepad.Codes(gamepad.Button) {
		if snap.Buttons[code] {
			t.Errorf("button %s pressed at rest", code)
		}
	}
	for _, code := range gamepad.Codes(gamepad.Axis) {
		if snap.Axes[code] != 0 {
			t.Errorf("axis %s = %v at rest, want 0", code, snap.Axes[code])
		}
	}
	for _, code := range gamepad.Codes(gamepad.Trigger) {
		if snap.Triggers[code] != 0 {
			t.Errorf("trigger %s = %v at rest, want 0", code, snap.Triggers[code])
		}
	}
	if snap.EventsApplied != 0 || snap.BatchesApplied != 0 {
		t.Errorf("counters = %d/%d at rest, want 0/0", snap.EventsApplied, snap.BatchesApplied)
	}
}

func TestPadStateApply(t *testing.T) {
	tests := []struct {
		name  string
		event gamepad.Event
		check func(t *testing.T, snap Snapshot)
	}{
		{
			name:  "button press",
			event: gamepad.Event{Type: gamepad.Button, Code: "A", Value: gamepad.BoolValue(true)},
			check: func(t *testing.T, snap Snapshot) {
				if !snap.Buttons["A"] {
					t.Error("button A not pressed")
				}
			},
		},
		{
			name:  "keyboard press does not leak into buttons",
			event: gamepad.Event{Type: gamepad.Keyboard, Code: "A", Value: gamepad.BoolValue(true)},
			check: func(t *testing.T, snap Snapshot) {
				if !snap.Keys["A"] {
					t.Error("key A not pressed")
				}
				if snap.Buttons["A"] {
					t.Error("button A pressed by a keyboard event")
				}
			},
		},
		{
			name:  "mouse button",
			event: gamepad.Event{Type: gamepad.MouseButton, Code: "left", Value: gamepad.BoolValue(true)},
			check: func(t *testing.T, snap Snapshot) {
				if !snap.Mouse["left"] {
					t.Error("mouse left not pressed")
				}
			},
		},
		{
			name:  "axis deflection",
			event: gamepad.Event{Type: gamepad.Axis, Code: "leftX", Value: gamepad.NumberValue(-0.75)},
			check: func(t *testing.T, snap Snapshot) {
				if snap.Axes["leftX"] != -0.75 {
					t.Errorf("leftX = %v, want -0.75", snap.Axes["leftX"])
				}
			},
		},
		{
			name:  "trigger pull",
			event: gamepad.Event{Type: gamepad.Trigger, Code: "rightTrigger", Value: gamepad.NumberValue(1)},
			check: func(t *testing.T, snap Snapshot) {
				if snap.Triggers["rightTrigger"] != 1 {
					t.Errorf("rightTrigger = %v, want 1", snap.Triggers["rightTrigger"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPadState()
			p.Apply(tt.event)
			snap := p.Snapshot()
			tt.check(t, snap)
			if snap.EventsApplied != 1 {
				t.Errorf("EventsApplied = %d, want 1", snap.EventsApplied)
			}
			if snap.LastEventAt.IsZero() {
				t.Error("LastEventAt not set")
			}
		})
	}
}

func TestPadStateApplyBatch(t *testing.T) {
	p := NewPadState()
	p.ApplyBatch(gamepad.Batch{
		{Type: gamepad.Button, Code: "A", Value: gamepad.BoolValue(true)},
		{Type: gamepad.Axis, Code: "leftX", Value: gamepad.NumberValue(0.5)},
		{Type: gamepad.Axis, Code: "leftX", Value: gamepad.NumberValue(-0.25)},
	})

	snap := p.Snapshot()
	if snap.EventsApplied != 3 {
		t.Errorf("EventsApplied = %d, want 3", snap.EventsApplied)
	}
	if snap.BatchesApplied != 1 {
		t.Errorf("BatchesApplied = %d, want 1", snap.BatchesApplied)
	}
	// Later events in a batch win: order is preserved.
	if snap.Axes["leftX"] != -0.25 {
		t.Errorf("leftX = %v, want -0.25 (last write)", snap.Axes["leftX"])
	}
}

func TestPadStateSnapshotIsIsolated(t *testing.T) {
	p := NewPadState()
	p.Apply(gamepad.Event{Type: gamepad.Button, Code: "A", Value: gamepad.BoolValue(true)})

	snap := p.Snapshot()
	snap.Buttons["A"] = false
	snap.Axes["leftX"] = 1

	fresh := p.Snapshot()
	if !fresh.Buttons["A"] {
		t.Error("mutating a snapshot changed the live state")
	}
	if fresh.Axes["leftX"] != 0 {
		t.Error("mutating a snapshot changed the live axes")
	}
}

func TestPadStateReset(t *testing.T) {
	p := NewPadState()
	p.ApplyBatch(gamepad.Batch{
		{Type: gamepad.Button, Code: "B", Value: gamepad.BoolValue(true)},
		{Type: gamepad.Trigger, Code: "leftTrigger", Value: gamepad.NumberValue(0.9)},
	})
	p.Reset()

	snap := p.Snapshot()
	if snap.Buttons["B"] {
		t.Error("button B still pressed after reset")
	}
	if snap.Triggers["leftTrigger"] != 0 {
		t.Errorf("leftTrigger = %v after reset, want 0", snap.Triggers["leftTrigger"])
	}
	if snap.EventsApplied != 0 || snap.BatchesApplied != 0 {
		t.Errorf("counters = %d/%d after reset, want 0/0", snap.EventsApplied, snap.BatchesApplied)
	}
	if !snap.LastEventAt.IsZero() {
		t.Error("LastEventAt survived reset")
	}
}
