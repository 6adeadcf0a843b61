// Package sim implements the development stand-in for the input
// simulator: a WebSocket hub that receives event frames from the
// bridge, a virtual pad that tracks the current value of every code in
// the taxonomy, and a demo generator for running without a bridge.
package sim

import (
	"sync"
	"time"

	"github.com/padbridge/padbridge/internal/gamepad"
)

// PadState is the virtual pad: the current value of every code in the
// taxonomy. Discrete codes live in per-type boolean maps because the
// same string can be a legal code under more than one type.
type PadState struct {
	mu       sync.RWMutex
	buttons  map[string]bool
	keys     map[string]bool
	mouse    map[string]bool
	axes     map[string]float64
	triggers map[string]float64

	eventsApplied  uint64
	batchesApplied uint64
	lastEventAt    time.Time
}

// Snapshot is a point-in-time copy of the pad for rendering. Mutating
// a snapshot never touches the live state.
type Snapshot struct {
	Buttons  map[string]bool
	Keys     map[string]bool
	Mouse    map[string]bool
	Axes     map[string]float64
	Triggers map[string]float64

	EventsApplied  uint64
	BatchesApplied uint64
	LastEventAt    time.Time
}

// NewPadState returns a pad with every code at rest: buttons and keys
// released, axes centered, triggers at zero.
func NewPadState() *PadState {
	p := &PadState{}
	p.resetLocked()
	return p
}

func (p *PadState) resetLocked() {
	p.buttons = make(map[string]bool)
	p.keys = make(map[string]bool)
	p.mouse = make(map[string]bool)
	p.axes = make(map[string]float64)
	p.triggers = make(map[string]float64)
	for _, c := range gamepad.Codes(gamepad.Button) {
		p.buttons[c] = false
	}
	for _, c := range gamepad.Codes(gamepad.Keyboard) {
		p.keys[c] = false
	}
	for _, c := range gamepad.Codes(gamepad.MouseButton) {
		p.mouse[c] = false
	}
	for _, c := range gamepad.Codes(gamepad.Axis) {
		p.axes[c] = 0
	}
	for _, c := range gamepad.Codes(gamepad.Trigger) {
		p.triggers[c] = 0
	}
}

// Reset returns every code to rest and clears the counters.
func (p *PadState) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	p.eventsApplied = 0
	p.batchesApplied = 0
	p.lastEventAt = time.Time{}
}

// Apply sets one validated event's value on the pad.
func (p *PadState) Apply(ev gamepad.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyLocked(ev)
}

// ApplyBatch applies a validated batch in order.
func (p *PadState) ApplyBatch(batch gamepad.Batch) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ev := range batch {
		p.applyLocked(ev)
	}
	p.batchesApplied++
}

func (p *PadState) applyLocked(ev gamepad.Event) {
	switch ev.Type {
	case gamepad.Button:
		p.buttons[ev.Code] = ev.Value.Bool()
	case gamepad.Keyboard:
		p.keys[ev.Code] = ev.Value.Bool()
	case gamepad.MouseButton:
		p.mouse[ev.Code] = ev.Value.Bool()
	case gamepad.Axis:
		p.axes[ev.Code] = ev.Value.Number()
	case gamepad.Trigger:
		p.triggers[ev.Code] = ev.Value.Number()
	}
	p.eventsApplied++
	p.lastEventAt = time.Now()
}

// Snapshot copies the pad for rendering.
func (p *PadState) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Snapshot{
		Buttons:        copyBools(p.buttons),
		Keys:           copyBools(p.keys),
		Mouse:          copyBools(p.mouse),
		Axes:           copyFloats(p.axes),
		Triggers:       copyFloats(p.triggers),
		EventsApplied:  p.eventsApplied,
		BatchesApplied: p.batchesApplied,
		LastEventAt:    p.lastEventAt,
	}
}

func copyBools(src map[string]bool) map[string]bool {
	out := make(map[string]bool, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func copyFloats(src map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
