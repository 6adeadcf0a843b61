package sim

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/padbridge/padbridge/internal/gamepad"
)

// Generator synthesizes valid event batches on a ticker so the
// simulator can be exercised without a bridge attached. Batches go
// through the same apply path as real frames.
type Generator struct {
	state    *PadState
	hub      *Hub
	interval time.Duration
	log      zerolog.Logger
	enabled  atomic.Bool
}

// NewGenerator builds a demo generator over the shared pad state.
// Zero interval falls back to four batches a second.
func NewGenerator(state *PadState, hub *Hub, interval time.Duration, enabled bool, logger zerolog.Logger) *Generator {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	g := &Generator{
		state:    state,
		hub:      hub,
		interval: interval,
		log:      logger,
	}
	g.enabled.Store(enabled)
	return g
}

// Enabled reports whether the generator is currently producing.
func (g *Generator) Enabled() bool {
	return g.enabled.Load()
}

// Toggle flips the generator on or off and reports the new state.
func (g *Generator) Toggle() bool {
	for {
		old := g.enabled.Load()
		if g.enabled.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Start runs the tick loop until ctx is done.
func (g *Generator) Start(ctx context.Context) {
	go g.run(ctx)
}

func (g *Generator) run(ctx context.Context) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	tick := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !g.enabled.Load() {
				continue
			}
			tick++
			batch := demoBatch(tick)
			g.state.ApplyBatch(batch)
			g.hub.Notify(Notice{Kind: NoticeDemoBatch, Events: len(batch), Detail: describeBatch(batch)})
			g.log.Debug().Int("tick", tick).Int("events", len(batch)).Msg("demo batch applied")
		}
	}
}

// demoBatch builds the synthetic batch for one tick: a sinusoidal
// sweep on the left stick, a circular path on the right, a trigger
// pulse, and a button mash on a slower cycle. Every event stays inside
// the taxonomy's value domains.
func demoBatch(tick int) gamepad.Batch {
	phase := float64(tick) / 10.0

	batch := gamepad.Batch{
		{Type: gamepad.Axis, Code: "leftX", Value: gamepad.NumberValue(round3(math.Sin(phase)))},
		{Type: gamepad.Axis, Code: "leftY", Value: gamepad.NumberValue(round3(math.Sin(phase / 2)))},
		{Type: gamepad.Axis, Code: "rightX", Value: gamepad.NumberValue(round3(math.Cos(phase)))},
		{Type: gamepad.Axis, Code: "rightY", Value: gamepad.NumberValue(round3(math.Sin(phase + math.Pi/2)))},
		// Triggers are unipolar: fold the wave into [0, 1].
		{Type: gamepad.Trigger, Code: "rightTrigger", Value: gamepad.NumberValue(round3((math.Sin(phase*2) + 1) / 2))},
	}

	// Mash a button every few ticks, releasing it on the next cycle.
	mash := []string{"A", "B", "X", "Y"}
	if tick%4 == 0 {
		code := mash[(tick/4)%len(mash)]
		batch = append(batch, gamepad.Event{Type: gamepad.Button, Code: code, Value: gamepad.BoolValue(true)})
	} else if tick%4 == 1 {
		code := mash[((tick-1)/4)%len(mash)]
		batch = append(batch, gamepad.Event{Type: gamepad.Button, Code: code, Value: gamepad.BoolValue(false)})
	}

	// Tap a movement key on a slower cycle.
	if tick%8 == 0 {
		keys := []string{"W", "A", "S", "D"}
		batch = append(batch, gamepad.Event{Type: gamepad.Keyboard, Code: keys[(tick/8)%len(keys)], Value: gamepad.BoolValue(tick%16 == 0)})
	}

	return batch
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
