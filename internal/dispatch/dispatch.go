// Package dispatch wires gamepad validation, the last-batch store, and
// the simulator link into the MCP tool and resource surface.
package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/padbridge/padbridge/internal/bridge"
	"github.com/padbridge/padbridge/internal/diag"
	"github.com/padbridge/padbridge/internal/gamepad"
	"github.com/padbridge/padbridge/internal/mcp"
)

const (
	toolSendEvents = "send_gamepad_events"

	uriLastBatch = "gamepad://last-batch"
	uriTaxonomy  = "gamepad://supported-events"
	uriStatus    = "gamepad://status"
)

// Sender forwards an accepted batch toward the simulator.
type Sender interface {
	Send(gamepad.Batch)
}

// LinkStatus reports transport health for the status resource.
type LinkStatus interface {
	Stats() bridge.Stats
}

// Result is the submit response body.
type Result struct {
	Success        bool   `json:"success"`
	EventsReceived int    `json:"eventsReceived"`
	Message        string `json:"message"`
}

// Dispatcher is the submit facade. A validated batch always takes the
// same path: store first, then the wire.
type Dispatcher struct {
	store  *gamepad.Store
	sender Sender
	link   LinkStatus
	diag   *diag.Collector
	log    zerolog.Logger

	taxonomyJSON string
}

// New builds a Dispatcher. The taxonomy payload is fixed at startup.
func New(store *gamepad.Store, sender Sender, link LinkStatus, collector *diag.Collector, logger zerolog.Logger) *Dispatcher {
	taxonomy, _ := json.Marshal(gamepad.BuildTaxonomy())
	return &Dispatcher{
		store:        store,
		sender:       sender,
		link:         link,
		diag:         collector,
		log:          logger,
		taxonomyJSON: string(taxonomy),
	}
}

type submitParams struct {
	Events []json.RawMessage `json:"events"`
}

// Submit validates a raw batch, records it, and forwards it. The store
// and the wire only ever see fully valid batches; the first invalid
// event rejects the whole submission.
func (d *Dispatcher) Submit(args json.RawMessage) (*Result, error) {
	if len(args) == 0 {
		return nil, mcp.Errorf(mcp.ErrCodeInvalidParams, "arguments must be an object with an events array")
	}
	var params submitParams
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, mcp.Errorf(mcp.ErrCodeInvalidParams, "invalid arguments: %v", err)
	}
	if params.Events == nil {
		return nil, mcp.Errorf(mcp.ErrCodeInvalidParams, "events array is required")
	}
	if len(params.Events) == 0 {
		return nil, mcp.Errorf(mcp.ErrCodeInvalidParams, "events must not be empty")
	}

	batch, err := gamepad.ValidateBatch(params.Events)
	if err != nil {
		var verr *gamepad.ValidationError
		if errors.As(err, &verr) {
			d.log.Debug().Stringer("kind", verr.Kind).Str("reason", verr.Message).Msg("batch rejected")
			return nil, mcp.Errorf(mcp.ErrCodeInvalidParams, "%s", verr.Message)
		}
		return nil, mcp.Errorf(mcp.ErrCodeInvalidParams, "%v", err)
	}

	d.store.SetLast(batch)
	d.sender.Send(batch)
	d.log.Debug().Int("events", len(batch)).Msg("batch accepted")

	return &Result{
		Success:        true,
		EventsReceived: len(batch),
		Message:        fmt.Sprintf("accepted %d gamepad event(s)", len(batch)),
	}, nil
}

type lastBatchPayload struct {
	Events gamepad.Batch `json:"events"`
}

// LastBatchPayload renders the most recently accepted batch, or an empty
// array before the first submit.
func (d *Dispatcher) LastBatchPayload() (string, error) {
	last := d.store.Last()
	if last == nil {
		last = gamepad.Batch{}
	}
	data, err := json.Marshal(lastBatchPayload{Events: last})
	return string(data), err
}

// TaxonomyPayload renders the full static event taxonomy.
func (d *Dispatcher) TaxonomyPayload() (string, error) {
	return d.taxonomyJSON, nil
}

type statusPayload struct {
	Connection   bridge.Stats  `json:"connection"`
	Process      diag.Snapshot `json:"process"`
	SimulatorURL string        `json:"simulatorUrl"`
}

// StatusPayload renders connection stats plus process diagnostics.
func (d *Dispatcher) StatusPayload() (string, error) {
	stats := d.link.Stats()
	data, err := json.Marshal(statusPayload{
		Connection:   stats,
		Process:      d.diag.Collect(),
		SimulatorURL: stats.URL,
	})
	return string(data), err
}

// Register wires the facade's tool and resources into srv.
func (d *Dispatcher) Register(srv *mcp.Server) {
	srv.RegisterTool(&mcp.Tool{
		Name:        toolSendEvents,
		Description: "Validate a batch of gamepad events and forward it to the input simulator",
		InputSchema: sendEventsSchema(),
		Handler:     d.handleSendEvents,
	})
	srv.RegisterResource(&mcp.Resource{
		URI:         uriLastBatch,
		Name:        "Last Event Batch",
		Description: "The most recently accepted gamepad event batch",
		MimeType:    "application/json",
		Read:        d.LastBatchPayload,
	})
	srv.RegisterResource(&mcp.Resource{
		URI:         uriTaxonomy,
		Name:        "Supported Events",
		Description: "Every legal event type, code, and value domain",
		MimeType:    "application/json",
		Read:        d.TaxonomyPayload,
	})
	srv.RegisterResource(&mcp.Resource{
		URI:         uriStatus,
		Name:        "Bridge Status",
		Description: "Connection state and process diagnostics",
		MimeType:    "application/json",
		Read:        d.StatusPayload,
	})
}

func (d *Dispatcher) handleSendEvents(call *mcp.ToolCall) (*mcp.ToolResult, error) {
	res, err := d.Submit(call.Arguments)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	return mcp.TextResult(string(data)), nil
}

func sendEventsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"events": map[string]interface{}{
				"type":        "array",
				"description": "Batch of gamepad events, applied in order",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"type": map[string]interface{}{
							"type": "string",
							"enum": []string{"button", "axis", "trigger", "mouseButton", "keyboard"},
						},
						"code": map[string]interface{}{
							"type":        "string",
							"description": "Event code from the taxonomy for the chosen type",
						},
						"value": map[string]interface{}{
							"description": "Boolean for button, mouseButton, and keyboard events; number for axis and trigger events",
						},
					},
					"required": []string{"type", "code", "value"},
				},
			},
		},
		"required": []string{"events"},
	}
}
