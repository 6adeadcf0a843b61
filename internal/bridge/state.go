package bridge

import (
	"encoding/json"
	"fmt"
)

// State is the connection lifecycle of the simulator link.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

var stateNames = map[State]string{
	Disconnected: "disconnected",
	Connecting:   "connecting",
	Connected:    "connected",
}

var stateFromName = map[string]State{
	"disconnected": Disconnected,
	"connecting":   Connecting,
	"connected":    Connected,
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	st, ok := stateFromName[name]
	if !ok {
		return fmt.Errorf("unknown bridge state: %q", name)
	}
	*s = st
	return nil
}
