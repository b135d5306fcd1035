package models

import "encoding/json"

// Player is one selectable entity. Only used for labeling.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Team     string `json:"team,omitempty"`
	Position string `json:"position,omitempty"`
}

// Record is one player's projection as raw JSON. The shape is not fixed and
// drifts between data sources; keys keep their document order.
type Record = json.RawMessage

// Projection pairs a player id with its raw projection record.
type Projection struct {
	ID     string `json:"id"`
	Record Record `json:"record"`
}
