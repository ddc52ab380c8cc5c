// SPDX-License-Identifier: BSD-3-Clause

package coordinator

import "encoding/json"

// CommandType names a UI-originated request published on the command subject.
type CommandType string

const (
	CommandStartScan  CommandType = "start_scan"
	CommandConnect    CommandType = "connect"
	CommandDisconnect CommandType = "disconnect"
)

// Command is one UI-originated request. Index selects a device from the
// most recent scan result (for CommandConnect); Slot selects a slot (for
// CommandDisconnect) — a negative Slot means "the most recently active
// occupied slot."
type Command struct {
	Type  CommandType `json:"type"`
	Index int         `json:"index,omitempty"`
	Slot  int         `json:"slot,omitempty"`
}

func (c Command) encode() []byte {
	data, _ := json.Marshal(c)
	return data
}

func decodeCommand(data []byte) (Command, error) {
	var c Command
	err := json.Unmarshal(data, &c)
	return c, err
}

// EventType names a coordinator-originated notification published on the
// event subject for the UI to consume.
type EventType string

const (
	EventScanStarted  EventType = "scan_started"
	EventDeviceFound  EventType = "device_found"
	EventScanComplete EventType = "scan_complete"
	EventConnected    EventType = "connected"
	EventDisconnected EventType = "disconnected"
	EventError        EventType = "error"
)

// Event is one coordinator-originated notification.
type Event struct {
	Type EventType `json:"type"`

	// Name carries a single device name (EventDeviceFound, EventConnected).
	Name string `json:"name,omitempty"`

	// Names carries the ordered device names of a completed scan
	// (EventScanComplete).
	Names []string `json:"names,omitempty"`

	// Summary is the human-readable connection summary for the Home
	// screen ("Idle", a device name, or "N devices").
	Summary string `json:"summary,omitempty"`

	// Tag names the BleErrorTag for EventError.
	Tag string `json:"tag,omitempty"`
}

func (e Event) encode() []byte {
	data, _ := json.Marshal(e)
	return data
}

func decodeEvent(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}
