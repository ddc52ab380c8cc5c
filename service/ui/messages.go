// SPDX-License-Identifier: BSD-3-Clause

package ui

import "encoding/json"

// wireCommand and wireEvent mirror service/coordinator's Command/Event
// wire shapes without importing that package: the ui and coordinator
// services only need to agree on the JSON on the bus, not share Go
// types.
type wireCommand struct {
	Type  string `json:"type"`
	Index int    `json:"index,omitempty"`
	Slot  int    `json:"slot,omitempty"`
}

const (
	cmdStartScan  = "start_scan"
	cmdConnect    = "connect"
	cmdDisconnect = "disconnect"
)

func (c wireCommand) encode() []byte {
	data, _ := json.Marshal(c)
	return data
}

type wireEvent struct {
	Type    string   `json:"type"`
	Name    string   `json:"name,omitempty"`
	Names   []string `json:"names,omitempty"`
	Summary string   `json:"summary,omitempty"`
	Tag     string   `json:"tag,omitempty"`
}

const (
	evtScanStarted  = "scan_started"
	evtDeviceFound  = "device_found"
	evtScanComplete = "scan_complete"
	evtConnected    = "connected"
	evtDisconnected = "disconnected"
	evtError        = "error"
)

func decodeWireEvent(data []byte) (wireEvent, error) {
	var e wireEvent
	err := json.Unmarshal(data, &e)
	return e, err
}
