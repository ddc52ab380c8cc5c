// SPDX-License-Identifier: BSD-3-Clause

// Package ui drives the front panel: a five-screen state machine (Home,
// Scanning, DeviceList, Connected, Error) rendered through a Renderer and
// fed by three debounced GPIO buttons plus the connection coordinator's
// event stream over the in-process bus. It never touches the radio or
// USB gadget directly; every action it takes is a command published to
// the coordinator.
package ui
