// SPDX-License-Identifier: BSD-3-Clause

package coordinator

import "errors"

var (
	// ErrInvalidConfiguration is returned by New when a required
	// collaborator is missing.
	ErrInvalidConfiguration = errors.New("coordinator: invalid configuration")

	// ErrNoFreeSlot is returned internally when a Connect command arrives
	// with both slots occupied.
	ErrNoFreeSlot = errors.New("coordinator: no free connection slot")

	// ErrAlreadyConnected is returned internally when a Connect command
	// names an address already occupying another slot.
	ErrAlreadyConnected = errors.New("coordinator: address already connected on another slot")

	// ErrUnknownDevice is returned internally when a Connect command
	// indexes past the last scan result.
	ErrUnknownDevice = errors.New("coordinator: device index not found in last scan result")
)
