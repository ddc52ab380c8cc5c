// SPDX-License-Identifier: BSD-3-Clause

package usbhid

import (
	"sync"

	"github.com/chefzaid/bt2usb/pkg/hidreport"
)

// MockCompositeDevice is an in-memory CompositeDevice for tests and for
// running on hosts without gadget support. It records every write and
// lets tests drive suspend/resume directly.
type MockCompositeDevice struct {
	mu      sync.Mutex
	writes  []hidreport.Report
	suspend chan bool
	closed  bool
}

// NewMockCompositeDevice returns a ready-to-use mock device.
func NewMockCompositeDevice() *MockCompositeDevice {
	return &MockCompositeDevice{suspend: make(chan bool, 1)}
}

func (m *MockCompositeDevice) Write(r hidreport.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrDeviceNotFound
	}
	m.writes = append(m.writes, r)
	return nil
}

func (m *MockCompositeDevice) SuspendSignal() <-chan bool {
	return m.suspend
}

func (m *MockCompositeDevice) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Writes returns every report written so far, in order.
func (m *MockCompositeDevice) Writes() []hidreport.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]hidreport.Report, len(m.writes))
	copy(out, m.writes)
	return out
}

// SetSuspended pushes a bus suspend/resume transition to SuspendSignal,
// dropping it if the channel is full rather than blocking the caller.
func (m *MockCompositeDevice) SetSuspended(suspended bool) {
	select {
	case m.suspend <- suspended:
	default:
	}
}
