// SPDX-License-Identifier: BSD-3-Clause

package blecentral

import (
	"context"
	"sync"
)

// MockCentral drives a scripted sequence of advertising reports, standing
// in for a real radio in tests the same way this tree's hardware-adjacent
// services ship a software Mock backend.
type MockCentral struct {
	mu     sync.Mutex
	Script []AdvertisingReport
}

// NewMockCentral returns a MockCentral that will emit script, in order,
// on the next StartScan call.
func NewMockCentral(script []AdvertisingReport) *MockCentral {
	return &MockCentral{Script: script}
}

func (m *MockCentral) StartScan(ctx context.Context, out chan<- AdvertisingReport) error {
	m.mu.Lock()
	script := m.Script
	m.mu.Unlock()

	for _, report := range script {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- report:
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

// MockGattClient simulates one peripheral connection: a fixed report map
// descriptor, a notification feed the test drives directly, and
// configurable failure points.
type MockGattClient struct {
	mu sync.Mutex

	ReportMap      []byte
	HasHIDService  bool
	FailConnect    bool
	FailDiscover   bool
	Notifications  chan []byte
	WrittenProtoMode []byte

	connected bool
}

// NewMockGattClient creates a mock GATT client exposing the given HID
// Report Map. Notifications can be pushed with Notify after the caller
// has subscribed.
func NewMockGattClient(reportMap []byte) *MockGattClient {
	return &MockGattClient{
		ReportMap:     reportMap,
		HasHIDService: true,
		Notifications: make(chan []byte, 16),
	}
}

func (m *MockGattClient) Connect(ctx context.Context, addr Address) error {
	if m.FailConnect {
		return ErrConnectFailed
	}
	m.mu.Lock()
	m.connected = true
	m.mu.Unlock()
	return nil
}

func (m *MockGattClient) DiscoverService(ctx context.Context, uuid16 uint16) (bool, error) {
	if m.FailDiscover {
		return false, ErrHidServiceNotFound
	}
	return uuid16 == UUIDHIDService && m.HasHIDService, nil
}

func (m *MockGattClient) ReadCharacteristic(ctx context.Context, uuid16 uint16) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return nil, ErrNotConnected
	}
	if uuid16 == UUIDReportMap {
		return m.ReportMap, nil
	}
	return nil, nil
}

func (m *MockGattClient) WriteCharacteristic(ctx context.Context, uuid16 uint16, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return ErrNotConnected
	}
	if uuid16 == UUIDProtocolMode {
		m.WrittenProtoMode = append([]byte(nil), data...)
	}
	return nil
}

func (m *MockGattClient) SubscribeNotifications(ctx context.Context, uuid16 uint16) (<-chan []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return nil, ErrNotConnected
	}
	return m.Notifications, nil
}

func (m *MockGattClient) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connected {
		m.connected = false
		close(m.Notifications)
	}
	return nil
}

// Notify pushes a notification payload to a subscribed test. Safe to call
// only before Disconnect.
func (m *MockGattClient) Notify(payload []byte) {
	m.Notifications <- payload
}

// MockSecurityHandler always succeeds (or always fails, if configured),
// returning a deterministic Bond.
type MockSecurityHandler struct {
	FailSecure bool
	Bond       Bond
}

func NewMockSecurityHandler(bond Bond) *MockSecurityHandler {
	return &MockSecurityHandler{Bond: bond}
}

func (m *MockSecurityHandler) IOCapabilities() IOCapability { return IOCapabilityNoInputNoOutput }
func (m *MockSecurityHandler) CanBond() bool                { return true }

func (m *MockSecurityHandler) Secure(ctx context.Context, addr Address) (Bond, error) {
	if m.FailSecure {
		return Bond{}, ErrSecurityTimeout
	}
	return m.Bond, nil
}

func (m *MockSecurityHandler) IsSecure(ctx context.Context, addr Address) (bool, error) {
	return !m.FailSecure, nil
}
