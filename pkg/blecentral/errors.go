// SPDX-License-Identifier: BSD-3-Clause

package blecentral

import "errors"

var (
	// ErrScanFailed indicates the central stack could not start or sustain a scan window.
	ErrScanFailed = errors.New("ble central: scan failed")

	// ErrConnectFailed indicates a GAP connect attempt did not complete.
	ErrConnectFailed = errors.New("ble central: connect failed")

	// ErrHidServiceNotFound indicates the connected peripheral has no HID over GATT service.
	ErrHidServiceNotFound = errors.New("ble central: HID service not found")

	// ErrNotifyFailed indicates enabling report notifications failed.
	ErrNotifyFailed = errors.New("ble central: notification subscribe failed")

	// ErrSecurityTimeout indicates the link did not reach an encrypted state within budget.
	ErrSecurityTimeout = errors.New("ble central: security negotiation timed out")

	// ErrNotConnected indicates an operation was attempted on a closed connection.
	ErrNotConnected = errors.New("ble central: not connected")
)
