// SPDX-License-Identifier: BSD-3-Clause

// Package blecentral defines the boundary the bridge pipeline consumes
// from the underlying BLE controller: GAP central scanning, GATT client
// discovery, and link-layer security. No real radio stack ships in this
// tree, so the boundary is expressed purely as interfaces, the same way
// this tree isolates every other hardware-adjacent concern (sensors,
// power rails, thermal zones) behind a Backend interface with a software
// Mock standing in for real hardware in tests.
package blecentral
