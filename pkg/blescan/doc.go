// SPDX-License-Identifier: BSD-3-Clause

// Package blescan runs one bounded BLE active-scan window, walks each
// advertisement's AD structures to find HID-bearing peripherals, and
// returns a deduplicated, bounded list of discovered devices.
package blescan
