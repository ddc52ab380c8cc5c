// SPDX-License-Identifier: BSD-3-Clause

// Package hiddescriptor walks a USB HID Report Descriptor (the same
// short-item encoding used for both BLE HOGP report maps and wired USB
// HID devices) and summarizes which canonical report kinds it declares
// and under which report IDs.
package hiddescriptor
