// SPDX-License-Identifier: BSD-3-Clause

package usbhid

import "errors"

var (
	// ErrConfigFSNotMounted indicates configfs is not mounted at /sys/kernel/config.
	ErrConfigFSNotMounted = errors.New("usbhid: configfs not mounted")

	// ErrGadgetExists indicates a gadget with the configured name already exists.
	ErrGadgetExists = errors.New("usbhid: gadget already exists")

	// ErrUDCNotFound indicates no USB Device Controller is available to bind to.
	ErrUDCNotFound = errors.New("usbhid: no USB device controller found")

	// ErrPermissionDenied indicates insufficient permissions for a gadget operation.
	ErrPermissionDenied = errors.New("usbhid: permission denied")

	// ErrDeviceNotFound indicates the /dev/hidgN node for a report kind is missing.
	ErrDeviceNotFound = errors.New("usbhid: HID device node not found")

	// ErrUnsupportedKind indicates a report kind this device was not configured for.
	ErrUnsupportedKind = errors.New("usbhid: unsupported report kind")

	// ErrWriteTimeout indicates a report write did not complete within its deadline.
	ErrWriteTimeout = errors.New("usbhid: report write timed out")
)
