// SPDX-License-Identifier: BSD-3-Clause

package usbhid

import (
	"github.com/chefzaid/bt2usb/pkg/hidreport"
)

// GadgetConfig describes the composite USB device presented to the host.
type GadgetConfig struct {
	// Name is the configfs gadget directory name.
	Name string

	VendorID     string
	ProductID    string
	SerialNumber string
	Manufacturer string
	Product      string

	// MaxPower is in 2mA units, matching the configfs bMaxPower attribute.
	MaxPower int

	// KeyboardDevicePath, MouseDevicePath and ConsumerDevicePath name the
	// /dev/hidgN nodes the three functions are bound to, in link order.
	KeyboardDevicePath string
	MouseDevicePath    string
	ConsumerDevicePath string
}

// DefaultGadgetConfig returns the gadget configuration used when none is
// supplied explicitly.
func DefaultGadgetConfig() *GadgetConfig {
	return &GadgetConfig{
		Name:               "bt2usb",
		VendorID:           "0x1209",
		ProductID:          "0x0001",
		Manufacturer:       "bt2usb",
		Product:            "BLE-USB HID Bridge",
		MaxPower:           50,
		KeyboardDevicePath: "/dev/hidg0",
		MouseDevicePath:    "/dev/hidg1",
		ConsumerDevicePath: "/dev/hidg2",
	}
}

// CompositeDevice is the external USB HID collaborator: something that
// can deliver a canonical report to the host and that signals bus
// suspend/resume transitions as they're observed.
type CompositeDevice interface {
	// Write delivers one report to the host over the gadget function
	// matching the report's kind.
	Write(r hidreport.Report) error

	// SuspendSignal carries true when the USB bus suspends and false on
	// resume. Implementations must not block sending on it; a full
	// channel drops the transition, matching the report channel's
	// lossy semantics elsewhere in this tree.
	SuspendSignal() <-chan bool

	Close() error
}
