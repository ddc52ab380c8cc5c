// SPDX-License-Identifier: BSD-3-Clause

//go:build !linux
// +build !linux

package main

import (
	"github.com/chefzaid/bt2usb/pkg/usbhid"
	"github.com/chefzaid/bt2usb/service/ui"
)

// newGadget and newButtons back the dongle with software mocks on any
// host without configfs/gpiocdev support, the same way the reference
// mock mainboard target swaps every hardware backend for a software one.
func newGadget() (usbhid.CompositeDevice, error) {
	return usbhid.NewMockCompositeDevice(), nil
}

func newButtons() (ui.Buttons, error) {
	return ui.NewMockButtons(), nil
}
