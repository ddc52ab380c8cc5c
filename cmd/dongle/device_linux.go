// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package main

import (
	"time"

	"github.com/chefzaid/bt2usb/pkg/usbhid"
	"github.com/chefzaid/bt2usb/service/ui"
)

const (
	gpioChip       = "/dev/gpiochip0"
	buttonUpLine   = 5
	buttonDownLine = 6
	buttonSelLine  = 7
	buttonDebounce = 20 * time.Millisecond
)

func newGadget() (usbhid.CompositeDevice, error) {
	return usbhid.NewGadget(usbhid.DefaultGadgetConfig())
}

func newButtons() (ui.Buttons, error) {
	return ui.NewGPIOButtons(gpioChip, buttonUpLine, buttonDownLine, buttonSelLine, buttonDebounce)
}
