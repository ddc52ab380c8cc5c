// SPDX-License-Identifier: BSD-3-Clause

package forwarder

import (
	"github.com/chefzaid/bt2usb/pkg/hidreport"
	"github.com/chefzaid/bt2usb/pkg/usbhid"
)

const (
	DefaultServiceName = "forwarder"

	// DefaultChannelCapacity is the shared report channel's buffer size:
	// sixteen in-flight reports across both slots before a slot worker's
	// non-blocking send starts dropping.
	DefaultChannelCapacity = 16

	// DefaultActivitySubject is where every successful gadget write is
	// tapped for service/powermgr's inactivity timer. Kept as a literal
	// default shared by convention with powermgr.DefaultActivitySubject
	// rather than an import, the same way CommandSubject/EventSubject are
	// independently defined per service elsewhere in this tree.
	DefaultActivitySubject = "bt2usb.power.activity"
)

// Config configures the forwarder service.
type Config struct {
	ServiceName string

	Device  usbhid.CompositeDevice
	Reports <-chan hidreport.Report

	ActivitySubject string
}

// Option configures a Config.
type Option interface {
	apply(*Config)
}

type optionFunc func(*Config)

func (f optionFunc) apply(c *Config) { f(c) }

func WithServiceName(name string) Option {
	return optionFunc(func(c *Config) { c.ServiceName = name })
}

// WithDevice sets the USB HID gadget reports are written to.
func WithDevice(device usbhid.CompositeDevice) Option {
	return optionFunc(func(c *Config) { c.Device = device })
}

// WithReports sets the shared channel every slot worker feeds.
func WithReports(reports <-chan hidreport.Report) Option {
	return optionFunc(func(c *Config) { c.Reports = reports })
}

func WithActivitySubject(subject string) Option {
	return optionFunc(func(c *Config) { c.ActivitySubject = subject })
}

// NewConfig builds a Config with defaults applied before opts.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		ServiceName:     DefaultServiceName,
		ActivitySubject: DefaultActivitySubject,
	}
	for _, opt := range opts {
		opt.apply(c)
	}
	return c
}

// Validate checks that every required collaborator is present.
func (c *Config) Validate() error {
	if c.ServiceName == "" || c.Device == nil || c.Reports == nil {
		return ErrInvalidConfiguration
	}
	return nil
}
