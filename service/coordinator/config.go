// SPDX-License-Identifier: BSD-3-Clause

package coordinator

import (
	"time"

	"github.com/chefzaid/bt2usb/pkg/blecentral"
	"github.com/chefzaid/bt2usb/pkg/blescan"
	"github.com/chefzaid/bt2usb/pkg/bondstore"
	"github.com/chefzaid/bt2usb/pkg/hidreport"
)

const (
	DefaultServiceName        = "coordinator"
	DefaultServiceDescription = "BLE connection coordinator"

	// DefaultMaxConnections is MAX_CONNECTIONS: exactly two static slots.
	DefaultMaxConnections = 2

	DefaultCommandSubject = "bt2usb.coordinator.cmd"
	DefaultEventSubject   = "bt2usb.coordinator.event"
)

// Config configures the coordinator service.
type Config struct {
	ServiceName        string
	ServiceDescription string

	Central       blecentral.Central
	ClientFactory func() blecentral.GattClient
	Security      blecentral.SecurityHandler
	Bonds         *bondstore.Store
	Reports       chan<- hidreport.Report

	ScanDuration time.Duration
	MaxResults   int

	CommandSubject string
	EventSubject   string
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

func WithServiceDescription(description string) Option {
	return optionFunc(func(c *Config) { c.ServiceDescription = description })
}

// WithCentral sets the BLE central used to scan for peripherals.
func WithCentral(central blecentral.Central) Option {
	return optionFunc(func(c *Config) { c.Central = central })
}

// WithClientFactory sets the per-connection GATT client constructor
// handed to every slot worker.
func WithClientFactory(factory func() blecentral.GattClient) Option {
	return optionFunc(func(c *Config) { c.ClientFactory = factory })
}

// WithSecurity sets the pairing/bonding collaborator shared by every slot.
func WithSecurity(security blecentral.SecurityHandler) Option {
	return optionFunc(func(c *Config) { c.Security = security })
}

// WithBondStore sets the paired-device store used for auto-reconnect and
// new-bond persistence.
func WithBondStore(bonds *bondstore.Store) Option {
	return optionFunc(func(c *Config) { c.Bonds = bonds })
}

// WithReports sets the shared report channel passed through to every
// slot worker.
func WithReports(reports chan<- hidreport.Report) Option {
	return optionFunc(func(c *Config) { c.Reports = reports })
}

func WithScanDuration(d time.Duration) Option {
	return optionFunc(func(c *Config) { c.ScanDuration = d })
}

func WithMaxResults(n int) Option {
	return optionFunc(func(c *Config) { c.MaxResults = n })
}

func WithCommandSubject(subject string) Option {
	return optionFunc(func(c *Config) { c.CommandSubject = subject })
}

func WithEventSubject(subject string) Option {
	return optionFunc(func(c *Config) { c.EventSubject = subject })
}

// NewConfig builds a Config with defaults applied before opts.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		ServiceName:        DefaultServiceName,
		ServiceDescription: DefaultServiceDescription,
		ScanDuration:       blescan.DefaultScanDuration,
		MaxResults:         blescan.DefaultMaxResults,
		CommandSubject:     DefaultCommandSubject,
		EventSubject:       DefaultEventSubject,
	}
	for _, opt := range opts {
		opt.apply(c)
	}
	return c
}

// Validate checks that every required collaborator is present.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return ErrInvalidConfiguration
	}
	if c.Central == nil || c.ClientFactory == nil || c.Security == nil || c.Bonds == nil || c.Reports == nil {
		return ErrInvalidConfiguration
	}
	if c.ScanDuration <= 0 || c.MaxResults <= 0 {
		return ErrInvalidConfiguration
	}
	return nil
}
