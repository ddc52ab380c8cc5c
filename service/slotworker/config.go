// SPDX-License-Identifier: BSD-3-Clause

package slotworker

import (
	"time"

	"github.com/chefzaid/bt2usb/pkg/blecentral"
	"github.com/chefzaid/bt2usb/pkg/bondstore"
	"github.com/chefzaid/bt2usb/pkg/hidreport"
)

const (
	// DefaultSecurePollInterval is the delay between encryption-state polls.
	DefaultSecurePollInterval = 200 * time.Millisecond

	// DefaultSecurePollAttempts bounds the securing budget to
	// DefaultSecurePollAttempts * DefaultSecurePollInterval (5s by default).
	DefaultSecurePollAttempts = 25
)

// Config configures one slot worker.
type Config struct {
	Index int

	// ClientFactory returns a fresh GATT client for each connect attempt.
	// A slot outlives any one device; reusing a single client across
	// devices would reuse its torn-down notification channel.
	ClientFactory func() blecentral.GattClient
	Security      blecentral.SecurityHandler
	Bonds         *bondstore.Store
	Reports       chan<- hidreport.Report

	SecurePollInterval time.Duration
	SecurePollAttempts int
}

// Option configures a Config.
type Option interface {
	apply(*Config)
}

type optionFunc func(*Config)

func (f optionFunc) apply(c *Config) { f(c) }

// WithIndex sets the slot index, used only for logging.
func WithIndex(index int) Option {
	return optionFunc(func(c *Config) { c.Index = index })
}

// WithClientFactory sets the per-attempt GATT client constructor.
func WithClientFactory(factory func() blecentral.GattClient) Option {
	return optionFunc(func(c *Config) { c.ClientFactory = factory })
}

// WithSecurity sets the pairing/bonding collaborator.
func WithSecurity(security blecentral.SecurityHandler) Option {
	return optionFunc(func(c *Config) { c.Security = security })
}

// WithBondStore sets the store new bonds are persisted to.
func WithBondStore(bonds *bondstore.Store) Option {
	return optionFunc(func(c *Config) { c.Bonds = bonds })
}

// WithReports sets the shared report channel classified reports are
// forwarded onto.
func WithReports(reports chan<- hidreport.Report) Option {
	return optionFunc(func(c *Config) { c.Reports = reports })
}

// WithSecurePollInterval overrides the encryption-state poll interval.
func WithSecurePollInterval(d time.Duration) Option {
	return optionFunc(func(c *Config) { c.SecurePollInterval = d })
}

// WithSecurePollAttempts overrides the encryption-state poll budget.
func WithSecurePollAttempts(n int) Option {
	return optionFunc(func(c *Config) { c.SecurePollAttempts = n })
}

// NewConfig builds a Config with defaults applied before opts.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		SecurePollInterval: DefaultSecurePollInterval,
		SecurePollAttempts: DefaultSecurePollAttempts,
	}
	for _, opt := range opts {
		opt.apply(c)
	}
	return c
}

// Validate checks that every required collaborator is present.
func (c *Config) Validate() error {
	if c.ClientFactory == nil {
		return ErrInvalidConfiguration
	}
	if c.Security == nil {
		return ErrInvalidConfiguration
	}
	if c.Reports == nil {
		return ErrInvalidConfiguration
	}
	if c.SecurePollInterval <= 0 || c.SecurePollAttempts <= 0 {
		return ErrInvalidConfiguration
	}
	return nil
}
