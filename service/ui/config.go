// SPDX-License-Identifier: BSD-3-Clause

package ui

import "time"

const (
	DefaultServiceName = "ui"

	// DefaultCommandSubject/DefaultEventSubject mirror
	// coordinator.DefaultCommandSubject/DefaultEventSubject. Kept as an
	// independently defined literal, the same way forwarder and powermgr
	// agree with each other on subjects without importing one another.
	DefaultCommandSubject = "bt2usb.coordinator.cmd"
	DefaultEventSubject   = "bt2usb.coordinator.event"

	// DefaultErrorDisplay is how long the Error screen holds before
	// reverting to Home on its own.
	DefaultErrorDisplay = 3 * time.Second

	// DefaultScanDotInterval paces the Scanning screen's animated dots.
	DefaultScanDotInterval = 400 * time.Millisecond
)

// Config configures the ui service.
type Config struct {
	ServiceName string

	Renderer Renderer
	Buttons  Buttons

	CommandSubject string
	EventSubject   string

	ErrorDisplay    time.Duration
	ScanDotInterval time.Duration
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

// WithRenderer sets the screen the FSM draws to.
func WithRenderer(r Renderer) Option {
	return optionFunc(func(c *Config) { c.Renderer = r })
}

// WithButtons sets the front-panel button source.
func WithButtons(b Buttons) Option {
	return optionFunc(func(c *Config) { c.Buttons = b })
}

func WithCommandSubject(subject string) Option {
	return optionFunc(func(c *Config) { c.CommandSubject = subject })
}

func WithEventSubject(subject string) Option {
	return optionFunc(func(c *Config) { c.EventSubject = subject })
}

func WithErrorDisplay(d time.Duration) Option {
	return optionFunc(func(c *Config) { c.ErrorDisplay = d })
}

func WithScanDotInterval(d time.Duration) Option {
	return optionFunc(func(c *Config) { c.ScanDotInterval = d })
}

// NewConfig builds a Config with defaults applied before opts.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		ServiceName:     DefaultServiceName,
		CommandSubject:  DefaultCommandSubject,
		EventSubject:    DefaultEventSubject,
		ErrorDisplay:    DefaultErrorDisplay,
		ScanDotInterval: DefaultScanDotInterval,
	}
	for _, opt := range opts {
		opt.apply(c)
	}
	return c
}

// Validate checks that every required collaborator is present.
func (c *Config) Validate() error {
	if c.ServiceName == "" || c.Renderer == nil || c.Buttons == nil {
		return ErrInvalidConfiguration
	}
	if c.ErrorDisplay <= 0 || c.ScanDotInterval <= 0 {
		return ErrInvalidConfiguration
	}
	return nil
}
