// SPDX-License-Identifier: BSD-3-Clause

package powermgr

import "time"

const (
	DefaultServiceName = "powermgr"

	// DefaultIdleTimeout is IDLE_TIMEOUT_SECS: the elapsed-since-activity
	// threshold that moves Active to Idle.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultDisplayGrace is how long the display stays on after
	// entering Idle before the screen-saver rule turns it off.
	DefaultDisplayGrace = 5 * time.Second

	// DefaultPollInterval bounds how often the aggregator re-evaluates
	// the inactivity timer against the current rules.
	DefaultPollInterval = time.Second

	DefaultActivitySubject    = "bt2usb.power.activity"
	DefaultCoordinatorSubject = "bt2usb.coordinator.event"
	DefaultStateSubject       = "bt2usb.power.state"
)

// SuspendSource reports USB bus suspend/resume transitions. Satisfied by
// pkg/usbhid.CompositeDevice; kept as its own narrow interface so this
// package does not need to import usbhid for anything beyond this one
// signal.
type SuspendSource interface {
	SuspendSignal() <-chan bool
}

// Config configures the power/activity manager service.
type Config struct {
	ServiceName string

	Suspend SuspendSource

	ActivitySubject    string
	CoordinatorSubject string
	StateSubject       string

	IdleTimeout  time.Duration
	DisplayGrace time.Duration
	PollInterval time.Duration
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

// WithSuspendSource sets the collaborator the manager reads USB-suspend
// transitions from.
func WithSuspendSource(s SuspendSource) Option {
	return optionFunc(func(c *Config) { c.Suspend = s })
}

func WithActivitySubject(subject string) Option {
	return optionFunc(func(c *Config) { c.ActivitySubject = subject })
}

func WithCoordinatorSubject(subject string) Option {
	return optionFunc(func(c *Config) { c.CoordinatorSubject = subject })
}

func WithStateSubject(subject string) Option {
	return optionFunc(func(c *Config) { c.StateSubject = subject })
}

func WithIdleTimeout(d time.Duration) Option {
	return optionFunc(func(c *Config) { c.IdleTimeout = d })
}

func WithDisplayGrace(d time.Duration) Option {
	return optionFunc(func(c *Config) { c.DisplayGrace = d })
}

func WithPollInterval(d time.Duration) Option {
	return optionFunc(func(c *Config) { c.PollInterval = d })
}

// NewConfig builds a Config with defaults applied before opts.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		ServiceName:        DefaultServiceName,
		ActivitySubject:    DefaultActivitySubject,
		CoordinatorSubject: DefaultCoordinatorSubject,
		StateSubject:       DefaultStateSubject,
		IdleTimeout:        DefaultIdleTimeout,
		DisplayGrace:       DefaultDisplayGrace,
		PollInterval:       DefaultPollInterval,
	}
	for _, opt := range opts {
		opt.apply(c)
	}
	return c
}

// Validate checks that every required collaborator and duration is set.
func (c *Config) Validate() error {
	if c.ServiceName == "" || c.Suspend == nil {
		return ErrInvalidConfiguration
	}
	if c.IdleTimeout <= 0 || c.DisplayGrace <= 0 || c.PollInterval <= 0 {
		return ErrInvalidConfiguration
	}
	return nil
}
