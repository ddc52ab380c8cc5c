// SPDX-License-Identifier: BSD-3-Clause

package operator

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/chefzaid/bt2usb/service"
	"github.com/chefzaid/bt2usb/service/coordinator"
	"github.com/chefzaid/bt2usb/service/forwarder"
	"github.com/chefzaid/bt2usb/service/ipc"
	"github.com/chefzaid/bt2usb/service/powermgr"
	"github.com/chefzaid/bt2usb/service/telemetry"
	"github.com/chefzaid/bt2usb/service/ui"
)

type config struct {
	name        string
	id          string
	disableLogo bool
	customLogo  string
	otelSetup   func()
	logger      *slog.Logger
	timeout     time.Duration
	// IPC service needs special handling
	ipc *ipc.IPC
	// Everything of type service.Service needs to be exported
	Coordinator service.Service
	Forwarder   service.Service
	Powermgr    service.Service
	Ui          service.Service
	Telemetry   service.Service

	extraServices []service.Service
}

type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithName sets the name for the operator configuration.
func WithName(name string) Option {
	return optionFunc(func(c *config) { c.name = name })
}

// WithID sets the unique identifier for the operator configuration.
func WithID(id string) Option {
	return optionFunc(func(c *config) { c.id = id })
}

// WithDisableLogo controls whether the logo display is disabled.
// When set to true, the logo will not be shown during startup.
func WithDisableLogo(disableLogo bool) Option {
	return optionFunc(func(c *config) { c.disableLogo = disableLogo })
}

// WithCustomLogo sets a custom logo to be displayed instead of the default logo.
// The customLogo parameter should be the path to the logo file or logo content.
func WithCustomLogo(customLogo string) Option {
	return optionFunc(func(c *config) { c.customLogo = customLogo })
}

// WithOtelSetup sets up OpenTelemetry configuration by providing a setup function.
// The function will be called during operator initialization to configure telemetry.
func WithOtelSetup(otelSetup func()) Option {
	return optionFunc(func(c *config) { c.otelSetup = otelSetup })
}

// WithLogger sets a custom structured logger for the operator.
// If not provided, a default logger will be used.
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(c *config) { c.logger = logger })
}

// WithTimeout sets the timeout duration for operator operations.
// This controls how long the operator will wait for operations to complete.
func WithTimeout(timeout time.Duration) Option {
	return optionFunc(func(c *config) { c.timeout = timeout })
}

// WithIPC configures the Inter-Process Communication service with the provided options.
// This service hosts the in-process NATS bus every other service talks over.
func WithIPC(opts ...ipc.Option) Option {
	return optionFunc(func(c *config) { c.ipc = ipc.New(opts...) })
}

// WithTelemetry configures the telemetry service with the provided options.
// This service collects and reports metrics and observability data.
func WithTelemetry(opts ...telemetry.Option) Option {
	return optionFunc(func(c *config) { c.Telemetry = telemetry.New(opts...) })
}

// WithCoordinator configures the BLE connection coordinator (C7) with the
// provided options. It panics on an invalid configuration, the same way
// a missing required field in any other options-built collaborator in
// this tree is a construction-time mistake, not a runtime one.
func WithCoordinator(opts ...coordinator.Option) Option {
	return optionFunc(func(c *config) {
		svc, err := coordinator.New(coordinator.NewConfig(opts...))
		if err != nil {
			panic(fmt.Errorf("operator: configure coordinator: %w", err))
		}
		c.Coordinator = svc
	})
}

// WithForwarder configures the USB report forwarder (C8) with the
// provided options.
func WithForwarder(opts ...forwarder.Option) Option {
	return optionFunc(func(c *config) {
		svc, err := forwarder.New(forwarder.NewConfig(opts...))
		if err != nil {
			panic(fmt.Errorf("operator: configure forwarder: %w", err))
		}
		c.Forwarder = svc
	})
}

// WithPowermgr configures the power/activity manager (C9) with the
// provided options.
func WithPowermgr(opts ...powermgr.Option) Option {
	return optionFunc(func(c *config) {
		svc, err := powermgr.New(powermgr.NewConfig(opts...))
		if err != nil {
			panic(fmt.Errorf("operator: configure powermgr: %w", err))
		}
		c.Powermgr = svc
	})
}

// WithUI configures the front-panel state machine (C10) with the
// provided options.
func WithUI(opts ...ui.Option) Option {
	return optionFunc(func(c *config) {
		svc, err := ui.New(ui.NewConfig(opts...))
		if err != nil {
			panic(fmt.Errorf("operator: configure ui: %w", err))
		}
		c.Ui = svc
	})
}

// WithExtraServices adds additional custom services to the operator configuration.
// These services will be managed alongside the standard services above.
func WithExtraServices(services ...service.Service) Option {
	return optionFunc(func(c *config) { c.extraServices = services })
}
