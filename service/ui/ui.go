// SPDX-License-Identifier: BSD-3-Clause

package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/chefzaid/bt2usb/pkg/log"
	"github.com/chefzaid/bt2usb/pkg/state"
	"github.com/chefzaid/bt2usb/service"
)

var _ service.Service = (*UI)(nil)

const (
	screenHome       = "home"
	screenScanning   = "scanning"
	screenDeviceList = "device_list"
	screenConnected  = "connected"
	screenError      = "error"

	triggerStartScan    = "start_scan"
	triggerFound        = "found"
	triggerEmpty        = "empty"
	triggerSelectList   = "select_list"
	triggerRescan       = "rescan"
	triggerConnected    = "connected"
	triggerDisconnected = "disconnected"
	triggerError        = "error"
	triggerErrorTimeout = "error_timeout"
)

// UI is the front-panel service: a five-screen FSM driven by button
// presses and the connection coordinator's event stream.
type UI struct {
	config *Config
	logger *slog.Logger
	fsm    *state.FSM

	homeConnected       bool
	homeDeviceName      string
	listNames           []string
	listSelected        int
	connectedDeviceName string
	errorMessage        string
	errorSince          time.Time
	scanDots            uint8
}

// New validates config and builds the screen FSM.
func New(config *Config) (*UI, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	u := &UI{
		config: config,
		logger: log.GetGlobalLogger().With("service", config.ServiceName),
	}

	fsm, err := state.New(state.NewConfig(
		state.WithName(config.ServiceName),
		state.WithInitialState(screenHome),
		state.WithStates(
			state.StateDefinition{Name: screenHome, OnEntry: u.drawHome},
			state.StateDefinition{Name: screenScanning, OnEntry: u.enterScanning},
			state.StateDefinition{Name: screenDeviceList, OnEntry: u.drawDeviceList},
			state.StateDefinition{Name: screenConnected, OnEntry: u.drawConnected},
			state.StateDefinition{Name: screenError, OnEntry: u.enterError},
		),
		state.WithTransition(screenHome, screenScanning, triggerStartScan),
		state.WithTransition(screenConnected, screenScanning, triggerRescan),
		state.WithTransition(screenScanning, screenDeviceList, triggerFound),
		state.WithTransition(screenScanning, screenError, triggerEmpty),
		state.WithTransition(screenDeviceList, screenHome, triggerSelectList),
		state.WithTransition(screenConnected, screenHome, triggerDisconnected),
		state.WithTransition(screenError, screenHome, triggerErrorTimeout),
		state.WithTransition(screenHome, screenConnected, triggerConnected),
		state.WithTransition(screenScanning, screenConnected, triggerConnected),
		state.WithTransition(screenDeviceList, screenConnected, triggerConnected),
		state.WithTransition(screenError, screenConnected, triggerConnected),
		state.WithTransition(screenHome, screenError, triggerError),
		state.WithTransition(screenScanning, screenError, triggerError),
		state.WithTransition(screenDeviceList, screenError, triggerError),
		state.WithTransition(screenConnected, screenError, triggerError),
	))
	if err != nil {
		return nil, fmt.Errorf("ui: build screen fsm: %w", err)
	}
	u.fsm = fsm

	return u, nil
}

func (u *UI) Name() string { return u.config.ServiceName }

func (u *UI) drawHome(context.Context) error {
	u.config.Renderer.DrawHome(u.homeConnected, u.homeDeviceName)
	return nil
}

func (u *UI) enterScanning(context.Context) error {
	u.scanDots = 0
	u.config.Renderer.DrawScanning(0)
	return nil
}

func (u *UI) drawDeviceList(context.Context) error {
	u.config.Renderer.DrawDeviceList(u.listNames, u.listSelected)
	return nil
}

func (u *UI) drawConnected(context.Context) error {
	u.config.Renderer.DrawConnected(u.connectedDeviceName)
	return nil
}

func (u *UI) enterError(context.Context) error {
	u.errorSince = time.Now()
	u.config.Renderer.DrawError(u.errorMessage)
	return nil
}

// Run subscribes to the coordinator's event stream, drains button
// presses, and drives the screen FSM until ctx is canceled.
func (u *UI) Run(ctx context.Context, ipcConn nats.InProcessConnProvider) error {
	nc, err := nats.Connect("", nats.InProcessServer(ipcConn))
	if err != nil {
		return fmt.Errorf("ui: connect to IPC: %w", err)
	}
	defer nc.Drain() //nolint:errcheck

	if err := u.fsm.Start(ctx); err != nil {
		return fmt.Errorf("ui: start fsm: %w", err)
	}
	u.config.Renderer.DrawHome(u.homeConnected, u.homeDeviceName)

	events := make(chan wireEvent, 8)
	sub, err := nc.Subscribe(u.config.EventSubject, func(msg *nats.Msg) {
		ev, err := decodeWireEvent(msg.Data)
		if err != nil {
			return
		}
		select {
		case events <- ev:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("ui: subscribe coordinator events: %w", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck

	ticker := time.NewTicker(u.config.ScanDotInterval)
	defer ticker.Stop()

	u.logger.InfoContext(ctx, "ui started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case btn := <-u.config.Buttons.Events():
			u.handleButton(ctx, nc, btn)
		case ev := <-events:
			u.handleEvent(ctx, ev)
		case <-ticker.C:
			u.tick(ctx)
		}
	}
}

func (u *UI) tick(ctx context.Context) {
	switch {
	case u.fsm.IsInState(screenScanning):
		u.scanDots++
		u.config.Renderer.DrawScanning(u.scanDots)
	case u.fsm.IsInState(screenError):
		if time.Since(u.errorSince) >= u.config.ErrorDisplay {
			if err := u.fsm.Fire(ctx, triggerErrorTimeout, nil); err != nil {
				u.logger.WarnContext(ctx, "failed to revert from error screen", "error", err)
			}
		}
	}
}

func (u *UI) handleButton(ctx context.Context, nc *nats.Conn, btn Button) {
	switch u.fsm.CurrentState() {
	case screenHome:
		if btn == ButtonSelect {
			u.publish(ctx, nc, wireCommand{Type: cmdStartScan})
			u.fire(ctx, triggerStartScan)
		}
	case screenDeviceList:
		u.handleDeviceListButton(ctx, nc, btn)
	case screenConnected:
		switch btn {
		case ButtonSelect:
			u.publish(ctx, nc, wireCommand{Type: cmdStartScan})
			u.fire(ctx, triggerRescan)
		case ButtonDown:
			u.publish(ctx, nc, wireCommand{Type: cmdDisconnect, Slot: -1})
		}
	}
}

func (u *UI) handleDeviceListButton(ctx context.Context, nc *nats.Conn, btn Button) {
	switch btn {
	case ButtonUp:
		if u.listSelected > 0 {
			u.listSelected--
			u.config.Renderer.DrawDeviceList(u.listNames, u.listSelected)
		}
	case ButtonDown:
		if u.listSelected < len(u.listNames)-1 {
			u.listSelected++
			u.config.Renderer.DrawDeviceList(u.listNames, u.listSelected)
		}
	case ButtonSelect:
		u.publish(ctx, nc, wireCommand{Type: cmdConnect, Index: u.listSelected})
		u.fire(ctx, triggerSelectList)
	}
}

func (u *UI) handleEvent(ctx context.Context, ev wireEvent) {
	switch ev.Type {
	case evtScanStarted, evtDeviceFound:
		// No screen change; the Scanning screen animates on its own.
	case evtScanComplete:
		if len(ev.Names) == 0 {
			u.errorMessage = "No devices found"
			u.fire(ctx, triggerEmpty)
			return
		}
		u.listNames = ev.Names
		u.listSelected = 0
		u.fire(ctx, triggerFound)
	case evtConnected:
		u.homeConnected = true
		u.homeDeviceName = ev.Name
		u.connectedDeviceName = ev.Name
		if u.fsm.IsInState(screenConnected) {
			u.config.Renderer.DrawConnected(ev.Name)
			return
		}
		u.fire(ctx, triggerConnected)
	case evtDisconnected:
		u.homeConnected = false
		u.homeDeviceName = ""
		if u.fsm.IsInState(screenConnected) {
			u.fire(ctx, triggerDisconnected)
		}
	case evtError:
		u.errorMessage = ev.Tag
		if u.fsm.IsInState(screenError) {
			u.errorSince = time.Now()
			u.config.Renderer.DrawError(u.errorMessage)
			return
		}
		u.fire(ctx, triggerError)
	}
}

func (u *UI) publish(ctx context.Context, nc *nats.Conn, cmd wireCommand) {
	if err := nc.Publish(u.config.CommandSubject, cmd.encode()); err != nil {
		u.logger.WarnContext(ctx, "failed to publish coordinator command", "type", cmd.Type, "error", err)
	}
}

func (u *UI) fire(ctx context.Context, trigger string) {
	if err := u.fsm.Fire(ctx, trigger, nil); err != nil {
		u.logger.WarnContext(ctx, "screen transition rejected", "trigger", trigger, "state", u.fsm.CurrentState(), "error", err)
	}
}
