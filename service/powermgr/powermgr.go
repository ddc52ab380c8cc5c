// SPDX-License-Identifier: BSD-3-Clause

package powermgr

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/chefzaid/bt2usb/pkg/log"
	"github.com/chefzaid/bt2usb/service"
)

var _ service.Service = (*PowerMgr)(nil)

// coordinatorEvent decodes just enough of the connection coordinator's
// wire event to track link state; it intentionally does not import
// service/coordinator's Event type, since the two services only need to
// agree on the wire format, not share Go types.
type coordinatorEvent struct {
	Type string `json:"type"`
}

// PowerMgr aggregates HID activity, USB-suspend, and link-state taps
// into a PowerState and a derived display_on signal, publishing both
// whenever either changes.
type PowerMgr struct {
	config *Config
	logger *slog.Logger
}

// New validates config and returns a PowerMgr ready to Run.
func New(config *Config) (*PowerMgr, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &PowerMgr{
		config: config,
		logger: log.GetGlobalLogger().With("service", config.ServiceName),
	}, nil
}

func (p *PowerMgr) Name() string { return p.config.ServiceName }

// stateEvent is the wire form published on StateSubject.
type stateEvent struct {
	State     string `json:"state"`
	DisplayOn bool   `json:"display_on"`
}

// Run subscribes to activity taps and coordinator link-state events,
// polls the USB suspend signal, and republishes the aggregated
// PowerState/display_on pair on every change until ctx is canceled.
func (p *PowerMgr) Run(ctx context.Context, ipcConn nats.InProcessConnProvider) error {
	nc, err := nats.Connect("", nats.InProcessServer(ipcConn))
	if err != nil {
		return fmt.Errorf("powermgr: connect to IPC: %w", err)
	}
	defer nc.Drain() //nolint:errcheck

	activity := make(chan struct{}, 1)
	activitySub, err := nc.Subscribe(p.config.ActivitySubject, func(*nats.Msg) {
		select {
		case activity <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("powermgr: subscribe activity: %w", err)
	}
	defer activitySub.Unsubscribe() //nolint:errcheck

	linkState := make(chan bool, 1)
	linkSub, err := nc.Subscribe(p.config.CoordinatorSubject, func(msg *nats.Msg) {
		var ev coordinatorEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return
		}
		switch ev.Type {
		case "connected":
			select {
			case linkState <- true:
			default:
			}
		case "disconnected":
			select {
			case linkState <- false:
			default:
			}
		}
	})
	if err != nil {
		return fmt.Errorf("powermgr: subscribe coordinator events: %w", err)
	}
	defer linkSub.Unsubscribe() //nolint:errcheck

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	lastActivity := time.Now()
	suspended := false
	connected := false
	var lastState PowerState = -1
	var lastDisplayOn bool

	publish := func() {
		state, displayOn := evaluate(time.Since(lastActivity), p.config.IdleTimeout, p.config.DisplayGrace, suspended, connected)
		if state == lastState && displayOn == lastDisplayOn {
			return
		}
		lastState, lastDisplayOn = state, displayOn
		data, _ := json.Marshal(stateEvent{State: state.String(), DisplayOn: displayOn})
		if err := nc.Publish(p.config.StateSubject, data); err != nil {
			p.logger.WarnContext(ctx, "failed to publish power state", "error", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-activity:
			lastActivity = time.Now()
			publish()
		case suspended = <-p.config.Suspend.SuspendSignal():
			publish()
		case connected = <-linkState:
			publish()
		case <-ticker.C:
			publish()
		}
	}
}
