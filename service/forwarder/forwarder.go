// SPDX-License-Identifier: BSD-3-Clause

package forwarder

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/chefzaid/bt2usb/pkg/log"
	"github.com/chefzaid/bt2usb/service"
)

var _ service.Service = (*Forwarder)(nil)

// Forwarder is the single writer draining the shared report channel onto
// the USB HID gadget.
type Forwarder struct {
	config *Config
	logger *slog.Logger
}

// New validates config and returns a Forwarder ready to Run.
func New(config *Config) (*Forwarder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Forwarder{
		config: config,
		logger: log.GetGlobalLogger().With("service", config.ServiceName),
	}, nil
}

func (f *Forwarder) Name() string { return f.config.ServiceName }

// Run drains the shared report channel until it is closed or ctx is
// canceled, writing each report to the gadget in arrival order and
// tapping service/powermgr's activity subject on every successful write.
// Forwarding is not conditioned on the activity bus: if ipcConn is
// unavailable, reports still reach the gadget, just without waking the
// power manager's inactivity timer.
func (f *Forwarder) Run(ctx context.Context, ipcConn nats.InProcessConnProvider) error {
	f.logger.InfoContext(ctx, "forwarder started")
	defer f.config.Device.Close() //nolint:errcheck

	var nc *nats.Conn
	if ipcConn != nil {
		var err error
		nc, err = nats.Connect("", nats.InProcessServer(ipcConn))
		if err != nil {
			f.logger.WarnContext(ctx, "activity bus unavailable, forwarding without activity taps", "error", err)
			nc = nil
		} else {
			defer nc.Drain() //nolint:errcheck
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case report, ok := <-f.config.Reports:
			if !ok {
				return nil
			}
			if err := f.config.Device.Write(report); err != nil {
				f.logger.WarnContext(ctx, "failed to write report to gadget", "kind", report.Kind(), "error", err)
				continue
			}
			if nc != nil {
				_ = nc.Publish(f.config.ActivitySubject, nil)
			}
		}
	}
}
