// SPDX-License-Identifier: BSD-3-Clause

package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/chefzaid/bt2usb/pkg/blescan"
	"github.com/chefzaid/bt2usb/pkg/log"
	"github.com/chefzaid/bt2usb/service"
	"github.com/chefzaid/bt2usb/service/slotworker"
)

var _ service.Service = (*Coordinator)(nil)

// slot tracks one of the two static connection slots.
type slot struct {
	worker *slotworker.Worker
	cmds   chan slotworker.Command
	cancel context.CancelFunc

	occupied   bool
	address    blescan.DiscoveredDevice
	lastActive time.Time
}

// taggedEvent carries a slot index alongside the event it emitted so the
// coordinator's single select loop can tell slots apart without a
// per-slot goroutine closing over loop state.
type taggedEvent struct {
	slot  int
	event slotworker.Event
}

// Coordinator runs the single event loop that owns both connection slots,
// accepts commands from the UI over NATS, and republishes lifecycle
// events the same way.
type Coordinator struct {
	config *Config
	logger *slog.Logger

	slots      [DefaultMaxConnections]*slot
	lastResult blescan.Result
}

// New validates config and returns a Coordinator ready to Run.
func New(config *Config) (*Coordinator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Coordinator{
		config: config,
		logger: log.GetGlobalLogger().With("service", config.ServiceName),
	}, nil
}

func (c *Coordinator) Name() string { return c.config.ServiceName }

// Run connects to the in-process NATS server, subscribes for UI commands,
// starts both slot workers, and drives the coordinator's event loop until
// ctx is canceled.
func (c *Coordinator) Run(ctx context.Context, ipcConn nats.InProcessConnProvider) error {
	nc, err := nats.Connect("", nats.InProcessServer(ipcConn))
	if err != nil {
		return fmt.Errorf("coordinator: connect to IPC: %w", err)
	}
	defer nc.Drain() //nolint:errcheck

	slotEvents := make(chan taggedEvent, 8)
	uiCmds := make(chan Command, 8)

	for i := range c.slots {
		cmds := make(chan slotworker.Command, 1)
		events := make(chan slotworker.Event, 4)
		workerCtx, cancel := context.WithCancel(ctx)

		w, err := slotworker.New(slotworker.NewConfig(
			slotworker.WithIndex(i),
			slotworker.WithClientFactory(c.config.ClientFactory),
			slotworker.WithSecurity(c.config.Security),
			slotworker.WithBondStore(c.config.Bonds),
			slotworker.WithReports(c.config.Reports),
		))
		if err != nil {
			cancel()
			return fmt.Errorf("coordinator: slot %d: %w", i, err)
		}

		c.slots[i] = &slot{worker: w, cmds: cmds, cancel: cancel}

		go w.Run(workerCtx, cmds, events)
		go c.drainSlot(i, events, slotEvents)
	}

	sub, err := nc.Subscribe(c.config.CommandSubject, func(msg *nats.Msg) {
		cmd, err := decodeCommand(msg.Data)
		if err != nil {
			c.logger.WarnContext(ctx, "dropped malformed command", "error", err)
			return
		}
		select {
		case uiCmds <- cmd:
		case <-ctx.Done():
		}
	})
	if err != nil {
		for _, s := range c.slots {
			s.cancel()
		}
		return fmt.Errorf("coordinator: subscribe: %w", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck

	c.autoReconnect(ctx)

	for {
		select {
		case <-ctx.Done():
			for _, s := range c.slots {
				s.cancel()
			}
			return ctx.Err()
		case cmd := <-uiCmds:
			c.handleCommand(ctx, nc, cmd)
		case te := <-slotEvents:
			c.handleSlotEvent(ctx, nc, te)
		}
	}
}

func (c *Coordinator) drainSlot(index int, events <-chan slotworker.Event, out chan<- taggedEvent) {
	for ev := range events {
		out <- taggedEvent{slot: index, event: ev}
	}
}

// autoReconnect connects slot 0 to the bond store's first paired device,
// if one exists, before the event loop starts serving UI commands.
func (c *Coordinator) autoReconnect(ctx context.Context) {
	dev, ok := c.config.Bonds.First()
	if !ok {
		return
	}
	c.logger.InfoContext(ctx, "auto-reconnecting to bonded device", "name", dev.Name)
	c.connectSlot(0, blescan.DiscoveredDevice{Address: dev.Address, Name: dev.Name})
}

func (c *Coordinator) handleCommand(ctx context.Context, nc *nats.Conn, cmd Command) {
	switch cmd.Type {
	case CommandStartScan:
		c.runScan(ctx, nc)
	case CommandConnect:
		c.connect(ctx, nc, cmd.Index)
	case CommandDisconnect:
		c.disconnect(ctx, nc, cmd.Slot)
	default:
		c.logger.WarnContext(ctx, "unknown command type", "type", cmd.Type)
	}
}

func (c *Coordinator) runScan(ctx context.Context, nc *nats.Conn) {
	if c.occupiedSlotCount() >= len(c.slots) {
		c.freeLeastActiveSlot()
	}

	c.publish(nc, Event{Type: EventScanStarted})

	result, err := blescan.Scan(ctx, c.config.Central, c.config.ScanDuration, c.config.MaxResults)
	if err != nil {
		c.logger.WarnContext(ctx, "scan failed", "error", err)
		c.publish(nc, Event{Type: EventError, Tag: slotworker.ErrorTagScanFailed.String()})
		return
	}
	c.lastResult = result

	names := make([]string, len(result.Devices))
	for i, d := range result.Devices {
		names[i] = d.Name
		c.publish(nc, Event{Type: EventDeviceFound, Name: d.Name})
	}
	c.publish(nc, Event{Type: EventScanComplete, Names: names})
}

func (c *Coordinator) connect(ctx context.Context, nc *nats.Conn, index int) {
	if index < 0 || index >= len(c.lastResult.Devices) {
		c.logger.WarnContext(ctx, "connect: device index not found", "index", index)
		c.publish(nc, Event{Type: EventError, Tag: slotworker.ErrorTagConnectFailed.String()})
		return
	}
	dev := c.lastResult.Devices[index]

	for _, s := range c.slots {
		if s.occupied && s.address.Address.Equal(dev.Address) {
			c.logger.InfoContext(ctx, "connect: already connected elsewhere", "address", dev.Address)
			return
		}
	}

	slotIndex := c.freeSlotIndex()
	if slotIndex < 0 {
		slotIndex = c.freeLeastActiveSlot()
	}
	if slotIndex < 0 {
		c.logger.WarnContext(ctx, "connect: no free slot")
		c.publish(nc, Event{Type: EventError, Tag: slotworker.ErrorTagConnectFailed.String()})
		return
	}
	c.connectSlot(slotIndex, dev)
}

func (c *Coordinator) connectSlot(index int, dev blescan.DiscoveredDevice) {
	s := c.slots[index]
	s.lastActive = time.Now()
	select {
	case s.cmds <- slotworker.ConnectCommand{Device: dev}:
	default:
		c.logger.Warn("slot command channel full, dropping connect", "slot", index)
	}
}

func (c *Coordinator) disconnect(ctx context.Context, nc *nats.Conn, requested int) {
	index := requested
	if index < 0 {
		index = c.mostRecentlyActiveOccupiedSlot()
	}
	if index < 0 || index >= len(c.slots) || !c.slots[index].occupied {
		c.logger.WarnContext(ctx, "disconnect: no matching occupied slot", "slot", requested)
		return
	}
	select {
	case c.slots[index].cmds <- slotworker.DisconnectCommand{}:
	default:
		c.logger.WarnContext(ctx, "slot command channel full, dropping disconnect", "slot", index)
	}
}

func (c *Coordinator) handleSlotEvent(ctx context.Context, nc *nats.Conn, te taggedEvent) {
	s := c.slots[te.slot]
	switch ev := te.event.(type) {
	case slotworker.ConnectedEvent:
		s.occupied = true
		s.address = blescan.DiscoveredDevice{Address: ev.Address, Name: ev.Name}
		s.lastActive = time.Now()
		c.publish(nc, Event{Type: EventConnected, Name: ev.Name, Summary: c.connectionSummary()})
	case slotworker.DisconnectedEvent:
		s.occupied = false
		s.address = blescan.DiscoveredDevice{}
		c.publish(nc, Event{Type: EventDisconnected, Summary: c.connectionSummary()})
	case slotworker.ErrorEvent:
		s.occupied = false
		s.address = blescan.DiscoveredDevice{}
		c.logger.WarnContext(ctx, "slot reported error", "slot", te.slot, "tag", ev.Tag)
		c.publish(nc, Event{Type: EventError, Tag: ev.Tag.String()})
	}
}

// connectionSummary renders the Home screen's connection line: "Idle"
// with nothing connected, the device name with exactly one, or a count
// with more than one.
func (c *Coordinator) connectionSummary() string {
	var names []string
	for _, s := range c.slots {
		if s.occupied {
			names = append(names, s.address.Name)
		}
	}
	switch len(names) {
	case 0:
		return "Idle"
	case 1:
		return names[0]
	default:
		return fmt.Sprintf("%d devices", len(names))
	}
}

func (c *Coordinator) occupiedSlotCount() int {
	n := 0
	for _, s := range c.slots {
		if s.occupied {
			n++
		}
	}
	return n
}

func (c *Coordinator) freeSlotIndex() int {
	for i, s := range c.slots {
		if !s.occupied {
			return i
		}
	}
	return -1
}

// freeLeastActiveSlot disconnects the least-recently-active occupied
// slot so a new scan or connect can proceed. Returns its index, or -1 if
// no slot is occupied.
func (c *Coordinator) freeLeastActiveSlot() int {
	index := c.mostRecentlyActiveOccupiedSlot()
	if index < 0 {
		return -1
	}
	oldest := index
	for i, s := range c.slots {
		if s.occupied && s.lastActive.Before(c.slots[oldest].lastActive) {
			oldest = i
		}
	}
	select {
	case c.slots[oldest].cmds <- slotworker.DisconnectCommand{}:
	default:
	}
	c.slots[oldest].occupied = false
	return oldest
}

func (c *Coordinator) mostRecentlyActiveOccupiedSlot() int {
	best := -1
	for i, s := range c.slots {
		if !s.occupied {
			continue
		}
		if best < 0 || s.lastActive.After(c.slots[best].lastActive) {
			best = i
		}
	}
	return best
}

func (c *Coordinator) publish(nc *nats.Conn, ev Event) {
	if err := nc.Publish(c.config.EventSubject, ev.encode()); err != nil {
		c.logger.Warn("failed to publish coordinator event", "error", err)
	}
}
