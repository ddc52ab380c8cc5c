// SPDX-License-Identifier: BSD-3-Clause

package slotworker

import (
	"context"
	"log/slog"
	"time"

	"github.com/chefzaid/bt2usb/pkg/blecentral"
	"github.com/chefzaid/bt2usb/pkg/blescan"
	"github.com/chefzaid/bt2usb/pkg/hidclassify"
	"github.com/chefzaid/bt2usb/pkg/hiddescriptor"
	"github.com/chefzaid/bt2usb/pkg/log"
	"github.com/chefzaid/bt2usb/pkg/state"
)

// State names the worker's FSM cycles through.
const (
	StateIdle        = "idle"
	StateConnecting  = "connecting"
	StateSecuring    = "securing"
	StateDiscovering = "discovering"
	StateStreaming   = "streaming"
	StateError       = "error"
)

// Command is something the coordinator tells a slot worker to do.
type Command interface{ isCommand() }

// ConnectCommand asks the worker to connect to dev. Received while the
// worker is already busy, it preempts the in-flight attempt; the teardown
// of the old attempt completes before this command is processed.
type ConnectCommand struct{ Device blescan.DiscoveredDevice }

// DisconnectCommand asks the worker to tear down its current link, if
// any, and return to Idle. Always wins over an in-flight Connect.
type DisconnectCommand struct{}

func (ConnectCommand) isCommand()    {}
func (DisconnectCommand) isCommand() {}

// Event is something a slot worker reports back to the coordinator.
type Event interface{ isEvent() }

// ConnectedEvent reports that the slot reached Streaming.
type ConnectedEvent struct {
	Address blecentral.Address
	Name    string
}

// DisconnectedEvent reports a clean return to Idle.
type DisconnectedEvent struct{}

// ErrorEvent reports a failed attempt, tagged for the UI.
type ErrorEvent struct{ Tag ErrorTag }

func (ConnectedEvent) isEvent()    {}
func (DisconnectedEvent) isEvent() {}
func (ErrorEvent) isEvent()        {}

func newMachine() (*state.FSM, error) {
	cfg := state.NewConfig(
		state.WithName("slotworker"),
		state.WithInitialState(StateIdle),
		state.WithStates(
			state.StateDefinition{Name: StateIdle},
			state.StateDefinition{Name: StateConnecting},
			state.StateDefinition{Name: StateSecuring},
			state.StateDefinition{Name: StateDiscovering},
			state.StateDefinition{Name: StateStreaming},
			state.StateDefinition{Name: StateError},
		),
		state.WithTransition(StateIdle, StateConnecting, "connect"),
		state.WithTransition(StateConnecting, StateSecuring, "link_established"),
		state.WithTransition(StateConnecting, StateIdle, "connect_failed"),
		state.WithTransition(StateSecuring, StateDiscovering, "secured"),
		state.WithTransition(StateSecuring, StateIdle, "secure_failed"),
		state.WithTransition(StateDiscovering, StateStreaming, "discovered"),
		state.WithTransition(StateDiscovering, StateIdle, "discover_failed"),
		state.WithTransition(StateStreaming, StateIdle, "disconnected"),
		state.WithTransition(StateConnecting, StateError, "fail"),
		state.WithTransition(StateSecuring, StateError, "fail"),
		state.WithTransition(StateDiscovering, StateError, "fail"),
		state.WithTransition(StateStreaming, StateError, "fail"),
		state.WithTransition(StateError, StateIdle, "reset"),
	)
	return state.New(cfg)
}

// Worker runs one connection slot's lifecycle. It is created and driven
// entirely by service/coordinator; it is never a top-level service.Service.
type Worker struct {
	config  *Config
	logger  *slog.Logger
	machine *state.FSM
}

// New validates config and returns a Worker ready to Run.
func New(config *Config) (*Worker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	m, err := newMachine()
	if err != nil {
		return nil, err
	}
	return &Worker{
		config:  config,
		logger:  log.GetGlobalLogger().With("slot", config.Index),
		machine: m,
	}, nil
}

// Run processes commands off cmds until ctx is canceled, emitting events
// onto events as the slot's state changes. It never returns until ctx is
// done or cmds is closed.
func (w *Worker) Run(ctx context.Context, cmds <-chan Command, events chan<- Event) {
	if err := w.machine.Start(ctx); err != nil {
		w.logger.ErrorContext(ctx, "slot machine failed to start", "error", err)
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-cmds:
			if !ok {
				return
			}
			w.dispatch(ctx, cmds, events, cmd)
		}
	}
}

func (w *Worker) dispatch(ctx context.Context, cmds <-chan Command, events chan<- Event, cmd Command) {
	switch c := cmd.(type) {
	case ConnectCommand:
		w.runAttempt(ctx, cmds, events, c.Device)
	case DisconnectCommand:
		// Nothing connected yet; disconnect of an idle slot is a no-op.
	}
}

// runAttempt drives one full connect-secure-discover-stream cycle,
// racing it against a preempting command on cmds.
func (w *Worker) runAttempt(ctx context.Context, cmds <-chan Command, events chan<- Event, dev blescan.DiscoveredDevice) {
	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// ctx (the Run loop's long-lived context) bounds fire/emit so a
		// preemption, which only cancels attemptCtx, never races a final
		// event against an already-canceled context; attemptCtx bounds the
		// radio operations themselves so preemption aborts them promptly.
		w.stream(ctx, attemptCtx, events, dev)
	}()

	select {
	case <-done:
		return
	case <-ctx.Done():
		cancel()
		<-done
	case cmd, ok := <-cmds:
		cancel()
		<-done
		if !ok {
			return
		}
		// The preempting command is requeued once teardown completes.
		w.dispatch(ctx, cmds, events, cmd)
	}
}

func (w *Worker) stream(runCtx, attemptCtx context.Context, events chan<- Event, dev blescan.DiscoveredDevice) {
	w.fire(runCtx, "connect")

	client := w.config.ClientFactory()
	if err := client.Connect(attemptCtx, dev.Address); err != nil {
		w.logger.WarnContext(runCtx, "connect failed", "address", dev.Address, "error", err)
		w.fire(runCtx, "connect_failed")
		w.emit(runCtx, events, ErrorEvent{Tag: ErrorTagConnectFailed})
		return
	}
	w.fire(runCtx, "link_established")

	if !w.secure(attemptCtx, dev.Address) {
		w.fire(runCtx, "secure_failed")
		_ = client.Disconnect()
		w.emit(runCtx, events, ErrorEvent{Tag: ErrorTagConnectFailed})
		return
	}
	w.fire(runCtx, "secured")

	desc, notifications, err := w.discover(attemptCtx, client)
	if err != nil {
		w.logger.WarnContext(runCtx, "discovery failed", "address", dev.Address, "error", err)
		w.fire(runCtx, "discover_failed")
		_ = client.Disconnect()
		w.emit(runCtx, events, ErrorEvent{Tag: ErrorTagHIDNotFound})
		return
	}
	w.fire(runCtx, "discovered")
	w.emit(runCtx, events, ConnectedEvent{Address: dev.Address, Name: dev.Name})

	w.serviceNotifications(attemptCtx, desc, notifications)

	_ = client.Disconnect()
	w.fire(runCtx, "disconnected")
	w.emit(runCtx, events, DisconnectedEvent{})
}

// secure polls link encryption state up to SecurePollAttempts times and,
// once secure, finalizes the exchange and persists the resulting Bond.
func (w *Worker) secure(ctx context.Context, addr blecentral.Address) bool {
	secured := false
	for i := 0; i < w.config.SecurePollAttempts; i++ {
		ok, err := w.config.Security.IsSecure(ctx, addr)
		if err != nil {
			w.logger.WarnContext(ctx, "security poll failed", "error", err)
			return false
		}
		if ok {
			secured = true
			break
		}
		select {
		case <-time.After(w.config.SecurePollInterval):
		case <-ctx.Done():
			return false
		}
	}
	if !secured {
		w.logger.WarnContext(ctx, "securing budget exhausted", "error", ErrSecureTimeout)
		return false
	}

	bond, err := w.config.Security.Secure(ctx, addr)
	if err != nil {
		w.logger.WarnContext(ctx, "secure finalization failed", "error", err)
		return false
	}
	if w.config.Bonds != nil {
		w.config.Bonds.PutBond(bond, addr)
	}
	return true
}

func (w *Worker) discover(ctx context.Context, client blecentral.GattClient) (hiddescriptor.HidDescriptor, <-chan []byte, error) {
	ok, err := client.DiscoverService(ctx, blecentral.UUIDHIDService)
	if err != nil {
		return hiddescriptor.HidDescriptor{}, nil, err
	}
	if !ok {
		return hiddescriptor.HidDescriptor{}, nil, blecentral.ErrHidServiceNotFound
	}

	if err := client.WriteCharacteristic(ctx, blecentral.UUIDProtocolMode, []byte{blecentral.ProtocolModeBoot}); err != nil {
		return hiddescriptor.HidDescriptor{}, nil, err
	}

	reportMap, err := client.ReadCharacteristic(ctx, blecentral.UUIDReportMap)
	if err != nil {
		return hiddescriptor.HidDescriptor{}, nil, err
	}
	desc := hiddescriptor.Parse(reportMap)

	notifications, err := client.SubscribeNotifications(ctx, blecentral.UUIDReport)
	if err != nil {
		return hiddescriptor.HidDescriptor{}, nil, err
	}
	return desc, notifications, nil
}

// serviceNotifications classifies and forwards every notification until
// the link drops or ctx is canceled.
func (w *Worker) serviceNotifications(ctx context.Context, desc hiddescriptor.HidDescriptor, notifications <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-notifications:
			if !ok {
				return
			}
			report, err := hidclassify.Classify(payload, &desc)
			if err != nil {
				w.logger.WarnContext(ctx, "dropped unclassifiable notification", "error", err, "len", len(payload))
				continue
			}
			select {
			case w.config.Reports <- report:
			default:
				w.logger.WarnContext(ctx, "report channel full, dropping newest report")
			}
		}
	}
}

func (w *Worker) fire(ctx context.Context, trigger string) {
	if err := w.machine.Fire(ctx, trigger, nil); err != nil {
		w.logger.DebugContext(ctx, "slot machine transition rejected", "trigger", trigger, "error", err)
	}
}

func (w *Worker) emit(ctx context.Context, events chan<- Event, ev Event) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}
