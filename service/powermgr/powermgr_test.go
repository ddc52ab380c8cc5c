// SPDX-License-Identifier: BSD-3-Clause

package powermgr

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

func TestEvaluate(t *testing.T) {
	const idle = 60 * time.Second
	const grace = 5 * time.Second

	cases := []struct {
		name      string
		elapsed   time.Duration
		suspended bool
		connected bool
		wantState PowerState
		wantOn    bool
	}{
		{"active just after activity", 0, false, true, Active, true},
		{"suspended always wins", 0, true, true, LowPower, false},
		{"idle but connected stays idle", 61 * time.Second, false, true, Idle, false},
		{"idle within display grace", 60500 * time.Millisecond, false, true, Idle, true},
		{"disconnected within first idle window stays idle", 90 * time.Second, false, false, Idle, false},
		{"disconnected indefinitely connected also stays idle past 2x", 150 * time.Second, false, true, Idle, false},
		{"disconnected past twice idle drops to low power", 121 * time.Second, false, false, LowPower, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state, on := evaluate(tc.elapsed, idle, grace, tc.suspended, tc.connected)
			if state != tc.wantState || on != tc.wantOn {
				t.Fatalf("evaluate(%v) = (%v, %v), want (%v, %v)", tc.elapsed, state, on, tc.wantState, tc.wantOn)
			}
		})
	}
}

type testConnProvider struct{ server *natsserver.Server }

func (p testConnProvider) InProcessConn() (net.Conn, error) {
	return p.server.InProcessConn()
}

func startTestBus(t *testing.T) testConnProvider {
	t.Helper()
	ns, err := natsserver.NewServer(&natsserver.Options{DontListen: true})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ns.Start()
	if !ns.ReadyForConnections(time.Second) {
		t.Fatal("test NATS server never became ready")
	}
	t.Cleanup(ns.Shutdown)
	return testConnProvider{server: ns}
}

type fakeSuspendSource struct {
	ch chan bool
}

func newFakeSuspendSource() *fakeSuspendSource { return &fakeSuspendSource{ch: make(chan bool, 1)} }

func (f *fakeSuspendSource) SuspendSignal() <-chan bool { return f.ch }

func TestPowerMgrPublishesOnSuspend(t *testing.T) {
	provider := startTestBus(t)
	suspend := newFakeSuspendSource()

	mgr, err := New(NewConfig(
		WithSuspendSource(suspend),
		WithPollInterval(5*time.Millisecond),
	))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mgr.Run(ctx, provider)

	nc, err := nats.Connect("", nats.InProcessServer(provider))
	if err != nil {
		t.Fatalf("nats.Connect: %v", err)
	}
	defer nc.Close()

	sub, err := nc.SubscribeSync(DefaultStateSubject)
	if err != nil {
		t.Fatalf("SubscribeSync: %v", err)
	}
	defer sub.Unsubscribe()

	suspend.ch <- true

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		msg, err := sub.NextMsg(2 * time.Second)
		if err != nil {
			t.Fatalf("NextMsg: %v", err)
		}
		var ev stateEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if ev.State == LowPower.String() {
			if ev.DisplayOn {
				t.Fatal("expected display off in LowPower")
			}
			return
		}
	}
	t.Fatal("timed out waiting for low_power state")
}
