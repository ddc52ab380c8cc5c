// SPDX-License-Identifier: BSD-3-Clause

package coordinator

import (
	"context"
	"net"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/chefzaid/bt2usb/pkg/blecentral"
	"github.com/chefzaid/bt2usb/pkg/bondstore"
	"github.com/chefzaid/bt2usb/pkg/hidreport"
)

// testConnProvider adapts an embedded, not-listening NATS server to
// nats.InProcessConnProvider for tests that need a real in-process bus
// rather than the production embedding service/ipc provides.
type testConnProvider struct{ server *natsserver.Server }

func (p testConnProvider) InProcessConn() (net.Conn, error) {
	return p.server.InProcessConn()
}

func startTestBus(t *testing.T) (*nats.Conn, testConnProvider) {
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

	provider := testConnProvider{server: ns}
	nc, err := nats.Connect("", nats.InProcessServer(provider))
	if err != nil {
		t.Fatalf("nats.Connect: %v", err)
	}
	t.Cleanup(nc.Close)
	return nc, provider
}

type memPager struct {
	pages [][]byte
}

func newMemPager(n int) *memPager {
	return &memPager{pages: make([][]byte, n)}
}

func (m *memPager) ReadPage(idx int) ([]byte, error)     { return append([]byte(nil), m.pages[idx]...), nil }
func (m *memPager) WritePage(idx int, data []byte) error { m.pages[idx] = append([]byte(nil), data...); return nil }
func (m *memPager) ErasePage(idx int) error              { m.pages[idx] = nil; return nil }

func testAddr(b byte) blecentral.Address {
	return blecentral.Address{Bytes: [6]byte{b, b, b, b, b, b}}
}

func waitForEvent(t *testing.T, sub *nats.Subscription, timeout time.Duration) Event {
	t.Helper()
	msg, err := sub.NextMsg(timeout)
	if err != nil {
		t.Fatalf("NextMsg: %v", err)
	}
	ev, err := decodeEvent(msg.Data)
	if err != nil {
		t.Fatalf("decodeEvent: %v", err)
	}
	return ev
}

func waitForEventType(t *testing.T, sub *nats.Subscription, want EventType, timeout time.Duration) Event {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		ev := waitForEvent(t, sub, timeout)
		if ev.Type == want {
			return ev
		}
	}
	t.Fatalf("timed out waiting for event type %q", want)
	return Event{}
}

func newTestCoordinator(t *testing.T, client *blecentral.MockGattClient, central *blecentral.MockCentral) (*Coordinator, *bondstore.Store) {
	t.Helper()
	store, err := bondstore.Open(newMemPager(4), 4)
	if err != nil {
		t.Fatalf("bondstore.Open: %v", err)
	}
	reports := make(chan hidreport.Report, 16)
	security := blecentral.NewMockSecurityHandler(blecentral.Bond{MasterID: 1})

	c, err := New(NewConfig(
		WithCentral(central),
		WithClientFactory(func() blecentral.GattClient { return client }),
		WithSecurity(security),
		WithBondStore(store),
		WithReports(reports),
		WithScanDuration(20*time.Millisecond),
	))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, store
}

func TestCoordinatorScanThenConnect(t *testing.T) {
	_, provider := startTestBus(t)

	adv := blecentral.AdvertisingReport{
		Address: testAddr(3),
		Data:    append([]byte{3, 0x03, 0x12, 0x18}, append([]byte{9, 0x09}, []byte("Keyboard")...)...),
	}
	central := blecentral.NewMockCentral([]blecentral.AdvertisingReport{adv})
	client := blecentral.NewMockGattClient(nil)

	c, _ := newTestCoordinator(t, client, central)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx, provider)

	nc, err := nats.Connect("", nats.InProcessServer(provider))
	if err != nil {
		t.Fatalf("nats.Connect: %v", err)
	}
	defer nc.Close()

	sub, err := nc.SubscribeSync(DefaultEventSubject)
	if err != nil {
		t.Fatalf("SubscribeSync: %v", err)
	}
	defer sub.Unsubscribe()

	if err := nc.Publish(DefaultCommandSubject, Command{Type: CommandStartScan}.encode()); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	complete := waitForEventType(t, sub, EventScanComplete, 2*time.Second)
	if len(complete.Names) != 1 || complete.Names[0] != "Keyboard" {
		t.Fatalf("scan complete names = %v, want [Keyboard]", complete.Names)
	}

	if err := nc.Publish(DefaultCommandSubject, Command{Type: CommandConnect, Index: 0}.encode()); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	connected := waitForEventType(t, sub, EventConnected, 2*time.Second)
	if connected.Name != "Keyboard" {
		t.Fatalf("connected.Name = %q, want Keyboard", connected.Name)
	}
	if connected.Summary != "Keyboard" {
		t.Fatalf("connected.Summary = %q, want Keyboard", connected.Summary)
	}
}

func TestCoordinatorRefusesConnectWithNoFreeSlot(t *testing.T) {
	_, provider := startTestBus(t)

	central := blecentral.NewMockCentral(nil)
	client := blecentral.NewMockGattClient(nil)
	c, store := newTestCoordinator(t, client, central)
	store.Add(bondstore.PairedDevice{Address: testAddr(9), Name: "Mouse"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx, provider)

	nc, err := nats.Connect("", nats.InProcessServer(provider))
	if err != nil {
		t.Fatalf("nats.Connect: %v", err)
	}
	defer nc.Close()

	sub, err := nc.SubscribeSync(DefaultEventSubject)
	if err != nil {
		t.Fatalf("SubscribeSync: %v", err)
	}
	defer sub.Unsubscribe()

	// Auto-reconnect on startup occupies slot 0.
	connected := waitForEventType(t, sub, EventConnected, 2*time.Second)
	if connected.Name != "Mouse" {
		t.Fatalf("connected.Name = %q, want Mouse", connected.Name)
	}
}
