// SPDX-License-Identifier: BSD-3-Clause

package slotworker

import (
	"context"
	"testing"
	"time"

	"github.com/chefzaid/bt2usb/pkg/blecentral"
	"github.com/chefzaid/bt2usb/pkg/blescan"
	"github.com/chefzaid/bt2usb/pkg/bondstore"
	"github.com/chefzaid/bt2usb/pkg/hidreport"
)

type memPager struct {
	pages [][]byte
}

func newMemPager(n int) *memPager {
	return &memPager{pages: make([][]byte, n)}
}

func (m *memPager) ReadPage(idx int) ([]byte, error)      { return append([]byte(nil), m.pages[idx]...), nil }
func (m *memPager) WritePage(idx int, data []byte) error  { m.pages[idx] = append([]byte(nil), data...); return nil }
func (m *memPager) ErasePage(idx int) error               { m.pages[idx] = nil; return nil }

func testAddr(b byte) blecentral.Address {
	return blecentral.Address{Bytes: [6]byte{b, b, b, b, b, b}}
}

func waitForEvent(t *testing.T, events <-chan Event, timeout time.Duration) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(timeout):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestWorkerConnectsAndStreamsReports(t *testing.T) {
	client := blecentral.NewMockGattClient(nil)
	security := blecentral.NewMockSecurityHandler(blecentral.Bond{MasterID: 1})
	store, err := bondstore.Open(newMemPager(4), 4)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	reports := make(chan hidreport.Report, 16)

	w, err := New(NewConfig(
		WithIndex(0),
		WithClientFactory(func() blecentral.GattClient { return client }),
		WithSecurity(security),
		WithBondStore(store),
		WithReports(reports),
		WithSecurePollInterval(time.Millisecond),
	))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmds := make(chan Command, 1)
	events := make(chan Event, 4)
	go w.Run(ctx, cmds, events)

	cmds <- ConnectCommand{Device: blescan.DiscoveredDevice{Address: testAddr(1), Name: "kbd"}}

	ev := waitForEvent(t, events, time.Second)
	connected, ok := ev.(ConnectedEvent)
	if !ok {
		t.Fatalf("expected ConnectedEvent, got %#v", ev)
	}
	if connected.Name != "kbd" {
		t.Fatalf("Name = %q, want kbd", connected.Name)
	}

	if _, ok := store.BondByAddress(testAddr(1)); !ok {
		t.Fatal("expected bond to be persisted")
	}

	client.Notify(make([]byte, 8))
	select {
	case r := <-reports:
		if r.Kind() != hidreport.KindKeyboard {
			t.Fatalf("got kind %v, want keyboard", r.Kind())
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for classified report")
	}

	cmds <- DisconnectCommand{}
	ev = waitForEvent(t, events, time.Second)
	if _, ok := ev.(DisconnectedEvent); !ok {
		t.Fatalf("expected DisconnectedEvent, got %#v", ev)
	}
}

func TestWorkerEmitsErrorOnConnectFailure(t *testing.T) {
	client := blecentral.NewMockGattClient(nil)
	client.FailConnect = true
	security := blecentral.NewMockSecurityHandler(blecentral.Bond{})
	reports := make(chan hidreport.Report, 1)

	w, err := New(NewConfig(
		WithClientFactory(func() blecentral.GattClient { return client }),
		WithSecurity(security),
		WithReports(reports),
	))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmds := make(chan Command, 1)
	events := make(chan Event, 4)
	go w.Run(ctx, cmds, events)

	cmds <- ConnectCommand{Device: blescan.DiscoveredDevice{Address: testAddr(2)}}

	ev := waitForEvent(t, events, time.Second)
	errEv, ok := ev.(ErrorEvent)
	if !ok {
		t.Fatalf("expected ErrorEvent, got %#v", ev)
	}
	if errEv.Tag != ErrorTagConnectFailed {
		t.Fatalf("Tag = %v, want ErrorTagConnectFailed", errEv.Tag)
	}
}

func TestNewRejectsMissingCollaborators(t *testing.T) {
	if _, err := New(NewConfig()); err == nil {
		t.Fatal("expected New to reject a config with no client/security/reports")
	}
}
