// SPDX-License-Identifier: BSD-3-Clause

package ui

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

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

func newTestUI(t *testing.T) (*UI, *MockRenderer, *MockButtons) {
	t.Helper()
	renderer := NewMockRenderer()
	buttons := NewMockButtons()
	u, err := New(NewConfig(WithRenderer(renderer), WithButtons(buttons)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := u.fsm.Start(context.Background()); err != nil {
		t.Fatalf("fsm.Start: %v", err)
	}
	return u, renderer, buttons
}

func TestHomeSelectStartsScanAndPublishesCommand(t *testing.T) {
	nc, _ := startTestBus(t)
	u, renderer, _ := newTestUI(t)

	sub, err := nc.SubscribeSync(u.config.CommandSubject)
	if err != nil {
		t.Fatalf("SubscribeSync: %v", err)
	}

	u.handleButton(context.Background(), nc, ButtonSelect)

	if !u.fsm.IsInState(screenScanning) {
		t.Fatalf("state = %s, want scanning", u.fsm.CurrentState())
	}
	if renderer.Last() != "scanning" {
		t.Fatalf("last draw = %s, want scanning", renderer.Last())
	}

	msg, err := sub.NextMsg(time.Second)
	if err != nil {
		t.Fatalf("NextMsg: %v", err)
	}
	var cmd wireCommand
	if err := json.Unmarshal(msg.Data, &cmd); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if cmd.Type != cmdStartScan {
		t.Fatalf("command type = %s, want %s", cmd.Type, cmdStartScan)
	}
}

func TestScanCompleteWithResultsMovesToDeviceList(t *testing.T) {
	nc, _ := startTestBus(t)
	u, renderer, _ := newTestUI(t)
	u.handleButton(context.Background(), nc, ButtonSelect) // home -> scanning

	u.handleEvent(context.Background(), wireEvent{Type: evtScanComplete, Names: []string{"Keyboard", "Mouse"}})

	if !u.fsm.IsInState(screenDeviceList) {
		t.Fatalf("state = %s, want device_list", u.fsm.CurrentState())
	}
	if renderer.Last() != "device_list" {
		t.Fatalf("last draw = %s, want device_list", renderer.Last())
	}
	_ = nc
}

func TestScanCompleteEmptyGoesToError(t *testing.T) {
	nc, _ := startTestBus(t)
	u, renderer, _ := newTestUI(t)
	_ = u.fsm.Fire(context.Background(), triggerStartScan, nil)

	u.handleEvent(context.Background(), wireEvent{Type: evtScanComplete})

	if !u.fsm.IsInState(screenError) {
		t.Fatalf("state = %s, want error", u.fsm.CurrentState())
	}
	if u.errorMessage != "No devices found" {
		t.Fatalf("errorMessage = %q, want %q", u.errorMessage, "No devices found")
	}
	if renderer.Last() != "error" {
		t.Fatalf("last draw = %s, want error", renderer.Last())
	}
	_ = nc
}

func TestDeviceListUpDownClampWithoutWrapping(t *testing.T) {
	nc, _ := startTestBus(t)
	u, renderer, _ := newTestUI(t)
	u.handleButton(context.Background(), nc, ButtonSelect) // home -> scanning
	u.handleEvent(context.Background(), wireEvent{Type: evtScanComplete, Names: []string{"A", "B", "C"}})

	u.handleButton(context.Background(), nc, ButtonUp) // already at 0, must clamp
	if u.listSelected != 0 {
		t.Fatalf("listSelected = %d, want 0", u.listSelected)
	}

	u.handleButton(context.Background(), nc, ButtonDown)
	u.handleButton(context.Background(), nc, ButtonDown)
	u.handleButton(context.Background(), nc, ButtonDown) // past the end, must clamp
	if u.listSelected != 2 {
		t.Fatalf("listSelected = %d, want 2", u.listSelected)
	}
	if last := renderer.Draws()[len(renderer.Draws())-1]; last.selected != 2 {
		t.Fatalf("last drawn selection = %d, want 2", last.selected)
	}
}

func TestDeviceListSelectConnectsAndReturnsToHome(t *testing.T) {
	nc, _ := startTestBus(t)
	u, _, _ := newTestUI(t)
	u.handleButton(context.Background(), nc, ButtonSelect) // home -> scanning
	u.handleEvent(context.Background(), wireEvent{Type: evtScanComplete, Names: []string{"Keyboard", "Mouse"}})
	u.listSelected = 1

	sub, err := nc.SubscribeSync(u.config.CommandSubject)
	if err != nil {
		t.Fatalf("SubscribeSync: %v", err)
	}

	u.handleButton(context.Background(), nc, ButtonSelect)

	if !u.fsm.IsInState(screenHome) {
		t.Fatalf("state = %s, want home (optimistic return)", u.fsm.CurrentState())
	}

	msg, err := sub.NextMsg(time.Second)
	if err != nil {
		t.Fatalf("NextMsg: %v", err)
	}
	var cmd wireCommand
	if err := json.Unmarshal(msg.Data, &cmd); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if cmd.Type != cmdConnect || cmd.Index != 1 {
		t.Fatalf("cmd = %+v, want connect index 1", cmd)
	}
}

func TestConnectedEventMovesToConnectedFromAnyScreen(t *testing.T) {
	nc, _ := startTestBus(t)
	u, renderer, _ := newTestUI(t)

	u.handleEvent(context.Background(), wireEvent{Type: evtConnected, Name: "Keyboard"})

	if !u.fsm.IsInState(screenConnected) {
		t.Fatalf("state = %s, want connected", u.fsm.CurrentState())
	}
	if renderer.Last() != "connected" {
		t.Fatalf("last draw = %s, want connected", renderer.Last())
	}
	_ = nc
}

func TestConnectedDownIssuesDisconnectAndStaysConnected(t *testing.T) {
	nc, _ := startTestBus(t)
	u, _, _ := newTestUI(t)
	u.handleEvent(context.Background(), wireEvent{Type: evtConnected, Name: "Keyboard"})

	sub, err := nc.SubscribeSync(u.config.CommandSubject)
	if err != nil {
		t.Fatalf("SubscribeSync: %v", err)
	}

	u.handleButton(context.Background(), nc, ButtonDown)

	if !u.fsm.IsInState(screenConnected) {
		t.Fatalf("state = %s, want connected (stays until Disconnected event)", u.fsm.CurrentState())
	}
	msg, err := sub.NextMsg(time.Second)
	if err != nil {
		t.Fatalf("NextMsg: %v", err)
	}
	var cmd wireCommand
	if err := json.Unmarshal(msg.Data, &cmd); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if cmd.Type != cmdDisconnect {
		t.Fatalf("cmd.Type = %s, want disconnect", cmd.Type)
	}

	u.handleEvent(context.Background(), wireEvent{Type: evtDisconnected})
	if !u.fsm.IsInState(screenHome) {
		t.Fatalf("state = %s, want home after disconnected event", u.fsm.CurrentState())
	}
}

func TestErrorEventRevertsToHomeAfterTimeout(t *testing.T) {
	nc, _ := startTestBus(t)
	u, renderer, _ := newTestUI(t)
	u.config.ErrorDisplay = 10 * time.Millisecond

	u.handleEvent(context.Background(), wireEvent{Type: evtError, Tag: "scan failed"})
	if !u.fsm.IsInState(screenError) {
		t.Fatalf("state = %s, want error", u.fsm.CurrentState())
	}
	if renderer.Last() != "error" {
		t.Fatalf("last draw = %s, want error", renderer.Last())
	}

	time.Sleep(20 * time.Millisecond)
	u.tick(context.Background())

	if !u.fsm.IsInState(screenHome) {
		t.Fatalf("state = %s, want home after error display elapses", u.fsm.CurrentState())
	}
	_ = nc
}
