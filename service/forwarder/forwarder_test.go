// SPDX-License-Identifier: BSD-3-Clause

package forwarder

import (
	"context"
	"testing"
	"time"

	"github.com/chefzaid/bt2usb/pkg/hidreport"
	"github.com/chefzaid/bt2usb/pkg/usbhid"
)

func TestForwarderWritesReportsInOrder(t *testing.T) {
	device := usbhid.NewMockCompositeDevice()
	reports := make(chan hidreport.Report, 4)

	fw, err := New(NewConfig(WithDevice(device), WithReports(reports)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- fw.Run(ctx, nil) }()

	reports <- hidreport.KeyboardReport{Modifier: 0x01}
	reports <- hidreport.MouseReport{Buttons: 0x01}

	deadline := time.Now().Add(time.Second)
	for len(device.Writes()) < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	writes := device.Writes()
	if len(writes) != 2 {
		t.Fatalf("got %d writes, want 2", len(writes))
	}
	if writes[0].Kind() != hidreport.KindKeyboard || writes[1].Kind() != hidreport.KindMouse {
		t.Fatalf("unexpected write order: %+v", writes)
	}

	cancel()
	if err := <-done; err == nil {
		t.Fatal("expected Run to return ctx.Err() after cancellation")
	}
}

func TestNewRejectsMissingCollaborators(t *testing.T) {
	if _, err := New(NewConfig()); err == nil {
		t.Fatal("expected New to reject a config with no device/reports")
	}
}
