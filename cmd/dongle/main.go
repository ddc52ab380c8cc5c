// SPDX-License-Identifier: BSD-3-Clause

// Command dongle is the firmware entrypoint for the BLE-to-USB HID
// bridge. It wires the radio-facing report channel, the bond store, the
// USB gadget, and the front panel together, then hands them to
// service/operator for supervised execution.
package main

import (
	"context"
	"runtime/debug"

	"github.com/chefzaid/bt2usb/pkg/blecentral"
	"github.com/chefzaid/bt2usb/pkg/bondstore"
	"github.com/chefzaid/bt2usb/pkg/hidreport"
	"github.com/chefzaid/bt2usb/pkg/log"
	"github.com/chefzaid/bt2usb/service/coordinator"
	"github.com/chefzaid/bt2usb/service/forwarder"
	"github.com/chefzaid/bt2usb/service/operator"
	"github.com/chefzaid/bt2usb/service/powermgr"
	"github.com/chefzaid/bt2usb/service/ui"
)

const bondStorePath = "/var/lib/bt2usb/bonds"

func main() {
	// The dongle's microcontroller has a few hundred KB of RAM; keep Go's
	// footprint well clear of it.
	debug.SetMemoryLimit(64 * 1024 * 1024)

	logger := log.NewDefaultLogger()

	reports := make(chan hidreport.Report, forwarder.DefaultChannelCapacity)

	bonds, err := openBondStore()
	if err != nil {
		logger.Error("failed to open bond store", "error", err)
		panic(err)
	}

	device, err := newGadget()
	if err != nil {
		logger.Error("failed to open USB gadget", "error", err)
		panic(err)
	}

	buttons, err := newButtons()
	if err != nil {
		logger.Error("failed to open front-panel buttons", "error", err)
		panic(err)
	}

	central, clientFactory, security := newRadio()
	renderer := ui.NewLogRenderer(logger)

	if err := operator.New(
		operator.WithName("bt2usb"),
		operator.WithLogger(logger),
		operator.WithCoordinator(
			coordinator.WithCentral(central),
			coordinator.WithClientFactory(clientFactory),
			coordinator.WithSecurity(security),
			coordinator.WithBondStore(bonds),
			coordinator.WithReports(reports),
		),
		operator.WithForwarder(
			forwarder.WithDevice(device),
			forwarder.WithReports(reports),
		),
		operator.WithPowermgr(
			powermgr.WithSuspendSource(device),
		),
		operator.WithUI(
			ui.WithRenderer(renderer),
			ui.WithButtons(buttons),
		),
	).Run(context.Background(), nil); err != nil {
		logger.Error("operator exited", "error", err)
		panic(err)
	}
}

func openBondStore() (*bondstore.Store, error) {
	pager, err := bondstore.NewFilePager(bondStorePath)
	if err != nil {
		return nil, err
	}
	return bondstore.Open(pager, bondstore.MaxPairedDevices)
}

// newRadio builds the BLE-facing collaborators. No third-party BLE
// central/GATT library is available anywhere in the reference pack, so
// the only backend this tree can ship is the software MockCentral/
// MockGattClient pair that stands in for the link layer (see
// pkg/blecentral's package doc). A real radio backend, once one exists,
// plugs in here without touching the coordinator.
func newRadio() (blecentral.Central, func() blecentral.GattClient, blecentral.SecurityHandler) {
	central := blecentral.NewMockCentral(nil)
	clientFactory := func() blecentral.GattClient {
		return blecentral.NewMockGattClient(nil)
	}
	security := blecentral.NewMockSecurityHandler(blecentral.Bond{})
	return central, clientFactory, security
}
