// SPDX-License-Identifier: BSD-3-Clause

package blescan

import (
	"context"
	"testing"
	"time"

	"github.com/chefzaid/bt2usb/pkg/blecentral"
)

func addr(b byte) blecentral.Address {
	return blecentral.Address{Bytes: [6]byte{b, 0, 0, 0, 0, 0}, Type: blecentral.AddressPublic}
}

func hidAdv(a blecentral.Address, name string, rssi int8) blecentral.AdvertisingReport {
	data := concat(
		adStruct(adTypeComplete16BitUUIDs, 0x12, 0x18),
		adStruct(adTypeCompleteLocalName, []byte(name)...),
	)
	return blecentral.AdvertisingReport{Address: a, RSSI: rssi, Data: data}
}

func TestScanDeduplicatesByAddress(t *testing.T) {
	script := []blecentral.AdvertisingReport{
		hidAdv(addr(1), "Keyboard", -40),
		hidAdv(addr(1), "Keyboard", -41),
		hidAdv(addr(2), "Mouse", -55),
	}
	central := blecentral.NewMockCentral(script)

	result, err := Scan(context.Background(), central, 50*time.Millisecond, DefaultMaxResults)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Devices) != 2 {
		t.Fatalf("expected 2 devices, got %d: %+v", len(result.Devices), result.Devices)
	}
}

func TestScanIgnoresNonHIDAdvertisements(t *testing.T) {
	nonHID := blecentral.AdvertisingReport{
		Address: addr(9),
		Data:    adStruct(adTypeCompleteLocalName, []byte("Speaker")...),
	}
	central := blecentral.NewMockCentral([]blecentral.AdvertisingReport{nonHID})

	result, err := Scan(context.Background(), central, 50*time.Millisecond, DefaultMaxResults)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Devices) != 0 {
		t.Fatalf("expected 0 devices, got %d", len(result.Devices))
	}
}

func TestScanStopsEarlyAtMaxResults(t *testing.T) {
	var script []blecentral.AdvertisingReport
	for i := byte(0); i < 20; i++ {
		script = append(script, hidAdv(addr(i), "Device", -50))
	}
	central := blecentral.NewMockCentral(script)

	result, err := Scan(context.Background(), central, time.Second, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Devices) != 8 {
		t.Fatalf("expected 8 devices (cap), got %d", len(result.Devices))
	}
}
