// SPDX-License-Identifier: BSD-3-Clause

package blescan

import (
	"context"
	"errors"
	"time"

	"github.com/chefzaid/bt2usb/pkg/blecentral"
)

const (
	// DefaultScanDuration bounds how long one scan window runs.
	DefaultScanDuration = 8 * time.Second

	// DefaultMaxResults bounds how many distinct devices one scan keeps.
	DefaultMaxResults = 8
)

// DiscoveredDevice is one HID-bearing peripheral found during a scan.
// Immutable once created.
type DiscoveredDevice struct {
	Address blecentral.Address
	Name    string
	RSSI    int8
}

// Result is the ordered, deduplicated, bounded outcome of one scan
// window; it is consumed by exactly one Connect command and then
// discarded.
type Result struct {
	Devices []DiscoveredDevice
}

// Scan runs one bounded active-scan window against central, keeping only
// advertisements that carry the HID service UUID, deduplicated by
// address and capped at maxResults. It returns early once the cap is
// reached rather than waiting out the full duration.
func Scan(ctx context.Context, central blecentral.Central, duration time.Duration, maxResults int) (Result, error) {
	scanCtx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	reports := make(chan blecentral.AdvertisingReport, 16)
	scanErr := make(chan error, 1)
	go func() { scanErr <- central.StartScan(scanCtx, reports) }()

	seen := make(map[blecentral.Address]struct{})
	var result Result

collect:
	for {
		select {
		case <-scanCtx.Done():
			break collect
		case report, ok := <-reports:
			if !ok {
				break collect
			}
			if !ContainsHIDServiceUUID(report.Data) {
				continue
			}
			if _, dup := seen[report.Address]; dup {
				continue
			}
			seen[report.Address] = struct{}{}
			result.Devices = append(result.Devices, DiscoveredDevice{
				Address: report.Address,
				Name:    ExtractDeviceName(report.Data),
				RSSI:    report.RSSI,
			})
			if len(result.Devices) >= maxResults {
				break collect
			}
		}
	}

	// Cancel eagerly: the collect loop may have broken out early (result
	// cap reached) well before the scan duration elapsed, and the
	// underlying central is expected to keep running until told to stop.
	cancel()

	if err := <-scanErr; err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return result, err
	}
	return result, nil
}
