// SPDX-License-Identifier: BSD-3-Clause

package usbhid

import (
	"testing"

	"github.com/chefzaid/bt2usb/pkg/hidreport"
)

func TestMockCompositeDeviceRecordsWrites(t *testing.T) {
	dev := NewMockCompositeDevice()

	if err := dev.Write(hidreport.KeyboardReport{Modifier: 0x02}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := dev.Write(hidreport.MouseReport{X: 5}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	writes := dev.Writes()
	if len(writes) != 2 {
		t.Fatalf("len(Writes()) = %d, want 2", len(writes))
	}
	if writes[0].Kind() != hidreport.KindKeyboard || writes[1].Kind() != hidreport.KindMouse {
		t.Fatalf("unexpected write kinds: %+v", writes)
	}
}

func TestMockCompositeDeviceSuspendSignal(t *testing.T) {
	dev := NewMockCompositeDevice()
	dev.SetSuspended(true)

	select {
	case suspended := <-dev.SuspendSignal():
		if !suspended {
			t.Fatal("expected suspended=true")
		}
	default:
		t.Fatal("expected a pending suspend signal")
	}
}

func TestMockCompositeDeviceRejectsWriteAfterClose(t *testing.T) {
	dev := NewMockCompositeDevice()
	if err := dev.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := dev.Write(hidreport.MouseReport{}); err == nil {
		t.Fatal("expected Write after Close to fail")
	}
}

func TestReportDescriptorLengths(t *testing.T) {
	// Each descriptor's declared report length must match the canonical
	// report it describes so a real host parses the wire bytes the same
	// way pkg/hidreport does.
	cases := []struct {
		name string
		desc []byte
		want int
	}{
		{"keyboard", keyboardReportDescriptor, 8},
		{"mouse", mouseReportDescriptor, 4},
		{"consumer", consumerReportDescriptor, 2},
	}
	for _, c := range cases {
		bits := countInputBits(c.desc)
		if bits/8 != c.want {
			t.Errorf("%s: descriptor declares %d bits (%d bytes), want %d bytes", c.name, bits, bits/8, c.want)
		}
	}
}

// countInputBits walks a short-item report descriptor and sums
// REPORT_SIZE*REPORT_COUNT for every Input main item, tracking the
// global state the way a real HID parser would.
func countInputBits(desc []byte) int {
	var reportSize, reportCount, total int
	i := 0
	for i < len(desc) {
		b := desc[i]
		tag := b >> 4
		itemType := (b >> 2) & 0x3
		sizeSel := b & 0x3
		size := []int{0, 1, 2, 4}[sizeSel]
		i++
		var value int
		for j := 0; j < size; j++ {
			value |= int(desc[i+j]) << (8 * j)
		}
		i += size

		switch {
		case itemType == 1 && tag == 0x7: // Global: Report Size
			reportSize = value
		case itemType == 1 && tag == 0x9: // Global: Report Count
			reportCount = value
		case itemType == 0 && tag == 0x8: // Main: Input
			total += reportSize * reportCount
		}
	}
	return total
}
