// SPDX-License-Identifier: BSD-3-Clause

package hidclassify

import (
	"github.com/chefzaid/bt2usb/pkg/hiddescriptor"
	"github.com/chefzaid/bt2usb/pkg/hidreport"
)

const (
	fixedReportIDKeyboard = 1
	fixedReportIDMouse    = 2
	fixedReportIDConsumer = 3

	consumerUsageCeiling = 0x1000
)

// Classify maps a raw BLE notification payload to a canonical report.
// desc may be nil when the peripheral's descriptor failed to parse or
// declared no report IDs; classification then falls back to inference
// purely from the payload shape.
//
// Precedence: a descriptor-declared report ID match, then length-directed
// inference, then a fixed byte[0]-as-report-ID map, then ErrUnclassifiable.
func Classify(payload []byte, desc *hiddescriptor.HidDescriptor) (hidreport.Report, error) {
	if desc != nil && len(payload) >= 1 {
		id := payload[0]
		rest := payload[1:]
		switch {
		case desc.KeyboardReportID != nil && *desc.KeyboardReportID == id:
			return hidreport.ParseKeyboardReport(rest)
		case desc.MouseReportID != nil && *desc.MouseReportID == id:
			return hidreport.ParseMouseReport(rest)
		case desc.ConsumerReportID != nil && *desc.ConsumerReportID == id:
			return hidreport.ParseConsumerReport(rest)
		}
	}

	switch len(payload) {
	case 8:
		return hidreport.ParseKeyboardReport(payload)
	case 3, 4:
		return hidreport.ParseMouseReport(payload)
	case 2:
		usage := uint16(payload[0]) | uint16(payload[1])<<8
		if usage > 0 && usage < consumerUsageCeiling {
			return hidreport.ParseConsumerReport(payload)
		}
	}

	if len(payload) >= 1 {
		rest := payload[1:]
		switch payload[0] {
		case fixedReportIDKeyboard:
			return hidreport.ParseKeyboardReport(rest)
		case fixedReportIDMouse:
			return hidreport.ParseMouseReport(rest)
		case fixedReportIDConsumer:
			return hidreport.ParseConsumerReport(rest)
		}
	}

	return nil, ErrUnclassifiable
}
