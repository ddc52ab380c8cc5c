// SPDX-License-Identifier: BSD-3-Clause

package usbhid

// Report descriptors advertised to the USB host for each gadget HID
// function. Each describes exactly the wire shape pkg/hidreport already
// parses and serializes, so no report-ID framing is needed here — every
// canonical kind gets its own gadget interface instead of sharing one.

// keyboardReportDescriptor is the standard USB HID boot keyboard
// descriptor: an 8-byte report (modifier, reserved, 6 keycodes).
var keyboardReportDescriptor = []byte{
	0x05, 0x01, //   USAGE_PAGE (Generic Desktop)
	0x09, 0x06, //   USAGE (Keyboard)
	0xa1, 0x01, //   COLLECTION (Application)
	0x05, 0x07, //     USAGE_PAGE (Keyboard)
	0x19, 0xe0, //     USAGE_MINIMUM (Keyboard LeftControl)
	0x29, 0xe7, //     USAGE_MAXIMUM (Keyboard Right GUI)
	0x15, 0x00, //     LOGICAL_MINIMUM (0)
	0x25, 0x01, //     LOGICAL_MAXIMUM (1)
	0x75, 0x01, //     REPORT_SIZE (1)
	0x95, 0x08, //     REPORT_COUNT (8)
	0x81, 0x02, //     INPUT (Data,Var,Abs)
	0x95, 0x01, //     REPORT_COUNT (1)
	0x75, 0x08, //     REPORT_SIZE (8)
	0x81, 0x03, //     INPUT (Cnst,Var,Abs)
	0x95, 0x06, //     REPORT_COUNT (6)
	0x75, 0x08, //     REPORT_SIZE (8)
	0x15, 0x00, //     LOGICAL_MINIMUM (0)
	0x25, 0x65, //     LOGICAL_MAXIMUM (101)
	0x05, 0x07, //     USAGE_PAGE (Keyboard)
	0x19, 0x00, //     USAGE_MINIMUM (Reserved)
	0x29, 0x65, //     USAGE_MAXIMUM (Keyboard Application)
	0x81, 0x00, //     INPUT (Data,Ary,Abs)
	0xc0, //        END_COLLECTION
}

// mouseReportDescriptor is a relative mouse descriptor: a 4-byte report
// (3 buttons + 5 bits padding, relative X, relative Y, relative wheel).
var mouseReportDescriptor = []byte{
	0x05, 0x01, //   USAGE_PAGE (Generic Desktop)
	0x09, 0x02, //   USAGE (Mouse)
	0xa1, 0x01, //   COLLECTION (Application)
	0x09, 0x01, //     USAGE (Pointer)
	0xa1, 0x00, //     COLLECTION (Physical)
	0x05, 0x09, //       USAGE_PAGE (Button)
	0x19, 0x01, //       USAGE_MINIMUM (Button 1)
	0x29, 0x03, //       USAGE_MAXIMUM (Button 3)
	0x15, 0x00, //       LOGICAL_MINIMUM (0)
	0x25, 0x01, //       LOGICAL_MAXIMUM (1)
	0x95, 0x03, //       REPORT_COUNT (3)
	0x75, 0x01, //       REPORT_SIZE (1)
	0x81, 0x02, //       INPUT (Data,Var,Abs)
	0x95, 0x01, //       REPORT_COUNT (1)
	0x75, 0x05, //       REPORT_SIZE (5)
	0x81, 0x03, //       INPUT (Cnst,Var,Abs)
	0x05, 0x01, //       USAGE_PAGE (Generic Desktop)
	0x09, 0x30, //       USAGE (X)
	0x09, 0x31, //       USAGE (Y)
	0x15, 0x81, //       LOGICAL_MINIMUM (-127)
	0x25, 0x7f, //       LOGICAL_MAXIMUM (127)
	0x75, 0x08, //       REPORT_SIZE (8)
	0x95, 0x02, //       REPORT_COUNT (2)
	0x81, 0x06, //       INPUT (Data,Var,Rel)
	0x09, 0x38, //       USAGE (Wheel)
	0x15, 0x81, //       LOGICAL_MINIMUM (-127)
	0x25, 0x7f, //       LOGICAL_MAXIMUM (127)
	0x75, 0x08, //       REPORT_SIZE (8)
	0x95, 0x01, //       REPORT_COUNT (1)
	0x81, 0x06, //       INPUT (Data,Var,Rel)
	0xc0, //          END_COLLECTION
	0xc0, //        END_COLLECTION
}

// consumerReportDescriptor is a consumer-control descriptor: a 2-byte
// little-endian usage code report.
var consumerReportDescriptor = []byte{
	0x05, 0x0c, //   USAGE_PAGE (Consumer)
	0x09, 0x01, //   USAGE (Consumer Control)
	0xa1, 0x01, //   COLLECTION (Application)
	0x19, 0x00, //     USAGE_MINIMUM (0)
	0x2a, 0xff, 0x03, //     USAGE_MAXIMUM (0x3ff)
	0x15, 0x00, //     LOGICAL_MINIMUM (0)
	0x26, 0xff, 0x03, //     LOGICAL_MAXIMUM (0x3ff)
	0x75, 0x10, //     REPORT_SIZE (16)
	0x95, 0x01, //     REPORT_COUNT (1)
	0x81, 0x00, //     INPUT (Data,Ary,Abs)
	0xc0, //        END_COLLECTION
}
