// SPDX-License-Identifier: BSD-3-Clause

package hiddescriptor

import "testing"

// keyboardDescriptor is the standard USB HID boot keyboard report descriptor.
var keyboardDescriptor = []byte{
	0x05, 0x01, 0x09, 0x06, 0xa1, 0x01,
	0x05, 0x07, 0x19, 0xe0, 0x29, 0xe7, 0x15, 0x00, 0x25, 0x01,
	0x75, 0x01, 0x95, 0x08, 0x81, 0x02,
	0x95, 0x01, 0x75, 0x08, 0x81, 0x03,
	0x95, 0x05, 0x75, 0x01, 0x05, 0x08, 0x19, 0x01, 0x29, 0x05, 0x91, 0x02,
	0x95, 0x01, 0x75, 0x03, 0x91, 0x03,
	0x95, 0x06, 0x75, 0x08, 0x15, 0x00, 0x25, 0x65,
	0x05, 0x07, 0x19, 0x00, 0x29, 0x65, 0x81, 0x00,
	0xc0,
}

// mouseDescriptor carries two report IDs: 1 for X/Y/buttons, 2 for wheel.
var mouseDescriptor = []byte{
	0x05, 0x01, 0x09, 0x02, 0xA1, 0x01,
	0x85, 0x01,
	0x09, 0x01, 0xA1, 0x00,
	0x05, 0x09, 0x19, 0x01, 0x29, 0x03, 0x15, 0x00, 0x25, 0x01, 0x75, 0x01, 0x95, 0x03, 0x81, 0x02,
	0x95, 0x01, 0x75, 0x05, 0x81, 0x03,
	0x05, 0x01, 0x09, 0x30, 0x09, 0x31,
	0x16, 0x00, 0x00, 0x26, 0xFF, 0x7F, 0x36, 0x00, 0x00, 0x46, 0xFF, 0x7F,
	0x75, 0x10, 0x95, 0x02, 0x81, 0x02,
	0xC0,
	0x85, 0x02,
	0x09, 0x38, 0x15, 0x81, 0x25, 0x7F, 0x35, 0x00, 0x45, 0x00, 0x75, 0x08, 0x95, 0x01, 0x81, 0x06,
	0xC0,
}

// consumerDescriptor declares a single Consumer Control collection with
// report ID 3 and no preceding Generic Desktop page.
var consumerDescriptor = []byte{
	0x05, 0x0C, 0x09, 0x01, 0xA1, 0x01,
	0x85, 0x03,
	0x19, 0x00, 0x2A, 0x3C, 0x02,
	0x15, 0x00, 0x26, 0x3C, 0x02,
	0x95, 0x01, 0x75, 0x10, 0x81, 0x00,
	0xC0,
}

// keyboardWithEmbeddedConsumerDescriptor declares a keyboard's key array
// (report ID 1) and a consumer-control Input (report ID 2) inside the same
// top-level Application collection, rather than as a second sibling
// collection — the usage page changes mid-collection instead of at a new
// Collection item.
var keyboardWithEmbeddedConsumerDescriptor = []byte{
	0x05, 0x01, 0x09, 0x06, 0xA1, 0x01,
	0x85, 0x01,
	0x05, 0x07, 0x19, 0x00, 0x29, 0x65, 0x81, 0x00,
	0x85, 0x02,
	0x05, 0x0C, 0x09, 0x01, 0x81, 0x00,
	0xC0,
}

func TestParseKeyboardWithEmbeddedConsumerReport(t *testing.T) {
	d := Parse(keyboardWithEmbeddedConsumerDescriptor)
	if !d.HasKeyboard || !d.HasConsumer || d.HasMouse {
		t.Fatalf("unexpected descriptor: %+v", d)
	}
	if d.KeyboardReportID == nil || *d.KeyboardReportID != 1 {
		t.Fatalf("expected keyboard report id 1, got %v", d.KeyboardReportID)
	}
	if d.ConsumerReportID == nil || *d.ConsumerReportID != 2 {
		t.Fatalf("expected consumer report id 2 embedded in the keyboard collection, got %v", d.ConsumerReportID)
	}
}

func TestParseKeyboardDescriptor(t *testing.T) {
	d := Parse(keyboardDescriptor)
	if !d.HasKeyboard || d.HasMouse || d.HasConsumer {
		t.Fatalf("unexpected descriptor: %+v", d)
	}
	if d.KeyboardReportID != nil {
		t.Fatalf("expected no report id for unnumbered boot keyboard, got %v", *d.KeyboardReportID)
	}
}

func TestParseMouseDescriptorReportID(t *testing.T) {
	d := Parse(mouseDescriptor)
	if !d.HasMouse || d.HasKeyboard || d.HasConsumer {
		t.Fatalf("unexpected descriptor: %+v", d)
	}
	if d.MouseReportID == nil || *d.MouseReportID != 1 {
		t.Fatalf("expected mouse report id 1, got %v", d.MouseReportID)
	}
}

func TestParseConsumerDescriptorReportID(t *testing.T) {
	d := Parse(consumerDescriptor)
	if !d.HasConsumer || d.HasKeyboard || d.HasMouse {
		t.Fatalf("unexpected descriptor: %+v", d)
	}
	if d.ConsumerReportID == nil || *d.ConsumerReportID != 3 {
		t.Fatalf("expected consumer report id 3, got %v", d.ConsumerReportID)
	}
}

func TestParseTruncatedDescriptorDoesNotPanic(t *testing.T) {
	d := Parse([]byte{0x05}) // Usage Page claims 1 byte of data that isn't there
	if d.HasKeyboard || d.HasMouse || d.HasConsumer {
		t.Fatalf("expected empty descriptor, got %+v", d)
	}
}

func TestParseEmptyDescriptor(t *testing.T) {
	d := Parse(nil)
	if d.HasKeyboard || d.HasMouse || d.HasConsumer {
		t.Fatalf("expected empty descriptor, got %+v", d)
	}
}
