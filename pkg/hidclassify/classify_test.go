// SPDX-License-Identifier: BSD-3-Clause

package hidclassify

import (
	"testing"

	"github.com/chefzaid/bt2usb/pkg/hiddescriptor"
	"github.com/chefzaid/bt2usb/pkg/hidreport"
)

func reportID(b byte) *byte { return &b }

func TestClassifyDescriptorHintTakesPrecedence(t *testing.T) {
	desc := &hiddescriptor.HidDescriptor{HasMouse: true, MouseReportID: reportID(9)}
	// Payload shape would otherwise infer keyboard (8 bytes total with the
	// report id byte included), but the descriptor says report id 9 is mouse.
	payload := []byte{9, 0x01, 0xfe, 0x02, 0x00}
	r, err := Classify(payload, desc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, ok := r.(hidreport.MouseReport)
	if !ok {
		t.Fatalf("expected MouseReport, got %T", r)
	}
	if m.Buttons != 0x01 || m.X != -2 {
		t.Fatalf("unexpected mouse report: %+v", m)
	}
}

func TestClassifyLengthInference(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		kind hidreport.Kind
	}{
		{"8 bytes -> keyboard", make([]byte, 8), hidreport.KindKeyboard},
		{"3 bytes -> mouse", make([]byte, 3), hidreport.KindMouse},
		{"4 bytes -> mouse", make([]byte, 4), hidreport.KindMouse},
		{"2 bytes in range -> consumer", []byte{0xB5, 0x00}, hidreport.KindConsumer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := Classify(tc.in, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Kind() != tc.kind {
				t.Fatalf("got kind %v, want %v", r.Kind(), tc.kind)
			}
		})
	}
}

func TestClassifyTwoByteZeroUsageFallsThroughToFixedMap(t *testing.T) {
	// usage == 0 fails the (0, 0x1000) range check, so length inference
	// skips consumer classification and the fixed byte[0] map takes over.
	// byte[0] == 0 matches none of the fixed report ids, so this drops.
	_, err := Classify([]byte{0x00, 0x00}, nil)
	if err != ErrUnclassifiable {
		t.Fatalf("expected ErrUnclassifiable, got %v", err)
	}
}

func TestClassifyFixedReportIDMap(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		kind hidreport.Kind
	}{
		// Lengths are chosen to avoid colliding with the length-directed
		// inference step, which runs first and would otherwise claim them.
		{"report id 1 -> keyboard", append([]byte{1}, make([]byte, 8)...), hidreport.KindKeyboard},
		{"report id 2 -> mouse", []byte{2, 0x01, 0x02, 0x03, 0x00}, hidreport.KindMouse},
		{"report id 3 -> consumer", []byte{3, 0xB5, 0x00, 0x00, 0x00}, hidreport.KindConsumer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := Classify(tc.in, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Kind() != tc.kind {
				t.Fatalf("got kind %v, want %v", r.Kind(), tc.kind)
			}
		})
	}
}

func TestClassifyDropsUnrecognizable(t *testing.T) {
	_, err := Classify([]byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE}, nil)
	if err != ErrUnclassifiable {
		t.Fatalf("expected ErrUnclassifiable, got %v", err)
	}
}
