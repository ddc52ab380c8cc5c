// SPDX-License-Identifier: BSD-3-Clause

package hidreport

import "testing"

func TestParseKeyboardReport(t *testing.T) {
	cases := []struct {
		name    string
		in      []byte
		wantErr bool
	}{
		{"exact length", []byte{0x02, 0x00, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00}, false},
		{"longer than needed", []byte{0x02, 0x00, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0xff}, false},
		{"too short", []byte{0x02, 0x00, 0x04}, true},
		{"empty", nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := ParseKeyboardReport(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got report %+v", r)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Modifier != 0x02 || r.Keycodes[0] != 0x04 {
				t.Fatalf("unexpected report: %+v", r)
			}
		})
	}
}

func TestKeyboardReportRoundTrip(t *testing.T) {
	r := KeyboardReport{Modifier: 0x11, Keycodes: [6]byte{0x04, 0x05, 0, 0, 0, 0}}
	buf := make([]byte, 8)
	n, err := r.Serialize(buf)
	if err != nil || n != 8 {
		t.Fatalf("serialize failed: n=%d err=%v", n, err)
	}
	got, err := ParseKeyboardReport(buf)
	if err != nil || got != r {
		t.Fatalf("round trip mismatch: got %+v want %+v (err=%v)", got, r, err)
	}
}

func TestKeyboardReportSerializeShortBuffer(t *testing.T) {
	r := KeyboardReport{}
	if n, err := r.Serialize(make([]byte, 4)); err != ErrBufferTooSmall || n != 0 {
		t.Fatalf("expected ErrBufferTooSmall, got n=%d err=%v", n, err)
	}
}

func TestParseMouseReport(t *testing.T) {
	t.Run("3 byte defaults wheel to zero", func(t *testing.T) {
		r, err := ParseMouseReport([]byte{0x01, 0xfe, 0x02})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Buttons != 0x01 || r.X != -2 || r.Y != 2 || r.Wheel != 0 {
			t.Fatalf("unexpected report: %+v", r)
		}
	})

	t.Run("4 byte carries wheel", func(t *testing.T) {
		r, err := ParseMouseReport([]byte{0x00, 0x00, 0x00, 0xff})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Wheel != -1 {
			t.Fatalf("expected wheel -1, got %d", r.Wheel)
		}
	})

	t.Run("too short", func(t *testing.T) {
		if _, err := ParseMouseReport([]byte{0x00, 0x00}); err != ErrShortInput {
			t.Fatalf("expected ErrShortInput, got %v", err)
		}
	})
}

func TestParseConsumerReport(t *testing.T) {
	r, err := ParseConsumerReport([]byte{0xB5, 0x00})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Usage != 0x00B5 {
		t.Fatalf("expected usage 0x00B5, got 0x%04X", r.Usage)
	}

	if _, err := ParseConsumerReport([]byte{0x01}); err != ErrShortInput {
		t.Fatalf("expected ErrShortInput, got %v", err)
	}
}

func TestReportInterfaceSatisfaction(t *testing.T) {
	var reports = []Report{
		KeyboardReport{},
		MouseReport{},
		ConsumerReport{},
	}
	want := []Kind{KindKeyboard, KindMouse, KindConsumer}
	for i, r := range reports {
		if r.Kind() != want[i] {
			t.Fatalf("report %d: got kind %v, want %v", i, r.Kind(), want[i])
		}
	}
}
