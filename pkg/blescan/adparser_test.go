// SPDX-License-Identifier: BSD-3-Clause

package blescan

import "testing"

func adStruct(typ byte, payload ...byte) []byte {
	return append([]byte{byte(1 + len(payload)), typ}, payload...)
}

func concat(elements ...[]byte) []byte {
	var out []byte
	for _, e := range elements {
		out = append(out, e...)
	}
	return out
}

func TestContainsHIDServiceUUIDCompleteList(t *testing.T) {
	data := adStruct(adTypeComplete16BitUUIDs, 0x12, 0x18) // 0x1812 little-endian
	if !ContainsHIDServiceUUID(data) {
		t.Fatal("expected HID service UUID to be found")
	}
}

func TestContainsHIDServiceUUIDIncompleteList(t *testing.T) {
	data := adStruct(adTypeIncomplete16BitUUIDs, 0x0F, 0x18, 0x12, 0x18)
	if !ContainsHIDServiceUUID(data) {
		t.Fatal("expected HID service UUID to be found in incomplete list")
	}
}

func TestContainsHIDServiceUUIDAbsent(t *testing.T) {
	data := adStruct(adTypeComplete16BitUUIDs, 0x0F, 0x18)
	if ContainsHIDServiceUUID(data) {
		t.Fatal("expected no HID service UUID")
	}
}

func TestContainsHIDServiceUUIDMalformedZeroLength(t *testing.T) {
	data := []byte{0x00, 0xAA, 0xBB}
	if ContainsHIDServiceUUID(data) {
		t.Fatal("expected malformed (zero-length) AD data to report no match")
	}
}

func TestContainsHIDServiceUUIDTruncated(t *testing.T) {
	data := []byte{0x05, adTypeComplete16BitUUIDs, 0x12, 0x18} // claims 5 bytes, only has 3
	if ContainsHIDServiceUUID(data) {
		t.Fatal("expected truncated AD data to not panic and report no match")
	}
}

func TestExtractDeviceNameComplete(t *testing.T) {
	data := adStruct(adTypeCompleteLocalName, []byte("Keyboard")...)
	if got := ExtractDeviceName(data); got != "Keyboard" {
		t.Fatalf("got %q, want %q", got, "Keyboard")
	}
}

func TestExtractDeviceNameShortenedFallback(t *testing.T) {
	data := adStruct(adTypeShortenedLocalName, []byte("Mouse")...)
	if got := ExtractDeviceName(data); got != "Mouse" {
		t.Fatalf("got %q, want %q", got, "Mouse")
	}
}

func TestExtractDeviceNameCompletePreferredOverShortened(t *testing.T) {
	data := concat(
		adStruct(adTypeShortenedLocalName, []byte("Short")...),
		adStruct(adTypeCompleteLocalName, []byte("FullName")...),
	)
	if got := ExtractDeviceName(data); got != "FullName" {
		t.Fatalf("got %q, want %q", got, "FullName")
	}
}

func TestExtractDeviceNameAbsent(t *testing.T) {
	data := adStruct(adTypeComplete16BitUUIDs, 0x12, 0x18)
	if got := ExtractDeviceName(data); got != "Unknown" {
		t.Fatalf("got %q, want %q", got, "Unknown")
	}
}

func TestExtractDeviceNameTruncatedTo32(t *testing.T) {
	longName := make([]byte, 40)
	for i := range longName {
		longName[i] = 'a'
	}
	data := adStruct(adTypeCompleteLocalName, longName...)
	got := ExtractDeviceName(data)
	if len(got) != maxNameLen {
		t.Fatalf("got length %d, want %d", len(got), maxNameLen)
	}
}
