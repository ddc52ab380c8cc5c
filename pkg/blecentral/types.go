// SPDX-License-Identifier: BSD-3-Clause

package blecentral

import "fmt"

// AddressType is the closed set of BLE device address kinds.
type AddressType int

const (
	AddressPublic AddressType = iota
	AddressRandomStatic
	AddressRandomPrivateResolvable
	AddressRandomPrivateNonResolvable
	AddressAnonymous
)

func (t AddressType) String() string {
	switch t {
	case AddressPublic:
		return "public"
	case AddressRandomStatic:
		return "random-static"
	case AddressRandomPrivateResolvable:
		return "random-private-resolvable"
	case AddressRandomPrivateNonResolvable:
		return "random-private-nonresolvable"
	case AddressAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Address identifies a BLE device: 6 address bytes plus the address type
// that disambiguates otherwise-identical byte patterns (e.g. a resolvable
// private address colliding with a public one is not the same device).
type Address struct {
	Bytes [6]byte
	Type  AddressType
}

func (a Address) Equal(other Address) bool {
	return a.Type == other.Type && a.Bytes == other.Bytes
}

func (a Address) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X/%s",
		a.Bytes[0], a.Bytes[1], a.Bytes[2], a.Bytes[3], a.Bytes[4], a.Bytes[5], a.Type)
}

// AdvertisingReport is one GAP advertising or scan-response packet seen
// during a scan window.
type AdvertisingReport struct {
	Address Address
	RSSI    int8
	// Data holds the raw AD structures (len|type|payload TLVs), unparsed;
	// pkg/blescan is responsible for interpreting them.
	Data []byte
}

// HOGP well-known 16-bit UUIDs.
const (
	UUIDHIDService        uint16 = 0x1812
	UUIDReportMap         uint16 = 0x2A4B
	UUIDProtocolMode      uint16 = 0x2A4E
	UUIDReport            uint16 = 0x2A4D
	UUIDClientCharConfig  uint16 = 0x2902
)

// ProtocolMode values for the HID Protocol Mode characteristic.
const (
	ProtocolModeBoot   byte = 0x00
	ProtocolModeReport byte = 0x01
)

// Bond is the opaque link-layer security material produced by a
// successful pairing.
type Bond struct {
	MasterID        uint64
	EncryptionKey   [16]byte
	PeerIdentityKey [16]byte
}
