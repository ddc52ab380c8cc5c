// SPDX-License-Identifier: BSD-3-Clause

package bondstore

import (
	"encoding/binary"
	"fmt"

	"github.com/chefzaid/bt2usb/pkg/blecentral"
)

// PairedDevice is a persisted BLE peripheral the dongle has previously
// connected to.
type PairedDevice struct {
	Address blecentral.Address
	Name    string
	RSSI    int8
}

// BondRecord ties a Bond to the address it was negotiated with.
type BondRecord struct {
	Bond    blecentral.Bond
	Address blecentral.Address
}

const logMagic = "BTPD"
const logVersion = 1

// encodeLog serializes every paired device and bond into one blob. The
// on-flash byte layout for a single PairedDevice entry is
// addr[6]|addr_type[1]|rssi[1]|name_len[1]|name[name_len], matching the
// format the desktop prototype this system was distilled from used, so
// a store written by either can be read by the other.
func encodeLog(devices []PairedDevice, bonds []BondRecord) ([]byte, error) {
	buf := make([]byte, 0, 256)
	buf = append(buf, logMagic...)
	buf = binary.LittleEndian.AppendUint16(buf, logVersion)

	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(devices)))
	for _, d := range devices {
		if len(d.Name) > maxStoredNameLen {
			return nil, ErrNameTooLong
		}
		buf = append(buf, d.Address.Bytes[:]...)
		buf = append(buf, byte(d.Address.Type))
		buf = append(buf, byte(d.RSSI))
		buf = append(buf, byte(len(d.Name)))
		buf = append(buf, d.Name...)
	}

	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(bonds)))
	for _, b := range bonds {
		buf = binary.LittleEndian.AppendUint64(buf, b.Bond.MasterID)
		buf = append(buf, b.Bond.EncryptionKey[:]...)
		buf = append(buf, b.Bond.PeerIdentityKey[:]...)
		buf = append(buf, b.Address.Bytes[:]...)
		buf = append(buf, byte(b.Address.Type))
	}

	return buf, nil
}

const maxStoredNameLen = 32

func decodeLog(data []byte) ([]PairedDevice, []BondRecord, error) {
	if len(data) < len(logMagic)+2 {
		return nil, nil, nil // empty/uninitialized store, not corrupt
	}
	if string(data[:len(logMagic)]) != logMagic {
		return nil, nil, fmt.Errorf("%w: bad magic", ErrCorruptLog)
	}
	i := len(logMagic)
	version := binary.LittleEndian.Uint16(data[i:])
	i += 2
	if version != logVersion {
		return nil, nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptLog, version)
	}

	readU16 := func() (uint16, error) {
		if i+2 > len(data) {
			return 0, fmt.Errorf("%w: truncated", ErrCorruptLog)
		}
		v := binary.LittleEndian.Uint16(data[i:])
		i += 2
		return v, nil
	}

	deviceCount, err := readU16()
	if err != nil {
		return nil, nil, err
	}

	devices := make([]PairedDevice, 0, deviceCount)
	for n := uint16(0); n < deviceCount; n++ {
		if i+9 > len(data) {
			return nil, nil, fmt.Errorf("%w: truncated device record", ErrCorruptLog)
		}
		var d PairedDevice
		copy(d.Address.Bytes[:], data[i:i+6])
		d.Address.Type = blecentral.AddressType(data[i+6])
		d.RSSI = int8(data[i+7])
		nameLen := int(data[i+8])
		i += 9
		if i+nameLen > len(data) {
			return nil, nil, fmt.Errorf("%w: truncated device name", ErrCorruptLog)
		}
		d.Name = string(data[i : i+nameLen])
		i += nameLen
		devices = append(devices, d)
	}

	bondCount, err := readU16()
	if err != nil {
		return nil, nil, err
	}

	bonds := make([]BondRecord, 0, bondCount)
	for n := uint16(0); n < bondCount; n++ {
		if i+8+16+16+6+1 > len(data) {
			return nil, nil, fmt.Errorf("%w: truncated bond record", ErrCorruptLog)
		}
		var b BondRecord
		b.Bond.MasterID = binary.LittleEndian.Uint64(data[i:])
		i += 8
		copy(b.Bond.EncryptionKey[:], data[i:i+16])
		i += 16
		copy(b.Bond.PeerIdentityKey[:], data[i:i+16])
		i += 16
		copy(b.Address.Bytes[:], data[i:i+6])
		i += 6
		b.Address.Type = blecentral.AddressType(data[i])
		i++
		bonds = append(bonds, b)
	}

	return devices, bonds, nil
}
