// SPDX-License-Identifier: BSD-3-Clause

package bondstore

import (
	"fmt"
	"sync"

	"github.com/chefzaid/bt2usb/pkg/blecentral"
)

// MaxPairedDevices bounds how many devices the store keeps live at once.
// Exceeding it evicts the least-recently-touched entry.
const MaxPairedDevices = 4

// Store is the in-memory, flash-backed set of paired devices and bonds.
// Devices are kept ordered most-recent-first: insertion order doubles as
// recency, so touching a device (Add on an address already present)
// moves it back to the front without needing a wall-clock timestamp.
//
// Store is safe for concurrent use.
type Store struct {
	pager      FlashPager
	maxDevices int

	mu      sync.Mutex
	devices []PairedDevice
	bonds   []BondRecord
	dirty   bool
}

// Open loads a Store from pager, tolerating an empty/never-written log.
func Open(pager FlashPager, maxDevices int) (*Store, error) {
	if maxDevices <= 0 {
		maxDevices = MaxPairedDevices
	}
	s := &Store{pager: pager, maxDevices: maxDevices}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	var blob []byte
	for idx := 0; idx < PageCount; idx++ {
		page, err := s.pager.ReadPage(idx)
		if err != nil {
			return fmt.Errorf("bondstore: read page %d: %w", idx, err)
		}
		blob = append(blob, page...)
	}
	devices, bonds, err := decodeLog(blob)
	if err != nil {
		return err
	}
	s.devices = devices
	s.bonds = bonds
	return nil
}

// Flush persists the current state if it has changed since the last
// Flush, chunking the encoded log across the reserved page range.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}

	blob, err := encodeLog(s.devices, s.bonds)
	if err != nil {
		return err
	}

	pageSize := (len(blob) + PageCount - 1) / PageCount
	if pageSize == 0 {
		pageSize = 1
	}
	for idx := 0; idx < PageCount; idx++ {
		start := idx * pageSize
		if start >= len(blob) {
			if err := s.pager.ErasePage(idx); err != nil {
				return fmt.Errorf("bondstore: erase page %d: %w", idx, err)
			}
			continue
		}
		end := start + pageSize
		if end > len(blob) {
			end = len(blob)
		}
		if err := s.pager.WritePage(idx, blob[start:end]); err != nil {
			return fmt.Errorf("bondstore: write page %d: %w", idx, err)
		}
	}

	s.dirty = false
	return nil
}

// Add records a device, or moves it to the front if already present.
// Overflowing maxDevices evicts the least-recently-touched entry.
func (s *Store) Add(d PairedDevice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.devices {
		if existing.Address.Equal(d.Address) {
			s.devices = append(s.devices[:i], s.devices[i+1:]...)
			break
		}
	}
	s.devices = append([]PairedDevice{d}, s.devices...)
	if len(s.devices) > s.maxDevices {
		s.devices = s.devices[:s.maxDevices]
	}
	s.dirty = true
}

// First returns the most recently touched paired device, if any.
func (s *Store) First() (PairedDevice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.devices) == 0 {
		return PairedDevice{}, false
	}
	return s.devices[0], true
}

// Lookup finds a paired device by address.
func (s *Store) Lookup(addr blecentral.Address) (PairedDevice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.devices {
		if d.Address.Equal(addr) {
			return d, true
		}
	}
	return PairedDevice{}, false
}

// Remove drops a paired device and any bond recorded against it.
func (s *Store) Remove(addr blecentral.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.devices {
		if d.Address.Equal(addr) {
			s.devices = append(s.devices[:i], s.devices[i+1:]...)
			s.dirty = true
			break
		}
	}
	for i, b := range s.bonds {
		if b.Address.Equal(addr) {
			s.bonds = append(s.bonds[:i], s.bonds[i+1:]...)
			s.dirty = true
			break
		}
	}
}

// PutBond records or replaces the bond associated with addr.
func (s *Store) PutBond(b blecentral.Bond, addr blecentral.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.bonds {
		if existing.Address.Equal(addr) {
			s.bonds[i] = BondRecord{Bond: b, Address: addr}
			s.dirty = true
			return
		}
	}
	s.bonds = append(s.bonds, BondRecord{Bond: b, Address: addr})
	s.dirty = true
}

// BondByAddress returns the bond recorded against addr, if any.
func (s *Store) BondByAddress(addr blecentral.Address) (blecentral.Bond, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bonds {
		if b.Address.Equal(addr) {
			return b.Bond, true
		}
	}
	return blecentral.Bond{}, false
}

// Devices returns a snapshot of paired devices, most recent first.
func (s *Store) Devices() []PairedDevice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PairedDevice, len(s.devices))
	copy(out, s.devices)
	return out
}
