// SPDX-License-Identifier: BSD-3-Clause

package bondstore

import (
	"testing"

	"github.com/chefzaid/bt2usb/pkg/blecentral"
)

type memPager struct {
	pages [][]byte
}

func newMemPager() *memPager {
	return &memPager{pages: make([][]byte, PageCount)}
}

func (p *memPager) ReadPage(idx int) ([]byte, error) {
	return p.pages[idx], nil
}

func (p *memPager) WritePage(idx int, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	p.pages[idx] = cp
	return nil
}

func (p *memPager) ErasePage(idx int) error {
	p.pages[idx] = nil
	return nil
}

func addr(b byte) blecentral.Address {
	return blecentral.Address{Bytes: [6]byte{b, 1, 2, 3, 4, 5}, Type: blecentral.AddressPublic}
}

func TestStoreAddAndFirst(t *testing.T) {
	s, err := Open(newMemPager(), MaxPairedDevices)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := s.First(); ok {
		t.Fatal("expected empty store to have no First()")
	}

	s.Add(PairedDevice{Address: addr(1), Name: "kbd", RSSI: -40})
	s.Add(PairedDevice{Address: addr(2), Name: "mouse", RSSI: -50})

	first, ok := s.First()
	if !ok || !first.Address.Equal(addr(2)) {
		t.Fatalf("First() = %+v, want addr(2)", first)
	}
}

func TestStoreTouchMovesToFront(t *testing.T) {
	s, _ := Open(newMemPager(), MaxPairedDevices)
	s.Add(PairedDevice{Address: addr(1), Name: "a"})
	s.Add(PairedDevice{Address: addr(2), Name: "b"})
	s.Add(PairedDevice{Address: addr(1), Name: "a"})

	first, _ := s.First()
	if !first.Address.Equal(addr(1)) {
		t.Fatalf("expected re-added device to be most recent, got %+v", first)
	}
	if len(s.Devices()) != 2 {
		t.Fatalf("expected no duplicate entry, got %d devices", len(s.Devices()))
	}
}

func TestStoreEvictsOldestOnOverflow(t *testing.T) {
	s, _ := Open(newMemPager(), 2)
	s.Add(PairedDevice{Address: addr(1)})
	s.Add(PairedDevice{Address: addr(2)})
	s.Add(PairedDevice{Address: addr(3)})

	if _, ok := s.Lookup(addr(1)); ok {
		t.Fatal("expected oldest device to be evicted")
	}
	if _, ok := s.Lookup(addr(3)); !ok {
		t.Fatal("expected newest device to remain")
	}
	if len(s.Devices()) != 2 {
		t.Fatalf("expected store capped at 2, got %d", len(s.Devices()))
	}
}

func TestStoreRemove(t *testing.T) {
	s, _ := Open(newMemPager(), MaxPairedDevices)
	s.Add(PairedDevice{Address: addr(1)})
	s.PutBond(blecentral.Bond{MasterID: 42}, addr(1))

	s.Remove(addr(1))

	if _, ok := s.Lookup(addr(1)); ok {
		t.Fatal("expected device to be removed")
	}
	if _, ok := s.BondByAddress(addr(1)); ok {
		t.Fatal("expected bond to be removed alongside device")
	}
}

func TestStoreFlushAndReload(t *testing.T) {
	pager := newMemPager()
	s, _ := Open(pager, MaxPairedDevices)
	s.Add(PairedDevice{Address: addr(1), Name: "keyboard", RSSI: -55})
	s.Add(PairedDevice{Address: addr(2), Name: "mouse", RSSI: -60})
	s.PutBond(blecentral.Bond{MasterID: 7, EncryptionKey: [16]byte{1, 2, 3}}, addr(1))

	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	reloaded, err := Open(pager, MaxPairedDevices)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}

	first, ok := reloaded.First()
	if !ok || !first.Address.Equal(addr(2)) || first.Name != "mouse" || first.RSSI != -60 {
		t.Fatalf("First() after reload = %+v", first)
	}

	bond, ok := reloaded.BondByAddress(addr(1))
	if !ok || bond.MasterID != 7 || bond.EncryptionKey[2] != 3 {
		t.Fatalf("BondByAddress after reload = %+v", bond)
	}
}

func TestStoreFlushSkipsWhenNotDirty(t *testing.T) {
	pager := newMemPager()
	s, _ := Open(pager, MaxPairedDevices)
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush on clean store: %v", err)
	}
	for _, p := range pager.pages {
		if p != nil {
			t.Fatal("expected no pages written for a clean store")
		}
	}
}

func TestStoreNameTooLong(t *testing.T) {
	pager := newMemPager()
	s, _ := Open(pager, MaxPairedDevices)
	longName := make([]byte, maxStoredNameLen+1)
	for i := range longName {
		longName[i] = 'x'
	}
	s.Add(PairedDevice{Address: addr(1), Name: string(longName)})

	if err := s.Flush(); err == nil {
		t.Fatal("expected Flush to reject an oversized name")
	}
}
