// SPDX-License-Identifier: BSD-3-Clause

package bondstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chefzaid/bt2usb/pkg/file"
)

const (
	// FirstPage and LastPage bound the reserved flash range, inclusive.
	FirstPage = 240
	LastPage  = 243

	// PageCount is the number of reserved pages.
	PageCount = LastPage - FirstPage + 1
)

// FlashPager is the flash peripheral access layer the bond store
// consumes. Pages are addressed 0..PageCount-1, already offset from the
// reserved range by the caller.
type FlashPager interface {
	ReadPage(idx int) ([]byte, error)
	WritePage(idx int, data []byte) error
	ErasePage(idx int) error
}

// FilePager is a software FlashPager: one regular file per reserved
// page, written with the same atomic temp-file-then-rename sequence used
// elsewhere in this tree for durable config writes. It stands in for the
// real flash peripheral on hosts without one.
type FilePager struct {
	dir string
}

// NewFilePager returns a FilePager rooted at dir, creating it if needed.
func NewFilePager(dir string) (*FilePager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("bondstore: create page directory: %w", err)
	}
	return &FilePager{dir: dir}, nil
}

func (p *FilePager) pagePath(idx int) string {
	return filepath.Join(p.dir, fmt.Sprintf("page%d.bin", idx))
}

func (p *FilePager) ReadPage(idx int) ([]byte, error) {
	data, err := os.ReadFile(p.pagePath(idx))
	if os.IsNotExist(err) {
		return nil, nil
	}
	return data, err
}

func (p *FilePager) WritePage(idx int, data []byte) error {
	return file.AtomicUpdateFile(p.pagePath(idx), data, 0o644)
}

func (p *FilePager) ErasePage(idx int) error {
	return file.AtomicUpdateFile(p.pagePath(idx), nil, 0o644)
}
