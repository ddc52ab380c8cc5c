// SPDX-License-Identifier: BSD-3-Clause

package bondstore

import "errors"

var (
	// ErrNotFound indicates no paired device or bond matches the lookup key.
	ErrNotFound = errors.New("bondstore: not found")

	// ErrCorruptLog indicates the on-flash log could not be decoded.
	ErrCorruptLog = errors.New("bondstore: corrupt log")

	// ErrNameTooLong indicates a device name exceeds the 32-byte field width.
	ErrNameTooLong = errors.New("bondstore: name too long")
)
