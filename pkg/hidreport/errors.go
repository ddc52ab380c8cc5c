// SPDX-License-Identifier: BSD-3-Clause

package hidreport

import "errors"

var (
	// ErrShortInput indicates a payload was too short to contain the report it claims to be.
	ErrShortInput = errors.New("hid report: short input")

	// ErrBufferTooSmall indicates a serialization target buffer cannot hold the report.
	ErrBufferTooSmall = errors.New("hid report: buffer too small")
)
