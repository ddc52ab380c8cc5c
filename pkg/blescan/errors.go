// SPDX-License-Identifier: BSD-3-Clause

package blescan

import "errors"

// ErrScanFailed indicates the underlying central returned an error other
// than context cancellation/deadline during a scan window.
var ErrScanFailed = errors.New("blescan: scan failed")
