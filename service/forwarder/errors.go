// SPDX-License-Identifier: BSD-3-Clause

package forwarder

import "errors"

// ErrInvalidConfiguration is returned by New when a required
// collaborator is missing.
var ErrInvalidConfiguration = errors.New("forwarder: invalid configuration")
