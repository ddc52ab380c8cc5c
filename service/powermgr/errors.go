// SPDX-License-Identifier: BSD-3-Clause

package powermgr

import "errors"

// ErrInvalidConfiguration is returned by New when a required
// collaborator is missing or a duration is non-positive.
var ErrInvalidConfiguration = errors.New("powermgr: invalid configuration")
