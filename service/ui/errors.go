// SPDX-License-Identifier: BSD-3-Clause

package ui

import "errors"

// ErrInvalidConfiguration indicates a required collaborator is missing.
var ErrInvalidConfiguration = errors.New("ui: invalid configuration")
