// SPDX-License-Identifier: BSD-3-Clause

package hiddescriptor

import "errors"

// ErrTruncated indicates an item's prefix claimed more data bytes than
// remain in the descriptor.
var ErrTruncated = errors.New("hid descriptor: truncated item")
