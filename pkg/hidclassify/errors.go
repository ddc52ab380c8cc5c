// SPDX-License-Identifier: BSD-3-Clause

package hidclassify

import "errors"

// ErrUnclassifiable indicates a notification could not be mapped to any
// canonical report by descriptor hint, length, or fixed report-ID map.
var ErrUnclassifiable = errors.New("hid classify: unable to classify notification")
