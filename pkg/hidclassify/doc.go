// SPDX-License-Identifier: BSD-3-Clause

// Package hidclassify maps an inbound BLE HID notification payload to one
// of the three canonical reports in pkg/hidreport, using an optional
// descriptor hint from pkg/hiddescriptor when the payload's report ID is
// ambiguous on its own.
package hidclassify
