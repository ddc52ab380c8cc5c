// SPDX-License-Identifier: BSD-3-Clause

// Package hidreport parses and serializes the three canonical USB HID
// input reports the bridge forwards to the host: keyboard, mouse, and
// consumer control. Every report has a fixed wire width; parsing never
// allocates and serializing always writes into a caller-provided buffer.
package hidreport
