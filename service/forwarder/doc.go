// SPDX-License-Identifier: BSD-3-Clause

// Package forwarder implements the report forwarder: the single writer
// goroutine that drains the shared report channel every slot worker's
// notification loop feeds and serializes each report onto the matching
// USB HID gadget endpoint. It guarantees FIFO order per slot but makes
// no cross-slot ordering promise.
package forwarder
