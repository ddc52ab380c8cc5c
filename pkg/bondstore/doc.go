// SPDX-License-Identifier: BSD-3-Clause

// Package bondstore persists paired BLE devices and their link-layer
// bonds to a flash-backed, append-only log bounded to a fixed number of
// live devices, evicting the least-recently-touched entry on overflow.
//
// Real wear-levelling flash access is an out-of-scope external
// collaborator (see FlashPager); this package owns only the log format,
// the eviction policy, and the dirty-flag-gated flush.
package bondstore
