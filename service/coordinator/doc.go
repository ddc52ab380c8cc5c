// SPDX-License-Identifier: BSD-3-Clause

// Package coordinator implements the connection coordinator: a single
// event loop owning the two static connection slots, accepting scan and
// connect/disconnect commands from the UI over this tree's in-process
// NATS transport and re-publishing slot lifecycle events the same way.
package coordinator
