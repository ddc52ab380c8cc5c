// SPDX-License-Identifier: BSD-3-Clause

// Package slotworker drives one connection slot through its lifecycle:
// Idle, Connecting, Securing, Discovering, Streaming, and back to Idle on
// disconnect or into Error on failure. It is not a top-level service —
// exactly two workers exist, both owned and started by service/coordinator
// over per-slot buffered command and event channels.
package slotworker
