// SPDX-License-Identifier: BSD-3-Clause

// Package state wraps github.com/qmuntal/stateless with a persistence
// hook, a broadcast hook, and optional OpenTelemetry tracing around each
// transition, matching the shape every actor in this tree configures its
// finite state machine with.
//
// # Basic usage
//
//	config := state.NewConfig(
//		state.WithName("slot-0"),
//		state.WithInitialState("idle"),
//		state.WithStates(
//			state.StateDefinition{Name: "idle"},
//			state.StateDefinition{Name: "connecting"},
//		),
//		state.WithTransition("idle", "connecting", "connect"),
//	)
//
//	sm, err := state.New(config)
//	if err != nil {
//		return err
//	}
//	if err := sm.Start(ctx); err != nil {
//		return err
//	}
//	if err := sm.Fire(ctx, "connect", nil); err != nil {
//		return err
//	}
//
// Persistence and broadcast callbacks must be set with
// SetPersistenceCallback/SetBroadcastCallback before Start; state changes
// after that point invoke them synchronously from Fire.
package state
