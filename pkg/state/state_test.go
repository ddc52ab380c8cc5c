// SPDX-License-Identifier: BSD-3-Clause

package state

import (
	"context"
	"testing"
)

func newTestConfig() *Config {
	return NewConfig(
		WithName("test"),
		WithInitialState("idle"),
		WithStates(
			StateDefinition{Name: "idle"},
			StateDefinition{Name: "running"},
			StateDefinition{Name: "done"},
		),
		WithTransition("idle", "running", "start"),
		WithTransition("running", "done", "finish"),
	)
}

func TestFireTransitionsState(t *testing.T) {
	sm, err := New(newTestConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	if err := sm.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := sm.Fire(ctx, "start", nil); err != nil {
		t.Fatalf("Fire(start): %v", err)
	}
	if !sm.IsInState("running") {
		t.Fatalf("CurrentState() = %s, want running", sm.CurrentState())
	}
}

func TestFireRejectsInvalidTrigger(t *testing.T) {
	sm, _ := New(newTestConfig())
	ctx := context.Background()
	sm.Start(ctx)

	if err := sm.Fire(ctx, "finish", nil); err == nil {
		t.Fatal("expected Fire(finish) from idle to fail")
	}
}

func TestFireBeforeStartFails(t *testing.T) {
	sm, _ := New(newTestConfig())
	if err := sm.Fire(context.Background(), "start", nil); err == nil {
		t.Fatal("expected Fire before Start to fail")
	}
}

func TestGuardedTransitionBlocksWhenFalse(t *testing.T) {
	config := NewConfig(
		WithName("guarded"),
		WithInitialState("idle"),
		WithStates(StateDefinition{Name: "idle"}, StateDefinition{Name: "running"}),
		WithGuardedTransition("idle", "running", "start", func(ctx context.Context) bool { return false }),
	)
	sm, _ := New(config)
	ctx := context.Background()
	sm.Start(ctx)

	if err := sm.Fire(ctx, "start", nil); err == nil {
		t.Fatal("expected guarded transition to be blocked")
	}
}

func TestActionRunsOnTransition(t *testing.T) {
	var ran bool
	config := NewConfig(
		WithName("actioned"),
		WithInitialState("idle"),
		WithStates(StateDefinition{Name: "idle"}, StateDefinition{Name: "running"}),
		WithActionTransition("idle", "running", "start", func(ctx context.Context, from, to string) error {
			ran = true
			return nil
		}),
	)
	sm, _ := New(config)
	ctx := context.Background()
	sm.Start(ctx)

	if err := sm.Fire(ctx, "start", nil); err != nil {
		t.Fatalf("Fire: %v", err)
	}
	if !ran {
		t.Fatal("expected transition action to run")
	}
}

func TestPersistenceCallbackInvoked(t *testing.T) {
	config := newTestConfig()
	config.PersistState = true
	sm, _ := New(config)
	var persisted []string
	sm.SetPersistenceCallback(func(name, s string) error {
		persisted = append(persisted, s)
		return nil
	})

	ctx := context.Background()
	sm.Start(ctx)
	sm.Fire(ctx, "start", nil)

	if len(persisted) < 2 || persisted[len(persisted)-1] != "running" {
		t.Fatalf("persisted = %v, want to end with running", persisted)
	}
}

func TestManagerAddAndGet(t *testing.T) {
	sm, _ := New(newTestConfig())
	mgr := NewManager()
	if err := mgr.AddStateMachine(sm); err != nil {
		t.Fatalf("AddStateMachine: %v", err)
	}
	got, err := mgr.GetStateMachine("test")
	if err != nil || got != sm {
		t.Fatalf("GetStateMachine() = %v, %v", got, err)
	}
	if err := mgr.AddStateMachine(sm); err == nil {
		t.Fatal("expected duplicate AddStateMachine to fail")
	}
}
