package oscontext

import (
	"context"
	"errors"
	"testing"

	"github.com/crossrun/crossrun/internal/android"
	"github.com/crossrun/crossrun/internal/config"
)

type fakeSession struct {
	serial      string
	teardowns   int
	teardownErr error
}

func (f *fakeSession) Serial() string { return f.serial }

func (f *fakeSession) Push(context.Context, string, string) error { return nil }

func (f *fakeSession) Shell(context.Context, ...string) (string, error) { return "", nil }

func (f *fakeSession) TearDown() error {
	f.teardowns++
	return f.teardownErr
}

func newTestAndroid(session *fakeSession) *AndroidContext {
	c := NewAndroid()
	c.newSession = func(device string) (android.Session, error) {
		return session, nil
	}
	return c
}

func TestScopeTearsDownOnSuccess(t *testing.T) {
	session := &fakeSession{serial: "emulator-5554"}
	c := newTestAndroid(session)

	err := runScope(c, &config.Options{Device: "emulator-5554"}, func(Context) error { return nil })
	if err != nil {
		t.Fatalf("scope: %v", err)
	}
	if session.teardowns != 1 {
		t.Fatalf("teardowns = %d, want 1", session.teardowns)
	}
}

func TestScopeTearsDownWhenEnclosedWorkFails(t *testing.T) {
	session := &fakeSession{}
	c := newTestAndroid(session)

	workErr := errors.New("test run failed")
	err := runScope(c, &config.Options{}, func(Context) error { return workErr })
	if !errors.Is(err, workErr) {
		t.Fatalf("expected enclosed error to propagate, got %v", err)
	}
	if session.teardowns != 1 {
		t.Fatalf("teardowns = %d, want 1", session.teardowns)
	}
}

func TestScopeTearsDownOnPanic(t *testing.T) {
	session := &fakeSession{}
	c := newTestAndroid(session)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic to propagate")
			}
		}()
		_ = runScope(c, &config.Options{}, func(Context) error {
			panic("boom")
		})
	}()

	if session.teardowns != 1 {
		t.Fatalf("teardowns = %d, want 1", session.teardowns)
	}
}

func TestScopeJoinsTeardownErrorOntoWorkError(t *testing.T) {
	teardownErr := errors.New("device went away")
	session := &fakeSession{teardownErr: teardownErr}
	c := newTestAndroid(session)

	workErr := errors.New("test run failed")
	err := runScope(c, &config.Options{}, func(Context) error { return workErr })
	if !errors.Is(err, workErr) {
		t.Fatalf("teardown error masked the enclosed failure: %v", err)
	}
	if !errors.Is(err, teardownErr) {
		t.Fatalf("teardown error missing from result: %v", err)
	}
}

func TestScopeReturnsTeardownErrorAlone(t *testing.T) {
	teardownErr := errors.New("device went away")
	session := &fakeSession{teardownErr: teardownErr}
	c := newTestAndroid(session)

	err := runScope(c, &config.Options{}, func(Context) error { return nil })
	if !errors.Is(err, teardownErr) {
		t.Fatalf("expected teardown error, got %v", err)
	}
}

func TestScopeInstallsSessionIntoStrategy(t *testing.T) {
	session := &fakeSession{serial: "emulator-5554"}
	c := newTestAndroid(session)

	err := runScope(c, &config.Options{Device: "emulator-5554"}, func(active Context) error {
		strategy := c.androidStrategy()
		if strategy.Session() != session {
			return errors.New("session not installed during scope")
		}
		if active.Strategy() != c.Strategy() {
			return errors.New("scope yielded a different context")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("scope: %v", err)
	}

	if c.androidStrategy().Session() != nil {
		t.Fatalf("session still installed after scope exit")
	}
}

func TestConcurrentAndroidScopesRejected(t *testing.T) {
	first := newTestAndroid(&fakeSession{})
	second := newTestAndroid(&fakeSession{})

	err := runScope(first, &config.Options{}, func(Context) error {
		if inner := second.Enter(&config.Options{}); inner == nil {
			t.Fatalf("expected nested android scope to be rejected")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("outer scope: %v", err)
	}

	// The guard must be released once the first scope exits.
	if err := runScope(second, &config.Options{}, func(Context) error { return nil }); err != nil {
		t.Fatalf("sequential scope after release: %v", err)
	}
}

func TestEnterFailureReleasesGuardWithoutTeardown(t *testing.T) {
	session := &fakeSession{}
	c := NewAndroid()
	acquireErr := errors.New("device offline")
	c.newSession = func(string) (android.Session, error) { return nil, acquireErr }

	err := runScope(c, &config.Options{Device: "emulator-5554"}, func(Context) error {
		t.Fatalf("enclosed work must not run when entry fails")
		return nil
	})
	if !errors.Is(err, acquireErr) {
		t.Fatalf("expected acquisition error, got %v", err)
	}
	if session.teardowns != 0 {
		t.Fatalf("teardown ran despite failed acquisition")
	}

	// A later scope may proceed; the guard was released.
	retry := newTestAndroid(session)
	if err := runScope(retry, &config.Options{}, func(Context) error { return nil }); err != nil {
		t.Fatalf("retry scope: %v", err)
	}
}

func TestWithResolvesDefaultVariant(t *testing.T) {
	var seen Context
	err := With("macos", nil, func(ctx Context) error {
		seen = ctx
		return nil
	})
	if err != nil {
		t.Fatalf("with: %v", err)
	}
	if _, ok := seen.(*DefaultContext); !ok {
		t.Fatalf("expected Default variant for unrecognized target, got %T", seen)
	}
}

func TestSequentialScopesGetFreshPools(t *testing.T) {
	var pools []any
	for i := 0; i < 2; i++ {
		err := With("", nil, func(ctx Context) error {
			pools = append(pools, ctx.Pool())
			return nil
		})
		if err != nil {
			t.Fatalf("with: %v", err)
		}
	}
	if pools[0] == pools[1] {
		t.Fatalf("sequential scopes shared an execution pool")
	}
}
