package testing

import (
	"context"
	"testing"
	"time"

	"github.com/zoobzio/formz"
	"github.com/zoobzio/formz/bridge"
)

func TestRequiredFields(t *testing.T) {
	validate := RequiredFields("name", "email")

	errs, err := validate(context.Background(), map[string]any{"name": "Ann", "email": ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if errs["name"] != nil {
		t.Errorf("expected no name error, got %v", errs["name"])
	}
	if errs["email"] != "required" {
		t.Errorf("expected email required, got %v", errs["email"])
	}
}

func TestWaitFor(t *testing.T) {
	t.Run("condition met immediately", func(t *testing.T) {
		if !WaitFor(t, 100*time.Millisecond, func() bool { return true }) {
			t.Error("expected WaitFor to return true")
		}
	})

	t.Run("condition never met", func(t *testing.T) {
		if WaitFor(t, 50*time.Millisecond, func() bool { return false }) {
			t.Error("expected WaitFor to return false")
		}
	})
}

func TestNewSyncStore(t *testing.T) {
	ctx := context.Background()
	s := NewSyncStore(t, RequiredFields("name"))

	s.Initialize(map[string]any{"name": ""})
	s.Process(ctx)
	RequireError(t, s, formz.Path{"name"}, "required")

	s.Change(formz.Path{"name"}, "Bob")
	s.Process(ctx)
	RequireValue(t, s, formz.Path{"name"}, "Bob")
	if !WaitForValid(t, s, true, 100*time.Millisecond) {
		t.Error("expected valid")
	}
}

func TestRecorder(t *testing.T) {
	s := formz.New(nil)
	r := Record(t, s)

	s.Initialize(map[string]any{"n": 1})
	s.Change(formz.Path{"n"}, 2)

	states := r.States()
	if len(states) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(states))
	}
	if states[2].Value(formz.Path{"n"}) != 2 {
		t.Errorf("expected last value 2, got %v", states[2].Values)
	}
}

func TestWaitForSnapshot(t *testing.T) {
	b := bridge.New(func() bridge.Source[int] { return bridge.Static(7) })
	if err := b.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer b.Close()

	ok := WaitForSnapshot(t, b, time.Second, func(s bridge.Snapshot[int]) bool {
		return s.HasValue && s.Value == 7
	})
	if !ok {
		t.Errorf("expected value 7, got %+v", b.Snapshot())
	}
}
