package table

import (
	"context"
	"errors"
	"testing"
	"time"
)

func delayed(d time.Duration) ColumnType {
	return TypeFunc(func(ctx context.Context) (TypeDef, error) {
		select {
		case <-time.After(d):
			return TypeDef{}, nil
		case <-ctx.Done():
			return TypeDef{}, ctx.Err()
		}
	})
}

func TestResolve_KeepsSchemaOrder(t *testing.T) {
	cols := []Column{
		{Key: "slow", Type: delayed(30 * time.Millisecond)},
		{Key: "fast", Type: delayed(0)},
		{Key: "text"},
	}

	got, err := Resolve(context.Background(), cols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(got))
	}
	for i, want := range []string{"slow", "fast", "text"} {
		if got[i].Key != want {
			t.Errorf("column %d: expected %s, got %s", i, want, got[i].Key)
		}
	}
}

func TestResolve_Empty(t *testing.T) {
	got, err := Resolve(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

func TestResolve_FailFast(t *testing.T) {
	boom := errors.New("boom")
	blocked := make(chan error, 1)

	cols := []Column{
		{Key: "blocking", Type: TypeFunc(func(ctx context.Context) (TypeDef, error) {
			<-ctx.Done()
			blocked <- ctx.Err()
			return TypeDef{}, ctx.Err()
		})},
		{Key: "broken", Type: TypeFunc(func(context.Context) (TypeDef, error) {
			return TypeDef{}, boom
		})},
	}

	_, err := Resolve(context.Background(), cols)
	var re *ResolveError
	if !errors.As(err, &re) {
		t.Fatalf("expected ResolveError, got %v", err)
	}
	if re.Index != 1 || re.Key != "broken" {
		t.Errorf("expected broken column at index 1, got %d %s", re.Index, re.Key)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped boom, got %v", err)
	}

	select {
	case e := <-blocked:
		if !errors.Is(e, context.Canceled) {
			t.Errorf("expected sibling to be canceled, got %v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("expected sibling resolution to be canceled")
	}
}

func TestResolve_ParentCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Resolve(ctx, []Column{{Key: "slow", Type: delayed(time.Second)}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
