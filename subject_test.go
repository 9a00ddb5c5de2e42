package formz

import (
	"sync"
	"testing"
)

func TestSubject_ReplaysCurrent(t *testing.T) {
	s := NewSubject(1)

	var got []int
	unsub := s.Subscribe(func(v int) { got = append(got, v) })
	defer unsub()

	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected replay of 1, got %v", got)
	}
}

func TestSubject_DeliversInOrder(t *testing.T) {
	s := NewSubject(0)

	var first, second []int
	s.Subscribe(func(v int) { first = append(first, v) })
	s.Subscribe(func(v int) { second = append(second, v) })

	s.Next(1)
	s.Next(2)

	for _, got := range [][]int{first, second} {
		if len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
			t.Errorf("expected [0 1 2], got %v", got)
		}
	}
	if s.Value() != 2 {
		t.Errorf("expected current 2, got %d", s.Value())
	}
}

func TestSubject_SubscribersRunInRegistrationOrder(t *testing.T) {
	s := NewSubject("")

	var order []string
	s.Subscribe(func(string) { order = append(order, "a") })
	s.Subscribe(func(string) { order = append(order, "b") })
	order = nil

	s.Next("x")

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("expected [a b], got %v", order)
	}
}

func TestSubject_Unsubscribe(t *testing.T) {
	s := NewSubject(0)

	var calls int
	unsub := s.Subscribe(func(int) { calls++ })
	unsub()
	unsub()

	s.Next(1)

	if calls != 1 {
		t.Errorf("expected only the replay call, got %d", calls)
	}
}

func TestSubject_ConcurrentNext(t *testing.T) {
	s := NewSubject(0)

	var mu sync.Mutex
	var seen []int
	s.Subscribe(func(v int) {
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			s.Next(v)
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 21 {
		t.Errorf("expected 21 deliveries, got %d", len(seen))
	}
	if seen[len(seen)-1] != s.Value() {
		t.Errorf("expected last delivery %d to match current %d", seen[len(seen)-1], s.Value())
	}
}
