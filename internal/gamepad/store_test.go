package gamepad

import (
	"sync"
	"testing"
)

func TestStoreEmptyBeforeFirstSet(t *testing.T) {
	s := NewStore()
	if got := s.Last(); got != nil {
		t.Errorf("Last() on fresh store = %v, want nil", got)
	}
}

func TestStoreOverwrites(t *testing.T) {
	s := NewStore()
	s.SetLast(Batch{{Type: Button, Code: "A", Value: BoolValue(true)}})
	s.SetLast(Batch{
		{Type: Axis, Code: "leftX", Value: NumberValue(0.5)},
		{Type: Axis, Code: "leftY", Value: NumberValue(-0.5)},
	})

	got := s.Last()
	if len(got) != 2 {
		t.Fatalf("Last() length = %d, want 2 (overwrite, not merge)", len(got))
	}
	if got[0].Code != "leftX" || got[1].Code != "leftY" {
		t.Errorf("Last() = %+v, want the second batch in order", got)
	}
}

func TestStoreLastReturnsCopy(t *testing.T) {
	s := NewStore()
	s.SetLast(Batch{{Type: Button, Code: "A", Value: BoolValue(true)}})

	got := s.Last()
	got[0].Code = "mutated"

	again := s.Last()
	if again[0].Code != "A" {
		t.Error("Last did not return a copy; mutation leaked into store")
	}
}

func TestStoreSetLastCopiesInput(t *testing.T) {
	s := NewStore()
	batch := Batch{{Type: Button, Code: "A", Value: BoolValue(true)}}
	s.SetLast(batch)

	batch[0].Code = "mutated"

	got := s.Last()
	if got[0].Code != "A" {
		t.Error("SetLast did not copy input; external mutation leaked into store")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	const goroutines = 50

	for i := 0; i < goroutines; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetLast(Batch{{Type: Button, Code: "B", Value: BoolValue(true)}})
		}()
		go func() {
			defer wg.Done()
			s.Last()
		}()
	}
	wg.Wait()

	if got := s.Last(); len(got) != 1 || got[0].Code != "B" {
		t.Errorf("Last() after concurrent writes = %+v, want single B event", got)
	}
}
