package arena

import "testing"

func TestAllocateAndGet(t *testing.T) {
	a := New[int](0)
	id1 := a.Allocate(10)
	id2 := a.Allocate(20)

	if !id1.IsValid() || !id2.IsValid() {
		t.Fatalf("expected valid ids, got %v %v", id1, id2)
	}
	if got := *a.Get(id1); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	if got := *a.Get(id2); got != 20 {
		t.Fatalf("expected 20, got %d", got)
	}
	if a.Get(Zero) != nil {
		t.Fatalf("expected Zero to resolve to nil")
	}
}

func TestReserveAndOverwritePreservesAddress(t *testing.T) {
	a := New[string](0)
	shell := a.Reserve()
	ptr := a.Get(shell)

	a.Overwrite(shell, "hello")

	if *ptr != "hello" {
		t.Fatalf("expected overwrite visible through earlier pointer, got %q", *ptr)
	}
	if a.Get(shell) != ptr {
		t.Fatalf("expected address to stay stable across overwrite")
	}
}

func TestAllVisitsInOrder(t *testing.T) {
	a := New[int](0)
	a.Allocate(1)
	a.Allocate(2)
	a.Allocate(3)

	var seen []int
	a.All(func(id ID, value *int) bool {
		seen = append(seen, *value)
		return true
	})
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Fatalf("unexpected visit order: %v", seen)
	}
}
