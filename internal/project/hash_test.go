package project

import "testing"

func TestCombineIsDeterministicAndOrderSensitive(t *testing.T) {
	content := Digest{1, 2, 3}
	depA := Digest{4}
	depB := Digest{5}

	h1 := Combine(content, depA, depB)
	h2 := Combine(content, depA, depB)
	if h1 != h2 {
		t.Fatalf("Combine is not deterministic")
	}

	h3 := Combine(content, depB, depA)
	if h1 == h3 {
		t.Fatalf("Combine should be sensitive to dependency order")
	}

	if Combine(content) == Combine(Digest{9}) {
		t.Fatalf("different content hashes should not collide trivially")
	}
}
