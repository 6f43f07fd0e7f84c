package serialize

import (
	"path/filepath"
	"testing"

	"fortasr/internal/project"
)

func openTestCache(t *testing.T) *DiskCache {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c, err := OpenDiskCache("fortasr-test")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	return c
}

func TestDiskCachePutThenGetRoundTrips(t *testing.T) {
	c := openTestCache(t)
	key := project.Digest{1, 2, 3}
	payload := &DiskPayload{
		Name:        "MATH",
		Uses:        []string{"ISO_C_BINDING"},
		ContentHash: project.Digest{4},
		ModuleHash:  key,
		ASR:         []byte{0xDE, 0xAD, 0xBE, 0xEF},
	}
	if err := c.Put(key, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := c.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected a cache hit")
	}
	if got.Name != "MATH" || len(got.Uses) != 1 || got.Uses[0] != "ISO_C_BINDING" {
		t.Fatalf("payload did not round-trip: %+v", got)
	}
	if string(got.ASR) != string(payload.ASR) {
		t.Fatalf("ASR blob did not round-trip: %x", got.ASR)
	}
}

func TestDiskCacheGetMissReturnsFalseNoError(t *testing.T) {
	c := openTestCache(t)
	got, ok, err := c.Get(project.Digest{9, 9, 9})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok || got != nil {
		t.Fatalf("expected a clean miss, got %+v, %v", got, ok)
	}
}

func TestDiskCacheDropAllRemovesEntries(t *testing.T) {
	c := openTestCache(t)
	key := project.Digest{5}
	if err := c.Put(key, &DiskPayload{Name: "X"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	_, ok, err := c.Get(key)
	if err != nil {
		t.Fatalf("Get after DropAll: %v", err)
	}
	if ok {
		t.Fatalf("expected no hit after DropAll")
	}
}

func TestDiskCachePathForIsStableAndHexEncoded(t *testing.T) {
	c := openTestCache(t)
	key := project.Digest{0xAB, 0xCD}
	p := c.pathFor(key)
	if filepath.Ext(p) != ".mp" {
		t.Fatalf("expected a .mp extension, got %q", p)
	}
	if c.pathFor(key) != p {
		t.Fatalf("pathFor is not stable across calls")
	}
}

func TestDiskCacheNilReceiverIsNoop(t *testing.T) {
	var c *DiskCache
	if err := c.Put(project.Digest{}, &DiskPayload{}); err != nil {
		t.Fatalf("Put on nil cache: %v", err)
	}
	_, ok, err := c.Get(project.Digest{})
	if err != nil || ok {
		t.Fatalf("Get on nil cache: ok=%v err=%v", ok, err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll on nil cache: %v", err)
	}
}
