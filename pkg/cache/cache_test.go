package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Still a miss after Set
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "ascii:abc", []byte("tree art"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "ascii:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit || string(data) != "tree art" {
		t.Errorf("Get = %q, %v; want stored value", data, hit)
	}

	// Unknown key is a plain miss, not an error.
	_, hit, err = c.Get(ctx, "ascii:nope")
	if err != nil || hit {
		t.Errorf("Get(miss) = %v, %v; want clean miss", hit, err)
	}

	if err := c.Delete(ctx, "ascii:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "ascii:abc")
	if hit {
		t.Error("Get after Delete should miss")
	}
}

func TestFileCacheGroupsByKind(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	input := []byte("1\tla\t_\t_\t_\t_\t0\t_\t_\t_")
	if err := c.Set(ctx, ArtifactKey("svg|conllu", input), []byte("<svg/>"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := c.Set(ctx, ArtifactKey("ascii|conllu", input), []byte("art"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	for _, kind := range []string{"svg", "ascii"} {
		entries, err := os.ReadDir(filepath.Join(dir, kind))
		if err != nil || len(entries) == 0 {
			t.Errorf("no %s/ directory in the cache layout: %v", kind, err)
		}
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"svg:abc", "svg"},
		{"ascii|conllu|detailed:abc", "ascii"},
		{"no-separator", ""},
	}
	for _, tt := range tests {
		if got := kindOf(tt.key); got != tt.want {
			t.Errorf("kindOf(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("stale"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(time.Millisecond)

	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expired entry must be a miss")
	}
}

func TestHash(t *testing.T) {
	// Determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Different inputs produce different hashes
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}

	// SHA-256 produces 64 hex chars
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestArtifactKey(t *testing.T) {
	input := []byte("1\tla\t_\t_\t_\t_\t2\tdet\t_\t_")

	svg := ArtifactKey("svg", input)
	png := ArtifactKey("png", input)
	if svg == png {
		t.Error("different output kinds must produce different keys")
	}
	if !strings.HasPrefix(svg, "svg:") {
		t.Errorf("key = %q, want kind prefix", svg)
	}
	if ArtifactKey("svg", []byte("other")) == svg {
		t.Error("different inputs must produce different keys")
	}
}
