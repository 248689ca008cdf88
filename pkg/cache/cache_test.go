package cache

import (
	"context"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v, want miss", ok, err)
	}

	if err := c.Set(ctx, "k", []byte("payload"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get(k) = ok=%v err=%v, want hit", ok, err)
	}
	if string(data) != "payload" {
		t.Errorf("Get(k) = %q, want %q", data, "payload")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get(k) hit after Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of absent key: %v", err)
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expired entry still served")
	}
}

func TestNullCacheNeverStores(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("null cache returned a hit")
	}
}

func TestKeyerDeterministic(t *testing.T) {
	k := NewDefaultKeyer()
	opts := ResultKeyOpts{Backend: "speed", Format: "csv", Probands: []int{1, 2}}
	a := k.ResultKey("abc", opts)
	b := k.ResultKey("abc", opts)
	if a != b {
		t.Errorf("same inputs produced different keys: %s vs %s", a, b)
	}
	if c := k.ResultKey("abc", ResultKeyOpts{Backend: "memory", Format: "csv", Probands: []int{1, 2}}); c == a {
		t.Error("different options produced the same key")
	}
	if c := k.ResultKey("other", opts); c == a {
		t.Error("different pedigree hashes produced the same key")
	}
}

func TestScopedKeyer(t *testing.T) {
	base := NewDefaultKeyer()
	scoped := NewScopedKeyer(base, "team-a:")
	key := scoped.ResultKey("abc", ResultKeyOpts{})
	if key == base.ResultKey("abc", ResultKeyOpts{}) {
		t.Error("scoped key equals unscoped key")
	}
	if got, want := key[:7], "team-a:"; got != want {
		t.Errorf("prefix = %q, want %q", got, want)
	}
}
