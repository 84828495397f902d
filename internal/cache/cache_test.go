package cache

import (
	"os"
	"path/filepath"
	"testing"

	"drift/internal/project"
)

func openTestCache(t *testing.T) *DiskCache {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c, err := Open("drift-test")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return c
}

func TestPutGetRoundTrip(t *testing.T) {
	c := openTestCache(t)
	key := ModuleVerifyKey("widgets/core", project.Digest{1, 2, 3})
	want := &Payload{Kind: KindModuleVerify, ModuleID: "widgets/core", Verified: true}

	if err := c.Put(key, want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected a cache hit")
	}
	if got.ModuleID != want.ModuleID || !got.Verified {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestGetMissReturnsFalseNotError(t *testing.T) {
	c := openTestCache(t)
	key := ModuleVerifyKey("nonexistent", project.Digest{})
	_, ok, err := c.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("expected a cache miss for a key never written")
	}
}

func TestDifferentModuleIDsDoNotCollide(t *testing.T) {
	content := project.Digest{9, 9, 9}
	a := ModuleVerifyKey("a", content)
	b := ModuleVerifyKey("b", content)
	if a == b {
		t.Fatalf("expected distinct module ids with identical content to produce distinct keys")
	}
}

func TestDropAllRemovesEntries(t *testing.T) {
	c := openTestCache(t)
	key := ModuleVerifyKey("widgets/core", project.Digest{1})
	if err := c.Put(key, &Payload{Kind: KindModuleVerify}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, err := os.Stat(filepath.Join(c.dir, "artifacts")); err == nil {
		t.Fatalf("expected cache directory to be gone after DropAll")
	}
}
