package httputil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)

	want := metadataEntry{Release: "2.0.16", Versions: []string{"2.0.15", "2.0.16"}}
	if err := c.Set("org.slf4j:slf4j-api", want); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	var got metadataEntry
	ok, err := c.Get("org.slf4j:slf4j-api", &got)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if !ok {
		t.Fatal("Get() returned false for existing key")
	}
	if got.Release != want.Release || len(got.Versions) != 2 {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

type metadataEntry struct {
	Release  string   `json:"release"`
	Versions []string `json:"versions"`
}

func TestCache_Miss(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	var result string
	ok, err := c.Get("missing", &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Get() returned true for missing key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c, _ := NewCache(t.TempDir(), 10*time.Millisecond)

	if err := c.Set("key", "value"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	var res string
	ok, err := c.Get("key", &res)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want true, nil", ok, err)
	}

	time.Sleep(20 * time.Millisecond)

	ok, err = c.Get("key", &res)
	if !errors.Is(err, ErrExpired) {
		t.Errorf("got error %v, want ErrExpired", err)
	}
	if ok {
		t.Error("Get() returned true for expired key")
	}
}

func TestCache_CorruptEntry(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	if err := os.WriteFile(c.keyPath("broken"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var res map[string]string
	ok, err := c.Get("broken", &res)
	if err == nil {
		t.Error("Get() should fail on corrupt entry")
	}
	if ok {
		t.Error("Get() returned true for corrupt entry")
	}
}

func TestCache_Delete(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	_ = c.Set("key", "value")

	if err := c.Delete("key"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	var res string
	if ok, _ := c.Get("key", &res); ok {
		t.Error("entry still present after Delete()")
	}
	if err := c.Delete("key"); err != nil {
		t.Errorf("Delete() of missing key = %v, want nil", err)
	}
}

func TestCache_Clear(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	_ = c.Namespace("a:").Set("x", 1)
	_ = c.Namespace("b:").Set("y", 2)
	_ = c.Set("z", 3)

	n, err := c.Namespace("a:").Clear()
	if err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() removed %d entries, want 3", n)
	}

	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("%d files left after Clear()", len(entries))
	}
}

func TestCache_KeyStability(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	p1 := c.keyPath("test")
	p2 := c.keyPath("test")
	if p1 != p2 {
		t.Error("path should be deterministic")
	}
	p3 := c.keyPath("other")
	if p1 == p3 {
		t.Error("different keys should produce different paths")
	}
}

func TestNewCache_DefaultDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)

	c, err := NewCache("", time.Hour)
	if err != nil {
		t.Fatalf("NewCache() failed: %v", err)
	}

	want := filepath.Join(base, "jarwalk", "http")
	if c.Dir() != want {
		t.Errorf("got Dir = %s, want %s", c.Dir(), want)
	}
	if c.TTL() != time.Hour {
		t.Errorf("got TTL = %v, want 1h", c.TTL())
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}

func TestCache_Namespace(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)

	t.Run("isolation", func(t *testing.T) {
		central := c.Namespace("central:")
		mirror := c.Namespace("mirror:")

		if err := central.Set("junit:junit", "4.13.2"); err != nil {
			t.Fatalf("central.Set() failed: %v", err)
		}
		if err := mirror.Set("junit:junit", "4.12"); err != nil {
			t.Fatalf("mirror.Set() failed: %v", err)
		}

		var a, b string
		if ok, err := central.Get("junit:junit", &a); !ok || err != nil {
			t.Fatalf("central.Get() = %v, %v; want true, nil", ok, err)
		}
		if ok, err := mirror.Get("junit:junit", &b); !ok || err != nil {
			t.Fatalf("mirror.Get() = %v, %v; want true, nil", ok, err)
		}
		if a != "4.13.2" || b != "4.12" {
			t.Errorf("got %q/%q, want 4.13.2/4.12", a, b)
		}
	})

	t.Run("chained", func(t *testing.T) {
		outer := c.Namespace("repo:")
		inner := outer.Namespace("metadata:")

		if err := inner.Set("test", "value"); err != nil {
			t.Fatalf("Set() failed: %v", err)
		}

		var result string
		ok, err := inner.Get("test", &result)
		if !ok || err != nil || result != "value" {
			t.Errorf("Get() = %v, %v, %q; want true, nil, %q", ok, err, result, "value")
		}

		if found, _ := outer.Get("test", &result); found {
			t.Error("value accessible without full namespace chain")
		}
	})

	t.Run("preservesDirAndTTL", func(t *testing.T) {
		ns := c.Namespace("test:")
		if ns.Dir() != c.Dir() {
			t.Errorf("Dir() = %s, want %s", ns.Dir(), c.Dir())
		}
		if ns.TTL() != c.TTL() {
			t.Errorf("TTL() = %v, want %v", ns.TTL(), c.TTL())
		}
	})
}
