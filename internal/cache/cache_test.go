package cache

import (
	"testing"
	"time"
)

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()

	t.Run("SetGet", func(t *testing.T) {
		c.Set("key", "value", time.Minute)

		got, ok := c.Get("key")
		if !ok {
			t.Fatal("expected hit")
		}
		if got != "value" {
			t.Errorf("expected value, got %v", got)
		}
	})

	t.Run("Miss", func(t *testing.T) {
		if _, ok := c.Get("absent"); ok {
			t.Error("expected miss")
		}
	})

	t.Run("Expiry", func(t *testing.T) {
		c.Set("fleeting", 1, 10*time.Millisecond)
		time.Sleep(25 * time.Millisecond)

		if _, ok := c.Get("fleeting"); ok {
			t.Error("expected expired entry to miss")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		c.Set("doomed", 1, time.Minute)
		c.Delete("doomed")

		if _, ok := c.Get("doomed"); ok {
			t.Error("expected deleted entry to miss")
		}
	})

	t.Run("DeletePrefix", func(t *testing.T) {
		c.Set("stats:a", 1, time.Minute)
		c.Set("stats:b", 2, time.Minute)
		c.Set("perm:a", 3, time.Minute)

		c.DeletePrefix("stats:")

		if _, ok := c.Get("stats:a"); ok {
			t.Error("expected stats:a to be gone")
		}
		if _, ok := c.Get("stats:b"); ok {
			t.Error("expected stats:b to be gone")
		}
		if _, ok := c.Get("perm:a"); !ok {
			t.Error("expected perm:a to survive")
		}
	})
}
