package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisCacheFromClient(client), mr
}

func TestGetSet(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	if _, err := c.Get(ctx, "absent"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get(absent) error = %v, want ErrCacheMiss", err)
	}

	if err := c.Set(ctx, "k", []byte("payload"), 5*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("Get() = %q, want %q", got, "payload")
	}
}

func TestTTLExpiry(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after TTL error = %v, want ErrCacheMiss", err)
	}
}

func TestDelete(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after delete error = %v, want ErrCacheMiss", err)
	}

	// Deleting absent keys is not an error.
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete(absent) error = %v", err)
	}
}

func TestDeletePrefix(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	keys := []string{
		StudentDataPrefix + "all",
		StudentDataPrefix + "ids:1-2",
		"other:key",
	}
	for _, k := range keys {
		if err := c.Set(ctx, k, []byte("v"), time.Minute); err != nil {
			t.Fatalf("Set(%s) error = %v", k, err)
		}
	}

	if err := c.DeletePrefix(ctx, StudentDataPrefix); err != nil {
		t.Fatalf("DeletePrefix() error = %v", err)
	}

	for _, k := range keys[:2] {
		if _, err := c.Get(ctx, k); !errors.Is(err, ErrCacheMiss) {
			t.Errorf("Get(%s) error = %v, want ErrCacheMiss", k, err)
		}
	}
	if _, err := c.Get(ctx, "other:key"); err != nil {
		t.Errorf("Get(other:key) error = %v, want survival", err)
	}
}

func TestStudentDataKey(t *testing.T) {
	tests := []struct {
		name string
		ids  []int64
		want string
	}{
		{"nil ids", nil, "students:data:all"},
		{"empty ids", []int64{}, "students:data:all"},
		{"single id", []int64{7}, "students:data:ids:7"},
		{"sorted and deduplicated", []int64{3, 1, 3, 2}, "students:data:ids:1-2-3"},
		{"order independent", []int64{2, 1}, "students:data:ids:1-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StudentDataKey(tt.ids); got != tt.want {
				t.Errorf("StudentDataKey(%v) = %q, want %q", tt.ids, got, tt.want)
			}
		})
	}
}
