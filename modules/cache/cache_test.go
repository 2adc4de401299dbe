package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/example/todo-reminders/domain/todo"
	"github.com/redis/go-redis/v9"
)

// setupTestCache starts an in-process Redis and returns a cache bound to it.
func setupTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return New(client), mr
}

func TestRedisCache_SetExpireDel(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "reminder:1", `{"id":"1"}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, _ := mr.Get("reminder:1"); got != `{"id":"1"}` {
		t.Errorf("stored value = %q", got)
	}
	if ttl := mr.TTL("reminder:1"); ttl != 0 {
		t.Errorf("Set() should not add an expiry, got %v", ttl)
	}

	if err := c.Expire(ctx, "reminder:1", 90*time.Second); err != nil {
		t.Fatalf("Expire() error = %v", err)
	}
	if ttl := mr.TTL("reminder:1"); ttl != 90*time.Second {
		t.Errorf("TTL = %v, want 90s", ttl)
	}

	mr.FastForward(91 * time.Second)
	if mr.Exists("reminder:1") {
		t.Error("key should have expired")
	}

	if err := c.Set(ctx, "reminder:2", "x"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Del(ctx, "reminder:2"); err != nil {
		t.Fatalf("Del() error = %v", err)
	}
	if mr.Exists("reminder:2") {
		t.Error("key should have been deleted")
	}
	if err := c.Del(ctx, "reminder:missing"); err != nil {
		t.Errorf("Del() of a missing key should succeed, got %v", err)
	}
}

func TestRedisCache_ServerDown(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()
	mr.Close()

	if err := c.Ping(ctx); err == nil {
		t.Error("Ping() should fail when the server is down")
	}
	if err := c.Set(ctx, "k", "v"); err == nil {
		t.Error("Set() should fail when the server is down")
	}
}

func TestMirror_Key(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{prefix: "", want: "reminder:abc"},
		{prefix: "todo:reminder:", want: "todo:reminder:abc"},
	}
	for _, tt := range tests {
		if got := NewMirror(nil, tt.prefix).Key("abc"); got != tt.want {
			t.Errorf("NewMirror(%q).Key() = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}

func TestReminderTTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want time.Duration
	}{
		{name: "one hour ahead", at: now.Add(time.Hour), want: time.Hour},
		{name: "fraction is floored", at: now.Add(2500 * time.Millisecond), want: 2 * time.Second},
		{name: "sub-second", at: now.Add(400 * time.Millisecond), want: 0},
		{name: "now", at: now, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReminderTTL(tt.at, now); got != tt.want {
				t.Errorf("ReminderTTL() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := ReminderTTL(now.Add(-time.Minute), now); got > 0 {
		t.Errorf("past reminder should have no positive TTL, got %v", got)
	}
}

// recordingCache remembers calls in order.
type recordingCache struct {
	calls  []string
	setErr error
}

func (r *recordingCache) Set(_ context.Context, key, _ string) error {
	r.calls = append(r.calls, "set "+key)
	return r.setErr
}

func (r *recordingCache) Expire(_ context.Context, key string, ttl time.Duration) error {
	r.calls = append(r.calls, "expire "+key+" "+ttl.String())
	return nil
}

func (r *recordingCache) Del(_ context.Context, key string) error {
	r.calls = append(r.calls, "del "+key)
	return nil
}

func (r *recordingCache) Ping(context.Context) error { return nil }
func (r *recordingCache) Close() error               { return nil }

func TestMirror_Put(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	ctx := context.Background()

	t.Run("future reminder gets a ttl", func(t *testing.T) {
		rc := &recordingCache{}
		m := NewMirror(rc, "").WithClock(clock)

		err := m.Put(ctx, &todo.Reminder{ID: "r1", ReminderAt: now.Add(10 * time.Minute)})
		if err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		want := []string{"set reminder:r1", "expire reminder:r1 10m0s"}
		if len(rc.calls) != len(want) {
			t.Fatalf("calls = %v, want %v", rc.calls, want)
		}
		for i := range want {
			if rc.calls[i] != want[i] {
				t.Errorf("calls[%d] = %q, want %q", i, rc.calls[i], want[i])
			}
		}
	})

	t.Run("past reminder is stored without expiry", func(t *testing.T) {
		rc := &recordingCache{}
		m := NewMirror(rc, "").WithClock(clock)

		if err := m.Put(ctx, &todo.Reminder{ID: "r2", ReminderAt: now.Add(-time.Hour)}); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if len(rc.calls) != 1 || rc.calls[0] != "set reminder:r2" {
			t.Errorf("calls = %v, want a single set", rc.calls)
		}
	})

	t.Run("set failure skips expire", func(t *testing.T) {
		rc := &recordingCache{setErr: errors.New("down")}
		m := NewMirror(rc, "").WithClock(clock)

		if err := m.Put(ctx, &todo.Reminder{ID: "r3", ReminderAt: now.Add(time.Hour)}); err == nil {
			t.Fatal("Put() should return the set error")
		}
		if len(rc.calls) != 1 {
			t.Errorf("calls = %v, want only the set", rc.calls)
		}
	})

	t.Run("custom prefix", func(t *testing.T) {
		rc := &recordingCache{}
		m := NewMirror(rc, "test:reminder:")
		if err := m.Remove(ctx, "r4"); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if rc.calls[0] != "del test:reminder:r4" {
			t.Errorf("calls = %v", rc.calls)
		}
	})
}

func TestMirror_PutAgainstRedis(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	item := &todo.TodoItem{ID: "item-1", Title: "Call mum", TodoListID: "list-1"}
	r := &todo.Reminder{ID: "r1", TodoItemID: item.ID, ReminderAt: time.Now().Add(time.Hour), TodoItem: item}

	if err := NewMirror(c, "").Put(ctx, r); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	raw, err := mr.Get("reminder:r1")
	if err != nil {
		t.Fatalf("key not stored: %v", err)
	}
	var snapshot todo.Reminder
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		t.Fatalf("stored value is not JSON: %v", err)
	}
	if snapshot.TodoItem == nil || snapshot.TodoItem.Title != "Call mum" {
		t.Errorf("snapshot should embed the item, got %+v", snapshot.TodoItem)
	}

	ttl := mr.TTL("reminder:r1")
	if ttl <= 59*time.Minute || ttl > time.Hour {
		t.Errorf("TTL = %v, want just under one hour", ttl)
	}
}

func TestPluginModule_Lifecycle(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	m := NewPluginModuleWithCache(c, "")
	if m.Name() != "cache" {
		t.Errorf("Name() = %q, want cache", m.Name())
	}
	if m.Port() != nil {
		t.Error("Port() should be nil before Start")
	}
	if h := m.Health(ctx); !h.Healthy {
		t.Errorf("Health() = %+v, want healthy", h)
	}

	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if m.Port() == nil {
		t.Fatal("Port() should be available after Start")
	}
	if got := m.Port().Key("x"); got != "reminder:x" {
		t.Errorf("Key() = %q", got)
	}

	mr.Close()
	if h := m.Health(ctx); h.Healthy {
		t.Error("Health() should report unhealthy when redis is down")
	}
}
