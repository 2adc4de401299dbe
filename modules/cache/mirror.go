package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/todo-reminders/domain/todo"
)

// DefaultPrefix is the namespace of reminder keys.
const DefaultPrefix = "reminder:"

// ReminderTTL returns the whole seconds from now until at. A result of zero or
// less means the reminder is already due and the key gets no expiry.
func ReminderTTL(at, now time.Time) time.Duration {
	return at.Sub(now).Truncate(time.Second)
}

// Mirror writes reminder snapshots to a ReminderCache.
type Mirror struct {
	cache  ReminderCache
	prefix string
	now    func() time.Time
}

// NewMirror builds a mirror writing keys under prefix. An empty prefix means DefaultPrefix.
func NewMirror(c ReminderCache, prefix string) *Mirror {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Mirror{cache: c, prefix: prefix, now: time.Now}
}

// WithClock replaces the time source used to compute TTLs.
func (m *Mirror) WithClock(now func() time.Time) *Mirror {
	m.now = now
	return m
}

// Key returns the cache key for a reminder id.
func (m *Mirror) Key(id string) string {
	return m.prefix + id
}

// Put stores the JSON snapshot of r and, when r is still in the future, sets
// the key to expire at r.ReminderAt. It issues exactly one Set and at most one Expire.
func (m *Mirror) Put(ctx context.Context, r *todo.Reminder) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	key := m.Key(r.ID)
	if err := m.cache.Set(ctx, key, string(payload)); err != nil {
		return err
	}

	if ttl := ReminderTTL(r.ReminderAt, m.now()); ttl > 0 {
		if err := m.cache.Expire(ctx, key, ttl); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes the key of one reminder.
func (m *Mirror) Remove(ctx context.Context, id string) error {
	return m.cache.Del(ctx, m.Key(id))
}

// Ping checks the underlying store.
func (m *Mirror) Ping(ctx context.Context) error {
	return m.cache.Ping(ctx)
}
