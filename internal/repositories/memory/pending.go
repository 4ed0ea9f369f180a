package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type pendingEntry struct {
	data      []byte
	expiresAt time.Time
}

// PendingStore is a key-value store with per-key TTL. Values round-trip
// through JSON like the redis-backed store.
type PendingStore struct {
	mu      sync.Mutex
	entries map[string]pendingEntry
	now     func() time.Time

	// FailWrites makes SetWithTTL fail with this error.
	FailWrites error
}

// NewPendingStore uses now as the eviction clock; nil means time.Now.
func NewPendingStore(now func() time.Time) *PendingStore {
	if now == nil {
		now = time.Now
	}
	return &PendingStore{entries: make(map[string]pendingEntry), now: now}
}

func (p *PendingStore) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if p.FailWrites != nil {
		return p.FailWrites
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[key] = pendingEntry{data: data, expiresAt: p.now().Add(ttl)}
	return nil
}

func (p *PendingStore) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.live(key); ok {
		return false, nil
	}
	p.entries[key] = pendingEntry{data: data, expiresAt: p.now().Add(ttl)}
	return true, nil
}

func (p *PendingStore) GetAndDelete(ctx context.Context, key string, dest interface{}) (bool, error) {
	p.mu.Lock()
	e, ok := p.live(key)
	delete(p.entries, key)
	p.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// live returns the entry under key unless it has been evicted. p.mu must be held.
func (p *PendingStore) live(key string) (pendingEntry, bool) {
	e, ok := p.entries[key]
	if ok && !p.now().Before(e.expiresAt) {
		delete(p.entries, key)
		return pendingEntry{}, false
	}
	return e, ok
}

// Len returns the number of live entries.
func (p *PendingStore) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.entries {
		if p.now().Before(e.expiresAt) {
			n++
		}
	}
	return n
}
