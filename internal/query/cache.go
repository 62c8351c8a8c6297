// Package query is the client-side cache shared by the resource accessors.
// It deduplicates concurrent fetches per key and tracks freshness so writes
// can force the next read to go back to the API.
package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the value for one key from the API.
type FetchFunc func(ctx context.Context) (any, error)

// Config tunes a Cache. The zero value is usable.
type Config struct {
	// TTL bounds how long a fresh entry is served. Zero keeps entries fresh
	// until they are invalidated.
	TTL     time.Duration
	Metrics *Metrics
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Entry is a point-in-time copy of a cache entry.
type Entry struct {
	Key       Key
	State     State
	Value     any
	Err       error
	UpdatedAt time.Time
}

type entry struct {
	state     State
	value     any
	err       error
	updatedAt time.Time
	// gen is bumped on every invalidation; a fetch only makes the entry
	// fresh if no invalidation happened while it was running.
	gen      uint64
	valueGen uint64
}

type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	// epoch is bumped by Clear so fetches started before it are dropped.
	epoch   uint64
	flights singleflight.Group
	// running holds the done channel of the fetch currently calling the API
	// for each key. Flights of different generations share the key, so a
	// newer one waits here instead of fetching alongside the older one.
	running map[Key]chan struct{}
	ttl     time.Duration
	metrics *Metrics
	now     func() time.Time
}

func New(cfg Config) *Cache {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Cache{
		entries: make(map[Key]*entry),
		running: make(map[Key]chan struct{}),
		ttl:     cfg.TTL,
		metrics: cfg.Metrics,
		now:     now,
	}
}

// Do returns the cached value for key while it is fresh. Otherwise it runs
// fetch, sharing a single in-flight call between all concurrent callers of
// the same key.
//
// The shared call is not bound to any one caller's cancellation. A caller
// whose ctx ends first gets ctx.Err() and never sees the late result.
func (c *Cache) Do(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	c.mu.Lock()
	e := c.entry(key)
	if e.state == Fresh && !c.expired(e) {
		v := e.value
		c.mu.Unlock()
		c.metrics.hit(key.Kind)
		return v, nil
	}
	gen, epoch := e.gen, c.epoch
	c.mu.Unlock()

	c.metrics.miss(key.Kind)
	return c.load(ctx, key, epoch, gen, fetch)
}

// Refetch fetches key even when its entry is fresh.
func (c *Cache) Refetch(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	c.mu.Lock()
	e := c.entry(key)
	e.gen++
	if e.state == Fresh {
		e.state = Stale
	}
	gen, epoch := e.gen, c.epoch
	c.mu.Unlock()

	c.metrics.miss(key.Kind)
	return c.load(ctx, key, epoch, gen, fetch)
}

// Invalidate marks key stale so its next read fetches again. Invalidating a
// list key also invalidates every detail key of the same kind. Entries keep
// their last value until the refetch completes.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	for k, e := range c.entries {
		if !key.Covers(k) {
			continue
		}
		e.gen++
		if e.state == Fresh || e.state == Pending {
			e.state = Stale
		}
	}
	c.mu.Unlock()
	c.metrics.invalidated(key.Kind)
}

// State reports the freshness of key. Unknown keys are Empty.
func (c *Cache) State(key Key) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Empty
	}
	if e.state == Fresh && c.expired(e) {
		return Stale
	}
	return e.state
}

// Entry returns a copy of the entry for key.
func (c *Cache) Entry(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Entry{Key: key, State: Empty}, false
	}
	state := e.state
	if state == Fresh && c.expired(e) {
		state = Stale
	}
	return Entry{Key: key, State: state, Value: e.value, Err: e.err, UpdatedAt: e.updatedAt}, true
}

// Len returns the number of tracked keys.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry. Results of fetches still in flight are returned
// to their callers but not stored.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[Key]*entry)
	c.epoch++
	c.mu.Unlock()
}

func (c *Cache) load(ctx context.Context, key Key, epoch, gen uint64, fetch FetchFunc) (any, error) {
	flight := fmt.Sprintf("%d/%s#%d", epoch, key, gen)
	detached := context.WithoutCancel(ctx)

	ch := c.flights.DoChan(flight, func() (v any, err error) {
		c.mu.Lock()
		done := c.claim(key)
		if c.epoch != epoch {
			c.mu.Unlock()
			defer c.release(key, done)
			return fetch(detached)
		}
		e := c.entry(key)
		// The previous flight, or one for this generation, may have made
		// the entry fresh while this one waited.
		if e.state == Fresh && e.gen == gen && e.valueGen == gen && !c.expired(e) {
			v := e.value
			c.mu.Unlock()
			c.release(key, done)
			return v, nil
		}
		if e.gen == gen {
			e.state = Pending
		}
		c.mu.Unlock()

		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("fetch %s panicked: %v", key, r)
			}
			c.store(key, epoch, gen, v, err)
			c.metrics.fetched(key.Kind, err)
			c.release(key, done)
		}()
		return fetch(detached)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) store(key Key, epoch, gen uint64, v any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return
	}
	e := c.entry(key)

	if err != nil {
		if e.gen == gen {
			e.state = Failed
			e.err = err
		}
		return
	}

	if gen < e.valueGen {
		return
	}
	e.value = v
	e.valueGen = gen
	e.err = nil
	e.updatedAt = c.now()
	if e.gen == gen {
		e.state = Fresh
	} else if e.state != Pending {
		e.state = Stale
	}
}

// claim waits until no fetch of key is running and registers a new one.
// It is called and returns with c.mu held.
func (c *Cache) claim(key Key) chan struct{} {
	for {
		prev, busy := c.running[key]
		if !busy {
			break
		}
		c.mu.Unlock()
		<-prev
		c.mu.Lock()
	}
	done := make(chan struct{})
	c.running[key] = done
	return done
}

func (c *Cache) release(key Key, done chan struct{}) {
	c.mu.Lock()
	if c.running[key] == done {
		delete(c.running, key)
	}
	c.mu.Unlock()
	close(done)
}

// entry must be called with c.mu held.
func (c *Cache) entry(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	return e
}

func (c *Cache) expired(e *entry) bool {
	return c.ttl > 0 && c.now().Sub(e.updatedAt) > c.ttl
}

// Load is Do with a typed result.
func Load[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	return typed[T](c.Do(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}))
}

// Reload is Refetch with a typed result.
func Reload[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	return typed[T](c.Refetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}))
}

func typed[T any](v any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cached value has type %T, want %T", v, zero)
	}
	return t, nil
}
