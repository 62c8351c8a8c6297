package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counting(calls *int32, v any) FetchFunc {
	return func(ctx context.Context) (any, error) {
		atomic.AddInt32(calls, 1)
		return v, nil
	}
}

func TestCache_ServesFreshEntry(t *testing.T) {
	c := New(Config{})
	key := ListKey("authors")
	var calls int32

	assert.Equal(t, Empty, c.State(key))

	v, err := c.Do(context.Background(), key, counting(&calls, []string{"a"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v)
	assert.Equal(t, Fresh, c.State(key))

	v, err = c.Do(context.Background(), key, counting(&calls, []string{"b"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCache_ConcurrentReadsShareOneFetch(t *testing.T) {
	c := New(Config{})
	key := ListKey("authors")
	release := make(chan struct{})
	var calls int32

	fetch := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "authors", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Do(context.Background(), key, fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
		if i == 0 {
			require.Eventually(t, func() bool { return c.State(key) == Pending }, time.Second, time.Millisecond)
		}
	}

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, []any{"authors", "authors"}, results)
}

func TestCache_InvalidateForcesRefetch(t *testing.T) {
	c := New(Config{})
	list := ListKey("papers")
	detail := DetailKey("papers", 3)
	other := ListKey("authors")
	var calls int32

	_, err := c.Do(context.Background(), list, counting(&calls, 1))
	require.NoError(t, err)
	_, err = c.Do(context.Background(), detail, counting(&calls, 2))
	require.NoError(t, err)
	_, err = c.Do(context.Background(), other, counting(&calls, 3))
	require.NoError(t, err)

	c.Invalidate(list)

	assert.Equal(t, Stale, c.State(list))
	assert.Equal(t, Stale, c.State(detail))
	assert.Equal(t, Fresh, c.State(other))

	entry, ok := c.Entry(list)
	require.True(t, ok)
	assert.Equal(t, 1, entry.Value)

	v, err := c.Do(context.Background(), list, counting(&calls, 10))
	require.NoError(t, err)
	assert.Equal(t, 10, v)
	assert.Equal(t, Fresh, c.State(list))
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestCache_InvalidateDetailKeyOnly(t *testing.T) {
	c := New(Config{})
	var calls int32
	_, _ = c.Do(context.Background(), ListKey("papers"), counting(&calls, 1))
	_, _ = c.Do(context.Background(), DetailKey("papers", 1), counting(&calls, 2))

	c.Invalidate(DetailKey("papers", 1))

	assert.Equal(t, Fresh, c.State(ListKey("papers")))
	assert.Equal(t, Stale, c.State(DetailKey("papers", 1)))
}

func TestCache_InvalidateDuringFetchKeepsEntryStale(t *testing.T) {
	c := New(Config{})
	key := ListKey("authors")
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		v, err := c.Do(context.Background(), key, func(ctx context.Context) (any, error) {
			close(started)
			<-release
			return "old", nil
		})
		assert.NoError(t, err)
		assert.Equal(t, "old", v)
	}()

	<-started
	c.Invalidate(key)
	close(release)
	<-done

	assert.Equal(t, Stale, c.State(key))

	v, err := c.Do(context.Background(), key, func(ctx context.Context) (any, error) {
		return "new", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}

func TestCache_ReadAfterInvalidateWaitsForRunningFetch(t *testing.T) {
	c := New(Config{})
	key := ListKey("authors")
	started := make(chan struct{})
	release := make(chan struct{})
	var running, maxRunning, calls int32

	track := func(v any, wait <-chan struct{}) FetchFunc {
		return func(ctx context.Context) (any, error) {
			atomic.AddInt32(&calls, 1)
			n := atomic.AddInt32(&running, 1)
			defer atomic.AddInt32(&running, -1)
			for {
				m := atomic.LoadInt32(&maxRunning)
				if n <= m || atomic.CompareAndSwapInt32(&maxRunning, m, n) {
					break
				}
			}
			if wait != nil {
				<-wait
			}
			return v, nil
		}
	}

	first := make(chan struct{})
	go func() {
		defer close(first)
		fetch := track("old", release)
		v, err := c.Do(context.Background(), key, func(ctx context.Context) (any, error) {
			close(started)
			return fetch(ctx)
		})
		assert.NoError(t, err)
		assert.Equal(t, "old", v)
	}()
	<-started

	c.Invalidate(ListKey("authors"))

	second := make(chan any, 1)
	go func() {
		v, err := c.Do(context.Background(), key, track("new", nil))
		assert.NoError(t, err)
		second <- v
	}()

	assert.Never(t, func() bool { return atomic.LoadInt32(&calls) > 1 }, 50*time.Millisecond, time.Millisecond)
	close(release)
	<-first

	assert.Equal(t, "new", <-second)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxRunning))
	assert.Equal(t, Fresh, c.State(key))
}

func TestCache_FailedEntryRefetchesOnNextRead(t *testing.T) {
	c := New(Config{})
	key := DetailKey("authors", 7)
	boom := errors.New("boom")

	_, err := c.Do(context.Background(), key, func(ctx context.Context) (any, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Failed, c.State(key))

	entry, ok := c.Entry(key)
	require.True(t, ok)
	assert.ErrorIs(t, entry.Err, boom)

	v, err := c.Do(context.Background(), key, func(ctx context.Context) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, Fresh, c.State(key))
}

func TestCache_FailedRefetchKeepsPreviousValue(t *testing.T) {
	c := New(Config{})
	key := ListKey("papers")
	_, err := c.Do(context.Background(), key, func(ctx context.Context) (any, error) { return "v1", nil })
	require.NoError(t, err)

	_, err = c.Refetch(context.Background(), key, func(ctx context.Context) (any, error) {
		return nil, errors.New("down")
	})
	require.Error(t, err)

	entry, _ := c.Entry(key)
	assert.Equal(t, Failed, entry.State)
	assert.Equal(t, "v1", entry.Value)
}

func TestCache_RefetchIgnoresFreshness(t *testing.T) {
	c := New(Config{})
	key := ListKey("authors")
	var calls int32

	_, _ = c.Do(context.Background(), key, counting(&calls, "a"))
	v, err := c.Refetch(context.Background(), key, counting(&calls, "b"))
	require.NoError(t, err)
	assert.Equal(t, "b", v)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCache_AbandonedCallerDoesNotCancelSharedFetch(t *testing.T) {
	c := New(Config{})
	key := ListKey("authors")
	release := make(chan struct{})
	var sawCancel atomic.Bool

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := c.Do(ctx, key, func(fctx context.Context) (any, error) {
			<-release
			sawCancel.Store(fctx.Err() != nil)
			return "late", nil
		})
		errc <- err
	}()

	require.Eventually(t, func() bool { return c.State(key) == Pending }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	close(release)
	require.Eventually(t, func() bool { return c.State(key) == Fresh }, time.Second, time.Millisecond)
	assert.False(t, sawCancel.Load())

	v, err := c.Do(context.Background(), key, func(ctx context.Context) (any, error) {
		t.Error("fresh entry should be served from cache")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "late", v)
}

func TestCache_TTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(Config{TTL: time.Minute, Now: func() time.Time { return now }})
	key := ListKey("authors")
	var calls int32

	_, _ = c.Do(context.Background(), key, counting(&calls, 1))
	now = now.Add(30 * time.Second)
	_, _ = c.Do(context.Background(), key, counting(&calls, 2))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	now = now.Add(time.Minute)
	assert.Equal(t, Stale, c.State(key))
	v, _ := c.Do(context.Background(), key, counting(&calls, 3))
	assert.Equal(t, 3, v)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCache_ClearDropsInFlightResults(t *testing.T) {
	c := New(Config{})
	key := ListKey("papers")
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = c.Do(context.Background(), key, func(ctx context.Context) (any, error) {
			<-release
			return "before clear", nil
		})
	}()
	require.Eventually(t, func() bool { return c.State(key) == Pending }, time.Second, time.Millisecond)

	c.Clear()
	close(release)
	<-done

	assert.Equal(t, Empty, c.State(key))
	assert.Zero(t, c.Len())
}

func TestLoad_Typed(t *testing.T) {
	c := New(Config{})
	key := ListKey("authors")

	names, err := Load(context.Background(), c, key, func(ctx context.Context) ([]string, error) {
		return []string{"Ada"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada"}, names)

	_, err = Load(context.Background(), c, key, func(ctx context.Context) (int, error) {
		return 0, nil
	})
	assert.ErrorContains(t, err, "cached value has type []string")

	again, err := Reload(context.Background(), c, key, func(ctx context.Context) ([]string, error) {
		return []string{"Ada", "Grace"}, nil
	})
	require.NoError(t, err)
	assert.Len(t, again, 2)
}

func TestCache_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	c := New(Config{Metrics: m})
	key := ListKey("authors")
	var calls int32

	_, _ = c.Do(context.Background(), key, counting(&calls, 1))
	_, _ = c.Do(context.Background(), key, counting(&calls, 1))
	c.Invalidate(key)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.hits.WithLabelValues("authors")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.misses.WithLabelValues("authors")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("authors", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invalidations.WithLabelValues("authors")))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "registering twice should fail")
}

func TestKey(t *testing.T) {
	assert.Equal(t, "authors", ListKey("authors").String())
	assert.Equal(t, "authors/4", DetailKey("authors", 4).String())
	assert.True(t, ListKey("authors").Covers(DetailKey("authors", 4)))
	assert.False(t, DetailKey("authors", 4).Covers(ListKey("authors")))
	assert.False(t, ListKey("authors").Covers(ListKey("papers")))
}
