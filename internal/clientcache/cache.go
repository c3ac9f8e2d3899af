// Copyright 2026 the cryostat authors.
// SPDX-License-Identifier: Apache-2.0

// Package clientcache caches authenticated cluster clients keyed by the
// bearer token that authorizes them, so that repeated validation calls for
// the same caller do not each pay the cost of constructing a fresh client.
package clientcache

import (
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
	"golang.org/x/sync/singleflight"
	"k8s.io/client-go/kubernetes"
	"k8s.io/utils/clock"
)

// IdleTimeout is how long a cached client may go unused before it is
// eligible for proactive eviction.
const IdleTimeout = 5 * time.Minute

// ristrettoTTL backstops the idle-expiry bookkeeping with Ristretto's own
// wall-clock TTL, generously longer than IdleTimeout so it only reclaims
// entries the proactive check somehow missed.
const ristrettoTTL = IdleTimeout * 3

// Loaded is what a Loader produces: a cluster client authenticated as one
// bearer token, together with the hook that releases whatever transport
// resources (e.g. idle HTTP connections) that client holds. Close may be
// nil if the client holds nothing worth releasing early; otherwise it is
// invoked at most once, when the cache evicts the entry.
type Loaded struct {
	Client kubernetes.Interface
	Close  func()
}

// LoaderFunc builds a fresh cluster client authenticated as the given
// bearer token.
type LoaderFunc func(token string) (Loaded, error)

type entry struct {
	loaded    Loaded
	expiresAt time.Time
	mu        sync.Mutex
	closeOnce sync.Once
}

func (e *entry) touch(clk clock.Clock) {
	e.mu.Lock()
	e.expiresAt = clk.Now().Add(IdleTimeout)
	e.mu.Unlock()
}

func (e *entry) expired(clk clock.Clock) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return clk.Now().After(e.expiresAt)
}

func (e *entry) close() {
	e.closeOnce.Do(func() {
		if e.loaded.Close == nil {
			return
		}
		e.loaded.Close()
	})
}

// Cache is a concurrency-safe, per-token cache of authenticated cluster
// clients with idle-expiry eviction, loader de-duplication, and a
// close-exactly-once removal hook.
type Cache struct {
	clock  clock.Clock
	loader LoaderFunc
	group  singleflight.Group
	data   *ristretto.Cache
}

// New constructs a Cache backed by loader. clk governs the idle-expiry
// bookkeeping; pass clock.RealClock{} in production and a
// clock/testing.FakeClock in tests.
func New(loader LoaderFunc, clk clock.Clock) (*Cache, error) {
	data, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 20,
		BufferItems: 64,
		OnEvict: func(item *ristretto.Item) {
			if e, ok := item.Value.(*entry); ok {
				e.close()
			}
		},
	})
	if err != nil {
		return nil, err
	}
	return &Cache{clock: clk, loader: loader, data: data}, nil
}

// Get returns the cached client for token, invoking the loader on a miss.
// Concurrent Get calls for the same token share a single loader invocation.
func (c *Cache) Get(token string) (kubernetes.Interface, error) {
	if cached, ok := c.data.Get(token); ok {
		e := cached.(*entry)
		if !e.expired(c.clock) {
			e.touch(c.clock)
			return e.loaded.Client, nil
		}
		c.Invalidate(token)
	}

	v, err, _ := c.group.Do(token, func() (interface{}, error) {
		loaded, err := c.loader(token)
		if err != nil {
			return nil, err
		}
		e := &entry{loaded: loaded}
		e.touch(c.clock)
		c.data.SetWithTTL(token, e, 1, ristrettoTTL)
		c.data.Wait()
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*entry).loaded.Client, nil
}

// Invalidate evicts the cached client for token, if any, and runs its
// removal hook.
func (c *Cache) Invalidate(token string) {
	// Ristretto's Del does not run OnEvict, so the hook is run here.
	if cached, ok := c.data.Get(token); ok {
		cached.(*entry).close()
	}
	c.data.Del(token)
	c.data.Wait()
}

// Close releases the cache's background resources. Cached clients are
// closed via their removal hook as they are evicted, not by Close itself.
func (c *Cache) Close() {
	c.data.Close()
}
