package datasource

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultConnectionTTL   = 5 * time.Minute
	DefaultCleanupInterval = 1 * time.Minute
)

var errManagerClosed = errors.New("connection manager closed")

// Pool is a closable connection pool managed by the ConnectionManager.
// Both pgxpool.Pool (wrapped) and sql.DB (wrapped) satisfy it.
type Pool interface {
	Close()
}

// ConnectionManager caches per-tenant connection pools with TTL-based
// eviction. Cache hits take a read lock; dialing holds only the entry's
// own lock, so one tenant with an unreachable datasource never stalls
// pipelines for other tenants.
type ConnectionManager struct {
	mu       sync.RWMutex
	pools    map[string]*managedPool // key: "{tenantID}:{type}:{host}/{database}"
	ttl      time.Duration
	stopped  bool
	stopChan chan struct{}
	logger   *zap.Logger
}

// managedPool guards one cache entry. pool stays nil while a dial for
// the key is in flight; concurrent callers of the same key wait on mu
// instead of dialing twice.
type managedPool struct {
	mu       sync.Mutex
	pool     Pool
	lastUsed time.Time
}

// NewConnectionManager creates a connection manager and starts a
// background cleanup goroutine that runs until Close() is called.
func NewConnectionManager(ttl time.Duration, logger *zap.Logger) *ConnectionManager {
	if ttl <= 0 {
		ttl = DefaultConnectionTTL
	}

	m := &ConnectionManager{
		pools:    make(map[string]*managedPool),
		ttl:      ttl,
		stopChan: make(chan struct{}),
		logger:   logger.Named("connmgr"),
	}

	go m.cleanupLoop()
	return m
}

// GetOrCreate returns the cached pool for key, dialing a new one via
// build when absent. The manager owns the returned pool; callers must
// not close it.
func (m *ConnectionManager) GetOrCreate(ctx context.Context, key string, build func(ctx context.Context) (Pool, error)) (Pool, error) {
	m.mu.RLock()
	mp, ok := m.pools[key]
	m.mu.RUnlock()

	if ok {
		mp.mu.Lock()
		pool := mp.pool
		if pool != nil {
			mp.lastUsed = time.Now()
		}
		mp.mu.Unlock()
		if pool != nil {
			return pool, nil
		}
		// The entry's dial failed after we looked it up; retry below.
	}

	return m.dial(ctx, key, build)
}

// dial creates the pool for key without holding the manager lock across
// build. The entry lock serializes concurrent dials of the same key;
// dials for other keys proceed independently.
func (m *ConnectionManager) dial(ctx context.Context, key string, build func(ctx context.Context) (Pool, error)) (Pool, error) {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil, errManagerClosed
	}
	mp, ok := m.pools[key]
	if !ok {
		mp = &managedPool{}
		m.pools[key] = mp
	}
	m.mu.Unlock()

	mp.mu.Lock()
	if mp.pool != nil {
		// Another goroutine won the dial.
		mp.lastUsed = time.Now()
		pool := mp.pool
		mp.mu.Unlock()
		return pool, nil
	}

	pool, err := build(ctx)
	if err != nil {
		mp.mu.Unlock()
		m.discard(key, mp)
		return nil, err
	}
	mp.pool = pool
	mp.lastUsed = time.Now()
	mp.mu.Unlock()

	m.mu.Lock()
	if m.stopped {
		if cur, ok := m.pools[key]; ok && cur == mp {
			delete(m.pools, key)
		}
		m.mu.Unlock()
		pool.Close()
		return nil, errManagerClosed
	}
	m.mu.Unlock()

	m.logger.Info("Created datasource pool", zap.String("key", key))
	return pool, nil
}

// discard drops a failed entry so the next caller dials fresh.
func (m *ConnectionManager) discard(key string, mp *managedPool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cur, ok := m.pools[key]; ok && cur == mp {
		delete(m.pools, key)
	}
}

// cleanupLoop evicts pools idle longer than the TTL.
func (m *ConnectionManager) cleanupLoop() {
	ticker := time.NewTicker(DefaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle()
		case <-m.stopChan:
			return
		}
	}
}

func (m *ConnectionManager) evictIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-m.ttl)
	for key, mp := range m.pools {
		// An entry mid-dial stays; the next cycle revisits it.
		if !mp.mu.TryLock() {
			continue
		}
		pool := mp.pool
		idle := pool != nil && mp.lastUsed.Before(cutoff)
		mp.mu.Unlock()

		if idle {
			pool.Close()
			delete(m.pools, key)
			m.logger.Debug("Evicted idle datasource pool", zap.String("key", key))
		}
	}
}

// Close stops the cleanup goroutine and closes all pools. In-flight
// dials close their own pool once they observe the stopped flag.
func (m *ConnectionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return
	}
	m.stopped = true
	close(m.stopChan)

	for key, mp := range m.pools {
		mp.mu.Lock()
		pool := mp.pool
		mp.mu.Unlock()
		if pool != nil {
			pool.Close()
		}
		delete(m.pools, key)
	}
	m.logger.Info("Connection manager closed")
}

// PoolCount returns the number of live pools, for observability.
func (m *ConnectionManager) PoolCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pools)
}
