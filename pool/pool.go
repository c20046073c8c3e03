// Package pool implements the connection-pooling façade of spec.md
// §4.7: it opens up to N connections lazily, assigns a key to a
// connection slot, and replaces a slot's connection once it goes
// terminal.
package pool

import (
	"context"
	"sync"
	"time"

	"github.com/markchadwick/memcake/conn"
	"github.com/markchadwick/memcake/future"
	"github.com/markchadwick/memcake/internal/chash"
	"github.com/markchadwick/memcake/internal/log"
	"github.com/markchadwick/memcake/internal/metrics"
)

// HashFunc maps a key to a slot index in [0, slots).
type HashFunc func(key string, slots int) int

type slot struct {
	mu sync.Mutex
	c  *conn.Connection
}

// Pool holds up to MaxConnections connections to a single memcached
// address, dialed lazily, and replaced after a terminal failure.
type Pool struct {
	addr           string
	maxConnections int
	defaultTimeout time.Duration
	hashFunc       HashFunc
	connOpts       []conn.Option

	slots []*slot
}

// Option configures a Pool at construction.
type Option func(*Pool)

// WithMaxConnections sets the number of connection slots. Default 1.
func WithMaxConnections(n int) Option {
	return func(p *Pool) { p.maxConnections = n }
}

// WithDefaultTimeout sets the timeout used by Close when waiting for
// each connection's quit response. Default 5s.
func WithDefaultTimeout(d time.Duration) Option {
	return func(p *Pool) { p.defaultTimeout = d }
}

// WithHashFunc overrides the key→slot hash. Default is a stable modulo
// hash over xxhash (internal/chash.Slot) — not consistent hashing; see
// DESIGN.md.
func WithHashFunc(h HashFunc) Option {
	return func(p *Pool) { p.hashFunc = h }
}

// WithLogger propagates a structured logger to every connection the
// pool dials.
func WithLogger(l log.Logger) Option {
	return func(p *Pool) { p.connOpts = append(p.connOpts, conn.WithLogger(l)) }
}

// WithMetrics propagates a metrics.Recorder to every connection the pool
// dials.
func WithMetrics(m metrics.Recorder) Option {
	return func(p *Pool) { p.connOpts = append(p.connOpts, conn.WithMetrics(m)) }
}

// New builds a Pool for addr. Connections are not dialed until the first
// Call that needs them.
func New(addr string, opts ...Option) *Pool {
	p := &Pool{
		addr:           addr,
		maxConnections: 1,
		defaultTimeout: 5 * time.Second,
		hashFunc:       chash.Slot,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.slots = make([]*slot, p.maxConnections)
	for i := range p.slots {
		p.slots[i] = &slot{}
	}
	return p
}

// connectionFor returns a live connection for key, dialing or
// redialing the owning slot if necessary.
func (p *Pool) connectionFor(ctx context.Context, key string) (*conn.Connection, error) {
	idx := p.hashFunc(key, len(p.slots))
	s := p.slots[idx]

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.c != nil && s.c.Err() == nil {
		return s.c, nil
	}

	c, err := conn.Dial(ctx, p.addr, p.connOpts...)
	if err != nil {
		return nil, err
	}
	s.c = c
	return c, nil
}

// Call selects a connection for key (by stable hash over the pool's
// slots), invokes op on it, and returns op's future. A future that later
// resolves with a terminal error leaves the slot's Connection.Err() set,
// so the next Call for a key in that slot transparently redials.
func Call[T any](ctx context.Context, p *Pool, key string, op func(*conn.Connection) *future.Future[T]) (*future.Future[T], error) {
	c, err := p.connectionFor(ctx, key)
	if err != nil {
		return nil, err
	}
	return op(c), nil
}

// Close sends quit on every dialed connection, waiting up to
// DefaultTimeout for each response, then ensures every socket is closed.
func (p *Pool) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.defaultTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, s := range p.slots {
		s.mu.Lock()
		c := s.c
		s.mu.Unlock()
		if c == nil {
			continue
		}
		wg.Add(1)
		go func(c *conn.Connection) {
			defer wg.Done()
			c.Close(ctx)
		}(c)
	}
	wg.Wait()
	return nil
}
