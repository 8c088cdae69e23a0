// Package pool provides a typed wrapper over sync.Pool with reset hooks,
// size limits and usage statistics. It backs the string builder pool.
//
// Example usage:
//
//	bufs := pool.New(
//	    func() *bytes.Buffer { return new(bytes.Buffer) },
//	    func(b *bytes.Buffer) { b.Reset() },
//	)
//	buf := bufs.Get()
//	defer bufs.Put(buf)
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool is a generic object pool. It is safe for concurrent use.
type Pool[T any] struct {
	pool   sync.Pool
	reset  func(T)
	accept func(T) bool
	stats  struct {
		allocated int64
		inUse     int64
		gets      int64
		dropped   int64
	}
}

// New creates a pool. newFn builds objects when the pool is empty; reset, if
// non-nil, runs on every object handed back through Put.
func New[T any](newFn func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		return newFn()
	}
	return p
}

// WithLimit makes Put drop objects for which accept returns false, e.g.
// buffers that grew too large to keep around.
func (p *Pool[T]) WithLimit(accept func(T) bool) *Pool[T] {
	p.accept = accept
	return p
}

// Get returns a pooled object, allocating one if the pool is empty.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	atomic.AddInt64(&p.stats.gets, 1)
	return p.pool.Get().(T)
}

// Put resets obj and returns it to the pool.
func (p *Pool[T]) Put(obj T) {
	atomic.AddInt64(&p.stats.inUse, -1)
	if p.accept != nil && !p.accept(obj) {
		atomic.AddInt64(&p.stats.dropped, 1)
		return
	}
	if p.reset != nil {
		p.reset(obj)
	}
	p.pool.Put(obj)
}

// Stats reports how many objects were allocated, are checked out, were
// requested in total and were dropped by the limit.
func (p *Pool[T]) Stats() (allocated, inUse, gets, dropped int64) {
	return atomic.LoadInt64(&p.stats.allocated),
		atomic.LoadInt64(&p.stats.inUse),
		atomic.LoadInt64(&p.stats.gets),
		atomic.LoadInt64(&p.stats.dropped)
}
