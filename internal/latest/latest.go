// Package latest holds a value that long-lived per-frame callbacks read
// without capturing the snapshot that existed when they were registered.
package latest

import "sync/atomic"

// Ref exposes the most recently Set value. Intermediate values between two
// reads are not observable; there is no history and no buffering.
//
// Set may be called from any goroutine. Get never blocks. The zero Ref is
// ready to use and holds the zero T.
type Ref[T any] struct {
	p atomic.Pointer[T]
}

// New returns a Ref holding v.
func New[T any](v T) *Ref[T] {
	r := &Ref[T]{}
	r.Set(v)
	return r
}

// Get returns the latest value, or the zero T if nothing was Set yet.
func (r *Ref[T]) Get() T {
	p := r.p.Load()
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Set publishes v as the latest value.
func (r *Ref[T]) Set(v T) {
	r.p.Store(&v)
}
